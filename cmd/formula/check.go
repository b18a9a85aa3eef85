package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula/calculator"
)

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Check calculator definitions and their examples",
		Long: `Load calculator definitions from JSON or YAML files, compile every
formula against its inputs, and evaluate every example that lists both input
values and a result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var calcs []calculator.Calculator
			for _, name := range args {
				c, err := calculator.LoadFile(name)
				if err != nil {
					return err
				}
				a.log.WithFields(logrus.Fields{"file": name, "calculators": len(c)}).Debug("loaded")
				calcs = append(calcs, c...)
			}
			calcs = calculator.Dedupe(calcs)
			cfg := calculator.CheckConfig{
				Workers:   a.v.GetInt("check.workers"),
				Tolerance: a.v.GetFloat64("check.tolerance"),
				Options:   a.options(),
			}
			outcomes, err := calculator.Check(cmd.Context(), calcs, cfg)
			if outcomes == nil && err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Calculator", "Example", "Got", "Want", "Status"})
			failed := 0
			for _, o := range outcomes {
				row := []string{o.Slug, "-", "", "", "ok"}
				if o.Example >= 0 {
					row[1] = strconv.Itoa(o.Example)
					row[3] = calculator.FormatResult(o.Want, false, "")
				}
				if !o.OK() {
					failed++
					row[4] = o.Err.Error()
				}
				if o.Example >= 0 && o.Err == nil || isMismatch(o.Err) {
					row[2] = calculator.FormatResult(o.Got, false, "")
				}
				table.Append(row)
			}
			table.Render()

			a.log.WithFields(logrus.Fields{
				"calculators": len(calcs),
				"checked":     len(outcomes),
				"failed":      failed,
			}).Info("check complete")
			if err != nil {
				return fmt.Errorf("%d of %d checks failed", failed, len(outcomes))
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Int("workers", 8, "examples to evaluate at once")
	fl.Float64("tolerance", calculator.DefaultTolerance, "largest accepted difference from an example's result")
	a.bind("check.workers", fl.Lookup("workers"))
	a.bind("check.tolerance", fl.Lookup("tolerance"))
	return cmd
}

func isMismatch(err error) bool {
	_, ok := err.(*calculator.MismatchError)
	return ok
}
