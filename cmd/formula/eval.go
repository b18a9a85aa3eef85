package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
)

func (a *app) evalCmd() *cobra.Command {
	var (
		given []string
		allow []string
		verb  string
		echo  bool
	)
	cmd := &cobra.Command{
		Use:   "eval [flags] EXPR...",
		Short: "Evaluate expressions",
		Long: `Evaluate each argument as a separate expression.

Variables are defined with --given name=value, where value is itself an
expression over numbers only. Defined variables are always permitted;
--allow permits further names without defining them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options()
			vars := make(map[string]float64, len(given))
			wl := formula.Allow(allow...)
			for _, s := range given {
				nm, vl, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
				}
				nm = strings.TrimSpace(nm)
				r, err := formula.Evaluate(strings.TrimSpace(vl), nil, nil, opts...)
				if err != nil {
					return fmt.Errorf("setting %s: %w", nm, err)
				}
				vars[nm] = r
				wl[nm] = struct{}{}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, src := range args {
				log := a.log.WithField("expr", src)
				f, err := formula.Compile(src, wl, opts...)
				if err != nil {
					log.WithError(err).Error("invalid expression")
					failed++
					continue
				}
				if echo {
					fmt.Fprintf(out, "%v : ", f)
				}
				r, err := f.Eval(vars)
				if err != nil {
					if echo {
						fmt.Fprintln(out)
					}
					log.WithError(err).Error("evaluation failed")
					failed++
					continue
				}
				log.WithFields(logrus.Fields{"vars": f.Vars(), "result": r}).Debug("evaluated")
				fmt.Fprintf(out, verb+"\n", r)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d expressions failed", failed, len(args))
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringArrayVar(&given, "given", nil, "name=value variable definition (any number of times)")
	fl.StringSliceVar(&allow, "allow", nil, "permitted variable names besides the given ones")
	fl.StringVar(&verb, "fmt", "%g", "result formatting string")
	fl.BoolVar(&echo, "echo", false, "print postfix forms")
	return cmd
}
