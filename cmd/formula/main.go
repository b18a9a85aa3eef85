// Command formula evaluates calculator formulas, checks calculator
// definitions, and serves calculators over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zephyrtronium/formula"
)

func main() {
	a := newApp()
	if err := a.root().ExecuteContext(context.Background()); err != nil {
		a.log.Error(err)
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newApp() *app {
	a := app{v: viper.New(), log: logrus.New()}
	a.v.SetDefault("max_length", formula.DefaultMaxLength)
	a.v.SetDefault("log.level", "info")
	a.v.SetDefault("log.format", "text")
	a.v.SetDefault("check.workers", 8)
	a.v.SetDefault("check.tolerance", 0.01)
	a.v.SetDefault("serve.addr", ":8080")
	a.v.SetDefault("serve.calculators", "calculators.json")
	a.v.SetDefault("serve.max_body", 1<<16)
	return &a
}

func (a *app) root() *cobra.Command {
	var cfgfile string
	root := &cobra.Command{
		Use:   "formula",
		Short: "Safe arithmetic formulas for calculator pages.",
		Long: `Safe arithmetic formulas for calculator pages.

Formulas use numbers, variables, + - * / ^ and parentheses. Variables must be
declared before they can be used, e.g.:

	formula eval --given p=1000 --given r=5 --given t=2 '(p * r * t) / 100'
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cfgfile, cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgfile, "config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level")
	pf.String("log-format", "text", "log format, text or json")
	pf.Int("max-length", formula.DefaultMaxLength, "maximum expression length in characters, 0 for no limit")
	a.bind("log.level", pf.Lookup("log-level"))
	a.bind("log.format", pf.Lookup("log-format"))
	a.bind("max_length", pf.Lookup("max-length"))

	root.AddCommand(a.evalCmd(), a.checkCmd(), a.serveCmd())
	return root
}

// configure reads the config file and environment and sets up logging.
func (a *app) configure(cfgfile string, logw io.Writer) error {
	if cfgfile != "" {
		a.v.SetConfigFile(cfgfile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	a.v.SetEnvPrefix("formula")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	lvl, err := logrus.ParseLevel(a.v.GetString("log.level"))
	if err != nil {
		return err
	}
	a.log.SetLevel(lvl)
	a.log.SetOutput(logw)
	switch a.v.GetString("log.format") {
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", a.v.GetString("log.format"))
	}
	a.log.WithField("config", a.v.ConfigFileUsed()).Debug("configured")
	return nil
}

// bind binds a config key to a flag. BindPFlag fails only for a nil flag, so
// failure panics.
func (a *app) bind(key string, f *pflag.Flag) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// options returns the compile options from configuration.
func (a *app) options() []formula.Option {
	return []formula.Option{formula.MaxLength(a.v.GetInt("max_length"))}
}
