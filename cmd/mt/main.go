package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgomes/mtscript/mt"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand once flags and config
// files have been merged.
type app struct {
	configFile string
	cfg        cliConfig
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "mt",
		Short: "mt - a pipe-oriented scripting language",
		Long: `mt runs scripts written in a small pipe-oriented language where every
statement is a function call and results flow left to right through @.

Blank lines split a script into thread programs that run concurrently.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := loadConfig(a.configFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if used := configFileUsed(a.configFile); used != "" {
				a.logger.Debug("using config file", "path", used)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./mt.yaml)")
	flags.BoolP("verbose", "v", false, "log program lifecycle at debug level")
	flags.Int("loop-limit", 0, "maximum iterations of a single while loop")
	flags.Int("recursion-limit", 0, "maximum nesting of blocks and sub-expressions")
	flags.Int("max-concurrency", 0, "maximum thread programs running at once (0 = unbounded)")
	flags.Duration("fetch-timeout", 0, "timeout for each fetch request")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newFuncsCmd(a))
	root.AddCommand(newFmtCmd())
	root.AddCommand(newREPLCmd(a))
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newEngine builds an engine from the merged configuration writing script
// output to out.
func (a *app) newEngine(out io.Writer) (*mt.Engine, error) {
	return mt.NewEngine(mt.Config{
		LoopLimit:             a.cfg.LoopLimit,
		RecursionLimit:        a.cfg.RecursionLimit,
		MaxConcurrentPrograms: a.cfg.MaxConcurrency,
		FetchTimeout:          a.cfg.FetchTimeout,
		Output:                out,
		Logger:                a.logger,
	})
}
