package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.mt>...",
		Short: "Compile every thread program without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.checkFiles(cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) checkFiles(out io.Writer, paths []string) error {
	engine, err := a.newEngine(io.Discard)
	if err != nil {
		return err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if err := engine.Check(string(data)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(out, "ok %s\n", path)
	}
	return nil
}
