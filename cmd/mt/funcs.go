package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mgomes/mtscript/mt"
)

func newFuncsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "funcs [prefix]",
		Short: "List the built-in functions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return a.renderFuncs(cmd.OutOrStdout(), prefix)
		},
	}
}

func (a *app) renderFuncs(w io.Writer, prefix string) error {
	engine, err := a.newEngine(io.Discard)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Function", "Shorthand", "Parameters", "Pipe slot", "Curried", "Result"})

	count := 0
	for _, desc := range engine.Registry().Descriptors() {
		if !strings.HasPrefix(desc.Name, prefix) {
			continue
		}
		count++
		t.AppendRow(table.Row{
			desc.Name,
			strings.Join(mt.ShorthandsFor(desc.Name), " "),
			desc.Signature(),
			desc.PipeSlot,
			desc.Curry,
			desc.Result.String(),
		})
	}
	if count == 0 {
		_, _ = fmt.Fprintln(w, "(0 functions)")
		return nil
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d functions)\n", count)
	return nil
}
