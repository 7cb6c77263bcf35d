package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const scriptExt = ".mt"

func newFmtCmd() *cobra.Command {
	var write, check bool
	cmd := &cobra.Command{
		Use:   "fmt [-w|--check] <path>...",
		Short: "Normalize whitespace and program separators in .mt files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmtFiles(cmd.OutOrStdout(), args, write, check)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to source files instead of stdout")
	cmd.Flags().BoolVar(&check, "check", false, "fail if any source file needs formatting")
	return cmd
}

func fmtFiles(out io.Writer, targets []string, write, check bool) error {
	files, err := collectScriptFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted := formatScript(original)
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case check && changed:
			fmt.Fprintln(out, path)
		case !write && !check:
			fmt.Fprint(out, formatted)
		}
	}

	if check && changedCount > 0 {
		return fmt.Errorf("mt fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectScriptFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string, explicit bool) {
		if !explicit && filepath.Ext(path) != scriptExt {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target, true)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path, false)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatScript trims trailing whitespace, collapses runs of blank lines into
// the single blank line that separates thread programs, and ends the file
// with one newline. Lines inside a multi-line <<...>> literal are left as is.
func formatScript(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var (
		lines   []string
		depth   int
		pending bool
	)
	for _, line := range strings.Split(normalized, "\n") {
		inside := depth > 0
		depth = literalDepth(line, depth)
		if depth == 0 {
			line = strings.TrimRight(line, " \t")
		}
		if inside {
			lines = append(lines, line)
			continue
		}
		if line == "" {
			pending = len(lines) > 0
			continue
		}
		if pending {
			lines = append(lines, "")
			pending = false
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// literalDepth returns the string literal nesting after scanning line.
func literalDepth(line string, depth int) int {
	for i := 0; i < len(line)-1; i++ {
		switch {
		case line[i] == '<' && line[i+1] == '<':
			depth++
			i++
		case depth > 0 && line[i] == '>' && line[i+1] == '>':
			depth--
			i++
		}
	}
	return depth
}
