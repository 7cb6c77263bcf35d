package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 100 * time.Millisecond

func newRunCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run [--watch] <file.mt>...",
		Short: "Run every thread program in the given scripts",
		Long: `Run concatenates the given files, separated by a blank line, splits the
result into thread programs and runs them concurrently. Each program's result
is printed as "[n] value" once every program has finished.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if watch {
				return a.watchFiles(ctx, cmd.OutOrStdout(), args)
			}
			return a.runFiles(ctx, cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run when any of the files change")
	return cmd
}

// readScripts joins the files into one source with a blank line between
// them so each file starts a new thread program.
func readScripts(paths []string) (string, error) {
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (a *app) runFiles(ctx context.Context, out io.Writer, paths []string) error {
	source, err := readScripts(paths)
	if err != nil {
		return err
	}
	engine, err := a.newEngine(out)
	if err != nil {
		return err
	}

	results := engine.Run(ctx, source)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "[%d] error: %v\n", r.Program.Index, r.Err)
			continue
		}
		fmt.Fprintf(out, "[%d] %s\n", r.Program.Index, r.Value)
	}
	if failed > 0 {
		return fmt.Errorf("mt run: %d of %d program(s) failed", failed, len(results))
	}
	return nil
}

// watchFiles runs the scripts once and again after every change until ctx
// is canceled. Directories are watched rather than files so editors that
// replace files on save keep triggering events.
func (a *app) watchFiles(ctx context.Context, out io.Writer, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	rerun := make(chan struct{}, 1)
	rerun <- struct{}{}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-rerun:
			if err := a.runFiles(ctx, out, paths); err != nil {
				a.logger.Warn("run failed", "error", err)
			}
			fmt.Fprintln(out, "watching for changes...")

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !watched[filepath.Clean(event.Name)] {
				continue
			}
			a.logger.Debug("file changed", "file", event.Name)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("watcher error", "error", err)
		}
	}
}
