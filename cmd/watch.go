/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jacobarthurs/flake8lint/internal/checker"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/events"
	"github.com/jacobarthurs/flake8lint/internal/output"
	"github.com/jacobarthurs/flake8lint/internal/pipeline"
	"github.com/jacobarthurs/flake8lint/internal/scheduler"
	"github.com/jacobarthurs/flake8lint/internal/session"
	"github.com/jacobarthurs/flake8lint/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Lint Python files whenever they are saved",
	Long: `Watch a directory tree and lint every Python file as it is saved.

Paths matching the exclude patterns from the settings file are skipped, as are
VCS and virtualenv directories. Saves are debounced, so a burst of writes to
the same file produces a single pass. Press Ctrl+C to stop.`,
	Example: `  # Watch the current directory
  flake8lint watch

  # Watch a source tree, ignoring migrations
  flake8lint watch ./src --exclude "**/migrations/*.py"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exclude, _ := cmd.Flags().GetStringSlice("exclude")

		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		s.LintOnSave = true

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		loop := scheduler.NewLoop()
		host := editor.NewMemoryHost()
		runner := newRunner(s, host, loop)
		opts := output.TextOptions{Color: useColor(cmd), HighlightStyle: s.HighlightStyle, ShowSource: true}

		linter := &printingLinter{runner: runner, host: host, opts: opts}
		listener := events.NewListener(s, host, runner.Store, loop, linter)
		views := make(map[string]*editor.MemoryView)

		w, err := watch.New(root, func(paths []string) {
			loop.Post(func() {
				for _, path := range paths {
					view, err := openOrReload(host, views, path)
					if err != nil {
						slog.Warn("Failed to read file", slog.String("path", path), slog.Any("error", err))
						continue
					}
					listener.OnPostSave(view)
				}
			})
		}, watch.Options{Exclude: append(s.Exclude, exclude...)})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Fprintf(os.Stderr, "Watching %s for changes...\n", root)
		loop.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSlice("exclude", nil, "Additional glob patterns to skip")
	watchCmd.Flags().Bool("no-color", false, "Disable colored output")
	addFilterFlags(watchCmd)
}

func openOrReload(host *editor.MemoryHost, views map[string]*editor.MemoryView, path string) (*editor.MemoryView, error) {
	if view, ok := views[path]; ok {
		return view, view.Reload()
	}
	view, err := editor.OpenFile(path)
	if err != nil {
		return nil, err
	}
	host.Window().Open(view)
	views[path] = view
	return view, nil
}

// printingLinter prints each completed pass to stdout.
type printingLinter struct {
	runner *pipeline.Runner
	host   *editor.MemoryHost
	opts   output.TextOptions
	shown  int
}

func (l *printingLinter) Start(view editor.View, done func(*session.Session, error)) {
	l.runner.Start(view, func(sess *session.Session, err error) {
		l.flushHostErrors()
		if err == nil {
			if rerr := output.RenderText(os.Stdout, output.NewReport(view, sess), l.opts); rerr != nil {
				slog.Warn("Failed to print report", slog.Any("error", rerr))
			}
		} else if !errors.Is(err, context.Canceled) && !checker.IsConfigError(err) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", view.FileName(), err)
		}
		done(sess, err)
	})
}

func (l *printingLinter) Cancel(id editor.ViewID) bool {
	return l.runner.Cancel(id)
}

func (l *printingLinter) flushHostErrors() {
	msgs := l.host.Errors()
	for _, msg := range msgs[l.shown:] {
		fmt.Fprintln(os.Stderr, msg)
	}
	l.shown = len(msgs)
}
