/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/checker"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/mapper"
	"github.com/jacobarthurs/flake8lint/internal/output"
	"github.com/jacobarthurs/flake8lint/internal/pipeline"
	"github.com/jacobarthurs/flake8lint/internal/scheduler"
	"github.com/jacobarthurs/flake8lint/internal/session"
	"github.com/jacobarthurs/flake8lint/internal/settings"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file>...",
	Short: "Lint Python files",
	Long: `Run Flake8 over one or more Python files and report the findings.

Findings on lines carrying a "# noqa" marker are dropped, the rest are filtered
through the select and ignore settings and classified as errors or warnings.
Files are linted concurrently.`,
	Example: `  # Lint a file
  flake8lint lint app.py

  # Lint several files, four at a time
  flake8lint lint --jobs 4 src/*.py

  # Results pane layout
  flake8lint lint app.py --format pane

  # Pick a finding interactively
  flake8lint lint app.py --popup`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		jobs, _ := cmd.Flags().GetInt("jobs")
		popup, _ := cmd.Flags().GetBool("popup")
		noSource, _ := cmd.Flags().GetBool("no-source")
		exitZero, _ := cmd.Flags().GetBool("exit-zero")

		if format != "text" && format != "json" && format != "pane" {
			return fmt.Errorf("invalid output format %q: must be \"text\", \"json\" or \"pane\"", format)
		}
		if popup && len(args) != 1 {
			return errors.New("--popup takes exactly one file")
		}

		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		host := editor.NewMemoryHost()
		runner := newRunner(s, host, nil)
		targets, err := lintFiles(cmd.Context(), runner, args, jobs)
		if err != nil {
			reportHostErrors(host, err)
			return err
		}

		var reports []output.Report
		failures, errorCount := 0, 0
		opts := output.TextOptions{
			Color:          useColor(cmd),
			HighlightStyle: s.HighlightStyle,
			ShowSource:     !noSource,
		}

		for _, t := range targets {
			switch {
			case errors.Is(t.err, pipeline.ErrSkipped):
				fmt.Fprintf(os.Stderr, "skipping %s: not a Python file\n", t.path)
				continue
			case t.err != nil:
				fmt.Fprintf(os.Stderr, "%s: %v\n", t.path, t.err)
				failures++
				continue
			}

			errorCount += t.sess.Result.Count(analyzer.Error)
			report := output.NewReport(t.view, t.sess)

			switch format {
			case "json":
				reports = append(reports, report)
			case "pane":
				fmt.Fprintln(os.Stdout, output.RenderPane(t.view, t.sess, mapper.Map(t.view, t.sess.Result)))
			default:
				if err := output.RenderText(os.Stdout, report, opts); err != nil {
					return err
				}
			}

			if popup {
				pick(s, host, t.view, t.sess)
			}
		}

		if format == "json" {
			if reports == nil {
				reports = []output.Report{}
			}
			if err := output.RenderJSON(os.Stdout, reports); err != nil {
				return err
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d file(s) could not be linted", failures)
		}
		if errorCount > 0 && !exitZero {
			return fmt.Errorf("%d error(s) found", errorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().StringP("format", "f", "text", "Output format: text, json, pane")
	lintCmd.Flags().IntP("jobs", "j", 4, "Number of files linted concurrently")
	lintCmd.Flags().BoolP("popup", "p", false, "Choose a finding interactively and print its location")
	lintCmd.Flags().Bool("no-source", false, "Do not print the offending source lines")
	lintCmd.Flags().Bool("no-color", false, "Disable colored output")
	lintCmd.Flags().Bool("exit-zero", false, "Exit with status 0 even if errors are found")
	addFilterFlags(lintCmd)
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().StringSlice("select", nil, "Only report codes with these prefixes")
	c.Flags().StringSlice("ignore", nil, "Drop codes with these prefixes")
	c.Flags().StringSlice("errors", nil, "Codes reported as errors instead of warnings")
}

// loadSettings reads the settings file and applies the filter flags on top.
func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	s, err := settings.Load()
	if err != nil {
		return s, err
	}
	for name, dst := range map[string]*[]string{
		"select": &s.Select,
		"ignore": &s.Ignore,
		"errors": &s.Errors,
	} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst, _ = cmd.Flags().GetStringSlice(name)
		}
	}
	return s, nil
}

// newRunner builds a runner for terminal output: the host popup and results
// pane are rendered by the commands themselves.
func newRunner(s settings.Settings, host editor.Host, sched scheduler.Scheduler) *pipeline.Runner {
	s.Popup = false
	s.ResultsPane = false
	r := pipeline.NewRunner(s, host, session.NewStore(), sched)
	r.Presenter.Pause = 0
	return r
}

type lintTarget struct {
	path string
	view *editor.MemoryView
	sess *session.Session
	err  error
}

// lintFiles lints paths with at most jobs passes in flight. A configuration
// error stops the whole run.
func lintFiles(ctx context.Context, runner *pipeline.Runner, paths []string, jobs int) ([]lintTarget, error) {
	targets := make([]lintTarget, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			t := lintTarget{path: path}
			t.view, t.err = editor.OpenFile(path)
			if t.err == nil {
				t.sess, t.err = runner.Run(ctx, t.view)
			}
			targets[i] = t
			if checker.IsConfigError(t.err) {
				return t.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return targets, nil
}

func reportHostErrors(host *editor.MemoryHost, err error) {
	if msgs := host.Errors(); len(msgs) > 0 {
		fmt.Fprintln(os.Stderr, msgs[0])
		return
	}
	fmt.Fprintln(os.Stderr, pipeline.ErrorPrefix+err.Error())
}

func useColor(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("no-color"); f != nil && f.Value.String() == "true" {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// pick shows the findings of sess in a terminal select and prints the
// location of the chosen one.
func pick(s settings.Settings, host *editor.MemoryHost, view *editor.MemoryView, sess *session.Session) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "--popup needs an interactive terminal")
		return
	}

	window := host.Window()
	window.Open(view)
	window.PanelFunc = choosePanel

	s.Popup = true
	output.NewPresenter(s, host).Popup(view, sess.Result)

	if offset := view.Centered(); offset >= 0 {
		row, col := view.RowCol(offset)
		fmt.Printf("%s:%d:%d\n", view.FileName(), row+1, col+1)
	}
}

func choosePanel(items []editor.PanelItem) int {
	options := make([]huh.Option[int], len(items))
	for i, item := range items {
		options[i] = huh.NewOption(item.Title+"  ("+item.Detail+")", i)
	}

	choice := 0
	sel := huh.NewSelect[int]().
		Title("Go to finding").
		Options(options...).
		Value(&choice)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return -1
	}
	return choice
}
