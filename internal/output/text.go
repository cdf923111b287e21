package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/comparator"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/mapper"
	"github.com/jacobarthurs/flake8lint/internal/session"
)

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// Report is the CLI view of one lint pass.
type Report struct {
	Path     string          `json:"path"`
	Findings []ReportFinding `json:"findings"`
	Errors   int             `json:"errors"`
	Warnings int             `json:"warnings"`

	Suppressed int `json:"suppressed"`
	Filtered   int `json:"filtered"`
}

type ReportFinding struct {
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Severity string        `json:"severity"`
	Region   editor.Region `json:"region"`
	Source   string        `json:"source"`

	severity analyzer.Severity
	col      int
	width    int
}

func NewReport(view editor.View, sess *session.Session) Report {
	r := Report{
		Path:       view.FileName(),
		Findings:   []ReportFinding{},
		Errors:     sess.Result.Count(analyzer.Error),
		Warnings:   sess.Result.Count(analyzer.Warning),
		Suppressed: sess.Result.Suppressed,
		Filtered:   sess.Result.Filtered,
	}

	for _, k := range sess.Result.Kept {
		if k.Duplicate {
			continue
		}
		region := mapper.RegionFor(view, k.Finding)
		line := view.Line(region.Begin())
		r.Findings = append(r.Findings, ReportFinding{
			Line:     k.Finding.Line,
			Column:   k.Finding.Column,
			Code:     k.Code,
			Message:  k.Finding.Message,
			Severity: k.Severity.String(),
			Region:   region,
			Source:   k.LineText,
			severity: k.Severity,
			col:      max(region.Begin()-line.Begin(), 0),
			width:    region.Size(),
		})
	}
	return r
}

type TextOptions struct {
	Color          bool
	HighlightStyle string
	ShowSource     bool
}

type paint func(string) string

func plain(s string) string { return s }

func styled(style lipgloss.Style) paint {
	return func(s string) string { return style.Render(s) }
}

type palette struct {
	errorLabel   paint
	warningLabel paint
	errorMark    paint
	warningMark  paint
	path         paint
	dim          paint
	ok           paint
}

func newPalette(w io.Writer, opts TextOptions) palette {
	if !opts.Color {
		return palette{plain, plain, plain, plain, plain, plain, plain}
	}

	r := lipgloss.NewRenderer(w)
	red := lipgloss.Color("#E74C3C")
	yellow := lipgloss.Color("#F4D03F")
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)

	p := palette{
		errorLabel:   styled(base.Bold(true).Foreground(red)),
		warningLabel: styled(base.Bold(true).Foreground(yellow)),
		path:         styled(base.Bold(true).Foreground(lipgloss.Color("#20B9B4"))),
		dim:          styled(base.Faint(true)),
		ok:           styled(base.Bold(true).Foreground(lipgloss.Color("#2CD7C7"))),
	}

	switch DrawStyleFor(opts.HighlightStyle) {
	case editor.DrawOutlined:
		p.errorMark = styled(base.Underline(true).Foreground(red))
		p.warningMark = styled(base.Underline(true).Foreground(yellow))
	case editor.DrawHidden:
		p.errorMark = plain
		p.warningMark = plain
	default:
		p.errorMark = styled(base.Background(red).Foreground(lipgloss.Color("#FFFFFF")))
		p.warningMark = styled(base.Background(yellow).Foreground(lipgloss.Color("#000000")))
	}
	return p
}

func RenderText(w io.Writer, report Report, opts TextOptions) error {
	tw := &textWriter{w: w}
	p := newPalette(w, opts)

	if len(report.Findings) == 0 {
		tw.printf("%s %s\n", p.path(report.Path), p.ok("no issues found"))
		return tw.err
	}

	for _, f := range report.Findings {
		label, mark := p.warningLabel, p.warningMark
		if f.severity == analyzer.Error {
			label, mark = p.errorLabel, p.errorMark
		}

		tw.printf("%s:%d:%d: %s %s\n",
			p.path(report.Path), f.Line, f.Column+1,
			label(fmt.Sprintf("%-7s", strings.ToUpper(f.Severity))), f.Message)

		if opts.ShowSource && f.Source != "" {
			tw.printf("    %s\n", highlightSpan(f.Source, f.col, f.width, mark))
		}
	}

	tw.printf("\n%s\n", p.dim(fmt.Sprintf("%d error(s), %d warning(s)", report.Errors, report.Warnings)))
	return tw.err
}

func highlightSpan(source string, col, width int, mark paint) string {
	if col >= len(source) || width <= 0 {
		return source
	}
	end := min(col+width, len(source))
	return source[:col] + mark(source[col:end]) + source[end:]
}

// RenderComparisonText prints the findings that changed between two passes.
func RenderComparisonText(w io.Writer, result comparator.ComparisonResult, opts TextOptions) error {
	tw := &textWriter{w: w}
	p := newPalette(w, opts)
	s := result.Summary

	tw.printf("%s\n\n", p.path("Summary"))
	tw.printf("  Errors:   %d → %d (%s)\n", s.OldErrors, s.NewErrors, s.ErrorsDir)
	tw.printf("  Warnings: %d → %d (%s)\n", s.OldWarnings, s.NewWarnings, s.WarningsDir)
	tw.printf("  Changes:  %d added, %d removed, %d moved, %d unchanged\n\n", s.Added, s.Removed, s.Moved, s.Unchanged)

	for _, d := range result.Deltas {
		switch d.ChangeType {
		case comparator.Added:
			tw.printf("  %s %d: %s\n", p.errorLabel("+"), d.New.Finding.Line, d.Message)
		case comparator.Removed:
			tw.printf("  %s %d: %s\n", p.ok("-"), d.Old.Finding.Line, d.Message)
		case comparator.Moved:
			tw.printf("  %s %d→%d: %s\n", p.dim("~"), d.Old.Finding.Line, d.New.Finding.Line, d.Message)
		}
	}

	tw.printf("\n%s\n", p.path(s.Verdict))
	return tw.err
}
