package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/mapper"
	"github.com/jacobarthurs/flake8lint/internal/session"
)

const (
	PassMarker = "--    pass    --"

	maxLineWidth   = 80
	truncatedWidth = 77
	messageColumn  = 81
)

// RenderPane builds the results pane text: the file path, a blank line and
// one row per highlighted region in buffer order.
func RenderPane(view editor.View, sess *session.Session, m mapper.Mapping) string {
	var b strings.Builder
	tw := &textWriter{w: &b}

	tw.printf("%s:\n\n", view.FileName())

	problems := m.Problems()
	lookup := &session.Session{Errors: m.Entries}
	if sess != nil && sess.Errors != nil {
		lookup = sess
	}

	for _, problem := range problems {
		line := view.Line(problem.Begin())
		row, _ := view.RowCol(problem.Begin())
		tw.printf("%s", FormatRow(row, view.Substr(line), lookup.Messages(line)))
	}

	if len(problems) == 0 {
		tw.printf("%s", PassMarker)
	}

	return b.String()
}

// FormatRow renders one results pane row. row is 0-based; the line number is
// right-aligned in four columns and the messages start at column 81 of the
// text.
func FormatRow(row int, text string, messages []string) string {
	if utf8.RuneCountInString(text) > maxLineWidth {
		text = string([]rune(text)[:truncatedWidth]) + "..."
	}
	pad := max(messageColumn-utf8.RuneCountInString(text), 0)

	return fmt.Sprintf("%4d: %s%s%s\n", row+1, text, strings.Repeat(" ", pad), session.JoinMessages(messages))
}
