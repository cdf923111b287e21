package analyzer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var noqaRe = regexp.MustCompile(`(?i)#\s*noqa`)

// LineSource returns the text of a 1-based source line.
type LineSource interface {
	LineText(line int) string
}

// Lines adapts a slice of lines to LineSource.
type Lines []string

func (l Lines) LineText(line int) string {
	if line < 1 || line > len(l) {
		return ""
	}
	return l[line-1]
}

type Options struct {
	Select []string
	Ignore []string
	Errors []string
}

// Analyze applies inline suppression, select/ignore prefixes and
// deduplication to the checker output, in report order.
func Analyze(findings []Finding, lines LineSource, opts Options) Result {
	var result Result
	seen := make(map[Item]bool)

	for _, f := range findings {
		lineText := lines.LineText(f.Line)
		if Suppressed(lineText) {
			result.Suppressed++
			continue
		}

		code := f.Code()
		if !Selected(code, opts.Select, opts.Ignore) {
			result.Filtered++
			continue
		}

		summary := fmt.Sprintf("%d: %s", f.Line, lineText)
		key := Item{Message: f.Message, Summary: summary}

		result.Kept = append(result.Kept, Kept{
			Finding:   f,
			Code:      code,
			Severity:  Classify(code, opts.Errors),
			LineText:  lineText,
			Summary:   summary,
			Duplicate: seen[key],
		})
		seen[key] = true
	}

	return result
}

// Suppressed reports whether a source line carries a "# noqa" marker.
func Suppressed(lineText string) bool {
	return noqaRe.MatchString(lineText)
}

// Selected keeps a code that matches any select prefix (when select is set)
// and no ignore prefix.
func Selected(code string, selectPrefixes, ignorePrefixes []string) bool {
	if len(selectPrefixes) > 0 && !hasAnyPrefix(code, selectPrefixes) {
		return false
	}
	if len(ignorePrefixes) > 0 && hasAnyPrefix(code, ignorePrefixes) {
		return false
	}
	return true
}

// Classify treats pep8 codes (E, W) as warnings unless promoted through
// errors. Everything else, including syntax errors without a code, is an
// error.
func Classify(code string, errors []string) Severity {
	if (strings.HasPrefix(code, "W") || strings.HasPrefix(code, "E")) && !slices.Contains(errors, code) {
		return Warning
	}
	return Error
}

func hasAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
