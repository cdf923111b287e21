package analyzer

import (
	"fmt"
	"strings"
)

type Severity int

const (
	Warning Severity = 1
	Error   Severity = 2
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is one issue reported by the checker. Line is 1-based, Column is
// 0-based; a zero column marks the whole line.
type Finding struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Code returns the leading whitespace-delimited token of the message.
func (f Finding) Code() string {
	code, _, _ := strings.Cut(f.Message, " ")
	return code
}

func (f Finding) Description() string {
	_, desc, _ := strings.Cut(f.Message, " ")
	return desc
}

func (f Finding) String() string {
	return fmt.Sprintf("%d:%d: %s", f.Line, f.Column, f.Message)
}

// Kept is a finding that survived suppression and select/ignore filtering.
type Kept struct {
	Finding   Finding
	Code      string
	Severity  Severity
	LineText  string
	Summary   string
	Duplicate bool
}

// Item is one row of the quick panel: the raw message and a
// "{line}: {line_text}" summary.
type Item struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

type Result struct {
	Kept       []Kept
	Suppressed int
	Filtered   int
}

// Display returns the deduplicated quick panel rows in report order.
func (r Result) Display() []Item {
	var items []Item
	for _, k := range r.Kept {
		if k.Duplicate {
			continue
		}
		items = append(items, Item{Message: k.Finding.Message, Summary: k.Summary})
	}
	return items
}

// Findings returns the deduplicated findings, parallel to Display.
func (r Result) Findings() []Finding {
	var findings []Finding
	for _, k := range r.Kept {
		if k.Duplicate {
			continue
		}
		findings = append(findings, k.Finding)
	}
	return findings
}

func (r Result) Count(sev Severity) int {
	n := 0
	for _, k := range r.Kept {
		if !k.Duplicate && k.Severity == sev {
			n++
		}
	}
	return n
}
