package checker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
)

// ParseJSON decodes the lint.py output: a JSON array of
// [line, column, message] triples.
func ParseJSON(data []byte) ([]analyzer.Finding, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}

	findings := make([]analyzer.Finding, 0, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("%w: entry %d has %d fields, want 3", ErrParseOutput, i, len(row))
		}
		var f analyzer.Finding
		if err := json.Unmarshal(row[0], &f.Line); err != nil {
			return nil, fmt.Errorf("%w: entry %d line: %v", ErrParseOutput, i, err)
		}
		if err := json.Unmarshal(row[1], &f.Column); err != nil {
			return nil, fmt.Errorf("%w: entry %d column: %v", ErrParseOutput, i, err)
		}
		if err := json.Unmarshal(row[2], &f.Message); err != nil {
			return nil, fmt.Errorf("%w: entry %d message: %v", ErrParseOutput, i, err)
		}
		if f.Line < 1 || f.Column < 0 {
			return nil, fmt.Errorf("%w: entry %d has invalid position %d:%d", ErrParseOutput, i, f.Line, f.Column)
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// textFormat is passed to flake8 so that the output does not depend on the
// user's format setting.
const textFormat = "%(row)d:%(col)d: %(code)s %(text)s"

var textLineRe = regexp.MustCompile(`^(\d+):(\d+): (.*)$`)

// ParseText decodes flake8 output produced with textFormat. flake8 columns
// are 1-based and are converted to 0-based here.
func ParseText(data []byte) ([]analyzer.Finding, error) {
	var findings []analyzer.Finding

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		m := textLineRe.FindSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: unexpected line %q", ErrParseOutput, line)
		}
		row, _ := strconv.Atoi(string(m[1]))
		col, _ := strconv.Atoi(string(m[2]))
		findings = append(findings, analyzer.Finding{
			Line:    row,
			Column:  max(col-1, 0),
			Message: string(m[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}
	return findings, nil
}
