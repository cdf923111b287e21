package editor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Buffer is an immutable text snapshot with line and word lookups. Offsets
// are byte offsets into the text.
type Buffer struct {
	text       string
	lineStarts []int
}

func NewBuffer(text string) *Buffer {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Buffer{text: text, lineStarts: starts}
}

func (b *Buffer) Text() string {
	return b.text
}

func (b *Buffer) Size() int {
	return len(b.text)
}

func (b *Buffer) LineCount() int {
	return len(b.lineStarts)
}

// TextPoint converts a 0-based row and column to an offset. Rows past the
// end clamp to the last row and columns clamp to the end of the row.
func (b *Buffer) TextPoint(row, col int) int {
	row = max(0, min(row, len(b.lineStarts)-1))
	line := b.lineAt(row)
	return line.A + max(0, min(col, line.Size()))
}

// RowCol converts an offset back to a 0-based row and column.
func (b *Buffer) RowCol(offset int) (int, int) {
	offset = b.clamp(offset)
	row := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
	return row, offset - b.lineStarts[row]
}

// Line returns the region of the line containing offset, without its
// newline.
func (b *Buffer) Line(offset int) Region {
	row, _ := b.RowCol(offset)
	return b.lineAt(row)
}

// LineText returns the text of a 1-based line, or "" when out of range.
func (b *Buffer) LineText(line int) string {
	if line < 1 || line > len(b.lineStarts) {
		return ""
	}
	return b.Substr(b.lineAt(line - 1))
}

// Word returns the word around offset. Word characters are letters, digits
// and underscores; on any other character the run of characters of the same
// class is returned, except that whitespace directly after a word selects
// that word. The result never crosses a line boundary.
func (b *Buffer) Word(offset int) Region {
	offset = b.clamp(offset)
	line := b.Line(offset)
	if line.Empty() {
		return line
	}

	pivot := offset
	if pivot == line.B || (runeClass(b.text, pivot) == classSpace && pivot > line.A && isWordBefore(b.text, pivot)) {
		// Just past a word: use the word on the left.
		_, size := utf8.DecodeLastRuneInString(b.text[:pivot])
		pivot -= size
	}

	class := runeClass(b.text, pivot)
	start := pivot
	for start > line.A {
		r, size := utf8.DecodeLastRuneInString(b.text[:start])
		if classOf(r) != class {
			break
		}
		start -= size
	}
	end := pivot
	for end < line.B {
		r, size := utf8.DecodeRuneInString(b.text[end:])
		if classOf(r) != class {
			break
		}
		end += size
	}
	return Region{A: start, B: end}
}

func (b *Buffer) Substr(r Region) string {
	return b.text[b.clamp(r.Begin()):b.clamp(r.End())]
}

// Lines returns every line without newlines.
func (b *Buffer) Lines() []string {
	return strings.Split(b.text, "\n")
}

func (b *Buffer) lineAt(row int) Region {
	start := b.lineStarts[row]
	end := len(b.text)
	if row+1 < len(b.lineStarts) {
		end = b.lineStarts[row+1] - 1
	}
	if end > start && b.text[end-1] == '\r' {
		end--
	}
	return Region{A: start, B: end}
}

func (b *Buffer) clamp(offset int) int {
	return max(0, min(offset, len(b.text)))
}

const (
	classSpace = iota
	classWord
	classPunct
)

func classOf(r rune) int {
	switch {
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	case unicode.IsSpace(r):
		return classSpace
	default:
		return classPunct
	}
}

func runeClass(text string, offset int) int {
	r, _ := utf8.DecodeRuneInString(text[offset:])
	return classOf(r)
}

func isWordBefore(text string, offset int) bool {
	r, _ := utf8.DecodeLastRuneInString(text[:offset])
	return classOf(r) == classWord
}
