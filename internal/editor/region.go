package editor

import "fmt"

// Region is a half-open span [A, B) of buffer offsets. A may be greater than
// B for reversed selections.
type Region struct {
	A int `json:"a"`
	B int `json:"b"`
}

func Point(offset int) Region {
	return Region{A: offset, B: offset}
}

func (r Region) Begin() int {
	return min(r.A, r.B)
}

func (r Region) End() int {
	return max(r.A, r.B)
}

func (r Region) Size() int {
	return r.End() - r.Begin()
}

func (r Region) Empty() bool {
	return r.A == r.B
}

func (r Region) Contains(offset int) bool {
	return offset >= r.Begin() && offset <= r.End()
}

// Intersects reports whether the regions overlap or touch. An empty region
// intersects anything that contains its point.
func (r Region) Intersects(o Region) bool {
	if r.Empty() || o.Empty() {
		return r.Begin() <= o.End() && o.Begin() <= r.End()
	}
	return r.Begin() < o.End() && o.Begin() < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("(%d, %d)", r.A, r.B)
}

type DrawStyle int

const (
	DrawFill DrawStyle = iota
	DrawOutlined
	DrawHidden
)

func (s DrawStyle) String() string {
	switch s {
	case DrawFill:
		return "fill"
	case DrawOutlined:
		return "outline"
	case DrawHidden:
		return "hidden"
	default:
		return "unknown"
	}
}
