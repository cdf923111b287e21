package comparator

import "github.com/jacobarthurs/flake8lint/internal/analyzer"

type Direction int

const (
	Unchanged Direction = 0
	Improved  Direction = 1
	Regressed Direction = 2
)

func (d Direction) String() string {
	switch d {
	case Improved:
		return "improved"
	case Regressed:
		return "regressed"
	default:
		return "unchanged"
	}
}

type ChangeType int

const (
	NoChange ChangeType = 0
	Moved    ChangeType = 1
	Added    ChangeType = 2
	Removed  ChangeType = 3
)

func (c ChangeType) String() string {
	switch c {
	case Moved:
		return "moved"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "no_change"
	}
}

// FindingDelta pairs a finding of the old pass with its counterpart in the
// new pass. Old is nil for Added, New is nil for Removed.
type FindingDelta struct {
	ChangeType ChangeType
	Code       string
	Message    string
	Severity   analyzer.Severity
	Old        *analyzer.Kept
	New        *analyzer.Kept
}

type ComparisonResult struct {
	Deltas  []FindingDelta
	Summary Summary
}

type Summary struct {
	OldErrors   int
	NewErrors   int
	OldWarnings int
	NewWarnings int

	Added     int
	Removed   int
	Moved     int
	Unchanged int

	ErrorsDir   Direction
	WarningsDir Direction

	Verdict string
}
