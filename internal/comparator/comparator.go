package comparator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
)

// Compare matches the findings of two passes. Findings are matched on the
// message and the trimmed line text, so a finding whose line only moved is
// reported as Moved rather than removed and re-added.
func Compare(old, new analyzer.Result) ComparisonResult {
	oldKept := visible(old)
	newKept := visible(new)

	pending := make(map[string][]int)
	for i, k := range oldKept {
		key := matchKey(k)
		pending[key] = append(pending[key], i)
	}

	var deltas []FindingDelta
	matched := make([]bool, len(oldKept))

	for i := range newKept {
		n := &newKept[i]
		key := matchKey(*n)
		candidates := pending[key]
		if len(candidates) == 0 {
			deltas = append(deltas, newDelta(Added, nil, n))
			continue
		}
		oi := candidates[0]
		pending[key] = candidates[1:]
		matched[oi] = true

		change := NoChange
		if oldKept[oi].Finding.Line != n.Finding.Line {
			change = Moved
		}
		deltas = append(deltas, newDelta(change, &oldKept[oi], n))
	}

	for i := range oldKept {
		if !matched[i] {
			deltas = append(deltas, newDelta(Removed, &oldKept[i], nil))
		}
	}

	sort.SliceStable(deltas, func(i, j int) bool {
		return deltaLine(deltas[i]) < deltaLine(deltas[j])
	})

	summary := Summary{
		OldErrors:   old.Count(analyzer.Error),
		NewErrors:   new.Count(analyzer.Error),
		OldWarnings: old.Count(analyzer.Warning),
		NewWarnings: new.Count(analyzer.Warning),
	}
	summary.ErrorsDir = direction(summary.OldErrors, summary.NewErrors)
	summary.WarningsDir = direction(summary.OldWarnings, summary.NewWarnings)
	countChanges(deltas, &summary)
	summary.Verdict = verdict(summary)

	return ComparisonResult{Deltas: deltas, Summary: summary}
}

func visible(r analyzer.Result) []analyzer.Kept {
	var kept []analyzer.Kept
	for _, k := range r.Kept {
		if !k.Duplicate {
			kept = append(kept, k)
		}
	}
	return kept
}

func matchKey(k analyzer.Kept) string {
	return k.Finding.Message + "\x00" + strings.TrimSpace(k.LineText)
}

func newDelta(change ChangeType, old, new *analyzer.Kept) FindingDelta {
	ref := new
	if ref == nil {
		ref = old
	}
	return FindingDelta{
		ChangeType: change,
		Code:       ref.Code,
		Message:    ref.Finding.Message,
		Severity:   ref.Severity,
		Old:        old,
		New:        new,
	}
}

func deltaLine(d FindingDelta) int {
	if d.New != nil {
		return d.New.Finding.Line
	}
	return d.Old.Finding.Line
}

func countChanges(deltas []FindingDelta, summary *Summary) {
	for _, d := range deltas {
		switch d.ChangeType {
		case Added:
			summary.Added++
		case Removed:
			summary.Removed++
		case Moved:
			summary.Moved++
		default:
			summary.Unchanged++
		}
	}
}

func direction(old, new int) Direction {
	switch {
	case new < old:
		return Improved
	case new > old:
		return Regressed
	default:
		return Unchanged
	}
}

func verdict(s Summary) string {
	switch {
	case s.Added == 0 && s.Removed == 0:
		return "no new issues"
	case s.Added == 0:
		return fmt.Sprintf("%d issue(s) resolved", s.Removed)
	case s.Removed == 0:
		return fmt.Sprintf("%d new issue(s)", s.Added)
	default:
		return fmt.Sprintf("%d new issue(s), %d resolved", s.Added, s.Removed)
	}
}
