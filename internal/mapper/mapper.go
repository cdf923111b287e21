package mapper

import (
	"cmp"
	"slices"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/session"
)

// Mapping is the outcome of mapping one pass onto a view.
type Mapping struct {
	Errors   []editor.Region
	Warnings []editor.Region
	Entries  session.ErrorMap
}

// Problems returns error and warning regions merged in buffer order.
func (m Mapping) Problems() []editor.Region {
	merged := make([]editor.Region, 0, len(m.Errors)+len(m.Warnings))
	i, j := 0, 0
	for i < len(m.Errors) || j < len(m.Warnings) {
		if j == len(m.Warnings) || (i < len(m.Errors) && m.Errors[i].Begin() <= m.Warnings[j].Begin()) {
			merged = append(merged, m.Errors[i])
			i++
		} else {
			merged = append(merged, m.Warnings[j])
			j++
		}
	}
	return merged
}

// Map turns every kept finding, duplicates included, into a region of the
// view: the word at the finding's column, or the whole line for column 0.
func Map(view editor.View, result analyzer.Result) Mapping {
	m := Mapping{Entries: make(session.ErrorMap, len(result.Kept))}

	for _, k := range result.Kept {
		region := RegionFor(view, k.Finding)
		m.Entries[region.A] = session.Entry{Region: region, Message: k.Finding.Message}

		if k.Severity == analyzer.Warning {
			m.Warnings = append(m.Warnings, region)
		} else {
			m.Errors = append(m.Errors, region)
		}
	}

	sortRegions(m.Errors)
	sortRegions(m.Warnings)
	return m
}

// RegionFor returns the region a finding highlights.
func RegionFor(view editor.View, f analyzer.Finding) editor.Region {
	offset := view.TextPoint(f.Line-1, f.Column)
	if f.Column != 0 {
		return view.Word(offset)
	}
	return view.Line(offset)
}

func sortRegions(regions []editor.Region) {
	slices.SortStableFunc(regions, func(a, b editor.Region) int {
		return cmp.Compare(a.Begin(), b.Begin())
	})
}
