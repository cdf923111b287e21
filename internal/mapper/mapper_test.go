package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/editor"
)

const source = "import os\nx=1 \ndef f():\n    return  1\n"

func mapSource(t *testing.T, opts analyzer.Options, findings ...analyzer.Finding) (*editor.MemoryView, Mapping) {
	t.Helper()
	view := editor.NewMemoryView("/tmp/sample.py", source)
	result := analyzer.Analyze(findings, view, opts)
	return view, Map(view, result)
}

func TestMap_WordAndLineRegions(t *testing.T) {
	view, m := mapSource(t, analyzer.Options{},
		analyzer.Finding{Line: 1, Column: 0, Message: "F401 'os' imported but unused"},
		analyzer.Finding{Line: 2, Column: 1, Message: "E225 missing whitespace around operator"},
	)

	require.Len(t, m.Errors, 1)
	assert.Equal(t, "import os", view.Substr(m.Errors[0]))

	require.Len(t, m.Warnings, 1)
	assert.Equal(t, "=", view.Substr(m.Warnings[0]))

	entry, ok := m.Entries[m.Warnings[0].A]
	require.True(t, ok)
	assert.Equal(t, "E225 missing whitespace around operator", entry.Message)
	assert.Equal(t, m.Warnings[0], entry.Region)
}

func TestMap_DuplicatesStillMapped(t *testing.T) {
	_, m := mapSource(t, analyzer.Options{},
		analyzer.Finding{Line: 4, Column: 4, Message: "E271 multiple spaces after keyword"},
		analyzer.Finding{Line: 4, Column: 12, Message: "E271 multiple spaces after keyword"},
	)

	assert.Len(t, m.Warnings, 2)
	assert.Len(t, m.Entries, 2)
}

func TestMap_SuppressedNeverMapped(t *testing.T) {
	view := editor.NewMemoryView("/tmp/sample.py", "import os  # noqa\n")
	result := analyzer.Analyze([]analyzer.Finding{
		{Line: 1, Column: 0, Message: "F401 'os' imported but unused"},
	}, view, analyzer.Options{})

	m := Map(view, result)
	assert.Empty(t, m.Entries)
	assert.Empty(t, m.Problems())
}

func TestMap_PromotedErrors(t *testing.T) {
	_, m := mapSource(t, analyzer.Options{Errors: []string{"W291"}},
		analyzer.Finding{Line: 2, Column: 3, Message: "W291 trailing whitespace"},
	)
	assert.Len(t, m.Errors, 1)
	assert.Empty(t, m.Warnings)
}

func TestMap_Idempotent(t *testing.T) {
	findings := []analyzer.Finding{
		{Line: 1, Column: 0, Message: "F401 'os' imported but unused"},
		{Line: 2, Column: 1, Message: "E225 missing whitespace around operator"},
		{Line: 4, Column: 10, Message: "E271 multiple spaces after keyword"},
	}
	_, first := mapSource(t, analyzer.Options{}, findings...)
	_, second := mapSource(t, analyzer.Options{}, findings...)

	assert.Equal(t, first.Entries, second.Entries)
}

func TestMapping_Problems(t *testing.T) {
	m := Mapping{
		Errors:   []editor.Region{{A: 0, B: 3}, {A: 20, B: 22}},
		Warnings: []editor.Region{{A: 5, B: 6}, {A: 30, B: 31}},
	}
	assert.Equal(t, []editor.Region{
		{A: 0, B: 3}, {A: 5, B: 6}, {A: 20, B: 22}, {A: 30, B: 31},
	}, m.Problems())
}
