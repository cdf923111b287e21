package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/mapper"
	"github.com/jacobarthurs/flake8lint/internal/session"
	"github.com/jacobarthurs/flake8lint/internal/settings"
)

const source = "import os\nx=1 \n\ndef f():\n    return  1\n"

var sampleFindings = []analyzer.Finding{
	{Line: 1, Column: 0, Message: "F401 'os' imported but unused"},
	{Line: 2, Column: 1, Message: "E225 missing whitespace around operator"},
	{Line: 2, Column: 3, Message: "W291 trailing whitespace"},
	{Line: 2, Column: 3, Message: "W291 trailing whitespace"},
	{Line: 5, Column: 10, Message: "E271 multiple spaces after keyword"},
}

type fixture struct {
	host      *editor.MemoryHost
	view      *editor.MemoryView
	session   *session.Session
	mapping   mapper.Mapping
	presenter *Presenter
}

func newFixture(t *testing.T, mutate func(*settings.Settings)) *fixture {
	t.Helper()
	s := settings.Default()
	if mutate != nil {
		mutate(&s)
	}

	host := editor.NewMemoryHost()
	view := editor.NewMemoryView("/src/sample.py", source)
	host.Window().Open(view)

	result := analyzer.Analyze(sampleFindings, view, analyzer.Options{Errors: s.Errors})
	m := mapper.Map(view, result)
	sess := &session.Session{ViewID: view.ID(), Errors: m.Entries, Result: result}

	p := NewPresenter(s, host)
	p.Pause = 0

	return &fixture{host: host, view: view, session: sess, mapping: m, presenter: p}
}

func TestDrawStyleFor(t *testing.T) {
	assert.Equal(t, editor.DrawFill, DrawStyleFor("fill"))
	assert.Equal(t, editor.DrawOutlined, DrawStyleFor("outline"))
	assert.Equal(t, editor.DrawHidden, DrawStyleFor("none"))
	assert.Equal(t, editor.DrawFill, DrawStyleFor("sparkles"))
	assert.Equal(t, editor.DrawFill, DrawStyleFor(""))
}

func TestHighlight_AddsBothSets(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) { s.HighlightStyle = "outline" })
	f.presenter.Highlight(f.view, f.mapping)

	errs, ok := f.view.Regions(ErrorsKey)
	require.True(t, ok)
	assert.Len(t, errs.Regions, 1)
	assert.Equal(t, ErrorScope, errs.Scope)
	assert.Equal(t, GutterIcon, errs.Icon)
	assert.Equal(t, editor.DrawOutlined, errs.Style)

	warns, ok := f.view.Regions(WarningsKey)
	require.True(t, ok)
	assert.Len(t, warns.Regions, 4)
	assert.Equal(t, WarningScope, warns.Scope)
}

func TestHighlight_NoGutterMarks(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) { s.GutterMarks = false })
	f.presenter.Highlight(f.view, f.mapping)

	errs, _ := f.view.Regions(ErrorsKey)
	assert.Empty(t, errs.Icon)
}

func TestHighlight_DisabledClearsRegions(t *testing.T) {
	f := newFixture(t, nil)
	f.presenter.Highlight(f.view, f.mapping)

	f.presenter.Settings.Highlight = false
	f.presenter.Highlight(f.view, f.mapping)

	_, ok := f.view.Regions(ErrorsKey)
	assert.False(t, ok)
	_, ok = f.view.Regions(WarningsKey)
	assert.False(t, ok)
}

func TestPopup_SelectMovesCaret(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) { s.Popup = true })
	f.host.Window().PanelFunc = func(items []editor.PanelItem) int { return 3 }

	f.presenter.Popup(f.view, f.session.Result)

	panels := f.host.Window().Panels()
	require.Len(t, panels, 1)
	require.Len(t, panels[0], 4, "duplicate finding should be collapsed")
	assert.Equal(t, "E271 multiple spaces after keyword", panels[0][3].Title)
	assert.Equal(t, "5:     return  1", panels[0][3].Detail)

	want := f.view.TextPoint(4, 10)
	assert.Equal(t, []editor.Region{editor.Point(want)}, f.view.Selection())
	assert.Equal(t, want, f.view.Centered())
}

func TestPopup_CancelIsNoop(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) { s.Popup = true })
	f.view.SetSelection(editor.Point(3))

	f.presenter.Popup(f.view, f.session.Result)

	assert.Equal(t, []editor.Region{editor.Point(3)}, f.view.Selection())
	assert.Equal(t, -1, f.view.Centered())
}

func TestPopup_Disabled(t *testing.T) {
	f := newFixture(t, nil)
	f.presenter.Popup(f.view, f.session.Result)
	assert.Empty(t, f.host.Window().Panels())
}

func TestResultsPane_CreatedOnceAndReused(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) { s.ResultsPane = true })

	f.presenter.ResultsPane(f.view, f.session, f.mapping)
	f.presenter.ResultsPane(f.view, f.session, f.mapping)

	var panes []*editor.MemoryView
	for _, v := range f.host.Window().Views() {
		if v.Name() == ResultsPaneName {
			panes = append(panes, v.(*editor.MemoryView))
		}
	}
	require.Len(t, panes, 1)

	pane := panes[0]
	assert.True(t, pane.IsScratch())
	assert.Equal(t, []int{6, 86}, pane.Setting("rulers"))
	assert.Equal(t, f.view.ID(), f.host.Window().ActiveView().ID(), "source view keeps focus")

	text := pane.Text()
	assert.True(t, strings.HasPrefix(text, "/src/sample.py:\n\n"))
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	// header, blank, then one row per region (five regions)
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[2], "   1: import os"))
	assert.True(t, strings.HasSuffix(lines[3], "E225 missing whitespace around operator | W291 trailing whitespace"))
}

func TestResultsPane_Pass(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) { s.ResultsPane = true })
	empty := analyzer.Analyze(nil, f.view, analyzer.Options{})
	m := mapper.Map(f.view, empty)

	f.presenter.ResultsPane(f.view, &session.Session{Errors: m.Entries, Result: empty}, m)

	for _, v := range f.host.Window().Views() {
		if v.Name() == ResultsPaneName {
			assert.Equal(t, "/src/sample.py:\n\n"+PassMarker, v.(*editor.MemoryView).Text())
			return
		}
	}
	t.Fatal("results pane not created")
}

func TestFormatRow(t *testing.T) {
	long := strings.Repeat("a", 90)
	row := FormatRow(6, long, []string{"E501 line too long (90 > 79 characters)"})

	want := "   7: " + strings.Repeat("a", 77) + "..." + " " + "E501 line too long (90 > 79 characters)\n"
	assert.Equal(t, want, row)

	short := FormatRow(41, "x=1", []string{"E225 a", "W291 b"})
	assert.Equal(t, "  42: x=1"+strings.Repeat(" ", 78)+"E225 a | W291 b\n", short)

	exact := strings.Repeat("b", 80)
	assert.Equal(t, "1000: "+exact+" \n", FormatRow(999, exact, nil))

	wide := FormatRow(12344, "y", nil)
	assert.True(t, strings.HasPrefix(wide, "12345: y"))
}
