package output

import (
	"time"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/mapper"
	"github.com/jacobarthurs/flake8lint/internal/session"
	"github.com/jacobarthurs/flake8lint/internal/settings"
)

const (
	ErrorsKey   = "flake8_errors"
	WarningsKey = "flake8_warnings"

	ErrorScope   = "flake8lint.error"
	WarningScope = "flake8lint.warning"
	GutterIcon   = "circle"

	ResultsPaneName = "Lint Results"
	resultsSyntax   = "Packages/Default/Find Results.hidden-tmLanguage"

	// Adding both region sets back to back can drop the second set in some
	// hosts.
	DefaultHighlightPause = 10 * time.Millisecond
)

var FillStyles = map[string]editor.DrawStyle{
	settings.StyleFill:    editor.DrawFill,
	settings.StyleOutline: editor.DrawOutlined,
	settings.StyleNone:    editor.DrawHidden,
}

// DrawStyleFor maps highlight_style to a draw style, falling back to fill.
func DrawStyleFor(name string) editor.DrawStyle {
	if style, ok := FillStyles[name]; ok {
		return style
	}
	return editor.DrawFill
}

// Presenter renders a completed pass on the host. Every surface is toggled
// by its own setting.
type Presenter struct {
	Settings settings.Settings
	Host     editor.Host
	Pause    time.Duration
}

func NewPresenter(s settings.Settings, host editor.Host) *Presenter {
	return &Presenter{Settings: s, Host: host, Pause: DefaultHighlightPause}
}

func (p *Presenter) Present(view editor.View, sess *session.Session, m mapper.Mapping) {
	p.Highlight(view, m)
	p.Popup(view, sess.Result)
	p.ResultsPane(view, sess, m)
}

func (p *Presenter) Highlight(view editor.View, m mapper.Mapping) {
	if !p.Settings.Highlight {
		view.EraseRegions(ErrorsKey)
		view.EraseRegions(WarningsKey)
		return
	}

	icon := ""
	if p.Settings.GutterMarks {
		icon = GutterIcon
	}
	style := DrawStyleFor(p.Settings.HighlightStyle)

	view.AddRegions(ErrorsKey, m.Errors, ErrorScope, icon, style)
	if p.Pause > 0 {
		time.Sleep(p.Pause)
	}
	view.AddRegions(WarningsKey, m.Warnings, WarningScope, icon, style)
}

// Popup lists the deduplicated findings in a quick panel. Picking one moves
// the caret to it.
func (p *Presenter) Popup(view editor.View, result analyzer.Result) {
	if !p.Settings.Popup {
		return
	}
	window := view.Window()
	if window == nil {
		return
	}

	display := result.Display()
	if len(display) == 0 {
		return
	}
	findings := result.Findings()

	items := make([]editor.PanelItem, len(display))
	for i, item := range display {
		items[i] = editor.PanelItem{Title: item.Message, Detail: item.Summary}
	}

	window.ShowQuickPanel(items, func(index int) {
		if index < 0 || index >= len(findings) {
			return
		}
		GoTo(view, findings[index])
	})
}

// GoTo places a single caret at the finding and centers the view on it.
func GoTo(view editor.View, f analyzer.Finding) {
	offset := view.TextPoint(f.Line-1, f.Column)
	view.SetSelection(editor.Point(offset))
	view.ShowAtCenter(offset)
}

func (p *Presenter) ResultsPane(view editor.View, sess *session.Session, m mapper.Mapping) {
	if !p.Settings.ResultsPane {
		return
	}
	pane := p.resultsPane(view)
	if pane == nil {
		return
	}
	pane.ReplaceAll(RenderPane(view, sess, m))
}

func (p *Presenter) resultsPane(view editor.View) editor.View {
	window := p.Host.ActiveWindow()
	if window != nil {
		for _, v := range window.Views() {
			if v.Name() == ResultsPaneName {
				window.FocusView(v)
				window.FocusView(view)
				return v
			}
		}
	}

	window = view.Window()
	if window == nil {
		return nil
	}
	pane := window.NewFile()
	pane.SetName(ResultsPaneName)
	pane.SetSetting("syntax", resultsSyntax)
	pane.SetSetting("rulers", []int{6, 86})
	pane.SetScratch(true)
	return pane
}
