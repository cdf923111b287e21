// Package editor describes the slice of the host editor API the linter
// drives, plus a headless in-memory host used by the CLI and tests.
package editor

type ViewID int64

// PanelItem is one row of a quick panel.
type PanelItem struct {
	Title  string
	Detail string
}

// View is a single editor buffer. All methods are called on the host's UI
// loop.
type View interface {
	ID() ViewID
	FileName() string
	Name() string
	SetName(name string)
	Window() Window

	IsLoading() bool
	IsDirty() bool
	IsPython() bool
	Save() error

	Size() int
	TextPoint(row, col int) int
	RowCol(offset int) (int, int)
	Line(offset int) Region
	LineText(line int) string
	Word(offset int) Region
	Substr(r Region) string

	Selection() []Region
	SetSelection(regions ...Region)
	ShowAtCenter(offset int)

	AddRegions(key string, regions []Region, scope, icon string, style DrawStyle)
	EraseRegions(key string)
	SetStatus(key, text string)
	EraseStatus(key string)

	SetScratch(scratch bool)
	SetSetting(key string, value any)
	ReplaceAll(text string)
}

type Window interface {
	ActiveView() View
	Views() []View
	FocusView(v View)
	NewFile() View
	// ShowQuickPanel presents items and calls onDone with the selected index,
	// or -1 when the panel is cancelled.
	ShowQuickPanel(items []PanelItem, onDone func(index int))
}

type Host interface {
	ActiveWindow() Window
	// ErrorMessage shows a blocking message to the user.
	ErrorMessage(msg string)
}
