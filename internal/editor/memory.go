package editor

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

var nextViewID atomic.Int64

// RegionSet is what AddRegions recorded for one key.
type RegionSet struct {
	Regions []Region
	Scope   string
	Icon    string
	Style   DrawStyle
}

// MemoryView is a View over an in-memory Buffer. It is safe for use from
// multiple goroutines so that tests can inspect it while a loop runs.
type MemoryView struct {
	mu       sync.Mutex
	id       ViewID
	fileName string
	name     string
	window   *MemoryWindow
	buf      *Buffer
	loading  bool
	dirty    bool
	scratch  bool
	sel      []Region
	centered int
	regions  map[string]RegionSet
	status   map[string]string
	settings map[string]any
	saves    int
}

func NewMemoryView(fileName, text string) *MemoryView {
	return &MemoryView{
		id:       ViewID(nextViewID.Add(1)),
		fileName: fileName,
		buf:      NewBuffer(text),
		sel:      []Region{Point(0)},
		centered: -1,
		regions:  make(map[string]RegionSet),
		status:   make(map[string]string),
		settings: make(map[string]any),
	}
}

// OpenFile loads path into a new MemoryView.
func OpenFile(path string) (*MemoryView, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	return NewMemoryView(abs, string(data)), nil
}

func (v *MemoryView) ID() ViewID { return v.id }

func (v *MemoryView) FileName() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fileName
}

func (v *MemoryView) Name() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.name
}

func (v *MemoryView) SetName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.name = name
}

func (v *MemoryView) Window() Window {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.window == nil {
		return nil
	}
	return v.window
}

func (v *MemoryView) IsLoading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *MemoryView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

func (v *MemoryView) IsDirty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dirty
}

func (v *MemoryView) IsPython() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch strings.ToLower(filepath.Ext(v.fileName)) {
	case ".py", ".pyw":
		return true
	}
	first, _, _ := strings.Cut(v.buf.Text(), "\n")
	return strings.HasPrefix(first, "#!") && strings.Contains(first, "python")
}

// SetText replaces the buffer and marks the view dirty.
func (v *MemoryView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.buf = NewBuffer(text)
	v.dirty = true
}

// Reload re-reads the backing file, discarding unsaved changes.
func (v *MemoryView) Reload() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	data, err := os.ReadFile(v.fileName)
	if err != nil {
		return err
	}
	v.buf = NewBuffer(string(data))
	v.dirty = false
	return nil
}

func (v *MemoryView) Save() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fileName == "" {
		return nil
	}
	if err := os.WriteFile(v.fileName, []byte(v.buf.Text()), 0644); err != nil {
		return err
	}
	v.dirty = false
	v.saves++
	return nil
}

func (v *MemoryView) Saves() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.saves
}

func (v *MemoryView) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.Text()
}

func (v *MemoryView) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.Size()
}

func (v *MemoryView) TextPoint(row, col int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.TextPoint(row, col)
}

func (v *MemoryView) RowCol(offset int) (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.RowCol(offset)
}

func (v *MemoryView) Line(offset int) Region {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.Line(offset)
}

func (v *MemoryView) LineText(line int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.LineText(line)
}

func (v *MemoryView) Word(offset int) Region {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.Word(offset)
}

func (v *MemoryView) Substr(r Region) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.Substr(r)
}

func (v *MemoryView) Selection() []Region {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Region(nil), v.sel...)
}

func (v *MemoryView) SetSelection(regions ...Region) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel = append([]Region(nil), regions...)
}

func (v *MemoryView) ShowAtCenter(offset int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.centered = offset
}

// Centered returns the last offset passed to ShowAtCenter, or -1.
func (v *MemoryView) Centered() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.centered
}

func (v *MemoryView) AddRegions(key string, regions []Region, scope, icon string, style DrawStyle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regions[key] = RegionSet{
		Regions: append([]Region(nil), regions...),
		Scope:   scope,
		Icon:    icon,
		Style:   style,
	}
}

func (v *MemoryView) EraseRegions(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.regions, key)
}

// Regions returns what was last added under key.
func (v *MemoryView) Regions(key string) (RegionSet, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	rs, ok := v.regions[key]
	return rs, ok
}

func (v *MemoryView) SetStatus(key, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status[key] = text
}

func (v *MemoryView) EraseStatus(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.status, key)
}

func (v *MemoryView) Status(key string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.status[key]
	return s, ok
}

func (v *MemoryView) SetScratch(scratch bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scratch = scratch
}

func (v *MemoryView) IsScratch() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scratch
}

func (v *MemoryView) SetSetting(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.settings[key] = value
}

func (v *MemoryView) Setting(key string) any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settings[key]
}

func (v *MemoryView) ReplaceAll(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.buf = NewBuffer(text)
}

// MemoryWindow holds views in open order. The quick panel answers through
// PanelFunc; without one every panel is cancelled.
type MemoryWindow struct {
	mu        sync.Mutex
	views     []*MemoryView
	active    *MemoryView
	panels    [][]PanelItem
	PanelFunc func(items []PanelItem) int
}

func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{}
}

// Open attaches v to the window without activating it.
func (w *MemoryWindow) Open(v *MemoryView) {
	v.mu.Lock()
	v.window = w
	v.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.views = append(w.views, v)
	if w.active == nil {
		w.active = v
	}
}

// Close detaches v from the window.
func (w *MemoryWindow) Close(v *MemoryView) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.views {
		if existing == v {
			w.views = append(w.views[:i], w.views[i+1:]...)
			break
		}
	}
	if w.active == v {
		w.active = nil
		if len(w.views) > 0 {
			w.active = w.views[len(w.views)-1]
		}
	}
}

func (w *MemoryWindow) ActiveView() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return nil
	}
	return w.active
}

func (w *MemoryWindow) Views() []View {
	w.mu.Lock()
	defer w.mu.Unlock()
	views := make([]View, len(w.views))
	for i, v := range w.views {
		views[i] = v
	}
	return views
}

func (w *MemoryWindow) FocusView(v View) {
	mv, ok := v.(*MemoryView)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = mv
}

func (w *MemoryWindow) NewFile() View {
	v := NewMemoryView("", "")
	w.Open(v)
	return v
}

func (w *MemoryWindow) ShowQuickPanel(items []PanelItem, onDone func(index int)) {
	w.mu.Lock()
	w.panels = append(w.panels, append([]PanelItem(nil), items...))
	choose := w.PanelFunc
	w.mu.Unlock()

	index := -1
	if choose != nil {
		index = choose(items)
	}
	onDone(index)
}

// Panels returns every quick panel shown so far.
func (w *MemoryWindow) Panels() [][]PanelItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]PanelItem(nil), w.panels...)
}

// MemoryHost is a single-window host that records error messages.
type MemoryHost struct {
	mu     sync.Mutex
	window *MemoryWindow
	errors []string
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{window: NewMemoryWindow()}
}

func (h *MemoryHost) Window() *MemoryWindow {
	return h.window
}

func (h *MemoryHost) ActiveWindow() Window {
	return h.window
}

func (h *MemoryHost) ErrorMessage(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *MemoryHost) Errors() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.errors...)
}
