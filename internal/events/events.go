// Package events binds host editor callbacks to lint passes.
package events

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/pipeline"
	"github.com/jacobarthurs/flake8lint/internal/scheduler"
	"github.com/jacobarthurs/flake8lint/internal/session"
	"github.com/jacobarthurs/flake8lint/internal/settings"
)

const (
	TipKey = "flake8_tip"

	InitialDelay = 500 * time.Millisecond
	PollInterval = 100 * time.Millisecond
)

type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	LoadedInactive
	LoadedActive
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case LoadedInactive:
		return "loaded-inactive"
	case LoadedActive:
		return "loaded-active"
	default:
		return "unloaded"
	}
}

// Linter starts and cancels asynchronous passes. pipeline.Runner is the
// production implementation.
type Linter interface {
	Start(view editor.View, done func(*session.Session, error))
	Cancel(id editor.ViewID) bool
}

// Listener reacts to view events. Its methods must be called on the
// scheduler loop.
type Listener struct {
	Settings  settings.Settings
	Host      editor.Host
	Store     *session.Store
	Scheduler scheduler.Scheduler
	Linter    Linter

	watches map[editor.ViewID]*loadWatch
	states  map[editor.ViewID]LoadState
}

type loadWatch struct {
	timer scheduler.Timer
}

func NewListener(s settings.Settings, host editor.Host, store *session.Store, sched scheduler.Scheduler, linter Linter) *Listener {
	return &Listener{
		Settings:  s,
		Host:      host,
		Store:     store,
		Scheduler: sched,
		Linter:    linter,
		watches:   make(map[editor.ViewID]*loadWatch),
		states:    make(map[editor.ViewID]LoadState),
	}
}

// State returns the load state last observed for id.
func (l *Listener) State(id editor.ViewID) LoadState {
	return l.states[id]
}

// Watching reports whether a load watch is pending for id.
func (l *Listener) Watching(id editor.ViewID) bool {
	_, ok := l.watches[id]
	return ok
}

// OnActivated lints a newly opened view once it has finished loading, as
// long as it is still the active view by then.
func (l *Listener) OnActivated(view editor.View) {
	if !l.Settings.LintOnLoad || view.FileName() == "" {
		return
	}
	id := view.ID()
	if l.Store.Has(id) || l.Watching(id) {
		return
	}

	w := &loadWatch{}
	l.watches[id] = w
	l.states[id] = Unloaded
	w.timer = l.Scheduler.AfterFunc(InitialDelay, func() { l.poll(view, w) })
}

func (l *Listener) poll(view editor.View, w *loadWatch) {
	id := view.ID()
	if l.watches[id] != w {
		return
	}

	if view.IsLoading() {
		l.states[id] = Loading
		w.timer = l.Scheduler.AfterFunc(PollInterval, func() { l.poll(view, w) })
		return
	}

	delete(l.watches, id)
	if !l.isActive(view) {
		l.states[id] = LoadedInactive
		return
	}
	l.states[id] = LoadedActive
	l.Lint(view)
}

func (l *Listener) OnPostSave(view editor.View) {
	if !l.Settings.LintOnSave {
		return
	}
	l.Lint(view)
}

// OnSelectionModified shows the messages on the lines covered by the first
// selection in the status bar.
func (l *Listener) OnSelectionModified(view editor.View) {
	sel := view.Selection()
	if len(sel) == 0 {
		view.EraseStatus(TipKey)
		return
	}

	lines := editor.Region{
		A: view.Line(sel[0].Begin()).Begin(),
		B: view.Line(sel[0].End()).End(),
	}
	messages := l.Store.Messages(view.ID(), lines)
	if len(messages) == 0 {
		view.EraseStatus(TipKey)
		return
	}
	view.SetStatus(TipKey, session.JoinMessages(messages))
}

// OnDeactivated drops a pending load watch. The view is watched again the
// next time it is activated.
func (l *Listener) OnDeactivated(view editor.View) {
	l.stopWatch(view.ID())
}

func (l *Listener) OnClose(view editor.View) {
	id := view.ID()
	l.stopWatch(id)
	l.Linter.Cancel(id)
	l.Store.Evict(id)
	delete(l.states, id)
}

// Lint starts a pass over view regardless of the lint_on_* settings. It
// backs the flake8_lint command.
func (l *Listener) Lint(view editor.View) {
	l.Linter.Start(view, func(sess *session.Session, err error) {
		switch {
		case err == nil:
		case errors.Is(err, pipeline.ErrSkipped):
			slog.Debug("View skipped", slog.String("file", view.FileName()))
		default:
			slog.Debug("Lint aborted",
				slog.String("file", view.FileName()),
				slog.Any("error", err),
			)
		}
	})
}

func (l *Listener) stopWatch(id editor.ViewID) {
	w, ok := l.watches[id]
	if !ok {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	delete(l.watches, id)
	if l.states[id] == Unloaded || l.states[id] == Loading {
		delete(l.states, id)
	}
}

// isActive reports whether view is the active view of its own window, which
// need not be the focused window.
func (l *Listener) isActive(view editor.View) bool {
	window := view.Window()
	if window == nil {
		return false
	}
	active := window.ActiveView()
	return active != nil && active.ID() == view.ID()
}
