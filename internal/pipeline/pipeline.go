// Package pipeline runs one lint pass over a view: invoke the checker,
// filter its findings, map them to regions, store the session and present
// it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/checker"
	"github.com/jacobarthurs/flake8lint/internal/comparator"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/mapper"
	"github.com/jacobarthurs/flake8lint/internal/output"
	"github.com/jacobarthurs/flake8lint/internal/scheduler"
	"github.com/jacobarthurs/flake8lint/internal/session"
	"github.com/jacobarthurs/flake8lint/internal/settings"
)

// ErrorPrefix starts every configuration error shown to the user.
const ErrorPrefix = "Python Flake8 Lint error:\n"

// ErrSkipped is returned for views that are not linted: unnamed buffers and
// non-Python files.
var ErrSkipped = errors.New("view skipped")

// Runner owns the per-view lint passes of one host.
type Runner struct {
	Settings  settings.Settings
	Host      editor.Host
	Store     *session.Store
	Presenter *output.Presenter
	Scheduler scheduler.Scheduler

	// Resolve picks the checker for a pass. It defaults to checker.Resolve
	// with a locator built from Settings.
	Resolve func() (checker.Checker, error)

	mu       sync.Mutex
	inflight map[editor.ViewID]*pass
}

type pass struct {
	id     string
	cancel context.CancelFunc
}

func NewRunner(s settings.Settings, host editor.Host, store *session.Store, sched scheduler.Scheduler) *Runner {
	return &Runner{
		Settings:  s,
		Host:      host,
		Store:     store,
		Presenter: output.NewPresenter(s, host),
		Scheduler: sched,
		Resolve: func() (checker.Checker, error) {
			return checker.Resolve(s, checker.NewLocator(s))
		},
		inflight: make(map[editor.ViewID]*pass),
	}
}

// Run performs a complete pass synchronously on the calling goroutine.
func (r *Runner) Run(ctx context.Context, view editor.View) (*session.Session, error) {
	chk, path, err := r.prepare(view)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	findings, err := chk.Check(ctx, path)
	if err != nil {
		r.checkFailed(runID, path, err)
		return nil, err
	}

	return r.finish(view, runID, findings), nil
}

// Start begins a pass whose checker runs on its own goroutine. The rest of
// the pass, and done, run on the scheduler. A pass already in flight for
// the same view is cancelled first. done may be nil.
func (r *Runner) Start(view editor.View, done func(*session.Session, error)) {
	if done == nil {
		done = func(*session.Session, error) {}
	}

	chk, path, err := r.prepare(view)
	if err != nil {
		done(nil, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &pass{id: uuid.NewString(), cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.inflight[view.ID()]; ok {
		prev.cancel()
	}
	r.inflight[view.ID()] = p
	r.mu.Unlock()

	slog.Debug("Lint started",
		slog.String("run_id", p.id),
		slog.String("file", path),
	)

	go func() {
		findings, err := chk.Check(ctx, path)
		r.Scheduler.Post(func() {
			defer cancel()
			if !r.release(view.ID(), p) || ctx.Err() != nil {
				done(nil, context.Canceled)
				return
			}
			if err != nil {
				r.checkFailed(p.id, path, err)
				done(nil, err)
				return
			}
			done(r.finish(view, p.id, findings), nil)
		})
	}()
}

// Cancel stops the pass in flight for id, if any.
func (r *Runner) Cancel(id editor.ViewID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.inflight[id]
	if !ok {
		return false
	}
	p.cancel()
	delete(r.inflight, id)
	return true
}

// InFlight reports whether a pass is running for id.
func (r *Runner) InFlight(id editor.ViewID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[id]
	return ok
}

func (r *Runner) release(id editor.ViewID, p *pass) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[id] != p {
		return false
	}
	delete(r.inflight, id)
	return true
}

func (r *Runner) prepare(view editor.View) (checker.Checker, string, error) {
	path := view.FileName()
	if path == "" || !view.IsPython() {
		return nil, "", ErrSkipped
	}

	if view.IsDirty() {
		if err := view.Save(); err != nil {
			return nil, "", fmt.Errorf("failed to save %s: %w", path, err)
		}
	}

	chk, err := r.Resolve()
	if err != nil {
		r.Host.ErrorMessage(ErrorPrefix + err.Error())
		return nil, "", err
	}
	return chk, path, nil
}

func (r *Runner) checkFailed(runID, path string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	slog.Error("Lint failed",
		slog.String("run_id", runID),
		slog.String("file", path),
		slog.Any("error", err),
	)
}

func (r *Runner) finish(view editor.View, runID string, findings []analyzer.Finding) *session.Session {
	result := analyzer.Analyze(findings, view, analyzer.Options{
		Select: r.Settings.Select,
		Ignore: r.Settings.Ignore,
		Errors: r.Settings.Errors,
	})
	m := mapper.Map(view, result)

	sess := &session.Session{
		ViewID:    view.ID(),
		RunID:     runID,
		FileName:  view.FileName(),
		Errors:    m.Entries,
		Result:    result,
		Completed: time.Now(),
	}
	prev := r.Store.Replace(sess)

	attrs := []any{
		slog.String("run_id", runID),
		slog.String("file", sess.FileName),
		slog.Int("errors", result.Count(analyzer.Error)),
		slog.Int("warnings", result.Count(analyzer.Warning)),
		slog.Int("suppressed", result.Suppressed),
		slog.Int("filtered", result.Filtered),
	}
	if prev != nil {
		diff := comparator.Compare(prev.Result, result)
		attrs = append(attrs,
			slog.Int("added", diff.Summary.Added),
			slog.Int("removed", diff.Summary.Removed),
		)
	}
	slog.Debug("Lint completed", attrs...)

	r.Presenter.Present(view, sess, m)
	return sess
}
