package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobarthurs/flake8lint/internal/analyzer"
	"github.com/jacobarthurs/flake8lint/internal/checker"
	"github.com/jacobarthurs/flake8lint/internal/editor"
	"github.com/jacobarthurs/flake8lint/internal/output"
	"github.com/jacobarthurs/flake8lint/internal/scheduler"
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

type fakeChecker struct {
	findings []analyzer.Finding
	err      error
	block    chan struct{}
	calls    atomic.Int32
}

func (f *fakeChecker) Check(ctx context.Context, path string) ([]analyzer.Finding, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.findings, f.err
}

type harness struct {
	host   *editor.MemoryHost
	view   *editor.MemoryView
	store  *session.Store
	sched  *scheduler.Manual
	runner *Runner
	chk    *fakeChecker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	host := editor.NewMemoryHost()
	view := editor.NewMemoryView("/src/sample.py", source)
	host.Window().Open(view)

	store := session.NewStore()
	sched := scheduler.NewManual()
	chk := &fakeChecker{findings: sampleFindings}

	r := NewRunner(settings.Default(), host, store, sched)
	r.Presenter.Pause = 0
	r.Resolve = func() (checker.Checker, error) { return chk, nil }

	return &harness{host: host, view: view, store: store, sched: sched, runner: r, chk: chk}
}

type outcome struct {
	mu    sync.Mutex
	calls int
	sess  *session.Session
	err   error
}

func (o *outcome) done(s *session.Session, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.sess = s
	o.err = err
}

func (o *outcome) finished() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls > 0
}

func TestRun_SkipsUnnamedAndNonPython(t *testing.T) {
	h := newHarness(t)

	for _, view := range []*editor.MemoryView{
		editor.NewMemoryView("", source),
		editor.NewMemoryView("/src/notes.txt", "hello\n"),
	} {
		_, err := h.runner.Run(context.Background(), view)
		assert.ErrorIs(t, err, ErrSkipped)
	}
	assert.Equal(t, int32(0), h.chk.calls.Load())
	assert.Equal(t, 0, h.store.Len())
	assert.Empty(t, h.host.Errors())
}

func TestRun_ShebangIsPython(t *testing.T) {
	h := newHarness(t)
	view := editor.NewMemoryView("/usr/local/bin/tool", "#!/usr/bin/env python3\nimport os\n")
	h.chk.findings = []analyzer.Finding{{Line: 2, Message: "F401 'os' imported but unused"}}

	sess, err := h.runner.Run(context.Background(), view)
	require.NoError(t, err)
	assert.Len(t, sess.Errors, 1)
}

func TestRun_StoresAndPresents(t *testing.T) {
	h := newHarness(t)

	sess, err := h.runner.Run(context.Background(), h.view)
	require.NoError(t, err)
	require.NotNil(t, sess)

	stored, ok := h.store.Get(h.view.ID())
	require.True(t, ok)
	assert.Same(t, sess, stored)
	assert.NotEmpty(t, sess.RunID)
	assert.Equal(t, "/src/sample.py", sess.FileName)

	assert.Len(t, sess.Errors, 4)
	assert.Equal(t, "E271 multiple spaces after keyword", sess.Errors[29].Message)

	errs, ok := h.view.Regions(output.ErrorsKey)
	require.True(t, ok)
	assert.Len(t, errs.Regions, 1)
	warns, ok := h.view.Regions(output.WarningsKey)
	require.True(t, ok)
	assert.Len(t, warns.Regions, 4)
}

func TestRun_Idempotent(t *testing.T) {
	h := newHarness(t)

	first, err := h.runner.Run(context.Background(), h.view)
	require.NoError(t, err)
	second, err := h.runner.Run(context.Background(), h.view)
	require.NoError(t, err)

	assert.Equal(t, first.Errors, second.Errors)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 1, h.store.Len())
}

func TestRun_ReplacesPreviousSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.runner.Run(context.Background(), h.view)
	require.NoError(t, err)

	h.chk.findings = nil
	sess, err := h.runner.Run(context.Background(), h.view)
	require.NoError(t, err)

	assert.Empty(t, sess.Errors)
	got, _ := h.store.Get(h.view.ID())
	assert.Empty(t, got.Errors)
}

func TestRun_SuppressedFindingsNotMapped(t *testing.T) {
	h := newHarness(t)
	view := editor.NewMemoryView("/src/noqa.py", "import os  # noqa\n")
	h.chk.findings = []analyzer.Finding{{Line: 1, Message: "F401 'os' imported but unused"}}

	sess, err := h.runner.Run(context.Background(), view)
	require.NoError(t, err)
	assert.Empty(t, sess.Errors)
	assert.Equal(t, 1, sess.Result.Suppressed)
}

func TestRun_ConfigErrorReported(t *testing.T) {
	h := newHarness(t)
	h.runner.Resolve = func() (checker.Checker, error) {
		return nil, fmt.Errorf("python interpreter '/nope' is not found: %w", checker.ErrInterpreterNotFound)
	}

	_, err := h.runner.Run(context.Background(), h.view)
	require.Error(t, err)
	assert.ErrorIs(t, err, checker.ErrInterpreterNotFound)

	msgs := h.host.Errors()
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], ErrorPrefix))
	assert.Contains(t, msgs[0], "/nope")
	assert.Equal(t, 0, h.store.Len())
}

func TestRun_CheckerFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.chk.err = &checker.Error{Command: "flake8", Err: checker.ErrCheckerFailed}

	_, err := h.runner.Run(context.Background(), h.view)
	assert.ErrorIs(t, err, checker.ErrCheckerFailed)
	assert.Equal(t, 0, h.store.Len())
	assert.Empty(t, h.host.Errors())
	_, ok := h.view.Regions(output.ErrorsKey)
	assert.False(t, ok)
}

func TestRun_SavesDirtyView(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	view, err := editor.OpenFile(path)
	require.NoError(t, err)
	view.SetText("x=1\n")
	h.chk.findings = nil

	_, err = h.runner.Run(context.Background(), view)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Saves())
	assert.False(t, view.IsDirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x=1\n", string(data))
}

func TestStart_PostsCompletion(t *testing.T) {
	h := newHarness(t)
	var o outcome

	h.runner.Start(h.view, o.done)
	require.True(t, h.sched.WaitFor(o.finished, 5*time.Second))

	require.NoError(t, o.err)
	require.NotNil(t, o.sess)
	assert.True(t, h.store.Has(h.view.ID()))
	assert.False(t, h.runner.InFlight(h.view.ID()))
}

func TestStart_SkippedCallsDoneImmediately(t *testing.T) {
	h := newHarness(t)
	var o outcome

	h.runner.Start(editor.NewMemoryView("", ""), o.done)
	assert.True(t, o.finished())
	assert.ErrorIs(t, o.err, ErrSkipped)
}

func TestStart_NewPassCancelsPrevious(t *testing.T) {
	h := newHarness(t)
	h.chk.block = make(chan struct{})
	var first, second outcome

	h.runner.Start(h.view, first.done)
	h.runner.Start(h.view, second.done)

	require.True(t, h.sched.WaitFor(first.finished, 5*time.Second))
	assert.ErrorIs(t, first.err, context.Canceled)
	assert.False(t, second.finished())

	close(h.chk.block)
	require.True(t, h.sched.WaitFor(second.finished, 5*time.Second))
	require.NoError(t, second.err)
	assert.True(t, h.store.Has(h.view.ID()))
}

func TestCancel_DropsResult(t *testing.T) {
	h := newHarness(t)
	h.chk.block = make(chan struct{})
	var o outcome

	h.runner.Start(h.view, o.done)
	assert.True(t, h.runner.InFlight(h.view.ID()))
	assert.True(t, h.runner.Cancel(h.view.ID()))
	assert.False(t, h.runner.Cancel(h.view.ID()))

	require.True(t, h.sched.WaitFor(o.finished, 5*time.Second))
	assert.True(t, errors.Is(o.err, context.Canceled))
	assert.False(t, h.store.Has(h.view.ID()))
}
