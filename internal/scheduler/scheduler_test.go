package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l
}

func TestLoop_RunsInOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := range 5 {
		l.Post(func() { got = append(got, i) })
	}
	require.True(t, l.Call(func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_PostFromLoopDoesNotBlock(t *testing.T) {
	l := startLoop(t)

	ran := make(chan struct{})
	l.Post(func() {
		for range 1000 {
			l.Post(func() {})
		}
		l.Post(func() { close(ran) })
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("nested posts did not run")
	}
}

func TestLoop_AfterFuncAndStop(t *testing.T) {
	l := startLoop(t)

	var fired atomic.Int32
	l.AfterFunc(10*time.Millisecond, func() { fired.Add(1) })
	stopped := l.AfterFunc(10*time.Millisecond, func() { fired.Add(10) })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestLoop_CallAfterStop(t *testing.T) {
	l := NewLoop()
	l.Stop()
	assert.False(t, l.Call(func() {}))
}

func TestManual_Advance(t *testing.T) {
	m := NewManual()

	var got []string
	m.AfterFunc(500*time.Millisecond, func() {
		got = append(got, "a")
		m.AfterFunc(100*time.Millisecond, func() { got = append(got, "c") })
	})
	m.AfterFunc(550*time.Millisecond, func() { got = append(got, "b") })
	stopped := m.AfterFunc(200*time.Millisecond, func() { got = append(got, "x") })
	require.True(t, stopped.Stop())

	m.Advance(499 * time.Millisecond)
	assert.Empty(t, got)
	assert.Equal(t, 2, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 1499*time.Millisecond, m.Now())
	assert.Zero(t, m.Pending())
}

func TestManual_WaitFor(t *testing.T) {
	m := NewManual()

	var done atomic.Bool
	go m.Post(func() { done.Store(true) })

	assert.True(t, m.WaitFor(done.Load, time.Second))
	assert.False(t, m.WaitFor(func() bool { return false }, 10*time.Millisecond))
}
