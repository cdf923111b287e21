// Package scheduler models the host editor's UI thread: callbacks run one at
// a time, either posted directly or after a delay.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped it; false means it already ran or was already stopped.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	// Post queues fn to run on the loop. It is safe to call from any
	// goroutine.
	Post(fn func())
}

// Loop runs every callback on the goroutine that called Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Run executes callbacks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			fn()
		}

		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case <-l.wake:
		}
	}
}

func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call runs fn on the loop and waits for it to finish. It returns false if
// the loop stopped first.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue = l.queue[1:]
	return fn
}

type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.fired.CompareAndSwap(false, true)
}
