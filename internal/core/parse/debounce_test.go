package parse

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsAfterQuietPeriod(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Close()

	done := make(chan struct{})
	d.Schedule("k", func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled fn did not run")
	}
}

func TestDebouncerSupersedesPendingWork(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Close()

	var first, second atomic.Bool
	d.Schedule("k", func(ctx context.Context) { first.Store(true) })
	d.Schedule("k", func(ctx context.Context) { second.Store(true) })

	time.Sleep(150 * time.Millisecond)

	if first.Load() {
		t.Error("superseded fn should not run")
	}
	if !second.Load() {
		t.Error("latest fn should run")
	}
}

func TestDebouncerCancelsRunningContext(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Close()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	d.Schedule("k", func(ctx context.Context) {
		close(started)
		select {
		case <-ctx.Done():
			close(cancelled)
		case <-time.After(time.Second):
		}
	})

	<-started
	// 第一個 fn 還在跑，重新排程要取消它的 context
	d.Schedule("k", func(ctx context.Context) {})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running fn context was not cancelled on supersede")
	}
}

func TestDebouncerIndependentKeys(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Close()

	var a, b atomic.Bool
	d.Schedule("a", func(ctx context.Context) { a.Store(true) })
	d.Schedule("b", func(ctx context.Context) { b.Store(true) })

	time.Sleep(150 * time.Millisecond)

	if !a.Load() || !b.Load() {
		t.Errorf("both keys should run independently, got a=%v b=%v", a.Load(), b.Load())
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Close()

	var ran atomic.Bool
	d.Schedule("k", func(ctx context.Context) { ran.Store(true) })
	d.Cancel("k")

	time.Sleep(100 * time.Millisecond)

	if ran.Load() {
		t.Error("cancelled fn should not run")
	}
}

func TestDebouncerCloseRejectsNewWork(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var ran atomic.Bool
	d.Schedule("k", func(ctx context.Context) { ran.Store(true) })
	d.Close()
	d.Schedule("k2", func(ctx context.Context) { ran.Store(true) })

	time.Sleep(100 * time.Millisecond)

	if ran.Load() {
		t.Error("no fn should run after Close")
	}
}
