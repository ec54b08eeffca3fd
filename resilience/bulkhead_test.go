package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// hold occupies one slot of b until the returned release func is called.
func hold(t *testing.T, b *Bulkhead) (release func()) {
	t.Helper()
	started := make(chan struct{})
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-done
			return nil
		})
	}()
	<-started
	return func() {
		close(done)
		<-finished
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1})
	release := hold(t, b)
	defer release()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	release := hold(t, b)
	defer release()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_WaitUntilDone_Context(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test", 1))
	release := hold(t, b)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := b.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestBulkhead_WaitUntilDone_GetsSlot(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test", 1))
	release := hold(t, b)

	got := make(chan error, 1)
	go func() {
		got <- b.Execute(context.Background(), func() error { return nil })
	}()

	time.Sleep(5 * time.Millisecond)
	release()

	select {
	case err := <-got:
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("waiting call never acquired the freed slot")
	}
}

func TestBulkhead_OnReject(t *testing.T) {
	var rejected int32
	var lastErr error
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		OnReject: func(name string, err error) {
			atomic.AddInt32(&rejected, 1)
			lastErr = err
		},
	})
	release := hold(t, b)
	_ = b.Execute(context.Background(), func() error { return nil })
	release()

	if rejected != 1 {
		t.Errorf("expected 1 reject callback, got %d", rejected)
	}
	if !errors.Is(lastErr, ErrBulkheadFull) {
		t.Errorf("expected reject error ErrBulkheadFull, got %v", lastErr)
	}
}

func TestBulkhead_AvailableAndInUse(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3})

	if b.Available() != 3 || b.InUse() != 0 {
		t.Fatalf("expected 3 free slots, got available=%d inUse=%d", b.Available(), b.InUse())
	}

	release := hold(t, b)
	if b.Available() != 2 || b.InUse() != 1 {
		t.Errorf("expected 2 free and 1 held, got available=%d inUse=%d", b.Available(), b.InUse())
	}

	release()
	if b.Available() != 3 {
		t.Errorf("expected 3 available after release, got %d", b.Available())
	}
}

func TestNewBulkhead_MinimumOneSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "pipeline.step"})
	if b.MaxConcurrent() != 1 {
		t.Errorf("expected 1 slot, got %d", b.MaxConcurrent())
	}
	if b.Name() != "pipeline.step" {
		t.Errorf("expected name pipeline.step, got %q", b.Name())
	}
}

func TestEach_BoundsConcurrency(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test", 2))

	var running, peak int32
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	out := make([]int, len(items))

	err := Each(context.Background(), b, items, func(i int) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		out[i] = i * i
		atomic.AddInt32(&running, -1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent calls, saw %d", peak)
	}
	for i, v := range out {
		if v != i*i {
			t.Errorf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestEach_JoinsErrors(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test", 4))
	boom := errors.New("boom")

	err := Each(context.Background(), b, []int{1, 2, 3}, func(i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to contain boom, got %v", err)
	}
}

func TestEach_Empty(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test", 1))
	if err := Each(context.Background(), b, []string(nil), func(string) error { return nil }); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
