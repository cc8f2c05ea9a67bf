package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSubmit(t *testing.T) {
	var (
		wg    sync.WaitGroup
		count atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		Submit(func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()

	if count.Load() != 50 {
		t.Fatalf("expected 50 jobs to run, got %d", count.Load())
	}
}

func TestPanicKeepsWorkers(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		Submit(func() {
			defer wg.Done()
			panic("job failed")
		})
	}
	wg.Wait()

	done := make(chan struct{})
	Submit(func() { close(done) })
	<-done
}

func TestSubmitContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := SubmitContext(ctx, func() { t.Errorf("expected job not to run") }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
