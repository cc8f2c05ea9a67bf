package worker

import (
	"context"
	"runtime"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for f := range workerQueue {
		run(f)
	}
}

// run calls f. A panic in f is reported to sentry and does not stop the worker.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues a function that may be CPU intensive. It blocks while the queue is full.
func Submit(f func()) {
	workerQueue <- f
}

// SubmitContext queues f like Submit, but gives up once ctx is done.
func SubmitContext(ctx context.Context, f func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case workerQueue <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
