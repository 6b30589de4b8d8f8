package pipeline

import (
	"context"

	"github.com/google/uuid"
)

// Task is an atlas build running in the background.
//
// Progress percentages arrive on Progress in non-decreasing order; the
// channel is closed when the build ends. Wait blocks until then and returns
// the outcome. A Task never reports a Result together with an error.
type Task struct {
	// ID uniquely identifies the task.
	ID string

	progress chan int
	done     chan struct{}
	cancel   context.CancelFunc

	result *Result
	err    error
}

// Start runs Execute in a new goroutine and returns immediately.
// Canceling ctx or calling Cancel stops the build between frames.
func (r *Runner) Start(ctx context.Context, opts Options) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ID:       uuid.NewString(),
		progress: make(chan int, 101), // one slot per distinct percentage
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	user := opts.Progress
	last := -1
	opts.Progress = func(pct int) {
		if user != nil {
			user(pct)
		}
		if pct == last {
			return
		}
		last = pct
		select {
		case t.progress <- pct:
		default:
		}
	}

	go func() {
		defer cancel()
		t.result, t.err = r.Execute(ctx, opts)
		close(t.progress)
		close(t.done)
	}()
	return t
}

// Progress returns the progress stream.
func (t *Task) Progress() <-chan int { return t.progress }

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its outcome.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}

// Cancel asks the task to stop.
func (t *Task) Cancel() { t.cancel() }
