/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package concurrent

import (
	"context"
	"errors"
)

// Task is a unit of work run by an Executor. Its return values become the result of the TaskHandle
// returned from Submit.
type Task interface {
	Run() (interface{}, error)
}

// TaskFunc adapts a plain function to Task.
type TaskFunc func() (interface{}, error)

var _ Task = (TaskFunc)(nil)

// Run implements Task.
func (f TaskFunc) Run() (interface{}, error) {
	return f()
}

var (
	// ErrTaskCancelled is the result of a task cancelled before a worker picked it up.
	ErrTaskCancelled = errors.New("task was cancelled")

	// ErrTaskNotCancellable is returned by Cancel once the task is running or finished.
	ErrTaskNotCancellable = errors.New("task cannot be cancelled once started")

	// ErrExecutorShutdown is returned by Submit after Shutdown.
	ErrExecutorShutdown = errors.New("executor has been shut down")
)

// TaskHandle is the caller's side of a submitted task.
type TaskHandle interface {
	// Cancel drops a task that is still queued. The handle then completes with ErrTaskCancelled.
	Cancel() error

	// Done is closed once Result is available.
	Done() <-chan struct{}

	// Result returns what Run returned, or ErrTaskCancelled. Only meaningful after Done is closed.
	Result() (interface{}, error)
}

// Executor runs tasks submitted to it.
type Executor interface {
	// Shutdown stops accepting tasks. Queued tasks still run; the returned channel receives once the
	// last of them has finished.
	Shutdown() (terminated <-chan bool, err error)

	// Submit queues task. It blocks while the queue is full and gives up with ctx.Err() when ctx is
	// done first.
	Submit(ctx context.Context, task Task) (TaskHandle, error)
}
