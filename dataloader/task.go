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

package dataloader

import (
	"context"
)

// Key identifies the value to be loaded. It must be comparable because it is used as a map key.
type Key interface{}

// Task represents a load of the value identified by a Key. It is shared by all callers that load the
// same key from one DataLoader.
type Task struct {
	key Key

	// Closed after value and err are set.
	done  chan struct{}
	value interface{}
	err   error
}

func newTask(key Key) *Task {
	return &Task{
		key:  key,
		done: make(chan struct{}),
	}
}

// Key returns the key that identifies the value loaded by the task.
func (task *Task) Key() Key {
	return task.key
}

// Done returns a channel that is closed when the load completes.
func (task *Task) Done() <-chan struct{} {
	return task.done
}

// complete sets the result. It must be called exactly once.
func (task *Task) complete(value interface{}, err error) {
	task.value = value
	task.err = err
	close(task.done)
}

// Await blocks until the load completes or ctx is done. In the latter case ctx.Err() is returned
// and the load keeps running for other waiters.
func (task *Task) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-task.done:
		return task.value, task.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
