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
	"fmt"
	"sync"
	"sync/atomic"
)

//===----------------------------------------------------------------------------------------====//
// WorkerPoolExecutorConfig
//===----------------------------------------------------------------------------------------====//

// WorkerPoolExecutorConfig contains options to configure a WorkerPoolExecutor.
type WorkerPoolExecutorConfig struct {
	// The number of workers in pool (required, must be greater than 0)
	MaxPoolSize uint32

	// The number of submitted tasks that may wait for a worker. Submit blocks when the queue is full
	// until its context is done.
	// Default to 64 times MaxPoolSize.
	QueueSize uint32
}

// Validate verifies config values.
func (config *WorkerPoolExecutorConfig) Validate() error {
	if config.MaxPoolSize == 0 {
		return errors.New(`WorkerPoolExecutor: MaxPoolSize must be a non-zero value which specifies ` +
			`the maximum number of workers to be created by the executor. If you have no idea, try to ` +
			`set the value to uint32(runtime.GOMAXPROCS(-1)).`)
	}

	if config.QueueSize != 0 && config.QueueSize < config.MaxPoolSize {
		return fmt.Errorf(`WorkerPoolExecutor: QueueSize (%d) should not be less than MaxPoolSize (%d)`,
			config.QueueSize, config.MaxPoolSize)
	}
	return nil
}

//===----------------------------------------------------------------------------------------====//
// workerPoolTask
//===----------------------------------------------------------------------------------------====//

// Enumeration of workerPoolTask states. States are only allowed to transition from pending to
// either running or cancelled.
const (
	workerPoolTaskStatePending int32 = iota
	workerPoolTaskStateRunning
	workerPoolTaskStateCancelled
)

// workerPoolTask implements TaskHandle for Task executed in a WorkerPoolExecutor.
type workerPoolTask struct {
	Task

	state int32

	// Closed after result and err are set.
	done   chan struct{}
	result interface{}
	err    error
}

var _ TaskHandle = (*workerPoolTask)(nil)

func newWorkerPoolTask(task Task) *workerPoolTask {
	return &workerPoolTask{
		Task: task,
		done: make(chan struct{}),
	}
}

// Cancel implements TaskHandle.
func (task *workerPoolTask) Cancel() error {
	if !atomic.CompareAndSwapInt32(&task.state, workerPoolTaskStatePending, workerPoolTaskStateCancelled) {
		return ErrTaskNotCancellable
	}
	task.setResult(nil, ErrTaskCancelled)
	return nil
}

// run executes the task unless it has been cancelled.
func (task *workerPoolTask) run() {
	if !atomic.CompareAndSwapInt32(&task.state, workerPoolTaskStatePending, workerPoolTaskStateRunning) {
		return
	}
	task.setResult(task.Run())
}

// setResult publishes the result and closes done.
func (task *workerPoolTask) setResult(result interface{}, err error) {
	task.result = result
	task.err = err
	close(task.done)
}

// Done implements TaskHandle.
func (task *workerPoolTask) Done() <-chan struct{} {
	return task.done
}

// Result implements TaskHandle.
func (task *workerPoolTask) Result() (interface{}, error) {
	select {
	case <-task.done:
		return task.result, task.err
	default:
		return nil, nil
	}
}

//===----------------------------------------------------------------------------------------====//
// WorkerPoolExecutor
//===----------------------------------------------------------------------------------------====//

// WorkerPoolExecutor executes tasks on a fixed set of worker goroutines. It bounds the number of
// tasks running at the same time.
type WorkerPoolExecutor struct {
	// Guards shutdown and sending to queue.
	mutex    sync.RWMutex
	shutdown bool

	queue      chan *workerPoolTask
	workers    sync.WaitGroup
	terminated chan struct{}
}

var _ Executor = (*WorkerPoolExecutor)(nil)

// NewWorkerPoolExecutor creates an executor and starts its workers.
func NewWorkerPoolExecutor(config WorkerPoolExecutorConfig) (*WorkerPoolExecutor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	queueSize := config.QueueSize
	if queueSize == 0 {
		queueSize = 64 * config.MaxPoolSize
	}

	executor := &WorkerPoolExecutor{
		queue:      make(chan *workerPoolTask, queueSize),
		terminated: make(chan struct{}),
	}

	executor.workers.Add(int(config.MaxPoolSize))
	for i := uint32(0); i < config.MaxPoolSize; i++ {
		go executor.work()
	}

	go func() {
		executor.workers.Wait()
		close(executor.terminated)
	}()

	return executor, nil
}

func (executor *WorkerPoolExecutor) work() {
	defer executor.workers.Done()
	for task := range executor.queue {
		task.run()
	}
}

// Submit implements Executor.
func (executor *WorkerPoolExecutor) Submit(ctx context.Context, task Task) (TaskHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	executor.mutex.RLock()
	defer executor.mutex.RUnlock()

	if executor.shutdown {
		return nil, ErrExecutorShutdown
	}

	t := newWorkerPoolTask(task)
	select {
	case executor.queue <- t:
		return t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown implements Executor.
func (executor *WorkerPoolExecutor) Shutdown() (<-chan bool, error) {
	executor.mutex.Lock()
	if !executor.shutdown {
		executor.shutdown = true
		close(executor.queue)
	}
	executor.mutex.Unlock()

	terminated := make(chan bool, 1)
	go func() {
		<-executor.terminated
		terminated <- true
	}()
	return terminated, nil
}
