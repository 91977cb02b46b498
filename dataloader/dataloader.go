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

// Package dataloader collapses loads of the same key issued while serving one request into a single
// fetch. A DataLoader is meant to live for one request only; it is not a cache across requests.
package dataloader

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/botobag/placeholder-gateway/concurrent"
)

// DataLoader dispatches loads to its Loader and shares the result among callers asking for the same
// key.
type DataLoader struct {
	loader   Loader
	runner   concurrent.Executor
	cacheMap CacheMap

	// Number of loads dispatched to loader
	dispatched int64
}

// New initializes a DataLoader from given config.
func New(config Config) (*DataLoader, error) {
	if config.Loader == nil {
		return nil, errors.New("dataloader: Loader must be provided")
	}

	cacheMap := config.CacheMap
	if cacheMap == nil {
		cacheMap = &DefaultCacheMap{}
	}

	return &DataLoader{
		loader:   config.Loader,
		runner:   config.Runner,
		cacheMap: cacheMap,
	}, nil
}

// Load returns the task that loads the value for key. If a task for key is already known, it is
// returned and no new load is dispatched. The ctx is used by the load and also stops queued loads
// early when it is done.
func (loader *DataLoader) Load(ctx context.Context, key Key) *Task {
	task, loaded := loader.cacheMap.LoadOrStore(newTask(key))
	if !loaded {
		loader.dispatch(ctx, task)
	}
	return task
}

// LoadValue loads the value for key and waits for the result.
func (loader *DataLoader) LoadValue(ctx context.Context, key Key) (interface{}, error) {
	return loader.Load(ctx, key).Await(ctx)
}

// Clear removes the task of key from cache so the next Load dispatches a new load.
func (loader *DataLoader) Clear(key Key) {
	loader.cacheMap.Delete(key)
}

// Dispatched returns the number of loads that have been dispatched to the Loader.
func (loader *DataLoader) Dispatched() int64 {
	return atomic.LoadInt64(&loader.dispatched)
}

func (loader *DataLoader) dispatch(ctx context.Context, task *Task) {
	atomic.AddInt64(&loader.dispatched, 1)

	if loader.runner == nil {
		go func() {
			task.complete(loader.load(ctx, task.key))
		}()
		return
	}

	handle, err := loader.runner.Submit(ctx, concurrent.TaskFunc(func() (interface{}, error) {
		return loader.load(ctx, task.key)
	}))
	if err != nil {
		task.complete(nil, err)
		return
	}
	go loader.watch(ctx, task, handle)
}

func (loader *DataLoader) load(ctx context.Context, key Key) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return loader.loader.Load(ctx, key)
}

// watch completes task from handle. A load still queued when ctx is done is cancelled so it never
// reaches the Loader.
func (loader *DataLoader) watch(ctx context.Context, task *Task, handle concurrent.TaskHandle) {
	select {
	case <-handle.Done():
	case <-ctx.Done():
		if handle.Cancel() == nil {
			task.complete(nil, ctx.Err())
			return
		}
		<-handle.Done()
	}
	task.complete(handle.Result())
}

//===----------------------------------------------------------------------------------------====//
// Context
//===----------------------------------------------------------------------------------------====//

type contextKey struct{}

// NewContext returns a copy of ctx that carries loader.
func NewContext(ctx context.Context, loader *DataLoader) context.Context {
	return context.WithValue(ctx, contextKey{}, loader)
}

// FromContext returns the DataLoader attached to ctx, if any.
func FromContext(ctx context.Context) (*DataLoader, bool) {
	loader, ok := ctx.Value(contextKey{}).(*DataLoader)
	return loader, ok && loader != nil
}
