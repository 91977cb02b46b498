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
	"sync"
)

// CacheMap remembers the task of each key loaded by one DataLoader. Implementations must be safe for
// concurrent use.
type CacheMap interface {
	// LoadOrStore returns the task already stored for the key of task with loaded set to true.
	// Otherwise it stores task and returns it with loaded set to false. The DataLoader dispatches a
	// load only for tasks that were not loaded.
	LoadOrStore(task *Task) (actual *Task, loaded bool)

	// Delete forgets the task of key.
	Delete(key Key)
}

// DefaultCacheMap is used when Config.CacheMap is not set. Keys must be comparable.
type DefaultCacheMap struct {
	tasks sync.Map
}

var _ CacheMap = (*DefaultCacheMap)(nil)

// LoadOrStore implements CacheMap.
func (cacheMap *DefaultCacheMap) LoadOrStore(task *Task) (*Task, bool) {
	actual, loaded := cacheMap.tasks.LoadOrStore(task.Key(), task)
	return actual.(*Task), loaded
}

// Delete implements CacheMap.
func (cacheMap *DefaultCacheMap) Delete(key Key) {
	cacheMap.tasks.Delete(key)
}

type noCacheMap struct{}

// NoCacheMap disables sharing: every Load dispatches its own load.
var NoCacheMap CacheMap = noCacheMap{}

func (noCacheMap) LoadOrStore(task *Task) (*Task, bool) {
	return task, false
}

func (noCacheMap) Delete(key Key) {}
