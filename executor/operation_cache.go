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

package executor

import (
	"github.com/dgraph-io/ristretto/v2"
)

// OperationCache caches PreparedOperation created from a query to save parsing efforts. Only
// prepared documents are cached; results of execution never are.
type OperationCache interface {
	// Get looks up operation for the given query.
	Get(query string) (operation *PreparedOperation, ok bool)

	// Add adds an operation that associated with the query to the cache.
	Add(query string, operation *PreparedOperation)
}

//===----------------------------------------------------------------------------------------====//
// RistrettoOperationCache
//===----------------------------------------------------------------------------------------====//

// RistrettoOperationCache is an OperationCache with bounded number of entries backed by ristretto.
// Admission is asynchronous so an operation may not be visible to Get right after Add returns.
type RistrettoOperationCache struct {
	cache *ristretto.Cache[string, *PreparedOperation]
}

var _ OperationCache = (*RistrettoOperationCache)(nil)

// NewRistrettoOperationCache creates a cache that holds at most maxEntries operations.
func NewRistrettoOperationCache(maxEntries int64) (*RistrettoOperationCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *PreparedOperation]{
		NumCounters:        10 * maxEntries,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoOperationCache{cache}, nil
}

// Get implements OperationCache.
func (c *RistrettoOperationCache) Get(query string) (*PreparedOperation, bool) {
	return c.cache.Get(query)
}

// Add implements OperationCache.
func (c *RistrettoOperationCache) Add(query string, operation *PreparedOperation) {
	// Every operation costs 1.
	c.cache.Set(query, operation, 1)
}

// Wait blocks until buffered Adds are applied.
func (c *RistrettoOperationCache) Wait() {
	c.cache.Wait()
}

// Close stops the cache's background goroutines.
func (c *RistrettoOperationCache) Close() {
	c.cache.Close()
}

//===----------------------------------------------------------------------------------------====//
// NopOperationCache
//===----------------------------------------------------------------------------------------====//

// NopOperationCache disables caching. It doesn't store any operation.
type NopOperationCache struct{}

var _ OperationCache = NopOperationCache{}

// Get implements OperationCache.
func (NopOperationCache) Get(query string) (*PreparedOperation, bool) {
	return nil, false
}

// Add implements OperationCache.
func (NopOperationCache) Add(query string, operation *PreparedOperation) {}
