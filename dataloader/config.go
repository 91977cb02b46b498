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

	"github.com/botobag/placeholder-gateway/concurrent"
)

// Loader loads the value identified by key.
type Loader interface {
	Load(ctx context.Context, key Key) (interface{}, error)
}

// The LoadFunc type is an adapter to allow the use of ordinary functions as Loader. If f is a
// function with the appropriate signature, LoadFunc(f) is a Loader that calls f.
type LoadFunc func(ctx context.Context, key Key) (interface{}, error)

// Load implements Loader by simply calling f(ctx, key).
func (f LoadFunc) Load(ctx context.Context, key Key) (interface{}, error) {
	return f(ctx, key)
}

// Config specifies:
//
//  1. The way to fetch data;
//  2. Where the fetches run;
//  3. Whether duplicate loads are collapsed.
type Config struct {
	// (Required) Loader specifies the way to load data for a key.
	Loader Loader

	// (Optional) Runner for running the loads dispatched by the loader. Each load runs in its own
	// goroutine if not set.
	Runner concurrent.Executor

	// (Optional) CacheMap specifies cache instance to cache requested and loaded data. 3 possible
	// values can be provided:
	//
	//  1. nil (when CacheMap is not set): cache is enabled and a DefaultCacheMap instance will be
	//     used.
	//  2. NoCacheMap: cache is disabled and every Load issues a fetch.
	//  3. Others: Custom cache instance that implements CacheMap interfaces.
	CacheMap CacheMap
}
