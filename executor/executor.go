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

// Package executor prepares and executes GraphQL documents on top of the graphql-go engine. It
// classifies errors by phase so every error in a response carries a "code" extension.
package executor

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// Executor prepares queries against a schema and remembers prepared documents in an OperationCache.
type Executor struct {
	schema graphql.Schema
	cache  OperationCache
}

// Config specifies options to create an Executor.
type Config struct {
	// (Required) Schema of the type system to execute operations against
	Schema graphql.Schema

	// (Optional) Cache for prepared operations. Default to NopOperationCache.
	OperationCache OperationCache
}

// New creates an Executor.
func New(config Config) *Executor {
	cache := config.OperationCache
	if cache == nil {
		cache = NopOperationCache{}
	}
	return &Executor{
		schema: config.Schema,
		cache:  cache,
	}
}

// Schema returns the schema that operations are prepared against.
func (executor *Executor) Schema() graphql.Schema {
	return executor.schema
}

// Prepare returns the prepared operation for query, preparing it when it is not in the cache.
// Documents that fail to prepare are not cached.
func (executor *Executor) Prepare(query string) (*PreparedOperation, []gqlerrors.FormattedError) {
	if operation, ok := executor.cache.Get(query); ok {
		return operation, nil
	}

	operation, errs := Prepare(executor.schema, query)
	if len(errs) > 0 {
		return nil, errs
	}

	executor.cache.Add(query, operation)
	return operation, nil
}
