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

package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/botobag/placeholder-gateway/concurrent"
	"github.com/botobag/placeholder-gateway/dataloader"
	"github.com/botobag/placeholder-gateway/executor"
	"github.com/botobag/placeholder-gateway/schema"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// Request contains an operation that is ready to be executed.
type Request struct {
	Ctx         context.Context
	HTTPRequest *http.Request
	Operation   *executor.PreparedOperation
	Params      executor.ExecuteParams
}

// RequestMiddleware applies changes on Request before its operation gets executed. It can be used
// to modify ExecuteParams in Request such as setting root values and/or supplied app-specific
// context.
type RequestMiddleware interface {
	// Apply modifies request. next specifies the next action to do after applying the middleware.
	Apply(request *Request, next *RequestMiddlewareNext)
}

// The RequestMiddlewareFunc type is an adapter to allow the use of ordinary functions as
// RequestMiddleware.
type RequestMiddlewareFunc func(request *Request, next *RequestMiddlewareNext)

// Apply calls f(request, next).
func (f RequestMiddlewareFunc) Apply(request *Request, next *RequestMiddlewareNext) {
	f(request, next)
}

// RequestMiddlewareNext is provided to a RequestMiddleware to specify the next action to do.
type RequestMiddlewareNext struct {
	middlewares []RequestMiddleware

	// The index of middleware to be applied when Next is called.
	nextIndex int

	// Set when the end of chain is reached
	request *Request

	// Set when a middleware ends the chain early
	result *graphql.Result
}

// Next continues applying the next middleware in the chain.
func (next *RequestMiddlewareNext) Next(request *Request) {
	if next.done() {
		panic("cannot call Next after the middleware chain is finished")
	}

	if next.nextIndex >= len(next.middlewares) {
		next.request = request
		return
	}

	middleware := next.middlewares[next.nextIndex]
	next.nextIndex++
	middleware.Apply(request, next)

	if !next.done() {
		panic(fmt.Errorf(`"%T" must end with one of Next, NextError or NextResult on return`,
			middleware))
	}
}

// NextError stops applying rest middlewares in the chain and sends a result that includes the given
// error.
func (next *RequestMiddlewareNext) NextError(err error) {
	next.NextResult(&graphql.Result{
		Errors: []gqlerrors.FormattedError{executor.FormatError(err)},
	})
}

// NextResult stops applying rest middlewares in the chain and sends the result.
func (next *RequestMiddlewareNext) NextResult(result *graphql.Result) {
	if next.done() {
		panic("calling NextError or NextResult is not allowed after the middleware chain is finished")
	}
	next.result = result
}

func (next *RequestMiddlewareNext) done() bool {
	return next.request != nil || next.result != nil
}

// applyMiddlewares runs request through middlewares. It returns either the request to be executed or
// the result that a middleware ended the chain with.
func applyMiddlewares(middlewares []RequestMiddleware, request *Request) (*Request, *graphql.Result) {
	if len(middlewares) == 0 {
		return request, nil
	}
	next := RequestMiddlewareNext{
		middlewares: middlewares,
	}
	next.Next(request)
	return next.request, next.result
}

// LoaderMiddleware attaches a fresh DataLoader to the context of each request so fetches of the same
// endpoint within one request are shared.
type LoaderMiddleware struct {
	Fetcher schema.Fetcher
	Runner  concurrent.Executor
	Dedupe  bool
}

// Apply implements RequestMiddleware.
func (m LoaderMiddleware) Apply(request *Request, next *RequestMiddlewareNext) {
	loader, err := schema.NewLoader(schema.LoaderConfig{
		Fetcher: m.Fetcher,
		Runner:  m.Runner,
		Dedupe:  m.Dedupe,
	})
	if err != nil {
		next.NextError(err)
		return
	}
	request.Ctx = dataloader.NewContext(request.Ctx, loader)
	next.Next(request)
}
