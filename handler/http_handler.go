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

// Package handler serves GraphQL queries over HTTP. It parses GET and POST requests, prepares the
// query with an executor.Executor, runs the request middlewares and presents the result as JSON.
// Browsers that GET the endpoint without a query can be answered with an explorer page.
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/botobag/placeholder-gateway/executor"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// httpHandler implements a http.Handler to serve GraphQL queries from HTTP requests.
type httpHandler struct {
	executor *executor.Executor
	config   handlerConfig

	// The handler for presenting errors occurred before execution; It doesn't handle errors occurred
	// during execution (in which ResultPresenter is responsible for.)
	errorPresenter  ErrorPresenter
	resultPresenter ResultPresenter
}

// handlerConfig contains configuration for a httpHandler.
type handlerConfig struct {
	parseOptions ParseHTTPRequestOptions
	middlewares  []RequestMiddleware

	// Serves the explorer page; nil to disable.
	explorer http.Handler

	logger  *zap.Logger
	metrics *Metrics

	errorPresenter  ErrorPresenter
	resultPresenter ResultPresenter
}

// Option configures httpHandler
type Option func(config *handlerConfig)

// MaxBodySize sets the maximum number of bytes to be read from request body.
func MaxBodySize(size uint) Option {
	return func(config *handlerConfig) {
		config.parseOptions.MaxBodySize = size
	}
}

// Middlewares appends middlewares to be applied on each request before its execution. They are
// applied in the given order.
func Middlewares(middlewares ...RequestMiddleware) Option {
	return func(config *handlerConfig) {
		config.middlewares = append(config.middlewares, middlewares...)
	}
}

// Explorer enables the explorer page. The page sends its queries to endpoint.
func Explorer(title string, endpoint string) Option {
	return func(config *handlerConfig) {
		config.explorer = playground.Handler(title, endpoint)
	}
}

// Logger sets the logger to write access logs to.
func Logger(logger *zap.Logger) Option {
	return func(config *handlerConfig) {
		config.logger = logger
	}
}

// WithMetrics sets the collectors to be updated on each request.
func WithMetrics(metrics *Metrics) Option {
	return func(config *handlerConfig) {
		config.metrics = metrics
	}
}

// OverrideErrorPresenter overrides DefaultErrorPresenter.
func OverrideErrorPresenter(errorPresenter ErrorPresenter) Option {
	return func(config *handlerConfig) {
		config.errorPresenter = errorPresenter
	}
}

// OverrideResultPresenter overrides DefaultResultPresenter.
func OverrideResultPresenter(resultPresenter ResultPresenter) Option {
	return func(config *handlerConfig) {
		config.resultPresenter = resultPresenter
	}
}

var errMissingExecutor = errors.New("handler: must specify an executor")

// New creates a net/http.Handler that serves queries with e.
func New(e *executor.Executor, opts ...Option) (http.Handler, error) {
	if e == nil {
		return nil, errMissingExecutor
	}

	config := handlerConfig{
		parseOptions: ParseHTTPRequestOptions{
			MaxBodySize: DefaultMaxBodySize,
		},
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.logger == nil {
		config.logger = zap.NewNop()
	}

	resultPresenter := config.resultPresenter
	if resultPresenter == nil {
		resultPresenter = DefaultResultPresenter{}
	}

	errorPresenter := config.errorPresenter
	if errorPresenter == nil {
		errorPresenter = DefaultErrorPresenter{
			ResultPresenter: resultPresenter,
		}
	}

	return &httpHandler{
		executor:        e,
		config:          config,
		errorPresenter:  errorPresenter,
		resultPresenter: resultPresenter,
	}, nil
}

// servedRequest summarizes a served request for access logs and metrics.
type servedRequest struct {
	outcome       string
	operationName string
	errors        int
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.wantsExplorer(r) {
		h.config.explorer.ServeHTTP(w, r)
		return
	}

	start := time.Now()
	served := h.serve(w, r)
	elapsed := time.Since(start)

	h.config.metrics.observe(served.outcome, elapsed)
	h.config.logger.Info("graphql request",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("method", r.Method),
		zap.String("operation", served.operationName),
		zap.String("outcome", served.outcome),
		zap.Int("errors", served.errors),
		zap.Duration("duration", elapsed))
}

// wantsExplorer returns true for a browser visiting the endpoint without a query.
func (h *httpHandler) wantsExplorer(r *http.Request) bool {
	return h.config.explorer != nil &&
		r.Method == http.MethodGet &&
		len(r.URL.Query().Get("query")) == 0 &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (h *httpHandler) serve(w http.ResponseWriter, r *http.Request) servedRequest {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		h.errorPresenter.Write(w, r, ErrMethodNotAllowed{Request: r})
		return servedRequest{outcome: OutcomeBadRequest, errors: 1}
	}

	parsedReq, err := ParseHTTPRequest(r, &h.config.parseOptions)
	if err != nil {
		h.errorPresenter.Write(w, r, err)
		return servedRequest{outcome: OutcomeBadRequest, errors: 1}
	}

	// Empty query is an error.
	if len(parsedReq.Query) == 0 {
		h.errorPresenter.Write(w, r, ErrEmptyQuery{Request: r})
		return servedRequest{outcome: OutcomeBadRequest, errors: 1}
	}

	served := servedRequest{operationName: parsedReq.OperationName}

	operation, errs := h.executor.Prepare(parsedReq.Query)
	if len(errs) > 0 {
		h.errorPresenter.Write(w, r, &ErrPrepare{
			Request:       r,
			ParsedRequest: parsedReq,
			Errs:          errs,
		})
		served.outcome = OutcomePrepareError
		served.errors = len(errs)
		return served
	}

	request, result := applyMiddlewares(h.config.middlewares, &Request{
		Ctx:         r.Context(),
		HTTPRequest: r,
		Operation:   operation,
		Params: executor.ExecuteParams{
			OperationName:  parsedReq.OperationName,
			VariableValues: parsedReq.Variables,
		},
	})
	if result == nil {
		result = request.Operation.Execute(request.Ctx, request.Params)
	}

	h.resultPresenter.Write(w, r, result)

	served.outcome = outcomeOf(result)
	served.errors = len(result.Errors)
	return served
}

func outcomeOf(result *graphql.Result) string {
	switch {
	case len(result.Errors) == 0:
		return OutcomeOK
	case result.Data == nil:
		return OutcomePrepareError
	default:
		return OutcomeFieldError
	}
}
