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
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// ErrorPresenter presents an error to a http.ResponseWriter.
type ErrorPresenter interface {
	// Write sends the given error to w.
	Write(w http.ResponseWriter, r *http.Request, err error)
}

// ErrMethodNotAllowed is returned for requests that are neither GET nor POST.
type ErrMethodNotAllowed struct {
	Request *http.Request
}

// Error implements Go's error interface.
func (err ErrMethodNotAllowed) Error() string {
	return "GraphQL only supports GET and POST requests."
}

// ErrEmptyQuery describes an error when an empty query is not allowed.
type ErrEmptyQuery struct {
	Request *http.Request
}

// Error implements Go's error interface.
func (err ErrEmptyQuery) Error() string {
	return "Must provide query string."
}

// ErrPrepare indicates a failure in preparing the query document for execution. The query either
// cannot be parsed or does not validate against the schema.
type ErrPrepare struct {
	Request       *http.Request
	ParsedRequest *HTTPRequest
	Errs          []gqlerrors.FormattedError
}

// Error implements Go's error interface.
func (err *ErrPrepare) Error() string {
	var buf strings.Builder
	buf.WriteString("cannot prepare executable operation for query because of following error(s):")
	for _, e := range err.Errs {
		buf.WriteString("\n\t")
		buf.WriteString(e.Message)
	}
	return buf.String()
}

// StatusOf returns the HTTP status that DefaultErrorPresenter answers err with.
func StatusOf(err error) int {
	switch err.(type) {
	case ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrEmptyQuery, *HTTPRequestParseError:
		return http.StatusBadRequest
	case *ErrPrepare:
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// DefaultErrorPresenter implements an ErrorPresenter which is default used by HTTP handler when no
// error presenter is provided.
type DefaultErrorPresenter struct {
	// ResultPresenter is used to present errors in a result.
	ResultPresenter ResultPresenter
}

// Write implements ErrorPresenter.
func (presenter DefaultErrorPresenter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)

	switch err := err.(type) {
	case *ErrPrepare:
		// Prepare errors are reported as a result without data.
		presenter.ResultPresenter.Write(w, r, &graphql.Result{Errors: err.Errs})
		return

	case ErrMethodNotAllowed:
		w.Header().Set("Allow", "GET, POST")
	}

	writeJSON(w, status, &Response{
		Errors: []gqlerrors.FormattedError{
			gqlerrors.NewFormattedError(err.Error()),
		},
	})
}
