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

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// Response is the body of a GraphQL response. Data is left out when the operation was not executed.
type Response struct {
	Data       interface{}                `json:"data,omitempty"`
	Errors     []gqlerrors.FormattedError `json:"errors,omitempty"`
	Extensions map[string]interface{}     `json:"extensions,omitempty"`
}

// ResultPresenter presents an execution result to a http.ResponseWriter.
type ResultPresenter interface {
	// Write writes result to w.
	Write(w http.ResponseWriter, r *http.Request, result *graphql.Result)
}

// DefaultResultPresenter implements a ResultPresenter used by HTTP handler to present a
// graphql.Result as JSON with status 200.
type DefaultResultPresenter struct{}

// Write implements ResultPresenter.
func (DefaultResultPresenter) Write(w http.ResponseWriter, r *http.Request, result *graphql.Result) {
	writeJSON(w, http.StatusOK, &Response{
		Data:       result.Data,
		Errors:     result.Errors,
		Extensions: result.Extensions,
	})
}

func writeJSON(w http.ResponseWriter, status int, response *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)
	stream.WriteVal(response)
	stream.Flush()
}
