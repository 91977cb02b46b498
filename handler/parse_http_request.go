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
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultMaxBodySize caps the request body read by ParseHTTPRequest when no limit is given.
const DefaultMaxBodySize = 10 << 20 // 10MB

// getOneValue returns the only value of key in values, or an empty string if there is none. More
// than one value is an error.
func getOneValue(values url.Values, key string) (string, error) {
	v := values[key]
	switch len(v) {
	case 0:
		return "", nil
	case 1:
		return v[0], nil
	default:
		return "", fmt.Errorf(`multiple values are provided to "%s", but only one expected`, key)
	}
}

// parseRequestFromValues reads query, operationName and variables from values. r is attached to the
// returned errors.
func parseRequestFromValues(r *http.Request, values url.Values) (*HTTPRequest, error) {
	var (
		req HTTPRequest
		err error
	)

	if req.Query, err = getOneValue(values, "query"); err != nil {
		return nil, &HTTPRequestParseError{Request: r, Err: err}
	}
	if req.OperationName, err = getOneValue(values, "operationName"); err != nil {
		return nil, &HTTPRequestParseError{Request: r, Err: err}
	}

	variables, err := getOneValue(values, "variables")
	if err != nil {
		return nil, &HTTPRequestParseError{Request: r, Err: err}
	}

	if len(variables) > 0 {
		if err := json.NewDecoder(strings.NewReader(variables)).Decode(&req.Variables); err != nil {
			return nil, &HTTPRequestParseError{
				Request: r,
				Err:     fmt.Errorf("variables are invalid JSON: %s", err),
			}
		}
	}

	return &req, nil
}

// ParseHTTPRequestOptions provides settings to ParseHTTPRequest.
type ParseHTTPRequestOptions struct {
	// Limit of the request body in bytes; DefaultMaxBodySize when zero.
	MaxBodySize uint
}

// HTTPRequest is a GraphQL request read from HTTP.
type HTTPRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HTTPRequestParseError is returned by ParseHTTPRequest when parsing failed.
type HTTPRequestParseError struct {
	Request *http.Request
	Err     error
}

// Error implements Go's error interface.
func (err *HTTPRequestParseError) Error() string {
	return err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *HTTPRequestParseError) Unwrap() error {
	return err.Err
}

var errRequestBodyTooLarge = errors.New("request body is too large")

// ParseHTTPRequest parses a GraphQL request from a GET or POST http.Request. Requests of other
// methods and POST bodies of unsupported content types yield an empty HTTPRequest.
func ParseHTTPRequest(r *http.Request, options *ParseHTTPRequestOptions) (*HTTPRequest, error) {
	switch r.Method {
	case http.MethodGet:
		values, err := url.ParseQuery(r.URL.RawQuery)
		if err != nil {
			return nil, &HTTPRequestParseError{Request: r, Err: err}
		}
		return parseRequestFromValues(r, values)

	case http.MethodPost:
		contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

		maxBodySize := uint(DefaultMaxBodySize)
		if options != nil && options.MaxBodySize > 0 {
			maxBodySize = options.MaxBodySize
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, int64(maxBodySize+1)))
		if err != nil {
			return nil, &HTTPRequestParseError{Request: r, Err: err}
		}

		if uint(len(body)) > maxBodySize {
			return nil, &HTTPRequestParseError{Request: r, Err: errRequestBodyTooLarge}
		}

		switch contentType {
		case "application/graphql":
			return &HTTPRequest{Query: string(body)}, nil

		case "application/x-www-form-urlencoded":
			values, err := url.ParseQuery(string(body))
			if err != nil {
				return nil, &HTTPRequestParseError{Request: r, Err: err}
			}
			return parseRequestFromValues(r, values)

		case "", "application/json":
			var req HTTPRequest
			if err := json.Unmarshal(body, &req); err != nil {
				return nil, &HTTPRequestParseError{
					Request: r,
					Err:     fmt.Errorf("POST body sent invalid JSON: %s", err),
				}
			}
			return &req, nil
		}
	}

	// No query; the caller reports it.
	return &HTTPRequest{}, nil
}
