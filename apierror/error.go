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

package apierror

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"
)

// Op describes an operation, usually as the package and method, such as "upstream.Client.Fetch".
type Op string

// Resource names the upstream collection an error is associated with (e.g., "posts").
type Resource string

// Status is the HTTP status code replied by the upstream service.
type Status int

// Kind defines the kind of error this is.
type Kind uint8

// Enumeration of Kind
const (
	KindOther               Kind = iota // Unclassified error. This value is not printed in the error message.
	KindValidation                      // Malformed or missing argument, detected before any upstream call.
	KindUpstreamUnavailable             // Transport-level failure reaching the upstream service.
	KindUpstreamRejected                // The upstream answered with a non-success status.
	KindResponseDecode                  // The upstream body could not be parsed as the expected structure.
	KindSyntax                          // The query document cannot be parsed.
	KindInternal                        // Internal error
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other error"
	case KindValidation:
		return "validation error"
	case KindUpstreamUnavailable:
		return "upstream unavailable"
	case KindUpstreamRejected:
		return "upstream rejected"
	case KindResponseDecode:
		return "response decode error"
	case KindSyntax:
		return "syntax error"
	case KindInternal:
		return "internal error"
	}
	return "unknown error kind"
}

// Code returns the machine-readable code reported in the "extensions" of a GraphQL error.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUpstreamUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	case KindUpstreamRejected:
		return "UPSTREAM_REJECTED"
	case KindResponseDecode:
		return "RESPONSE_DECODE_ERROR"
	case KindSyntax:
		return "SYNTAX_ERROR"
	case KindInternal:
		return "INTERNAL_ERROR"
	}
	return ""
}

// An Error describes a failure found while preparing a query or resolving one of its fields. When
// returned from a field resolver, the engine attaches it to the path of that field and Extensions
// supplies the data placed under "extensions" in the response.
type Error struct {
	// Message describes the error for debugging purposes.
	Message string

	// Kind is the class of error
	Kind Kind

	// Op is the operation being performed, usually the name of the method being invoked.
	Op Op

	// Resource is the upstream collection that was being fetched, if any.
	Resource Resource

	// Status is the upstream HTTP status code for KindUpstreamRejected.
	Status Status

	// The underlying error that triggered this one
	Err error
}

var _ error = (*Error)(nil)

// New builds an error value from arguments in the manner of upspin.io/errors [0]. Each argument is
// placed by its type: a Kind, an Op, a Resource, a Status or an underlying error.
//
// [0]: https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html.
func New(message string, args ...interface{}) error {
	e := &Error{
		Message: message,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case Op:
			e.Op = arg
		case Resource:
			e.Resource = arg
		case Status:
			e.Status = arg
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("apierror.New: bad call from %s:%d: %v", file, line, args)
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	// Pull kind, resource and status from underlying error when not given.
	if prev, ok := e.Err.(*Error); ok {
		if e.Kind == KindOther {
			e.Kind = prev.Kind
		}
		if len(e.Resource) == 0 {
			e.Resource = prev.Resource
		}
		if e.Status == 0 {
			e.Status = prev.Status
		}
	}

	return e
}

// Wrap is a convenient wrapper to build an Error value from an underlying error with a message.
func Wrap(err error, message string, args ...interface{}) error {
	return New(message, append(args, err)...)
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b strings.Builder
	e.printError(&b, nil)
	return b.String()
}

func (e *Error) printError(b *strings.Builder, nextErr *Error) {
	initialLen := b.Len()

	// pad appends str to the buffer if the buffer already has some data.
	pad := func(str string) {
		if b.Len() == initialLen {
			return
		}
		b.WriteString(str)
	}

	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
	}

	if len(e.Message) > 0 {
		pad(": ")
		b.WriteString(e.Message)
	}

	if e.Kind != KindOther {
		// Don't print kind if the next error has the same kind as ours.
		if nextErr == nil || nextErr.Kind != e.Kind {
			pad(": ")
			b.WriteString(e.Kind.String())
		}
	}

	if e.Err != nil {
		if prev, ok := e.Err.(*Error); ok {
			pad(":\n  ")
			prev.printError(b, e)
		} else {
			pad(": ")
			b.WriteString(e.Err.Error())
		}
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions implements gqlerrors.ExtendedError. The result always contains "code" for classified
// errors; "resource" and "status" are included when known.
func (e *Error) Extensions() map[string]interface{} {
	code := e.Kind.Code()
	if len(code) == 0 {
		return nil
	}

	extensions := map[string]interface{}{
		"code": code,
	}
	if len(e.Resource) > 0 {
		extensions["resource"] = string(e.Resource)
	}
	if e.Status != 0 {
		extensions["status"] = int(e.Status)
	}
	return extensions
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first classified *Error in err's chain, or KindOther.
func KindOf(err error) Kind {
	for err != nil {
		e, ok := As(err)
		if !ok {
			break
		}
		if e.Kind != KindOther {
			return e.Kind
		}
		err = e.Err
	}
	return KindOther
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
