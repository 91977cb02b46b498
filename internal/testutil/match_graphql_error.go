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

package testutil

import (
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"
)

// ErrorFieldsMatcher sets up fields to match.
type ErrorFieldsMatcher func(gstruct.Fields)

// MessageEqual matches message in a gqlerrors.FormattedError to be the same as the specified
// string.
func MessageEqual(s string) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Message"] = gomega.Equal(s)
	}
}

// MessageContainSubstring matches message in a gqlerrors.FormattedError to contain the specified
// string.
func MessageContainSubstring(s string) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Message"] = gomega.ContainSubstring(s)
	}
}

// PathEqual matches the response path of a field error.
func PathEqual(path ...interface{}) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Path"] = gomega.Equal(path)
	}
}

// NoPath matches an error that is not associated with any field.
func NoPath() ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Path"] = gomega.BeEmpty()
	}
}

// CodeIs matches the "code" in the extensions of the error.
func CodeIs(code string) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Extensions"] = gomega.HaveKeyWithValue("code", code)
	}
}

// ExtensionsEqual matches the extensions of the error to be exactly the given map.
func ExtensionsEqual(extensions map[string]interface{}) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Extensions"] = gomega.Equal(extensions)
	}
}

// MatchGraphQLError matches a gqlerrors.FormattedError with given fields.
//
// The following example matches an error for field "post" replied with status 404 by the upstream:
//
//		Expect(result.Errors).Should(ConsistOf(MatchGraphQLError(
//			PathEqual("post"),
//			CodeIs("UPSTREAM_REJECTED"),
//		)))
func MatchGraphQLError(matchers ...ErrorFieldsMatcher) types.GomegaMatcher {
	fields := gstruct.Fields{}
	for _, matcher := range matchers {
		matcher(fields)
	}
	return gstruct.MatchFields(gstruct.IgnoreExtras, fields)
}
