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

package apierror_test

import (
	"errors"
	"fmt"

	"github.com/botobag/placeholder-gateway/apierror"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error", func() {
	It("places arguments by their types", func() {
		underlying := errors.New("connection refused")
		err := apierror.New("GET posts/1",
			apierror.Op("upstream.Client.Fetch"),
			apierror.KindUpstreamUnavailable,
			apierror.Resource("posts"),
			underlying)

		e, ok := apierror.As(err)
		Expect(ok).Should(BeTrue())
		Expect(e.Message).Should(Equal("GET posts/1"))
		Expect(e.Op).Should(Equal(apierror.Op("upstream.Client.Fetch")))
		Expect(e.Kind).Should(Equal(apierror.KindUpstreamUnavailable))
		Expect(e.Resource).Should(Equal(apierror.Resource("posts")))
		Expect(e.Err).Should(BeIdenticalTo(underlying))
	})

	It("rejects unknown argument types", func() {
		err := apierror.New("message", 3.14)
		_, ok := apierror.As(err)
		Expect(ok).Should(BeFalse())
		Expect(err).Should(MatchError(ContainSubstring("unknown type float64")))
	})

	It("prints operation, message, kind and the underlying error", func() {
		err := apierror.New("GET posts/1", apierror.Op("upstream.Client.Fetch"),
			apierror.KindUpstreamUnavailable, errors.New("connection refused"))
		Expect(err.Error()).Should(Equal(
			"upstream.Client.Fetch: GET posts/1: upstream unavailable: connection refused"))
	})

	It("does not repeat the kind of a nested error", func() {
		inner := apierror.New("404 Not Found", apierror.KindUpstreamRejected, apierror.Status(404))
		outer := apierror.Wrap(inner, "fetch post", apierror.KindUpstreamRejected)
		Expect(outer.Error()).Should(Equal("fetch post: upstream rejected:\n  404 Not Found"))
	})

	It("inherits kind, resource and status from the underlying error", func() {
		inner := apierror.New("404 Not Found", apierror.KindUpstreamRejected,
			apierror.Resource("todos"), apierror.Status(404))
		outer, _ := apierror.As(apierror.Wrap(inner, "resolve todo"))

		Expect(outer.Kind).Should(Equal(apierror.KindUpstreamRejected))
		Expect(outer.Resource).Should(Equal(apierror.Resource("todos")))
		Expect(outer.Status).Should(Equal(apierror.Status(404)))
	})

	It("renders extensions with code, resource and status", func() {
		err, _ := apierror.As(apierror.New("404 Not Found", apierror.KindUpstreamRejected,
			apierror.Resource("posts"), apierror.Status(404)))
		Expect(err.Extensions()).Should(Equal(map[string]interface{}{
			"code":     "UPSTREAM_REJECTED",
			"resource": "posts",
			"status":   404,
		}))
	})

	It("has no extensions when unclassified", func() {
		err, _ := apierror.As(apierror.New("plain"))
		Expect(err.Extensions()).Should(BeNil())
	})

	DescribeTable("codes of every kind",
		func(kind apierror.Kind, code string) {
			Expect(kind.Code()).Should(Equal(code))
		},
		Entry("validation", apierror.KindValidation, "VALIDATION_ERROR"),
		Entry("unavailable", apierror.KindUpstreamUnavailable, "UPSTREAM_UNAVAILABLE"),
		Entry("rejected", apierror.KindUpstreamRejected, "UPSTREAM_REJECTED"),
		Entry("decode", apierror.KindResponseDecode, "RESPONSE_DECODE_ERROR"),
		Entry("syntax", apierror.KindSyntax, "SYNTAX_ERROR"),
		Entry("internal", apierror.KindInternal, "INTERNAL_ERROR"),
		Entry("other", apierror.KindOther, ""),
	)

	Describe("KindOf", func() {
		It("finds the kind through wrapped errors", func() {
			err := apierror.New("bad body", apierror.KindResponseDecode)
			wrapped := fmt.Errorf("resolve posts: %w", err)
			Expect(apierror.KindOf(wrapped)).Should(Equal(apierror.KindResponseDecode))
			Expect(apierror.Is(wrapped, apierror.KindResponseDecode)).Should(BeTrue())
		})

		It("returns KindOther for foreign errors", func() {
			Expect(apierror.KindOf(errors.New("boom"))).Should(Equal(apierror.KindOther))
			Expect(apierror.KindOf(nil)).Should(Equal(apierror.KindOther))
		})
	})
})
