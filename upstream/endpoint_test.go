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

package upstream_test

import (
	"github.com/botobag/placeholder-gateway/upstream"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Endpoint", func() {
	It("lists collections in exposed order", func() {
		Expect(upstream.Collections()).Should(Equal([]upstream.Collection{
			upstream.Comments,
			upstream.Albums,
			upstream.Posts,
			upstream.Users,
			upstream.Todos,
			upstream.Photos,
		}))
	})

	DescribeTable("Path",
		func(endpoint upstream.Endpoint, expected string) {
			Expect(endpoint.Path()).Should(Equal(expected))
		},
		Entry("collection", upstream.ListEndpoint(upstream.Posts), "posts"),
		Entry("item", upstream.ItemEndpoint(upstream.Users, 3), "users/3"),
		Entry("item with zero id", upstream.ItemEndpoint(upstream.Todos, 0), "todos/0"),
		Entry("item with negative id", upstream.ItemEndpoint(upstream.Photos, -1), "photos/-1"),
	)

	It("is comparable", func() {
		Expect(upstream.ItemEndpoint(upstream.Posts, 1)).Should(Equal(upstream.ItemEndpoint(upstream.Posts, 1)))
		Expect(upstream.ItemEndpoint(upstream.Posts, 0)).ShouldNot(Equal(upstream.ListEndpoint(upstream.Posts)))

		seen := map[upstream.Endpoint]bool{}
		seen[upstream.ItemEndpoint(upstream.Albums, 2)] = true
		Expect(seen).Should(HaveKey(upstream.ItemEndpoint(upstream.Albums, 2)))
	})
})
