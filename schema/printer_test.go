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

package schema_test

import (
	"github.com/botobag/placeholder-gateway/schema"
	"github.com/botobag/placeholder-gateway/upstream"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("PrintSDL", func() {
	It("prints the schema", func() {
		client, err := upstream.NewClient(upstream.Config{})
		Expect(err).ShouldNot(HaveOccurred())
		s, err := schema.New(schema.Config{Fetcher: client})
		Expect(err).ShouldNot(HaveOccurred())

		sdl := schema.PrintSDL(s)
		Expect(sdl).Should(HavePrefix(`"""Jsonplaceholder fake restful API GraphQL query"""
schema {
  query: RootQuery
}
`))
		Expect(sdl).Should(ContainSubstring(`"""Posts Information"""
type Post {
  body: String
  id: Int
  title: String
  userId: Int
}
`))
		Expect(sdl).Should(ContainSubstring(`"""User geolocation Information"""
type Geo {
  lat: String
  lng: String
}
`))
		Expect(sdl).Should(ContainSubstring(`  """Single post by ID"""
  post(id: Int!): Post
`))
		Expect(sdl).Should(ContainSubstring(`  """All posts"""
  posts: [Post]
`))
		Expect(sdl).ShouldNot(ContainSubstring("__Schema"))
		Expect(sdl).ShouldNot(ContainSubstring("scalar"))
	})
})
