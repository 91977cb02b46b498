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

package typegraph_test

import (
	"github.com/botobag/placeholder-gateway/typegraph"
	"github.com/graphql-go/graphql"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

// fieldTypes maps each field of object to the name of its type.
func fieldTypes(object *graphql.Object) map[string]string {
	result := map[string]string{}
	for name, field := range object.Fields() {
		result[name] = field.Type.Name()
	}
	return result
}

var _ = Describe("Type Graph", func() {
	It("lists all object types in declaration order", func() {
		var names []string
		for _, object := range typegraph.All() {
			names = append(names, object.Name())
		}
		Expect(names).Should(Equal([]string{
			"Comment", "Album", "Post", "User", "Address", "Geo", "Company", "Todo", "Photo",
		}))
	})

	It("builds without errors", func() {
		for _, object := range typegraph.All() {
			Expect(object.Error()).ShouldNot(HaveOccurred(), object.Name())
		}
	})

	DescribeTable("field declarations",
		func(object *graphql.Object, description string, fields map[string]string) {
			Expect(object.Description()).Should(Equal(description))
			Expect(fieldTypes(object)).Should(Equal(fields))
		},

		Entry("Comment", typegraph.Comment, "Post comment Information", map[string]string{
			"postId": "Int", "id": "Int", "name": "String", "email": "String", "body": "String",
		}),

		Entry("Album", typegraph.Album, "Album Information", map[string]string{
			"userId": "Int", "id": "Int", "title": "String",
		}),

		Entry("Post", typegraph.Post, "Posts Information", map[string]string{
			"userId": "Int", "id": "Int", "title": "String", "body": "String",
		}),

		Entry("User", typegraph.User, "User Information", map[string]string{
			"id":       "Int",
			"name":     "String",
			"username": "String",
			"email":    "String",
			"address":  "Address",
			"phone":    "String",
			"website":  "String",
			"company":  "Company",
		}),

		Entry("Address", typegraph.Address, "User Address Information", map[string]string{
			"street": "String", "suite": "String", "city": "String", "zipcode": "String", "geo": "Geo",
		}),

		Entry("Geo", typegraph.Geo, "User geolocation Information", map[string]string{
			"lat": "String", "lng": "String",
		}),

		Entry("Company", typegraph.Company, "User company Information", map[string]string{
			"name": "String", "catchPhrase": "String", "bs": "String",
		}),

		Entry("Todo", typegraph.Todo, "User todo Information", map[string]string{
			"userId": "Int", "id": "Int", "title": "String", "completed": "Boolean",
		}),

		Entry("Photo", typegraph.Photo, "Photo Information", map[string]string{
			"albumId": "Int", "id": "Int", "title": "String", "url": "String", "thumbnailUrl": "String",
		}),
	)

	It("declares every field nullable", func() {
		for _, object := range typegraph.All() {
			for name, field := range object.Fields() {
				_, nonNull := field.Type.(*graphql.NonNull)
				Expect(nonNull).Should(BeFalse(), "%s.%s", object.Name(), name)
			}
		}
	})
})
