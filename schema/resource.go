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

package schema

import (
	"github.com/botobag/placeholder-gateway/typegraph"
	"github.com/botobag/placeholder-gateway/upstream"

	"github.com/graphql-go/graphql"
)

// Resource describes one upstream collection exposed on the query root as a list field named after
// the collection and a singular field that takes an id.
type Resource struct {
	Collection      upstream.Collection
	Singular        string
	Type            *graphql.Object
	ListDescription string
	GetDescription  string
}

// Resources returns every exposed resource in the order they appear on the query root.
func Resources() []Resource {
	return []Resource{
		{
			Collection:      upstream.Comments,
			Singular:        "comment",
			Type:            typegraph.Comment,
			ListDescription: "All user comments",
			GetDescription:  "Single user comment by ID",
		},
		{
			Collection:      upstream.Albums,
			Singular:        "album",
			Type:            typegraph.Album,
			ListDescription: "All albums",
			GetDescription:  "Single album by ID",
		},
		{
			Collection:      upstream.Posts,
			Singular:        "post",
			Type:            typegraph.Post,
			ListDescription: "All posts",
			GetDescription:  "Single post by ID",
		},
		{
			Collection:      upstream.Users,
			Singular:        "user",
			Type:            typegraph.User,
			ListDescription: "All users",
			GetDescription:  "Single user by ID",
		},
		{
			Collection:      upstream.Todos,
			Singular:        "todo",
			Type:            typegraph.Todo,
			ListDescription: "All todos",
			GetDescription:  "Single todo by ID",
		},
		{
			Collection:      upstream.Photos,
			Singular:        "photo",
			Type:            typegraph.Photo,
			ListDescription: "All photos",
			GetDescription:  "Single photo by ID",
		},
	}
}
