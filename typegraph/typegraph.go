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

// Package typegraph declares the object types of the JSONPlaceholder resources. Fields carry no
// resolvers: values are read out of the decoded upstream JSON object by field name, so nested
// objects such as a user's address resolve from the payload that was already fetched.
package typegraph

import (
	"github.com/graphql-go/graphql"
)

// Comment is a comment submitted under a post.
var Comment = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Comment",
	Description: "Post comment Information",
	Fields: graphql.Fields{
		"postId": &graphql.Field{Type: graphql.Int},
		"id":     &graphql.Field{Type: graphql.Int},
		"name":   &graphql.Field{Type: graphql.String},
		"email":  &graphql.Field{Type: graphql.String},
		"body":   &graphql.Field{Type: graphql.String},
	},
})

// Album is a photo album owned by a user.
var Album = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Album",
	Description: "Album Information",
	Fields: graphql.Fields{
		"userId": &graphql.Field{Type: graphql.Int},
		"id":     &graphql.Field{Type: graphql.Int},
		"title":  &graphql.Field{Type: graphql.String},
	},
})

// Post is a blog post written by a user.
var Post = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Post",
	Description: "Posts Information",
	Fields: graphql.Fields{
		"userId": &graphql.Field{Type: graphql.Int},
		"id":     &graphql.Field{Type: graphql.Int},
		"title":  &graphql.Field{Type: graphql.String},
		"body":   &graphql.Field{Type: graphql.String},
	},
})

// Geo is the geolocation embedded in an Address. Coordinates are strings upstream.
var Geo = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Geo",
	Description: "User geolocation Information",
	Fields: graphql.Fields{
		"lat": &graphql.Field{Type: graphql.String},
		"lng": &graphql.Field{Type: graphql.String},
	},
})

// Address is the postal address embedded in a User.
var Address = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Address",
	Description: "User Address Information",
	Fields: graphql.Fields{
		"street":  &graphql.Field{Type: graphql.String},
		"suite":   &graphql.Field{Type: graphql.String},
		"city":    &graphql.Field{Type: graphql.String},
		"zipcode": &graphql.Field{Type: graphql.String},
		"geo":     &graphql.Field{Type: Geo},
	},
})

// Company is the employer embedded in a User.
var Company = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Company",
	Description: "User company Information",
	Fields: graphql.Fields{
		"name":        &graphql.Field{Type: graphql.String},
		"catchPhrase": &graphql.Field{Type: graphql.String},
		"bs":          &graphql.Field{Type: graphql.String},
	},
})

// User is a registered user.
var User = graphql.NewObject(graphql.ObjectConfig{
	Name:        "User",
	Description: "User Information",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.Int},
		"name":     &graphql.Field{Type: graphql.String},
		"username": &graphql.Field{Type: graphql.String},
		"email":    &graphql.Field{Type: graphql.String},
		"address":  &graphql.Field{Type: Address},
		"phone":    &graphql.Field{Type: graphql.String},
		"website":  &graphql.Field{Type: graphql.String},
		"company":  &graphql.Field{Type: Company},
	},
})

// Todo is an item on a user's todo list.
var Todo = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Todo",
	Description: "User todo Information",
	Fields: graphql.Fields{
		"userId":    &graphql.Field{Type: graphql.Int},
		"id":        &graphql.Field{Type: graphql.Int},
		"title":     &graphql.Field{Type: graphql.String},
		"completed": &graphql.Field{Type: graphql.Boolean},
	},
})

// Photo is a picture inside an album.
var Photo = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Photo",
	Description: "Photo Information",
	Fields: graphql.Fields{
		"albumId":      &graphql.Field{Type: graphql.Int},
		"id":           &graphql.Field{Type: graphql.Int},
		"title":        &graphql.Field{Type: graphql.String},
		"url":          &graphql.Field{Type: graphql.String},
		"thumbnailUrl": &graphql.Field{Type: graphql.String},
	},
})

// All returns every object type in declaration order.
func All() []*graphql.Object {
	return []*graphql.Object{
		Comment,
		Album,
		Post,
		User,
		Address,
		Geo,
		Company,
		Todo,
		Photo,
	}
}
