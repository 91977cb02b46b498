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

package upstream

import (
	"strconv"
)

// Collection names one of the REST collections served by the upstream.
type Collection string

// Enumeration of Collection
const (
	Comments Collection = "comments"
	Albums   Collection = "albums"
	Posts    Collection = "posts"
	Users    Collection = "users"
	Todos    Collection = "todos"
	Photos   Collection = "photos"
)

// Collections returns all collections in the order they are exposed.
func Collections() []Collection {
	return []Collection{Comments, Albums, Posts, Users, Todos, Photos}
}

// Endpoint identifies one upstream resource: either a whole collection or a single item of it.
// Endpoint is comparable and is used as the key for memoizing fetches within a request.
type Endpoint struct {
	Collection Collection
	ID         int
	HasID      bool
}

// ListEndpoint returns the endpoint of the whole collection.
func ListEndpoint(collection Collection) Endpoint {
	return Endpoint{Collection: collection}
}

// ItemEndpoint returns the endpoint of the item with the given id in collection.
func ItemEndpoint(collection Collection, id int) Endpoint {
	return Endpoint{
		Collection: collection,
		ID:         id,
		HasID:      true,
	}
}

// Path returns the path of the endpoint relative to the base URL (e.g., "posts" or "posts/1").
func (endpoint Endpoint) Path() string {
	if !endpoint.HasID {
		return string(endpoint.Collection)
	}
	return string(endpoint.Collection) + "/" + strconv.Itoa(endpoint.ID)
}

// String implements fmt.Stringer.
func (endpoint Endpoint) String() string {
	return endpoint.Path()
}
