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
	"net/http"

	"github.com/onsi/gomega/ghttp"
)

// Fixtures are the bodies served by FakeUpstream, keyed by request path.
var Fixtures = map[string]interface{}{
	"/posts": []interface{}{
		map[string]interface{}{"userId": 1, "id": 1, "title": "foo", "body": "bar"},
		map[string]interface{}{"userId": 1, "id": 2, "title": "qui est esse", "body": "est rerum tempore"},
	},
	"/posts/1": map[string]interface{}{"userId": 1, "id": 1, "title": "foo", "body": "bar"},
	"/posts/2": map[string]interface{}{"userId": 1, "id": 2, "title": "qui est esse", "body": "est rerum tempore"},

	"/comments": []interface{}{
		map[string]interface{}{"postId": 1, "id": 1, "name": "id labore", "email": "Eliseo@gardner.biz", "body": "laudantium"},
	},
	"/comments/1": map[string]interface{}{"postId": 1, "id": 1, "name": "id labore", "email": "Eliseo@gardner.biz", "body": "laudantium"},

	"/albums": []interface{}{
		map[string]interface{}{"userId": 1, "id": 1, "title": "quidem molestiae enim"},
		map[string]interface{}{"userId": 1, "id": 2, "title": "sunt qui excepturi"},
	},
	"/albums/1": map[string]interface{}{"userId": 1, "id": 1, "title": "quidem molestiae enim"},

	"/users": []interface{}{
		user1,
	},
	"/users/1": user1,

	"/todos": []interface{}{
		map[string]interface{}{"userId": 1, "id": 1, "title": "delectus aut autem", "completed": false},
		map[string]interface{}{"userId": 1, "id": 4, "title": "et porro tempora", "completed": true},
	},
	"/todos/4": map[string]interface{}{"userId": 1, "id": 4, "title": "et porro tempora", "completed": true},

	"/photos": []interface{}{
		photo1,
	},
	"/photos/1": photo1,
}

var user1 = map[string]interface{}{
	"id":       1,
	"name":     "Leanne Graham",
	"username": "Bret",
	"email":    "Sincere@april.biz",
	"address": map[string]interface{}{
		"street":  "Kulas Light",
		"suite":   "Apt. 556",
		"city":    "Gwenborough",
		"zipcode": "92998-3874",
		"geo": map[string]interface{}{
			"lat": "-37.3159",
			"lng": "81.1496",
		},
	},
	"phone":   "1-770-736-8031 x56442",
	"website": "hildegard.org",
	"company": map[string]interface{}{
		"name":        "Romaguera-Crona",
		"catchPhrase": "Multi-layered client-server neural-net",
		"bs":          "harness real-time e-markets",
	},
}

var photo1 = map[string]interface{}{
	"albumId":      1,
	"id":           1,
	"title":        "accusamus beatae ad facilis cum similique qui sunt",
	"url":          "https://via.placeholder.com/600/92c952",
	"thumbnailUrl": "https://via.placeholder.com/150/92c952",
}

// FakeUpstream is a ghttp server that serves Fixtures like the JSONPlaceholder service. Paths
// without a fixture are answered with 404 and an empty object, as the real service does.
type FakeUpstream struct {
	*ghttp.Server
}

// NewFakeUpstream starts a FakeUpstream. Call Close when done.
func NewFakeUpstream() *FakeUpstream {
	server := ghttp.NewServer()
	server.SetAllowUnhandledRequests(true)
	server.SetUnhandledRequestStatusCode(http.StatusNotFound)

	for path, body := range Fixtures {
		server.RouteToHandler(http.MethodGet, path, ghttp.RespondWithJSONEncoded(http.StatusOK, body))
	}

	return &FakeUpstream{server}
}

// Respond replaces the handler of path.
func (upstream *FakeUpstream) Respond(path string, handler http.HandlerFunc) {
	upstream.RouteToHandler(http.MethodGet, path, handler)
}

// Reject makes requests to path fail with status.
func (upstream *FakeUpstream) Reject(path string, status int) {
	upstream.Respond(path, ghttp.RespondWith(status, "{}"))
}

// RequestCount returns the number of requests received for path.
func (upstream *FakeUpstream) RequestCount(path string) int {
	count := 0
	for _, req := range upstream.ReceivedRequests() {
		if req.URL.Path == path {
			count++
		}
	}
	return count
}

// TotalRequests returns the number of requests received for all paths.
func (upstream *FakeUpstream) TotalRequests() int {
	return len(upstream.ReceivedRequests())
}
