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

package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/botobag/placeholder-gateway/handler"
	"github.com/botobag/placeholder-gateway/server"

	"github.com/prometheus/client_golang/prometheus"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	var (
		registry *prometheus.Registry
		graphql  http.Handler
		config   server.Config
	)

	BeforeEach(func() {
		registry = prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
		registry.MustRegister(counter)
		counter.Inc()

		graphql = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{}}`))
		})

		config = server.Config{
			Addr:        "127.0.0.1:0",
			Path:        "/graphql",
			GraphQL:     graphql,
			Gatherer:    registry,
			CORSOrigins: []string{"https://example.com"},
		}
	})

	newServer := func() *server.Server {
		s, err := server.New(config)
		Expect(err).ShouldNot(HaveOccurred())
		return s
	}

	serve := func(r *http.Request) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		newServer().Handler().ServeHTTP(recorder, r)
		return recorder
	}

	It("requires a GraphQL handler", func() {
		config.GraphQL = nil
		_, err := server.New(config)
		Expect(err).Should(HaveOccurred())
	})

	It("rejects invalid path", func() {
		config.Path = "graphql"
		_, err := server.New(config)
		Expect(err).Should(MatchError(`server: invalid GraphQL path "graphql"`))
	})

	It("routes the GraphQL endpoint", func() {
		recorder := serve(httptest.NewRequest(http.MethodPost, "/graphql", nil))
		Expect(recorder.Code).Should(Equal(http.StatusOK))
		Expect(recorder.Body.String()).Should(MatchJSON(`{"data":{}}`))
		Expect(recorder.Header().Get(handler.RequestIDHeader)).ShouldNot(BeEmpty())
	})

	It("answers health checks", func() {
		recorder := serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		Expect(recorder.Code).Should(Equal(http.StatusOK))
		Expect(recorder.Body.String()).Should(MatchJSON(`{"status":"ok"}`))
	})

	It("exposes metrics", func() {
		recorder := serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(recorder.Code).Should(Equal(http.StatusOK))
		Expect(recorder.Body.String()).Should(ContainSubstring("test_total 1"))
	})

	It("does not expose metrics without a gatherer", func() {
		config.Gatherer = nil
		recorder := serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(recorder.Code).Should(Equal(http.StatusNotFound))
	})

	Describe("CORS", func() {
		It("answers preflight requests from allowed origins", func() {
			r := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
			r.Header.Set("Origin", "https://example.com")
			r.Header.Set("Access-Control-Request-Method", "POST")
			recorder := serve(r)
			Expect(recorder.Code).Should(Equal(http.StatusNoContent))
			Expect(recorder.Header().Get("Access-Control-Allow-Origin")).Should(Equal("https://example.com"))
			Expect(recorder.Header().Get("Access-Control-Allow-Methods")).Should(ContainSubstring("POST"))
		})

		It("adds no headers for other origins", func() {
			r := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			r.Header.Set("Origin", "https://evil.example")
			recorder := serve(r)
			Expect(recorder.Code).Should(Equal(http.StatusOK))
			Expect(recorder.Header().Get("Access-Control-Allow-Origin")).Should(BeEmpty())
		})

		It("allows any origin with wildcard", func() {
			config.CORSOrigins = []string{"*"}
			r := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			r.Header.Set("Origin", "https://any.example")
			recorder := serve(r)
			Expect(recorder.Header().Get("Access-Control-Allow-Origin")).Should(Equal("https://any.example"))
		})
	})

	It("serves until the context is done", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ShouldNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- newServer().Serve(ctx, listener)
		}()

		url := "http://" + listener.Addr().String() + "/healthz"
		Eventually(func() (string, error) {
			resp, err := http.Get(url)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			return string(body), err
		}, 5*time.Second, 50*time.Millisecond).Should(Equal(`{"status":"ok"}`))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})

	It("fails to run on an address in use", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ShouldNot(HaveOccurred())
		defer listener.Close()

		config.Addr = listener.Addr().String()
		err = newServer().Run(context.Background())
		Expect(err).Should(HaveOccurred())
		Expect(err.Error()).Should(HavePrefix("listen on " + config.Addr))
	})
})
