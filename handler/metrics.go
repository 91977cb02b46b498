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

package handler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded in placeholder_graphql_requests_total
const (
	OutcomeOK           = "ok"
	OutcomeFieldError   = "field_error"
	OutcomePrepareError = "prepare_error"
	OutcomeBadRequest   = "bad_request"
)

// Metrics holds the Prometheus collectors updated by the handler. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the request collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placeholder",
			Subsystem: "graphql",
			Name:      "requests_total",
			Help:      "Total number of GraphQL requests by outcome",
		}, []string{"outcome"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "placeholder",
			Subsystem: "graphql",
			Name:      "request_duration_seconds",
			Help:      "Duration of GraphQL requests",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, collector := range []prometheus.Collector{m.requests, m.duration} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
