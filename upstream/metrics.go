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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded in placeholder_upstream_requests_total
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeRejected    = "rejected"
	OutcomeDecodeError = "decode_error"
	OutcomeCanceled    = "canceled"
)

// Metrics holds the Prometheus collectors updated by Client. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec   // By collection and outcome
	duration *prometheus.HistogramVec // By collection
	retries  *prometheus.CounterVec   // By collection
}

// NewMetrics creates the upstream collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placeholder",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of logical upstream fetches by outcome",
		}, []string{"collection", "outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "placeholder",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of logical upstream fetches including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),

		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "placeholder",
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of retried upstream attempts",
		}, []string{"collection"}),
	}

	for _, collector := range []prometheus.Collector{m.requests, m.duration, m.retries} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(collection Collection, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(collection), outcome).Inc()
	m.duration.WithLabelValues(string(collection)).Observe(elapsed.Seconds())
}

func (m *Metrics) retried(collection Collection) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(string(collection)).Inc()
}
