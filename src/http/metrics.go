// MIT License
//
// # Copyright (c) 2024 hypercube-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/http/metrics.go
package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the verification server.
type Metrics struct {
	RequestCount       *prometheus.CounterVec
	RequestLatency     *prometheus.HistogramVec
	ErrorCount         *prometheus.CounterVec
	CacheHits          prometheus.Counter
	SignaturesVerified prometheus.Counter
}

// NewMetrics initializes Prometheus metrics for the verification server.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verify_request_count",
				Help: "Number of verification requests received",
			},
			[]string{"endpoint"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verify_request_latency_seconds",
				Help:    "Latency of verification requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		ErrorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verify_error_count",
				Help: "Number of verification request errors",
			},
			[]string{"endpoint"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "verify_cache_hits",
				Help: "Number of outcomes served from the outcome cache",
			},
		),
		SignaturesVerified: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "verify_signatures_total",
				Help: "Total signatures checked across all batches",
			},
		),
	}
}

// Register installs the collectors on the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.RequestCount,
		m.RequestLatency,
		m.ErrorCount,
		m.CacheHits,
		m.SignaturesVerified,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
