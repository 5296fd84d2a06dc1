/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package stream

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	pingEmitted       = "emitted"
	pingSalvaged      = "salvaged"
	pingDropped       = "dropped"
	pingReconstructed = "reconstructed"
)

// Metrics holds the Prometheus metrics of readers and writers
type Metrics struct {
	recordsRead    *prometheus.CounterVec
	recordsDropped *prometheus.CounterVec
	badBytes       prometheus.Counter
	resyncs        prometheus.Counter
	pings          *prometheus.CounterVec

	recordsWritten *prometheus.CounterVec
	bytesWritten   prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg when reg is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordsRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s7k_records_read_total",
				Help: "Total number of framed records by record type",
			},
			[]string{"type"},
		),

		recordsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s7k_records_dropped_total",
				Help: "Total number of records dropped by reason",
			},
			[]string{"reason"},
		),

		badBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "s7k_bad_bytes_total",
				Help: "Total number of bytes skipped while resynchronizing",
			},
		),

		resyncs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "s7k_resyncs_total",
				Help: "Total number of resync events",
			},
		),

		pings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s7k_pings_total",
				Help: "Total number of pings by outcome",
			},
			[]string{"outcome"},
		),

		recordsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s7k_records_written_total",
				Help: "Total number of records written by record type",
			},
			[]string{"type"},
		),

		bytesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "s7k_bytes_written_total",
				Help: "Total number of bytes written",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.recordsRead,
			m.recordsDropped,
			m.badBytes,
			m.resyncs,
			m.pings,
			m.recordsWritten,
			m.bytesWritten,
		)
	}
	return m
}

func (m *Metrics) recordRead(recordType string) {
	if m != nil {
		m.recordsRead.WithLabelValues(recordType).Inc()
	}
}

func (m *Metrics) recordDropped(reason string) {
	if m != nil {
		m.recordsDropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) resync(skipped int) {
	if m != nil {
		m.resyncs.Inc()
		m.badBytes.Add(float64(skipped))
	}
}

func (m *Metrics) ping(outcome string) {
	if m != nil {
		m.pings.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) recordWritten(recordType string, size int) {
	if m != nil {
		m.recordsWritten.WithLabelValues(recordType).Inc()
		m.bytesWritten.Add(float64(size))
	}
}
