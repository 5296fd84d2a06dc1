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
	"sync/atomic"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

// Result is one item returned by Reader.Read, either an assembled ping
// or a standalone record. The records it points to are owned by the reader
// and stay valid until the next call to Read.
type Result struct {
	Kind records.Kind
	// Epoch is the canonical time of the result in seconds since 1970-01-01 UTC
	Epoch  float64
	Record records.Record
	Ping   *records.Ping
	// Salvaged marks a ping emitted after a read or decode failure cut it short
	Salvaged bool
}

// NavSink receives the navigation and attitude samples found in the stream.
// Positions and angles are in degrees, distances in meters, speed in m/s.
type NavSink interface {
	AddNavigationSample(epoch, lon, lat, speed float64)
	AddAttitudeSample(epoch, roll, pitch, heave float64)
	AddHeadingSample(epoch, heading float64)
	AddAltitudeSample(epoch, altitude float64)
	AddDepthSample(epoch, depth float64)
}

type nopNavSink struct{}

func (nopNavSink) AddNavigationSample(epoch, lon, lat, speed float64)  {}
func (nopNavSink) AddAttitudeSample(epoch, roll, pitch, heave float64) {}
func (nopNavSink) AddHeadingSample(epoch, heading float64)             {}
func (nopNavSink) AddAltitudeSample(epoch, altitude float64)           {}
func (nopNavSink) AddDepthSample(epoch, depth float64)                 {}

// RecordObserver is called for every framed record with its stream offset.
// ping is -1 for records that do not belong to a ping or carry no ping number.
type RecordObserver interface {
	ObserveRecord(offset int64, hdr layers.Header, ping int64)
}

// BadRecordCounter counts resync events and the bytes skipped by them.
// It may be read from other goroutines while the reader runs.
type BadRecordCounter struct {
	events uint64
	bytes  uint64
}

func (c *BadRecordCounter) Add(skipped int) {
	atomic.AddUint64(&c.events, 1)
	atomic.AddUint64(&c.bytes, uint64(skipped))
}

func (c *BadRecordCounter) Events() uint64 {
	return atomic.LoadUint64(&c.events)
}

func (c *BadRecordCounter) Bytes() uint64 {
	return atomic.LoadUint64(&c.bytes)
}

// Stats is a snapshot of the counters of a reader session
type Stats struct {
	Records            uint64            `json:"records"`
	Types              map[string]uint64 `json:"types,omitempty"`
	BadBytes           uint64            `json:"bad_bytes"`
	Resyncs            uint64            `json:"resyncs"`
	Unintelligible     uint64            `json:"unintelligible"`
	Oversized          uint64            `json:"oversized"`
	Standalone         uint64            `json:"standalone"`
	PingsEmitted       uint64            `json:"pings_emitted"`
	PingsSalvaged      uint64            `json:"pings_salvaged"`
	PingsDropped       uint64            `json:"pings_dropped"`
	PingsReconstructed uint64            `json:"pings_reconstructed"`
	SwapState          string            `json:"swap_state"`
	Offset             int64             `json:"offset"`
}
