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
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

// Accumulator collects the records of the ping in progress
type Accumulator struct {
	Ping *records.Ping
	// Free is true when no ping is in progress
	Free bool

	// the first record of the next ping, read before the current one was emitted
	lookahead       []byte
	lookaheadOffset int64
	hasLookahead    bool

	// ping-less records that belong to the next ping
	pending []pendingRecord

	// time of the last decoded record that completes a ping
	geometryEpoch  float64
	correctedEpoch float64
	corrected      bool
}

type pendingRecord struct {
	part   records.Part
	data   []byte
	offset int64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		Ping: records.NewPing(),
		Free: true,
	}
}

// Start begins a new ping, forgetting the parts of the previous one
func (a *Accumulator) Start(number uint32) {
	a.Ping.Reset(number)
	a.Free = false
	a.geometryEpoch = 0
	a.correctedEpoch = 0
	a.corrected = false
}

// Clear marks the accumulator free. The parts stay readable until the next Start.
func (a *Accumulator) Clear() {
	a.Free = true
}

// LastPing returns the number of the ping in progress, -1 when there is none
func (a *Accumulator) LastPing() int64 {
	if a.Free {
		return -1
	}
	return int64(a.Ping.Number)
}

// Complete reports whether the ping in progress has any of the parts in required
func (a *Accumulator) Complete(required records.PartSet) bool {
	return !a.Free && a.Ping.Parts.Any(required)
}

func (a *Accumulator) hold(data []byte, offset int64) {
	if cap(a.lookahead) < len(data) {
		a.lookahead = make([]byte, len(data))
	}
	a.lookahead = a.lookahead[:len(data)]
	copy(a.lookahead, data)
	a.lookaheadOffset = offset
	a.hasLookahead = true
}

func (a *Accumulator) release() ([]byte, int64, bool) {
	if !a.hasLookahead {
		return nil, 0, false
	}
	a.hasLookahead = false
	return a.lookahead, a.lookaheadOffset, true
}

// HasLookahead reports whether a record of the next ping is buffered
func (a *Accumulator) HasLookahead() bool {
	return a.hasLookahead
}

// postpone keeps a copy of a record without a ping number until the next ping
// starts. A later record of the same part replaces the earlier one, which is
// reported as replaced.
func (a *Accumulator) postpone(part records.Part, data []byte, offset int64) (replaced bool) {
	for i := range a.pending {
		if a.pending[i].part == part {
			a.pending[i].data = append(a.pending[i].data[:0], data...)
			a.pending[i].offset = offset
			return true
		}
	}
	a.pending = append(a.pending, pendingRecord{
		part:   part,
		data:   append([]byte(nil), data...),
		offset: offset,
	})
	return false
}

// takePending returns the deferred records and empties the list.
// The returned records stay valid until the next call to postpone.
func (a *Accumulator) takePending() []pendingRecord {
	pending := a.pending
	a.pending = a.pending[:0]
	return pending
}

// Pending returns the number of records waiting for the next ping
func (a *Accumulator) Pending() int {
	return len(a.pending)
}
