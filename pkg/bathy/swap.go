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

package bathy

import (
	"math"

	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

// SwapVotes bounds the evidence for the swap decision: it locks once more
// than SwapVotes consecutive sampled pings agree, so the 11th agreeing ping decides.
const SwapVotes = 10

type SwapState int

const (
	SwapUnknown SwapState = iota
	SwapRequired
	SwapNotRequired
)

func (s SwapState) String() string {
	switch s {
	case SwapRequired:
		return "required"
	case SwapNotRequired:
		return "not required"
	}
	return "unknown"
}

// SwapDetector finds sessions recorded by software that wrote the along track
// and across track soundings of the optional bathymetry section swapped.
// The decision is a heuristic: a swath is much wider than it is long,
// so pings whose along track extent dominates count as evidence of the swap.
// A ping that disagrees restarts the count of the other side. Once either
// side collects more than SwapVotes pings in a row the decision holds for the session.
type SwapDetector struct {
	cutoffYear int
	state      SwapState
	swapVotes  int
	keepVotes  int
}

func NewSwapDetector(cutoffYear int) *SwapDetector {
	return &SwapDetector{cutoffYear: cutoffYear}
}

func (d *SwapDetector) State() SwapState {
	return d.state
}

func (d *SwapDetector) Locked() bool {
	return d.state != SwapUnknown
}

// SetFileYear rules the swap out for files written at or after the cutoff year
func (d *SwapDetector) SetFileYear(year int) {
	if year >= d.cutoffYear && d.state == SwapUnknown {
		d.state = SwapNotRequired
	}
}

// Observe counts the evidence of one ping and returns the current decision
func (d *SwapDetector) Observe(b *records.Bathymetry) SwapState {
	if d.Locked() || !b.HasOptionalData() {
		return d.state
	}
	var maxAlong, maxAcross float64
	for i := 0; i < int(b.Beams) && i < len(b.AlongTrack) && i < len(b.AcrossTrack); i++ {
		maxAlong = math.Max(maxAlong, math.Abs(float64(b.AlongTrack[i])))
		maxAcross = math.Max(maxAcross, math.Abs(float64(b.AcrossTrack[i])))
	}
	switch {
	case maxAlong > maxAcross:
		d.swapVotes++
		d.keepVotes = 0
	case maxAcross > maxAlong:
		d.keepVotes++
		d.swapVotes = 0
	}
	if d.swapVotes > SwapVotes {
		d.state = SwapRequired
		log.Warning("Along and across track soundings are swapped in this session, correcting")
	} else if d.keepVotes > SwapVotes {
		d.state = SwapNotRequired
	}
	return d.state
}

// Apply swaps the soundings back when the session needs it
func (d *SwapDetector) Apply(b *records.Bathymetry) bool {
	if d.state != SwapRequired || !b.HasOptionalData() {
		return false
	}
	b.SwapAlongAcross()
	return true
}
