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
	"math"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

// clock tracks the offset between the datalogger clock and the clock of
// side scan and sub-bottom devices. Dataloggers of the early firmware years
// drift, the device clocks do not.
type clock struct {
	lastBuggyYear int
	minOffset     float64
	staleAge      float64

	offset     float64
	measuredAt float64
	valid      bool
}

func (c *clock) buggy(t layers.Time) bool {
	return t.Year != 0 && int(t.Year) <= c.lastBuggyYear
}

// observe measures the offset from a record stamped by both clocks
func (c *clock) observe(hdr layers.Header, deviceEpoch float64) {
	if deviceEpoch <= 0 || !c.buggy(hdr.Time) {
		return
	}
	c.offset = hdr.Epoch() - deviceEpoch
	c.measuredAt = hdr.Epoch()
	c.valid = true
}

// correct returns the datalogger time of hdr moved onto the device clock.
// An old measurement has to show twice the minimum offset to be applied.
func (c *clock) correct(hdr layers.Header) (float64, bool) {
	epoch := hdr.Epoch()
	if !c.valid || !c.buggy(hdr.Time) {
		return epoch, false
	}
	threshold := c.minOffset
	if epoch-c.measuredAt > c.staleAge {
		threshold *= 2
	}
	if math.Abs(c.offset) < threshold {
		return epoch, false
	}
	return epoch - c.offset, true
}
