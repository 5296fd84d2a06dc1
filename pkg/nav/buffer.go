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

package nav

import (
	"math"
	"sort"
)

// DefaultCapacity is the number of samples kept per series
const DefaultCapacity = 1024

type sample struct {
	epoch  float64
	values [3]float64
}

// series is a time ordered window of samples, the oldest ones are dropped first
type series struct {
	samples  []sample
	capacity int
}

func (s *series) add(epoch float64, values [3]float64) {
	if epoch <= 0 {
		return
	}
	if n := len(s.samples); n > 0 {
		last := s.samples[n-1].epoch
		if epoch == last {
			s.samples[n-1].values = values
			return
		}
		if epoch < last {
			return
		}
	}
	if len(s.samples) == s.capacity {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:len(s.samples)-1]
	}
	s.samples = append(s.samples, sample{epoch: epoch, values: values})
}

// interpolate returns the linearly interpolated values at epoch, clamped to the
// first and last sample outside of the buffered window. wrap marks values that
// are angles in degrees and interpolate along the shorter arc.
func (s *series) interpolate(epoch float64, wrap [3]bool) ([3]float64, bool) {
	n := len(s.samples)
	if n == 0 {
		return [3]float64{}, false
	}
	i := sort.Search(n, func(i int) bool { return s.samples[i].epoch >= epoch })
	switch {
	case i == 0:
		return s.samples[0].values, true
	case i == n:
		return s.samples[n-1].values, true
	}
	a, b := s.samples[i-1], s.samples[i]
	f := (epoch - a.epoch) / (b.epoch - a.epoch)
	var out [3]float64
	for k := range out {
		d := b.values[k] - a.values[k]
		if wrap[k] {
			d = math.Remainder(d, 360)
		}
		out[k] = a.values[k] + f*d
		if wrap[k] {
			out[k] = normalize(out[k])
		}
	}
	return out, true
}

func (s *series) len() int {
	return len(s.samples)
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

var (
	noWrap      = [3]bool{}
	headingWrap = [3]bool{true}
)

// Buffer keeps recent navigation and attitude samples of a session and
// interpolates them at ping times. Positions and angles are in degrees,
// distances in meters. A Buffer is used by one reader and is not locked.
type Buffer struct {
	position series
	attitude series
	heading  series
	altitude series
	depth    series
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		position: series{capacity: capacity},
		attitude: series{capacity: capacity},
		heading:  series{capacity: capacity},
		altitude: series{capacity: capacity},
		depth:    series{capacity: capacity},
	}
}

func (b *Buffer) AddNavigationSample(epoch, lon, lat, speed float64) {
	b.position.add(epoch, [3]float64{lon, lat, speed})
}

func (b *Buffer) AddAttitudeSample(epoch, roll, pitch, heave float64) {
	b.attitude.add(epoch, [3]float64{roll, pitch, heave})
}

func (b *Buffer) AddHeadingSample(epoch, heading float64) {
	b.heading.add(epoch, [3]float64{normalize(heading)})
}

func (b *Buffer) AddAltitudeSample(epoch, altitude float64) {
	b.altitude.add(epoch, [3]float64{altitude})
}

func (b *Buffer) AddDepthSample(epoch, depth float64) {
	b.depth.add(epoch, [3]float64{depth})
}

// Position returns longitude and latitude at epoch
func (b *Buffer) Position(epoch float64) (lon, lat float64, ok bool) {
	v, ok := b.position.interpolate(epoch, noWrap)
	return v[0], v[1], ok
}

// Speed returns the speed over ground in m/s
func (b *Buffer) Speed(epoch float64) (float64, bool) {
	v, ok := b.position.interpolate(epoch, noWrap)
	return v[2], ok
}

func (b *Buffer) Attitude(epoch float64) (roll, pitch, heave float64, ok bool) {
	v, ok := b.attitude.interpolate(epoch, noWrap)
	return v[0], v[1], v[2], ok
}

func (b *Buffer) Heading(epoch float64) (float64, bool) {
	v, ok := b.heading.interpolate(epoch, headingWrap)
	return v[0], ok
}

func (b *Buffer) Altitude(epoch float64) (float64, bool) {
	v, ok := b.altitude.interpolate(epoch, noWrap)
	return v[0], ok
}

func (b *Buffer) Depth(epoch float64) (float64, bool) {
	v, ok := b.depth.interpolate(epoch, noWrap)
	return v[0], ok
}

// Counts returns the number of buffered samples per series
func (b *Buffer) Counts() map[string]int {
	return map[string]int{
		"position": b.position.len(),
		"attitude": b.attitude.len(),
		"heading":  b.heading.len(),
		"altitude": b.altitude.len(),
		"depth":    b.depth.len(),
	}
}
