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
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// RollPitchToTakeoff converts the launch angles of a beam to a takeoff angle
// and an azimuth, all in degrees.
//
// alpha is the angle of the beam from vertical in the along track plane
// (pitch plus steering), beta is the angle from horizontal in the across track
// plane, 90 pointing straight down. theta is measured from vertical,
// phi from the across track axis towards the along track axis.
func RollPitchToTakeoff(alpha, beta float64) (theta, phi float64) {
	a := alpha * degToRad
	b := beta * degToRad
	x := math.Sin(a)
	y := math.Cos(a) * math.Cos(b)
	z := math.Cos(a) * math.Sin(b)

	theta = math.Acos(math.Max(-1, math.Min(1, z))) * radToDeg
	if math.Abs(x) < 1e-12 && math.Abs(y) < 1e-12 {
		return theta, 0
	}
	phi = math.Atan2(x, y) * radToDeg
	return theta, phi
}

// Sounding is the cartesian decomposition of one slant range
type Sounding struct {
	AcrossTrack float64
	AlongTrack  float64
	Depth       float64
}

// Decompose splits a two way travel time into across track, along track and depth.
// Angles are in degrees, the depth is relative to the sea surface.
func Decompose(soundSpeed, travelTime, theta, phi, sensorDepth, heave float64) Sounding {
	rr := 0.5 * soundSpeed * travelTime
	t := theta * degToRad
	p := phi * degToRad
	xy := rr * math.Sin(t)
	return Sounding{
		AcrossTrack: xy * math.Cos(p),
		AlongTrack:  xy * math.Sin(p),
		Depth:       rr*math.Cos(t) + sensorDepth - heave,
	}
}
