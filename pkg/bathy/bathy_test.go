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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

func TestRollPitchToTakeoff(t *testing.T) {
	tests := []struct {
		name        string
		alpha, beta float64
		theta, phi  float64
	}{
		{"nadir", 0, 90, 0, 0},
		{"starboard", 0, 60, 30, 0},
		{"port", 0, 120, 30, 180},
		{"forward", 30, 90, 30, 90},
		{"aft", -30, 90, 30, -90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theta, phi := RollPitchToTakeoff(tt.alpha, tt.beta)
			assert.InDelta(t, tt.theta, theta, 1e-9)
			assert.InDelta(t, tt.phi, phi, 1e-9)
		})
	}
}

func TestDecompose(t *testing.T) {
	s := Decompose(1500, 0.02, 0, 0, 1.5, 0.5)
	assert.InDelta(t, 0, s.AcrossTrack, 1e-9)
	assert.InDelta(t, 0, s.AlongTrack, 1e-9)
	assert.InDelta(t, 15+1.5-0.5, s.Depth, 1e-9)

	s = Decompose(1500, 0.02, 45, 0, 0, 0)
	assert.InDelta(t, 15*math.Sqrt2/2, s.AcrossTrack, 1e-9)
	assert.InDelta(t, 15*math.Sqrt2/2, s.Depth, 1e-9)

	s = Decompose(1500, 0.02, 90, 90, 0, 0)
	assert.InDelta(t, 15, s.AlongTrack, 1e-9)
	assert.InDelta(t, 0, s.Depth, 1e-9)
}

func testTime() layers.Time {
	return layers.Time{Year: 2015, Day: 10, Hours: 4}
}

func rawDetectionPing(beams []uint16, angles []float32) *records.Ping {
	p := records.NewPing()
	p.Reset(11)
	d := p.RawDetection
	d.Hdr = layers.Header{Version: 5, RecordType: layers.RecordTypeRawDetection, Time: testTime()}
	d.Ping = 11
	d.SonarID = 7125
	d.Detections = uint32(len(beams))
	d.SamplingRate = 10000
	d.BeamDescriptor = beams
	for i := range beams {
		d.DetectionPoint = append(d.DetectionPoint, 200)
		d.RxAngle = append(d.RxAngle, angles[i])
		d.DetectionFlags = append(d.DetectionFlags, 0)
		d.Quality = append(d.Quality, 3)
		d.Uncertainty = append(d.Uncertainty, 0)
		d.SignalStrength = append(d.SignalStrength, 1)
	}
	p.Parts.Set(records.PartRawDetection)
	return p
}

func TestReconstructFromRawDetection(t *testing.T) {
	p := rawDetectionPing([]uint16{0, 2}, []float32{0, float32(30 * degToRad)})
	r := NewReconstructor(1500, nil)

	src, err := r.Reconstruct(p, Environment{})
	require.NoError(t, err)
	assert.Equal(t, SourceRawDetection, src)
	assert.True(t, p.Has(records.PartBathymetry))
	assert.True(t, p.Synthesized.Has(records.PartBathymetry))

	b := p.Bathymetry
	require.Equal(t, uint32(3), b.Beams)
	assert.Equal(t, uint32(11), b.Ping)
	assert.Equal(t, layers.RecordTypeBathymetry, b.Hdr.RecordType)
	assert.True(t, b.HasOptionalData())
	assert.Equal(t, b.OptionalDataOffset(), b.Hdr.OptionalDataOffset)

	// two way travel time 0.02 s, slant range 15 m
	assert.InDelta(t, 15, b.Depth[0], 1e-4)
	assert.InDelta(t, 0, b.AcrossTrack[0], 1e-4)
	assert.InDelta(t, 15*math.Cos(math.Pi/6), b.Depth[2], 1e-4)
	assert.InDelta(t, 15*math.Sin(math.Pi/6), b.AcrossTrack[2], 1e-4)
	// beam 1 had no detection
	assert.Zero(t, b.Depth[1])
	assert.Zero(t, b.Quality[1])
	assert.Equal(t, uint8(3), b.Quality[0])
}

func TestReconstructIsDeterministic(t *testing.T) {
	r := NewReconstructor(1500, nil)
	p1 := rawDetectionPing([]uint16{0, 1, 2}, []float32{-0.3, 0, 0.3})
	p2 := rawDetectionPing([]uint16{0, 1, 2}, []float32{-0.3, 0, 0.3})
	_, err := r.Reconstruct(p1, Environment{})
	require.NoError(t, err)
	_, err = r.Reconstruct(p2, Environment{})
	require.NoError(t, err)
	assert.Equal(t, p1.Bathymetry, p2.Bathymetry)

	// reusing the ping instance gives the same soundings
	again := *p1.Bathymetry
	again.Depth = append([]float32(nil), p1.Bathymetry.Depth...)
	p1.Parts.Clear(records.PartBathymetry)
	_, err = r.Reconstruct(p1, Environment{})
	require.NoError(t, err)
	assert.Equal(t, again.Depth, p1.Bathymetry.Depth)
}

func TestReconstructBeamIndexOutOfRange(t *testing.T) {
	p := rawDetectionPing([]uint16{0, 7}, []float32{0, 0})
	p.BeamGeometry.Beams = 4
	p.Parts.Set(records.PartBeamGeometry)
	_, err := NewReconstructor(1500, nil).Reconstruct(p, Environment{})
	var beamErr ErrBeamIndex
	require.True(t, errors.As(err, &beamErr))
	assert.Equal(t, 7, beamErr.Beam)
	assert.True(t, errors.Is(err, records.ErrUnintelligible))
	assert.False(t, p.Has(records.PartBathymetry))
}

func TestReconstructBadSamplingRate(t *testing.T) {
	p := rawDetectionPing([]uint16{0}, []float32{0})
	p.RawDetection.SamplingRate = 0
	_, err := NewReconstructor(1500, nil).Reconstruct(p, Environment{})
	assert.True(t, errors.Is(err, records.ErrUnintelligible))
}

func TestReconstructSoundSpeedPriority(t *testing.T) {
	r := NewReconstructor(1500, nil)
	p := records.NewPing()
	assert.Equal(t, 1500.0, r.SoundSpeed(p, Environment{}))
	assert.Equal(t, 1490.0, r.SoundSpeed(p, Environment{SoundSpeed: 1490}))
	p.SonarSettings.SoundVelocity = 1480
	p.Parts.Set(records.PartSonarSettings)
	assert.Equal(t, 1480.0, r.SoundSpeed(p, Environment{SoundSpeed: 1490}))
}

func TestReconstructFromDetectionWithSetup(t *testing.T) {
	p := records.NewPing()
	p.Reset(2)
	d := p.Detection
	d.Hdr = layers.Header{Version: 5, RecordType: layers.RecordTypeDetection, Time: testTime()}
	d.Beams = 2
	d.Range = []float32{0.02, 0.02}
	d.RxAngle = []float32{0, 0}
	d.TxAngle = []float32{0, 0}
	d.Quality = []uint32{1, 1}
	d.Uncertainty = []float32{0, 0}
	d.Intensity = []float32{0, 0}
	d.MinLimit = []float32{0, 0}
	d.MaxLimit = []float32{0, 0}
	p.Parts.Set(records.PartDetection)
	p.DetectionSetup.Beams = 2
	p.DetectionSetup.BeamDescriptor = []uint16{3, 5}
	p.Parts.Set(records.PartDetectionSetup)

	src, err := NewReconstructor(1500, nil).Reconstruct(p, Environment{})
	require.NoError(t, err)
	assert.Equal(t, SourceDetectionSetup, src)
	assert.Equal(t, uint32(6), p.Bathymetry.Beams)
	assert.InDelta(t, 15, p.Bathymetry.Depth[5], 1e-4)
	assert.Zero(t, p.Bathymetry.Depth[0])
}

type fixedMotion struct{}

func (fixedMotion) Attitude(epoch float64) (float64, float64, float64, bool) { return 0, 0, 0.5, true }
func (fixedMotion) Heading(epoch float64) (float64, bool) { return 90, true }
func (fixedMotion) Position(epoch float64) (float64, float64, bool) { return 10, 45, true }
func (fixedMotion) Depth(epoch float64) (float64, bool) { return 2, true }

func TestReconstructUsesMotion(t *testing.T) {
	p := rawDetectionPing([]uint16{0}, []float32{0})
	_, err := NewReconstructor(1500, fixedMotion{}).Reconstruct(p, Environment{})
	require.NoError(t, err)
	b := p.Bathymetry
	assert.InDelta(t, 15+2-0.5, b.Depth[0], 1e-4)
	assert.InDelta(t, 45*degToRad, b.Latitude, 1e-9)
	assert.InDelta(t, 10*degToRad, b.Longitude, 1e-9)
	assert.InDelta(t, math.Pi/2, b.Heading, 1e-6)
	assert.Equal(t, float32(2), b.VehicleDepth)
}

func TestReconstructKeepsNativeSoundings(t *testing.T) {
	p := records.NewPing()
	p.Bathymetry.Resize(1)
	p.Bathymetry.Depth[0] = 99
	p.Bathymetry.SetOptionalData(true)
	p.Parts.Set(records.PartBathymetry)
	p.Parts.Set(records.PartRawDetection)
	src, err := NewReconstructor(1500, nil).Reconstruct(p, Environment{})
	require.NoError(t, err)
	assert.Equal(t, SourceNone, src)
	assert.Equal(t, float32(99), p.Bathymetry.Depth[0])
}

func TestReconstructFromGeometry(t *testing.T) {
	p := records.NewPing()
	b := p.Bathymetry
	b.Hdr = layers.Header{Version: 4, RecordType: layers.RecordTypeBathymetry, Time: testTime()}
	b.Resize(2)
	b.Range[0] = 0.02
	b.Range[1] = 0.02
	b.Quality[0] = 0
	b.Quality[1] = 0x0f
	b.SoundVelocity = 1500
	p.Parts.Set(records.PartBathymetry)
	g := p.BeamGeometry
	g.Beams = 2
	g.AngleAlongTrack = []float32{0, 0}
	g.AngleAcrossTrack = []float32{0, float32(-30 * degToRad)}
	g.BeamwidthAlongTrack = []float32{0, 0}
	g.BeamwidthAcrossTrack = []float32{0, 0}
	p.Parts.Set(records.PartBeamGeometry)

	src, err := NewReconstructor(1400, nil).Reconstruct(p, Environment{})
	require.NoError(t, err)
	assert.Equal(t, SourceBeamGeometry, src)
	assert.Equal(t, uint16(MinBathymetryVersion), b.Hdr.Version)
	assert.Zero(t, b.Depth[0])
	assert.InDelta(t, 15*math.Cos(math.Pi/6), b.Depth[1], 1e-4)
	assert.InDelta(t, -7.5, b.AcrossTrack[1], 1e-4)
}

func swathPing(along, across float32) *records.Bathymetry {
	b := &records.Bathymetry{}
	b.Resize(2)
	b.AlongTrack[0], b.AlongTrack[1] = along, -along
	b.AcrossTrack[0], b.AcrossTrack[1] = across, -across
	b.SetOptionalData(true)
	return b
}

func TestSwapDetectorLocksRequired(t *testing.T) {
	d := NewSwapDetector(2012)
	d.SetFileYear(2008)
	for i := 0; i < SwapVotes; i++ {
		assert.Equal(t, SwapUnknown, d.Observe(swathPing(50, 1)))
	}
	assert.Equal(t, SwapRequired, d.Observe(swathPing(50, 1)))
	assert.True(t, d.Locked())

	// a normal ping no longer changes the decision
	assert.Equal(t, SwapRequired, d.Observe(swathPing(1, 50)))
	b := swathPing(50, 1)
	assert.True(t, d.Apply(b))
	assert.Equal(t, float32(1), b.AlongTrack[0])
	assert.Equal(t, float32(50), b.AcrossTrack[0])
}

func TestSwapDetectorLocksNotRequired(t *testing.T) {
	d := NewSwapDetector(2012)
	for i := 0; i < SwapVotes; i++ {
		d.Observe(swathPing(1, 50))
	}
	assert.Equal(t, SwapUnknown, d.State())
	d.Observe(swathPing(1, 50))
	assert.Equal(t, SwapNotRequired, d.State())
	b := swathPing(50, 1)
	assert.False(t, d.Apply(b))
	assert.Equal(t, float32(50), b.AlongTrack[0])
}

func TestSwapDetectorRecentFiles(t *testing.T) {
	d := NewSwapDetector(2012)
	d.SetFileYear(2014)
	assert.Equal(t, SwapNotRequired, d.State())
	assert.Equal(t, "not required", d.State().String())
	for i := 0; i <= SwapVotes; i++ {
		d.Observe(swathPing(50, 1))
	}
	assert.Equal(t, SwapNotRequired, d.State())
}

func TestSwapDetectorIgnoresPingsWithoutSoundings(t *testing.T) {
	d := NewSwapDetector(2012)
	b := swathPing(50, 1)
	b.SetOptionalData(false)
	for i := 0; i <= SwapVotes; i++ {
		d.Observe(b)
	}
	assert.Equal(t, SwapUnknown, d.State())
}

func TestSwapDetectorNeedsConsecutiveVotes(t *testing.T) {
	d := NewSwapDetector(2012)
	d.SetFileYear(2008)
	for round := 0; round < 3; round++ {
		for i := 0; i < SwapVotes; i++ {
			d.Observe(swathPing(50, 1))
		}
		// one normal ping restarts the count
		assert.Equal(t, SwapUnknown, d.Observe(swathPing(1, 50)))
	}
	for i := 0; i < SwapVotes; i++ {
		assert.Equal(t, SwapUnknown, d.Observe(swathPing(50, 1)))
	}
	assert.Equal(t, SwapRequired, d.Observe(swathPing(50, 1)))
}
