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

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

// MinBathymetryVersion is the lowest header version whose layout carries the optional data section
const MinBathymetryVersion = 5

// MotionSource provides vehicle state interpolated at a given epoch.
// Angles are in degrees, distances in meters.
type MotionSource interface {
	Attitude(epoch float64) (roll, pitch, heave float64, ok bool)
	Heading(epoch float64) (float64, bool)
	Position(epoch float64) (lon, lat float64, ok bool)
	Depth(epoch float64) (float64, bool)
}

// Environment is the session state outside of the ping used for reconstruction
type Environment struct {
	// SoundSpeed from an auxiliary vehicle sensor, zero when unknown
	SoundSpeed   float64
	Installation *records.InstallationParameters
}

// Source tells which records the soundings were computed from
type Source int

const (
	SourceNone Source = iota
	SourceRawDetection
	SourceDetection
	SourceDetectionSetup
	SourceBeamGeometry
)

func (s Source) String() string {
	switch s {
	case SourceRawDetection:
		return "raw detection"
	case SourceDetection:
		return "detection"
	case SourceDetectionSetup:
		return "detection with setup"
	case SourceBeamGeometry:
		return "beam geometry"
	}
	return "none"
}

// Reconstructor computes the optional bathymetry section of a ping from its detections
type Reconstructor struct {
	defaultSoundSpeed float64
	motion            MotionSource
}

// NewReconstructor creates a reconstructor. motion may be nil,
// then only the ping motion record of each ping is used.
func NewReconstructor(defaultSoundSpeed float64, motion MotionSource) *Reconstructor {
	return &Reconstructor{
		defaultSoundSpeed: defaultSoundSpeed,
		motion:            motion,
	}
}

// SoundSpeed picks the sonar settings of the ping, then the auxiliary sensor, then the default
func (r *Reconstructor) SoundSpeed(p *records.Ping, env Environment) float64 {
	if p.Has(records.PartSonarSettings) && p.SonarSettings.SoundVelocity > 0 {
		return float64(p.SonarSettings.SoundVelocity)
	}
	if env.SoundSpeed > 0 {
		return env.SoundSpeed
	}
	return r.defaultSoundSpeed
}

func (r *Reconstructor) attitude(p *records.Ping, epoch float64) (roll, pitch, heave float64) {
	if p.Has(records.PartPingMotion) {
		ro, pi, he := p.PingMotion.AtTransmit()
		return float64(ro) * radToDeg, float64(pi) * radToDeg, float64(he)
	}
	if r.motion != nil {
		if ro, pi, he, ok := r.motion.Attitude(epoch); ok {
			return ro, pi, he
		}
	}
	return 0, 0, 0
}

func (r *Reconstructor) sensorDepth(epoch float64, env Environment) float64 {
	if r.motion != nil {
		if d, ok := r.motion.Depth(epoch); ok {
			return d
		}
	}
	if env.Installation != nil {
		return env.Installation.ReceiverDepth()
	}
	return 0
}

// Reconstruct fills the optional data section of the ping bathymetry.
// A ping without native bathymetry gets one synthesized from its raw or legacy
// detections, a native one without the optional section is completed from
// the beam geometry. It returns the source used, SourceNone when the ping
// has nothing to compute from or already carries georeferenced soundings.
func (r *Reconstructor) Reconstruct(p *records.Ping, env Environment) (Source, error) {
	var (
		src Source
		err error
	)
	switch {
	case p.Has(records.PartBathymetry) && p.Bathymetry.HasOptionalData():
		return SourceNone, nil
	case p.Has(records.PartBathymetry):
		if !p.Has(records.PartBeamGeometry) {
			return SourceNone, nil
		}
		src, err = r.fromGeometry(p, env)
	case p.Has(records.PartRawDetection):
		src, err = r.fromRawDetection(p, env)
	case p.Has(records.PartDetection):
		src, err = r.fromDetection(p, env)
	default:
		return SourceNone, nil
	}
	if err != nil {
		return SourceNone, err
	}
	log.Debug("Reconstructed bathymetry of ping %d from %s: %d beams", p.Number, src, p.Bathymetry.Beams)
	return src, nil
}

// beamCount is the number of beams of the ping, from the beam geometry when present
func beamCount(p *records.Ping, fallback int) int {
	if p.Has(records.PartBeamGeometry) && p.BeamGeometry.Beams > 0 {
		return int(p.BeamGeometry.Beams)
	}
	return fallback
}

// start prepares b to receive n beams synthesized from the record src
func (r *Reconstructor) start(p *records.Ping, b *records.Bathymetry, src *records.PingBase, n int, c float64) {
	hdr := src.Hdr
	hdr.RecordType = layers.RecordTypeBathymetry
	if hdr.Version < MinBathymetryVersion {
		hdr.Version = MinBathymetryVersion
	}
	b.Hdr = hdr
	b.SonarID = src.SonarID
	b.Ping = src.Ping
	b.MultiPingSequence = src.MultiPingSequence
	b.LayerCompensationFlag = 0
	b.SoundVelocityFlag = 0
	b.SoundVelocity = float32(c)
	b.Resize(n)
	for i := 0; i < n; i++ {
		b.Range[i] = 0
		b.Quality[i] = 0
		b.Intensity[i] = 0
		b.MinDepthGate[i] = 0
		b.MaxDepthGate[i] = 0
		clearSounding(b, i)
	}
	p.Parts.Set(records.PartBathymetry)
	p.Synthesized.Set(records.PartBathymetry)
}

func clearSounding(b *records.Bathymetry, i int) {
	b.Depth[i] = 0
	b.AlongTrack[i] = 0
	b.AcrossTrack[i] = 0
	b.PointingAngle[i] = 0
	b.AzimuthAngle[i] = 0
}

// finish fills the per ping fields of the optional section and points the header at it
func (r *Reconstructor) finish(p *records.Ping, b *records.Bathymetry, roll, pitch, heave, depth float64) {
	epoch := b.Hdr.Epoch()
	b.Frequency = 0
	if p.Has(records.PartSonarSettings) {
		b.Frequency = p.SonarSettings.Frequency
	}
	b.Latitude, b.Longitude, b.Heading = 0, 0, 0
	if r.motion != nil {
		if lon, lat, ok := r.motion.Position(epoch); ok {
			b.Latitude = lat * degToRad
			b.Longitude = lon * degToRad
		}
		if h, ok := r.motion.Heading(epoch); ok {
			b.Heading = float32(h * degToRad)
		}
	}
	b.HeightSource = 0
	b.Tide = 0
	b.Roll = float32(roll * degToRad)
	b.Pitch = float32(pitch * degToRad)
	b.Heave = float32(heave)
	b.VehicleDepth = float32(depth)
	b.SetOptionalData(true)
	b.Hdr.OptionalDataIdentifier = uint32(layers.RecordTypeBathymetry)
	b.Hdr.OptionalDataOffset = b.OptionalDataOffset()
}

// sound computes the sounding of beam i of b from its travel time and launch angles
func sound(b *records.Bathymetry, i int, c, travelTime, steer, rx, roll, pitch, heave, depth float64) {
	theta, phi := RollPitchToTakeoff(pitch+steer, 90+(roll-rx))
	s := Decompose(c, travelTime, theta, phi, depth, heave)
	b.Depth[i] = float32(s.Depth)
	b.AlongTrack[i] = float32(s.AlongTrack)
	b.AcrossTrack[i] = float32(s.AcrossTrack)
	b.PointingAngle[i] = float32(theta * degToRad)
	b.AzimuthAngle[i] = float32(phi * degToRad)
}

func (r *Reconstructor) fromRawDetection(p *records.Ping, env Environment) (Source, error) {
	d := p.RawDetection
	count := shortest(int(d.Detections), len(d.BeamDescriptor), len(d.DetectionPoint),
		len(d.RxAngle), len(d.Quality), len(d.SignalStrength))
	maxBeam := 0
	for i := 0; i < count; i++ {
		if int(d.BeamDescriptor[i])+1 > maxBeam {
			maxBeam = int(d.BeamDescriptor[i]) + 1
		}
	}
	n := beamCount(p, maxBeam)
	for i := 0; i < count; i++ {
		if int(d.BeamDescriptor[i]) >= n {
			return SourceNone, ErrBeamIndex{Ping: p.Number, Beam: int(d.BeamDescriptor[i]), Beams: n}
		}
	}
	if d.SamplingRate <= 0 && count > 0 {
		return SourceNone, ErrSamplingRate{Ping: p.Number, SamplingRate: d.SamplingRate}
	}

	c := r.SoundSpeed(p, env)
	b := p.Bathymetry
	r.start(p, b, &d.PingBase, n, c)
	epoch := b.Hdr.Epoch()
	roll, pitch, heave := r.attitude(p, epoch)
	depth := r.sensorDepth(epoch, env)
	steer := float64(d.TxAngle) * radToDeg

	for i := 0; i < count; i++ {
		beam := int(d.BeamDescriptor[i])
		travelTime := float64(d.DetectionPoint[i]) / float64(d.SamplingRate)
		b.Range[beam] = float32(travelTime)
		b.Quality[beam] = quality(d.Quality[i])
		b.Intensity[beam] = d.SignalStrength[i]
		rx := float64(d.RxAngle[i]) * radToDeg
		sound(b, beam, c, travelTime, steer, rx, roll, pitch, heave, depth)
	}
	r.finish(p, b, roll, pitch, heave, depth)
	return SourceRawDetection, nil
}

func (r *Reconstructor) fromDetection(p *records.Ping, env Environment) (Source, error) {
	d := p.Detection
	count := shortest(int(d.Beams), len(d.Range), len(d.RxAngle), len(d.TxAngle),
		len(d.Quality), len(d.Intensity), len(d.MinLimit), len(d.MaxLimit))

	// a detection setup of the same ping maps entries to beams
	src := SourceDetection
	var table []uint16
	if p.Has(records.PartDetectionSetup) && int(p.DetectionSetup.Beams) == count &&
		len(p.DetectionSetup.BeamDescriptor) >= count {
		table = p.DetectionSetup.BeamDescriptor[:count]
		src = SourceDetectionSetup
	}
	beamOf := func(i int) int {
		if table != nil {
			return int(table[i])
		}
		return i
	}
	maxBeam := 0
	for i := 0; i < count; i++ {
		if beamOf(i)+1 > maxBeam {
			maxBeam = beamOf(i) + 1
		}
	}
	n := beamCount(p, maxBeam)
	for i := 0; i < count; i++ {
		if beamOf(i) >= n {
			return SourceNone, ErrBeamIndex{Ping: p.Number, Beam: beamOf(i), Beams: n}
		}
	}

	c := r.SoundSpeed(p, env)
	b := p.Bathymetry
	r.start(p, b, &d.PingBase, n, c)
	epoch := b.Hdr.Epoch()
	roll, pitch, heave := r.attitude(p, epoch)
	depth := r.sensorDepth(epoch, env)

	for i := 0; i < count; i++ {
		beam := beamOf(i)
		travelTime := float64(d.Range[i])
		b.Range[beam] = d.Range[i]
		b.Quality[beam] = quality(d.Quality[i])
		b.Intensity[beam] = d.Intensity[i]
		b.MinDepthGate[beam] = d.MinLimit[i]
		b.MaxDepthGate[beam] = d.MaxLimit[i]
		steer := float64(d.TxAngle[i]) * radToDeg
		rx := float64(d.RxAngle[i]) * radToDeg
		sound(b, beam, c, travelTime, steer, rx, roll, pitch, heave, depth)
	}
	r.finish(p, b, roll, pitch, heave, depth)
	return src, nil
}

// fromGeometry completes a native bathymetry record with the beam geometry angles.
// Only beams flagged with a nonzero quality get a sounding.
func (r *Reconstructor) fromGeometry(p *records.Ping, env Environment) (Source, error) {
	b := p.Bathymetry
	g := p.BeamGeometry
	n := int(b.Beams)
	if int(g.Beams) < n || len(g.AngleAlongTrack) < n || len(g.AngleAcrossTrack) < n {
		return SourceNone, ErrBeamIndex{Ping: p.Number, Beam: n - 1, Beams: int(g.Beams)}
	}
	if len(b.Range) < n || len(b.Quality) < n {
		return SourceNone, ErrBeamIndex{Ping: p.Number, Beam: n - 1, Beams: len(b.Range)}
	}

	c := r.SoundSpeed(p, env)
	if b.SoundVelocity > 0 {
		c = float64(b.SoundVelocity)
	}
	b.Resize(n)
	epoch := b.Hdr.Epoch()
	roll, pitch, heave := r.attitude(p, epoch)
	depth := r.sensorDepth(epoch, env)

	for i := 0; i < n; i++ {
		clearSounding(b, i)
		if b.Quality[i] == 0 {
			continue
		}
		steer := float64(g.AngleAlongTrack[i]) * radToDeg
		rx := float64(g.AngleAcrossTrack[i]) * radToDeg
		sound(b, i, c, float64(b.Range[i]), steer, rx, roll, pitch, heave, depth)
	}
	if b.Hdr.Version < MinBathymetryVersion {
		b.Hdr.Version = MinBathymetryVersion
	}
	r.finish(p, b, roll, pitch, heave, depth)
	p.Synthesized.Set(records.PartBathymetry)
	return SourceBeamGeometry, nil
}

// quality keeps the detection quality flags that fit the bathymetry byte
func quality(q uint32) uint8 {
	if q > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(q)
}

// shortest bounds a count by the lengths of the arrays it indexes
func shortest(n int, lengths ...int) int {
	for _, l := range lengths {
		if l < n {
			n = l
		}
	}
	return n
}
