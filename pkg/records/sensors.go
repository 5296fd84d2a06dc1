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

package records

import (
	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

func init() {
	register(layers.RecordTypePosition, func() Record { return &Position{} })
	register(layers.RecordTypeTide, func() Record { return &Tide{} })
	register(layers.RecordTypeAltitude, func() Record { return &Altitude{} })
	register(layers.RecordTypeDepth, func() Record { return &Depth{} })
	register(layers.RecordTypeSoundVelocityProfile, func() Record { return &SoundVelocityProfile{} })
	register(layers.RecordTypeCTD, func() Record { return &CTD{} })
	register(layers.RecordTypeRollPitchHeave, func() Record { return &RollPitchHeave{} })
	register(layers.RecordTypeHeading, func() Record { return &Heading{} })
	register(layers.RecordTypeNavigation, func() Record { return &Navigation{} })
	register(layers.RecordTypeAttitude, func() Record { return &Attitude{} })
}

// PositionGeographic is the PositionType of latitude/longitude fixes
const PositionGeographic uint8 = 0

// Position 1003. Latitude and longitude are radians when PositionType is geographic,
// otherwise northing and easting in meters.
type Position struct {
	Base
	Datum              uint32
	Latency            float32
	Latitude           float64
	Longitude          float64
	Height             float64
	PositionType       uint8
	UtmZone            uint8
	QualityFlag        uint8
	PositioningMethod  uint8
	NumberOfSatellites uint8
}

func (p *Position) Kind() Kind { return KindNavigation }

func (p *Position) DecodePayload(r *layers.FieldReader) error {
	p.Datum = r.U32()
	p.Latency = r.F32()
	p.Latitude = r.F64()
	p.Longitude = r.F64()
	p.Height = r.F64()
	p.PositionType = r.U8()
	p.UtmZone = r.U8()
	p.QualityFlag = r.U8()
	p.PositioningMethod = r.U8()
	p.NumberOfSatellites = r.U8()
	return nil
}

func (p *Position) EncodePayload(w *layers.FieldWriter) {
	w.PutU32(p.Datum)
	w.PutF32(p.Latency)
	w.PutF64(p.Latitude)
	w.PutF64(p.Longitude)
	w.PutF64(p.Height)
	w.PutU8(p.PositionType)
	w.PutU8(p.UtmZone)
	w.PutU8(p.QualityFlag)
	w.PutU8(p.PositioningMethod)
	w.PutU8(p.NumberOfSatellites)
}

func (p *Position) PayloadSize() int {
	return 4 + 4 + 3*8 + 5
}

// Tide 1005
type Tide struct {
	Base
	Tide         float32
	Source       uint16
	Flags        uint8
	Gauge        uint16
	Datum        uint32
	Latency      float32
	Latitude     float64
	Longitude    float64
	Height       float64
	PositionType uint8
	UtmZone      uint8
}

func (t *Tide) Kind() Kind { return KindTide }

func (t *Tide) DecodePayload(r *layers.FieldReader) error {
	t.Tide = r.F32()
	t.Source = r.U16()
	t.Flags = r.U8()
	t.Gauge = r.U16()
	t.Datum = r.U32()
	t.Latency = r.F32()
	t.Latitude = r.F64()
	t.Longitude = r.F64()
	t.Height = r.F64()
	t.PositionType = r.U8()
	t.UtmZone = r.U8()
	return nil
}

func (t *Tide) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(t.Tide)
	w.PutU16(t.Source)
	w.PutU8(t.Flags)
	w.PutU16(t.Gauge)
	w.PutU32(t.Datum)
	w.PutF32(t.Latency)
	w.PutF64(t.Latitude)
	w.PutF64(t.Longitude)
	w.PutF64(t.Height)
	w.PutU8(t.PositionType)
	w.PutU8(t.UtmZone)
}

func (t *Tide) PayloadSize() int {
	return 4 + 2 + 1 + 2 + 4 + 4 + 3*8 + 1 + 1
}

// Altitude 1006, distance to the seafloor in meters
type Altitude struct {
	Base
	Altitude float32
}

func (a *Altitude) Kind() Kind { return KindAltitude }

func (a *Altitude) DecodePayload(r *layers.FieldReader) error {
	a.Altitude = r.F32()
	return nil
}

func (a *Altitude) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(a.Altitude)
}

func (a *Altitude) PayloadSize() int { return 4 }

// Depth 1008, sensor depth below the surface in meters
type Depth struct {
	Base
	DepthDescriptor uint8
	CorrectionFlag  uint8
	Reserved        uint16
	Depth           float32
}

func (d *Depth) Kind() Kind { return KindSensorDepth }

func (d *Depth) DecodePayload(r *layers.FieldReader) error {
	d.DepthDescriptor = r.U8()
	d.CorrectionFlag = r.U8()
	d.Reserved = r.U16()
	d.Depth = r.F32()
	return nil
}

func (d *Depth) EncodePayload(w *layers.FieldWriter) {
	w.PutU8(d.DepthDescriptor)
	w.PutU8(d.CorrectionFlag)
	w.PutU16(d.Reserved)
	w.PutF32(d.Depth)
}

func (d *Depth) PayloadSize() int { return 8 }

// SoundVelocityProfile 1009
type SoundVelocityProfile struct {
	Base
	PositionFlag  uint8
	ReservedA     uint8
	ReservedB     uint16
	Latitude      float64
	Longitude     float64
	Samples       uint32
	Depth         []float32
	SoundVelocity []float32
}

func (s *SoundVelocityProfile) Kind() Kind { return KindVelocityProfile }

func (s *SoundVelocityProfile) DecodePayload(r *layers.FieldReader) error {
	s.PositionFlag = r.U8()
	s.ReservedA = r.U8()
	s.ReservedB = r.U16()
	s.Latitude = r.F64()
	s.Longitude = r.F64()
	s.Samples = r.U32()
	n := int(s.Samples)
	if err := checkCount("sound velocity samples", n, 8, r); err != nil {
		return err
	}
	s.Depth = grow(s.Depth, n)
	s.SoundVelocity = grow(s.SoundVelocity, n)
	for i := 0; i < n; i++ {
		s.Depth[i] = r.F32()
		s.SoundVelocity[i] = r.F32()
	}
	return nil
}

func (s *SoundVelocityProfile) EncodePayload(w *layers.FieldWriter) {
	w.PutU8(s.PositionFlag)
	w.PutU8(s.ReservedA)
	w.PutU16(s.ReservedB)
	w.PutF64(s.Latitude)
	w.PutF64(s.Longitude)
	w.PutU32(s.Samples)
	for i := 0; i < int(s.Samples); i++ {
		w.PutF32(at(s.Depth, i))
		w.PutF32(at(s.SoundVelocity, i))
	}
}

func (s *SoundVelocityProfile) PayloadSize() int {
	return 24 + 8*int(s.Samples)
}

// CTD 1010
type CTD struct {
	Base
	Frequency              float32
	SoundVelocitySource    uint8
	SoundVelocityAlgorithm uint8
	ConductivityFlag       uint8
	PressureFlag           uint8
	PositionFlag           uint8
	SampleContentValidity  uint8
	Reserved               uint16
	Latitude               float64
	Longitude              float64
	SampleRate             float32
	Samples                uint32

	Conductivity  []float32
	Temperature   []float32
	Pressure      []float32
	SoundVelocity []float32
	Absorption    []float32
}

func (c *CTD) Kind() Kind { return KindCTD }

func (c *CTD) DecodePayload(r *layers.FieldReader) error {
	c.Frequency = r.F32()
	c.SoundVelocitySource = r.U8()
	c.SoundVelocityAlgorithm = r.U8()
	c.ConductivityFlag = r.U8()
	c.PressureFlag = r.U8()
	c.PositionFlag = r.U8()
	c.SampleContentValidity = r.U8()
	c.Reserved = r.U16()
	c.Latitude = r.F64()
	c.Longitude = r.F64()
	c.SampleRate = r.F32()
	c.Samples = r.U32()
	n := int(c.Samples)
	if err := checkCount("ctd samples", n, 20, r); err != nil {
		return err
	}
	c.Conductivity = grow(c.Conductivity, n)
	c.Temperature = grow(c.Temperature, n)
	c.Pressure = grow(c.Pressure, n)
	c.SoundVelocity = grow(c.SoundVelocity, n)
	c.Absorption = grow(c.Absorption, n)
	for i := 0; i < n; i++ {
		c.Conductivity[i] = r.F32()
		c.Temperature[i] = r.F32()
		c.Pressure[i] = r.F32()
		c.SoundVelocity[i] = r.F32()
		c.Absorption[i] = r.F32()
	}
	return nil
}

func (c *CTD) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(c.Frequency)
	w.PutU8(c.SoundVelocitySource)
	w.PutU8(c.SoundVelocityAlgorithm)
	w.PutU8(c.ConductivityFlag)
	w.PutU8(c.PressureFlag)
	w.PutU8(c.PositionFlag)
	w.PutU8(c.SampleContentValidity)
	w.PutU16(c.Reserved)
	w.PutF64(c.Latitude)
	w.PutF64(c.Longitude)
	w.PutF32(c.SampleRate)
	w.PutU32(c.Samples)
	for i := 0; i < int(c.Samples); i++ {
		w.PutF32(at(c.Conductivity, i))
		w.PutF32(at(c.Temperature, i))
		w.PutF32(at(c.Pressure, i))
		w.PutF32(at(c.SoundVelocity, i))
		w.PutF32(at(c.Absorption, i))
	}
}

func (c *CTD) PayloadSize() int {
	return 36 + 20*int(c.Samples)
}

// RollPitchHeave 1012, radians and meters
type RollPitchHeave struct {
	Base
	Roll  float32
	Pitch float32
	Heave float32
}

func (a *RollPitchHeave) Kind() Kind { return KindAttitude }

func (a *RollPitchHeave) DecodePayload(r *layers.FieldReader) error {
	a.Roll = r.F32()
	a.Pitch = r.F32()
	a.Heave = r.F32()
	return nil
}

func (a *RollPitchHeave) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(a.Roll)
	w.PutF32(a.Pitch)
	w.PutF32(a.Heave)
}

func (a *RollPitchHeave) PayloadSize() int { return 12 }

// Heading 1013, radians
type Heading struct {
	Base
	Heading float32
}

func (h *Heading) Kind() Kind { return KindHeading }

func (h *Heading) DecodePayload(r *layers.FieldReader) error {
	h.Heading = r.F32()
	return nil
}

func (h *Heading) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(h.Heading)
}

func (h *Heading) PayloadSize() int { return 4 }

// Navigation 1015, latitude and longitude in radians
type Navigation struct {
	Base
	VerticalReference  uint8
	Latitude           float64
	Longitude          float64
	HorizontalAccuracy float32
	VesselHeight       float32
	HeightAccuracy     float32
	SpeedOverGround    float32
	CourseOverGround   float32
	Heading            float32
}

func (n *Navigation) Kind() Kind { return KindNavigation }

func (n *Navigation) DecodePayload(r *layers.FieldReader) error {
	n.VerticalReference = r.U8()
	n.Latitude = r.F64()
	n.Longitude = r.F64()
	n.HorizontalAccuracy = r.F32()
	n.VesselHeight = r.F32()
	n.HeightAccuracy = r.F32()
	n.SpeedOverGround = r.F32()
	n.CourseOverGround = r.F32()
	n.Heading = r.F32()
	return nil
}

func (n *Navigation) EncodePayload(w *layers.FieldWriter) {
	w.PutU8(n.VerticalReference)
	w.PutF64(n.Latitude)
	w.PutF64(n.Longitude)
	w.PutF32(n.HorizontalAccuracy)
	w.PutF32(n.VesselHeight)
	w.PutF32(n.HeightAccuracy)
	w.PutF32(n.SpeedOverGround)
	w.PutF32(n.CourseOverGround)
	w.PutF32(n.Heading)
}

func (n *Navigation) PayloadSize() int {
	return 1 + 2*8 + 6*4
}

// Attitude 1016, a series of motion samples.
// TimeOffset is milliseconds after the record time.
type Attitude struct {
	Base
	Samples    uint8
	TimeOffset []uint16
	Roll       []float32
	Pitch      []float32
	Heave      []float32
	Heading    []float32
}

func (a *Attitude) Kind() Kind { return KindAttitude }

// SampleEpoch returns the time of sample i
func (a *Attitude) SampleEpoch(i int) float64 {
	return a.Hdr.Epoch() + float64(at(a.TimeOffset, i))/1000
}

func (a *Attitude) DecodePayload(r *layers.FieldReader) error {
	a.Samples = r.U8()
	n := int(a.Samples)
	if err := checkCount("attitude samples", n, 18, r); err != nil {
		return err
	}
	a.TimeOffset = grow(a.TimeOffset, n)
	a.Roll = grow(a.Roll, n)
	a.Pitch = grow(a.Pitch, n)
	a.Heave = grow(a.Heave, n)
	a.Heading = grow(a.Heading, n)
	for i := 0; i < n; i++ {
		a.TimeOffset[i] = r.U16()
		a.Roll[i] = r.F32()
		a.Pitch[i] = r.F32()
		a.Heave[i] = r.F32()
		a.Heading[i] = r.F32()
	}
	return nil
}

func (a *Attitude) EncodePayload(w *layers.FieldWriter) {
	w.PutU8(a.Samples)
	for i := 0; i < int(a.Samples); i++ {
		w.PutU16(at(a.TimeOffset, i))
		w.PutF32(at(a.Roll, i))
		w.PutF32(at(a.Pitch, i))
		w.PutF32(at(a.Heave, i))
		w.PutF32(at(a.Heading, i))
	}
}

func (a *Attitude) PayloadSize() int {
	return 1 + 18*int(a.Samples)
}
