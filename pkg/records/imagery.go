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
	register(layers.RecordTypeBackscatter, func() Record { return &Backscatter{} })
	register(layers.RecordTypeBeamData, func() Record { return &BeamData{} })
	register(layers.RecordTypeVerticalDepth, func() Record { return &VerticalDepth{} })
	register(layers.RecordTypeTVG, func() Record { return &TVG{} })
	register(layers.RecordTypeImage, func() Record { return &Image{} })
	register(layers.RecordTypeBeamformed, func() Record { return &Beamformed{} })
	register(layers.RecordTypeProcessedSidescan, func() Record { return &ProcessedSidescan{} })
}

// Backscatter 7007, side scan imagery formed by the sonar.
// Samples of either width are widened to uint32.
type Backscatter struct {
	PingBase
	BeamPosition        float32
	ControlFlags        uint32
	SamplesPerSide      uint32
	PortBeamwidthY      float32
	PortBeamwidthZ      float32
	StarboardBeamwidthY float32
	StarboardBeamwidthZ float32
	PortSteeringY       float32
	PortSteeringZ       float32
	StarboardSteeringY  float32
	StarboardSteeringZ  float32
	Beams               uint16
	CurrentBeam         uint16
	SampleSize          uint8
	DataTypes           uint8

	Port      []uint32
	Starboard []uint32
}

const backscatterFixedSize = pingBaseSize + 4 + 4 + 4 + 8*4 + 2 + 2 + 1 + 1

func (b *Backscatter) Kind() Kind { return KindData }

func (b *Backscatter) DecodePayload(r *layers.FieldReader) error {
	b.decodePingBase(r)
	b.BeamPosition = r.F32()
	b.ControlFlags = r.U32()
	b.SamplesPerSide = r.U32()
	b.PortBeamwidthY = r.F32()
	b.PortBeamwidthZ = r.F32()
	b.StarboardBeamwidthY = r.F32()
	b.StarboardBeamwidthZ = r.F32()
	b.PortSteeringY = r.F32()
	b.PortSteeringZ = r.F32()
	b.StarboardSteeringY = r.F32()
	b.StarboardSteeringZ = r.F32()
	b.Beams = r.U16()
	b.CurrentBeam = r.U16()
	b.SampleSize = r.U8()
	b.DataTypes = r.U8()
	width, err := sampleWidth(int(b.SampleSize))
	if err != nil {
		return err
	}
	n := int(b.SamplesPerSide)
	if err := checkCount("backscatter samples", 2*n, width.Bytes(), r); err != nil {
		return err
	}
	b.Port = grow(b.Port, n)
	b.Starboard = grow(b.Starboard, n)
	readSamples(r, width, b.Port)
	readSamples(r, width, b.Starboard)
	return nil
}

func (b *Backscatter) EncodePayload(w *layers.FieldWriter) {
	b.encodePingBase(w)
	w.PutF32(b.BeamPosition)
	w.PutU32(b.ControlFlags)
	w.PutU32(b.SamplesPerSide)
	w.PutF32(b.PortBeamwidthY)
	w.PutF32(b.PortBeamwidthZ)
	w.PutF32(b.StarboardBeamwidthY)
	w.PutF32(b.StarboardBeamwidthZ)
	w.PutF32(b.PortSteeringY)
	w.PutF32(b.PortSteeringZ)
	w.PutF32(b.StarboardSteeringY)
	w.PutF32(b.StarboardSteeringZ)
	w.PutU16(b.Beams)
	w.PutU16(b.CurrentBeam)
	w.PutU8(b.SampleSize)
	w.PutU8(b.DataTypes)
	width := SampleWidth(b.SampleSize)
	writeSamples(w, width, b.Port, int(b.SamplesPerSide))
	writeSamples(w, width, b.Starboard, int(b.SamplesPerSide))
}

func (b *Backscatter) PayloadSize() int {
	return backscatterFixedSize + 2*int(b.SamplesPerSide)*SampleWidth(b.SampleSize).Bytes()
}

// BeamData 7008, per beam amplitude and phase time series.
// SampleType holds the amplitude width code in bits 0-3 and the phase width code in bits 4-7.
type BeamData struct {
	PingBase
	Beams            uint16
	Reserved         uint16
	Samples          uint32
	RecordSubsetFlag uint8
	RowColumnFlag    uint8
	Reserved2        uint16
	SampleType       uint32

	BeamNumber  []uint16
	FirstSample []uint32
	LastSample  []uint32
	// SampleStart indexes the first sample of each beam in Amplitude and Phase
	SampleStart []int
	Amplitude   []uint32
	Phase       []int32
}

const (
	beamDataFixedSize      = pingBaseSize + 2 + 2 + 4 + 1 + 1 + 2 + 4
	beamDataDescriptorSize = 2 + 4 + 4
)

// widthFromCode maps the 0..3 width codes of the sample type field to bytes
func widthFromCode(code uint32) (SampleWidth, error) {
	switch code {
	case 0:
		return SampleWidthNone, nil
	case 1:
		return SampleWidth8, nil
	case 2:
		return SampleWidth16, nil
	case 3:
		return SampleWidth32, nil
	}
	return SampleWidthNone, ErrSampleWidth{Code: int(code)}
}

func (b *BeamData) widths() (SampleWidth, SampleWidth, error) {
	aw, err := widthFromCode(b.SampleType & 0x0f)
	if err != nil {
		return 0, 0, err
	}
	pw, err := widthFromCode((b.SampleType >> 4) & 0x0f)
	if err != nil {
		return 0, 0, err
	}
	return aw, pw, nil
}

func beamSamples(first, last uint32) int {
	if last < first {
		return 0
	}
	return int(last-first) + 1
}

// beamSampleCount is zero for beams missing from the descriptor arrays
func (b *BeamData) beamSampleCount(i int) int {
	if i >= len(b.FirstSample) || i >= len(b.LastSample) {
		return 0
	}
	return beamSamples(b.FirstSample[i], b.LastSample[i])
}

func (b *BeamData) totalSamples() int {
	total := 0
	for i := 0; i < int(b.Beams); i++ {
		total += b.beamSampleCount(i)
	}
	return total
}

func (b *BeamData) Kind() Kind { return KindData }

func (b *BeamData) DecodePayload(r *layers.FieldReader) error {
	b.decodePingBase(r)
	b.Beams = r.U16()
	b.Reserved = r.U16()
	b.Samples = r.U32()
	b.RecordSubsetFlag = r.U8()
	b.RowColumnFlag = r.U8()
	b.Reserved2 = r.U16()
	b.SampleType = r.U32()
	aw, pw, err := b.widths()
	if err != nil {
		return err
	}
	n := int(b.Beams)
	if err := checkCount("beam data beams", n, beamDataDescriptorSize, r); err != nil {
		return err
	}
	b.BeamNumber = grow(b.BeamNumber, n)
	b.FirstSample = grow(b.FirstSample, n)
	b.LastSample = grow(b.LastSample, n)
	b.SampleStart = grow(b.SampleStart, n)
	for i := 0; i < n; i++ {
		b.BeamNumber[i] = r.U16()
		b.FirstSample[i] = r.U32()
		b.LastSample[i] = r.U32()
	}
	total := b.totalSamples()
	if err := checkCount("beam data samples", total, aw.Bytes()+pw.Bytes(), r); err != nil {
		return err
	}
	b.Amplitude = grow(b.Amplitude, total)
	b.Phase = grow(b.Phase, total)
	start := 0
	for i := 0; i < n; i++ {
		b.SampleStart[i] = start
		count := b.beamSampleCount(i)
		for j := start; j < start+count; j++ {
			readSamples(r, aw, b.Amplitude[j:j+1])
			readSignedSamples(r, pw, b.Phase[j:j+1])
		}
		start += count
	}
	return nil
}

func (b *BeamData) EncodePayload(w *layers.FieldWriter) {
	b.encodePingBase(w)
	w.PutU16(b.Beams)
	w.PutU16(b.Reserved)
	w.PutU32(b.Samples)
	w.PutU8(b.RecordSubsetFlag)
	w.PutU8(b.RowColumnFlag)
	w.PutU16(b.Reserved2)
	w.PutU32(b.SampleType)
	aw := SampleWidth(0)
	pw := SampleWidth(0)
	if a, p, err := b.widths(); err == nil {
		aw, pw = a, p
	}
	n := int(b.Beams)
	for i := 0; i < n; i++ {
		w.PutU16(at(b.BeamNumber, i))
		w.PutU32(at(b.FirstSample, i))
		w.PutU32(at(b.LastSample, i))
	}
	j := 0
	for i := 0; i < n; i++ {
		count := b.beamSampleCount(i)
		for k := 0; k < count; k++ {
			writeSample(w, aw, at(b.Amplitude, j))
			writeSignedSample(w, pw, at(b.Phase, j))
			j++
		}
	}
}

func (b *BeamData) PayloadSize() int {
	aw, pw, err := b.widths()
	if err != nil {
		aw, pw = 0, 0
	}
	return beamDataFixedSize + beamDataDescriptorSize*int(b.Beams) + b.totalSamples()*(aw.Bytes()+pw.Bytes())
}

// VerticalDepth 7009, the depth below the sonar from the vertical beam
type VerticalDepth struct {
	Base
	Frequency         float32
	Ping              uint32
	MultiPingSequence uint16
	Latitude          float64
	Longitude         float64
	Heading           float32
	AlongTrack        float32
	AcrossTrack       float32
	VerticalDepth     float32
}

func (v *VerticalDepth) Kind() Kind { return KindData }

func (v *VerticalDepth) PingNumber() uint32 { return v.Ping }

func (v *VerticalDepth) SetPingNumber(ping uint32) { v.Ping = ping }

func (v *VerticalDepth) DecodePayload(r *layers.FieldReader) error {
	v.Frequency = r.F32()
	v.Ping = r.U32()
	v.MultiPingSequence = r.U16()
	v.Latitude = r.F64()
	v.Longitude = r.F64()
	v.Heading = r.F32()
	v.AlongTrack = r.F32()
	v.AcrossTrack = r.F32()
	v.VerticalDepth = r.F32()
	return nil
}

func (v *VerticalDepth) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(v.Frequency)
	w.PutU32(v.Ping)
	w.PutU16(v.MultiPingSequence)
	w.PutF64(v.Latitude)
	w.PutF64(v.Longitude)
	w.PutF32(v.Heading)
	w.PutF32(v.AlongTrack)
	w.PutF32(v.AcrossTrack)
	w.PutF32(v.VerticalDepth)
}

func (v *VerticalDepth) PayloadSize() int {
	return 4 + 4 + 2 + 8 + 8 + 4*4
}

// TVG 7010, time varied gain curve
type TVG struct {
	PingBase
	Samples  uint32
	Reserved [8]uint32
	Gain     []float32
}

func (t *TVG) Kind() Kind { return KindData }

func (t *TVG) DecodePayload(r *layers.FieldReader) error {
	t.decodePingBase(r)
	t.Samples = r.U32()
	for i := range t.Reserved {
		t.Reserved[i] = r.U32()
	}
	n := int(t.Samples)
	if err := checkCount("tvg samples", n, 4, r); err != nil {
		return err
	}
	t.Gain = grow(t.Gain, n)
	for i := range t.Gain {
		t.Gain[i] = r.F32()
	}
	return nil
}

func (t *TVG) EncodePayload(w *layers.FieldWriter) {
	t.encodePingBase(w)
	w.PutU32(t.Samples)
	for _, v := range t.Reserved {
		w.PutU32(v)
	}
	for i := 0; i < int(t.Samples); i++ {
		w.PutF32(at(t.Gain, i))
	}
}

func (t *TVG) PayloadSize() int {
	return pingBaseSize + 4 + 8*4 + 4*int(t.Samples)
}

// Image 7011, a beamformed sonar image. ColorDepth is the pixel size in bytes.
type Image struct {
	Base
	Ping              uint32
	MultiPingSequence uint16
	Width             uint32
	Height            uint32
	ColorDepth        uint16
	Reserved          uint16
	Compression       uint16
	Samples           uint32
	Flag              uint32
	RxDelay           float32
	Reserved2         [6]uint32
	Pixels            []uint32
}

func (m *Image) Kind() Kind { return KindData }

func (m *Image) PingNumber() uint32 { return m.Ping }

func (m *Image) SetPingNumber(ping uint32) { m.Ping = ping }

func (m *Image) DecodePayload(r *layers.FieldReader) error {
	m.Ping = r.U32()
	m.MultiPingSequence = r.U16()
	m.Width = r.U32()
	m.Height = r.U32()
	m.ColorDepth = r.U16()
	m.Reserved = r.U16()
	m.Compression = r.U16()
	m.Samples = r.U32()
	m.Flag = r.U32()
	m.RxDelay = r.F32()
	for i := range m.Reserved2 {
		m.Reserved2[i] = r.U32()
	}
	width, err := sampleWidth(int(m.ColorDepth))
	if err != nil {
		return err
	}
	n := int(m.Width) * int(m.Height)
	if err := checkCount("image pixels", n, width.Bytes(), r); err != nil {
		return err
	}
	m.Pixels = grow(m.Pixels, n)
	readSamples(r, width, m.Pixels)
	return nil
}

func (m *Image) EncodePayload(w *layers.FieldWriter) {
	w.PutU32(m.Ping)
	w.PutU16(m.MultiPingSequence)
	w.PutU32(m.Width)
	w.PutU32(m.Height)
	w.PutU16(m.ColorDepth)
	w.PutU16(m.Reserved)
	w.PutU16(m.Compression)
	w.PutU32(m.Samples)
	w.PutU32(m.Flag)
	w.PutF32(m.RxDelay)
	for _, v := range m.Reserved2 {
		w.PutU32(v)
	}
	writeSamples(w, SampleWidth(m.ColorDepth), m.Pixels, int(m.Width)*int(m.Height))
}

func (m *Image) PayloadSize() int {
	return 4 + 2 + 4 + 4 + 2 + 2 + 2 + 4 + 4 + 4 + 6*4 + int(m.Width)*int(m.Height)*SampleWidth(m.ColorDepth).Bytes()
}

// Beamformed 7018, amplitude and phase for every beam and sample, stored beam major
type Beamformed struct {
	PingBase
	Beams     uint16
	Samples   uint32
	Reserved  [8]uint32
	Amplitude []uint16
	Phase     []int16
}

func (b *Beamformed) Kind() Kind { return KindData }

func (b *Beamformed) DecodePayload(r *layers.FieldReader) error {
	b.decodePingBase(r)
	b.Beams = r.U16()
	b.Samples = r.U32()
	for i := range b.Reserved {
		b.Reserved[i] = r.U32()
	}
	n := int(b.Beams) * int(b.Samples)
	if err := checkCount("beamformed samples", n, 4, r); err != nil {
		return err
	}
	b.Amplitude = grow(b.Amplitude, n)
	b.Phase = grow(b.Phase, n)
	for i := 0; i < n; i++ {
		b.Amplitude[i] = r.U16()
		b.Phase[i] = r.I16()
	}
	return nil
}

func (b *Beamformed) EncodePayload(w *layers.FieldWriter) {
	b.encodePingBase(w)
	w.PutU16(b.Beams)
	w.PutU32(b.Samples)
	for _, v := range b.Reserved {
		w.PutU32(v)
	}
	n := int(b.Beams) * int(b.Samples)
	for i := 0; i < n; i++ {
		w.PutU16(at(b.Amplitude, i))
		w.PutI16(at(b.Phase, i))
	}
}

func (b *Beamformed) PayloadSize() int {
	return pingBaseSize + 2 + 4 + 8*4 + 4*int(b.Beams)*int(b.Samples)
}

// ProcessedSidescan 3199, side scan pixels laid on the ground
type ProcessedSidescan struct {
	PingBase
	Operation      uint64
	BeamPosition   float32
	ControlFlags   uint32
	SamplesPerSide uint32
	NadirDepth     uint32
	PixelWidth     float32
	Reserved       uint16
	Port           []float32
	Starboard      []float32
}

func (p *ProcessedSidescan) Kind() Kind { return KindData }

func (p *ProcessedSidescan) DecodePayload(r *layers.FieldReader) error {
	p.decodePingBase(r)
	p.Operation = r.U64()
	p.BeamPosition = r.F32()
	p.ControlFlags = r.U32()
	p.SamplesPerSide = r.U32()
	p.NadirDepth = r.U32()
	p.PixelWidth = r.F32()
	p.Reserved = r.U16()
	n := int(p.SamplesPerSide)
	if err := checkCount("processed sidescan pixels", 2*n, 4, r); err != nil {
		return err
	}
	p.Port = grow(p.Port, n)
	p.Starboard = grow(p.Starboard, n)
	for i := range p.Port {
		p.Port[i] = r.F32()
	}
	for i := range p.Starboard {
		p.Starboard[i] = r.F32()
	}
	return nil
}

func (p *ProcessedSidescan) EncodePayload(w *layers.FieldWriter) {
	p.encodePingBase(w)
	w.PutU64(p.Operation)
	w.PutF32(p.BeamPosition)
	w.PutU32(p.ControlFlags)
	w.PutU32(p.SamplesPerSide)
	w.PutU32(p.NadirDepth)
	w.PutF32(p.PixelWidth)
	w.PutU16(p.Reserved)
	n := int(p.SamplesPerSide)
	for i := 0; i < n; i++ {
		w.PutF32(at(p.Port, i))
	}
	for i := 0; i < n; i++ {
		w.PutF32(at(p.Starboard, i))
	}
}

func (p *ProcessedSidescan) PayloadSize() int {
	return pingBaseSize + 8 + 4 + 4 + 4 + 4 + 4 + 2 + 8*int(p.SamplesPerSide)
}
