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
	register(layers.RecordTypePingMotion, func() Record { return &PingMotion{} })
	register(layers.RecordTypeDetectionSetup, func() Record { return &DetectionSetup{} })
	register(layers.RecordTypeDetection, func() Record { return &Detection{} })
	register(layers.RecordTypeRawDetection, func() Record { return &RawDetection{} })
}

// PingMotion flags tell which motion series follow the fixed part
const (
	PingMotionPitch   uint16 = 0x0001
	PingMotionRoll    uint16 = 0x0002
	PingMotionHeading uint16 = 0x0004
	PingMotionHeave   uint16 = 0x0008
)

// PingMotion 7012, vessel motion sampled over the receive window.
// Pitch is a single value at transmit, the other series have one value per sample.
type PingMotion struct {
	PingBase
	Samples      uint32
	Flags        uint16
	ErrorFlags   uint32
	SamplingRate float32
	Pitch        float32
	Roll         []float32
	Heading      []float32
	Heave        []float32
}

func (m *PingMotion) Kind() Kind { return KindData }

func (m *PingMotion) series() []*[]float32 {
	var s []*[]float32
	if m.Flags&PingMotionRoll != 0 {
		s = append(s, &m.Roll)
	}
	if m.Flags&PingMotionHeading != 0 {
		s = append(s, &m.Heading)
	}
	if m.Flags&PingMotionHeave != 0 {
		s = append(s, &m.Heave)
	}
	return s
}

func (m *PingMotion) DecodePayload(r *layers.FieldReader) error {
	m.decodePingBase(r)
	m.Samples = r.U32()
	m.Flags = r.U16()
	m.ErrorFlags = r.U32()
	m.SamplingRate = r.F32()
	if m.Flags&PingMotionPitch != 0 {
		m.Pitch = r.F32()
	} else {
		m.Pitch = 0
	}
	n := int(m.Samples)
	series := m.series()
	if err := checkCount("ping motion samples", n*len(series), 4, r); err != nil {
		return err
	}
	for _, s := range series {
		*s = grow(*s, n)
		for i := range *s {
			(*s)[i] = r.F32()
		}
	}
	return nil
}

func (m *PingMotion) EncodePayload(w *layers.FieldWriter) {
	m.encodePingBase(w)
	w.PutU32(m.Samples)
	w.PutU16(m.Flags)
	w.PutU32(m.ErrorFlags)
	w.PutF32(m.SamplingRate)
	if m.Flags&PingMotionPitch != 0 {
		w.PutF32(m.Pitch)
	}
	for _, s := range m.series() {
		for i := 0; i < int(m.Samples); i++ {
			w.PutF32(at(*s, i))
		}
	}
}

func (m *PingMotion) PayloadSize() int {
	size := pingBaseSize + 4 + 2 + 4 + 4
	if m.Flags&PingMotionPitch != 0 {
		size += 4
	}
	return size + 4*int(m.Samples)*len(m.series())
}

// HasRoll reports whether a roll series is present
func (m *PingMotion) HasRoll() bool {
	return m.Flags&PingMotionRoll != 0 && int(m.Samples) > 0
}

// AtTransmit returns roll, pitch and heave at the first sample.
// Values missing from the record are zero.
func (m *PingMotion) AtTransmit() (roll, pitch, heave float32) {
	if m.Flags&PingMotionPitch != 0 {
		pitch = m.Pitch
	}
	if m.Flags&PingMotionRoll != 0 && m.Samples > 0 {
		roll = at(m.Roll, 0)
	}
	if m.Flags&PingMotionHeave != 0 && m.Samples > 0 {
		heave = at(m.Heave, 0)
	}
	return
}

const (
	detectionSetupFixedSize = pingBaseSize + 4 + 4 + 1 + 4 + 6*4 + 1 + 4 + 4
	detectionSetupBeamSize  = 2 + 4 + 4 + 4*4 + 4 + 4
)

// DetectionSetup 7017, bottom detection settings and the per beam detection table
type DetectionSetup struct {
	PingBase
	Beams                 uint32
	DataBlockSize         uint32
	DetectionAlgorithm    uint8
	Flags                 uint32
	MinDepth              float32
	MaxDepth              float32
	MinRange              float32
	MaxRange              float32
	MinNadirSearch        float32
	MaxNadirSearch        float32
	AutomaticFilterWindow uint8
	AppliedRoll           float32
	DepthGateTilt         float32

	BeamDescriptor []uint16
	DetectionPoint []float32
	BeamFlags      []uint32
	AutoLimitsMin  []uint32
	AutoLimitsMax  []uint32
	UserLimitsMin  []uint32
	UserLimitsMax  []uint32
	Quality        []uint32
	Uncertainty    []float32
}

func (d *DetectionSetup) Kind() Kind { return KindData }

func (d *DetectionSetup) blockSize() int {
	if int(d.DataBlockSize) < detectionSetupBeamSize {
		return detectionSetupBeamSize
	}
	return int(d.DataBlockSize)
}

func (d *DetectionSetup) DecodePayload(r *layers.FieldReader) error {
	d.decodePingBase(r)
	d.Beams = r.U32()
	d.DataBlockSize = r.U32()
	d.DetectionAlgorithm = r.U8()
	d.Flags = r.U32()
	d.MinDepth = r.F32()
	d.MaxDepth = r.F32()
	d.MinRange = r.F32()
	d.MaxRange = r.F32()
	d.MinNadirSearch = r.F32()
	d.MaxNadirSearch = r.F32()
	d.AutomaticFilterWindow = r.U8()
	d.AppliedRoll = r.F32()
	d.DepthGateTilt = r.F32()
	n := int(d.Beams)
	if n > 0 && int(d.DataBlockSize) < detectionSetupBeamSize {
		return ErrBadCount{What: "detection setup block size", Count: int(d.DataBlockSize), Limit: detectionSetupBeamSize}
	}
	if err := checkCount("detection setup beams", n, d.blockSize(), r); err != nil {
		return err
	}
	d.BeamDescriptor = grow(d.BeamDescriptor, n)
	d.DetectionPoint = grow(d.DetectionPoint, n)
	d.BeamFlags = grow(d.BeamFlags, n)
	d.AutoLimitsMin = grow(d.AutoLimitsMin, n)
	d.AutoLimitsMax = grow(d.AutoLimitsMax, n)
	d.UserLimitsMin = grow(d.UserLimitsMin, n)
	d.UserLimitsMax = grow(d.UserLimitsMax, n)
	d.Quality = grow(d.Quality, n)
	d.Uncertainty = grow(d.Uncertainty, n)
	extra := d.blockSize() - detectionSetupBeamSize
	for i := 0; i < n; i++ {
		d.BeamDescriptor[i] = r.U16()
		d.DetectionPoint[i] = r.F32()
		d.BeamFlags[i] = r.U32()
		d.AutoLimitsMin[i] = r.U32()
		d.AutoLimitsMax[i] = r.U32()
		d.UserLimitsMin[i] = r.U32()
		d.UserLimitsMax[i] = r.U32()
		d.Quality[i] = r.U32()
		d.Uncertainty[i] = r.F32()
		r.Skip(extra)
	}
	return nil
}

func (d *DetectionSetup) EncodePayload(w *layers.FieldWriter) {
	d.encodePingBase(w)
	w.PutU32(d.Beams)
	w.PutU32(uint32(d.blockSize()))
	w.PutU8(d.DetectionAlgorithm)
	w.PutU32(d.Flags)
	w.PutF32(d.MinDepth)
	w.PutF32(d.MaxDepth)
	w.PutF32(d.MinRange)
	w.PutF32(d.MaxRange)
	w.PutF32(d.MinNadirSearch)
	w.PutF32(d.MaxNadirSearch)
	w.PutU8(d.AutomaticFilterWindow)
	w.PutF32(d.AppliedRoll)
	w.PutF32(d.DepthGateTilt)
	extra := d.blockSize() - detectionSetupBeamSize
	for i := 0; i < int(d.Beams); i++ {
		w.PutU16(at(d.BeamDescriptor, i))
		w.PutF32(at(d.DetectionPoint, i))
		w.PutU32(at(d.BeamFlags, i))
		w.PutU32(at(d.AutoLimitsMin, i))
		w.PutU32(at(d.AutoLimitsMax, i))
		w.PutU32(at(d.UserLimitsMin, i))
		w.PutU32(at(d.UserLimitsMax, i))
		w.PutU32(at(d.Quality, i))
		w.PutF32(at(d.Uncertainty, i))
		w.Zero(extra)
	}
}

func (d *DetectionSetup) PayloadSize() int {
	return detectionSetupFixedSize + d.blockSize()*int(d.Beams)
}

const (
	detectionFixedSize = pingBaseSize + 4 + 2 + 4
	detectionBeamSize  = 8 * 4
)

// Detection 7026, the legacy processed detections with travel time and angles per beam.
// Beams are dense unless a DetectionSetup of the same ping maps them.
type Detection struct {
	PingBase
	Beams         uint32
	Flags         uint16
	SoundVelocity float32

	// two way travel time in seconds
	Range       []float32
	RxAngle     []float32
	TxAngle     []float32
	Quality     []uint32
	Uncertainty []float32
	Intensity   []float32
	MinLimit    []float32
	MaxLimit    []float32
}

func (d *Detection) Kind() Kind { return KindData }

func (d *Detection) DecodePayload(r *layers.FieldReader) error {
	d.decodePingBase(r)
	d.Beams = r.U32()
	d.Flags = r.U16()
	d.SoundVelocity = r.F32()
	n := int(d.Beams)
	if err := checkCount("detection beams", n, detectionBeamSize, r); err != nil {
		return err
	}
	d.Range = grow(d.Range, n)
	d.RxAngle = grow(d.RxAngle, n)
	d.TxAngle = grow(d.TxAngle, n)
	d.Quality = grow(d.Quality, n)
	d.Uncertainty = grow(d.Uncertainty, n)
	d.Intensity = grow(d.Intensity, n)
	d.MinLimit = grow(d.MinLimit, n)
	d.MaxLimit = grow(d.MaxLimit, n)
	for i := 0; i < n; i++ {
		d.Range[i] = r.F32()
		d.RxAngle[i] = r.F32()
		d.TxAngle[i] = r.F32()
		d.Quality[i] = r.U32()
		d.Uncertainty[i] = r.F32()
		d.Intensity[i] = r.F32()
		d.MinLimit[i] = r.F32()
		d.MaxLimit[i] = r.F32()
	}
	return nil
}

func (d *Detection) EncodePayload(w *layers.FieldWriter) {
	d.encodePingBase(w)
	w.PutU32(d.Beams)
	w.PutU16(d.Flags)
	w.PutF32(d.SoundVelocity)
	for i := 0; i < int(d.Beams); i++ {
		w.PutF32(at(d.Range, i))
		w.PutF32(at(d.RxAngle, i))
		w.PutF32(at(d.TxAngle, i))
		w.PutU32(at(d.Quality, i))
		w.PutF32(at(d.Uncertainty, i))
		w.PutF32(at(d.Intensity, i))
		w.PutF32(at(d.MinLimit, i))
		w.PutF32(at(d.MaxLimit, i))
	}
}

func (d *Detection) PayloadSize() int {
	return detectionFixedSize + detectionBeamSize*int(d.Beams)
}

const (
	rawDetectionFixedSize = pingBaseSize + 4 + 4 + 1 + 4 + 4 + 4 + 4 + 15*4
	rawDetectionBeamSize  = 2 + 4 + 4 + 4 + 4 + 4 + 4
)

// RawDetection 7027. Detections are sparse, BeamDescriptor names the beam of each entry.
type RawDetection struct {
	PingBase
	Detections         uint32
	DataFieldSize      uint32
	DetectionAlgorithm uint8
	Flags              uint32
	SamplingRate       float32
	TxAngle            float32
	AppliedRoll        float32
	Reserved           [15]uint32

	BeamDescriptor []uint16
	// sample index of the detection, divided by SamplingRate gives the two way travel time
	DetectionPoint []float32
	RxAngle        []float32
	DetectionFlags []uint32
	Quality        []uint32
	Uncertainty    []float32
	SignalStrength []float32
}

func (d *RawDetection) Kind() Kind { return KindData }

func (d *RawDetection) fieldSize() int {
	if int(d.DataFieldSize) < rawDetectionBeamSize {
		return rawDetectionBeamSize
	}
	return int(d.DataFieldSize)
}

func (d *RawDetection) DecodePayload(r *layers.FieldReader) error {
	d.decodePingBase(r)
	d.Detections = r.U32()
	d.DataFieldSize = r.U32()
	d.DetectionAlgorithm = r.U8()
	d.Flags = r.U32()
	d.SamplingRate = r.F32()
	d.TxAngle = r.F32()
	d.AppliedRoll = r.F32()
	for i := range d.Reserved {
		d.Reserved[i] = r.U32()
	}
	n := int(d.Detections)
	if n > 0 && int(d.DataFieldSize) < rawDetectionBeamSize {
		return ErrBadCount{What: "raw detection field size", Count: int(d.DataFieldSize), Limit: rawDetectionBeamSize}
	}
	if err := checkCount("raw detections", n, d.fieldSize(), r); err != nil {
		return err
	}
	d.BeamDescriptor = grow(d.BeamDescriptor, n)
	d.DetectionPoint = grow(d.DetectionPoint, n)
	d.RxAngle = grow(d.RxAngle, n)
	d.DetectionFlags = grow(d.DetectionFlags, n)
	d.Quality = grow(d.Quality, n)
	d.Uncertainty = grow(d.Uncertainty, n)
	d.SignalStrength = grow(d.SignalStrength, n)
	extra := d.fieldSize() - rawDetectionBeamSize
	for i := 0; i < n; i++ {
		d.BeamDescriptor[i] = r.U16()
		d.DetectionPoint[i] = r.F32()
		d.RxAngle[i] = r.F32()
		d.DetectionFlags[i] = r.U32()
		d.Quality[i] = r.U32()
		d.Uncertainty[i] = r.F32()
		d.SignalStrength[i] = r.F32()
		r.Skip(extra)
	}
	return nil
}

func (d *RawDetection) EncodePayload(w *layers.FieldWriter) {
	d.encodePingBase(w)
	w.PutU32(d.Detections)
	w.PutU32(uint32(d.fieldSize()))
	w.PutU8(d.DetectionAlgorithm)
	w.PutU32(d.Flags)
	w.PutF32(d.SamplingRate)
	w.PutF32(d.TxAngle)
	w.PutF32(d.AppliedRoll)
	for _, v := range d.Reserved {
		w.PutU32(v)
	}
	extra := d.fieldSize() - rawDetectionBeamSize
	for i := 0; i < int(d.Detections); i++ {
		w.PutU16(at(d.BeamDescriptor, i))
		w.PutF32(at(d.DetectionPoint, i))
		w.PutF32(at(d.RxAngle, i))
		w.PutU32(at(d.DetectionFlags, i))
		w.PutU32(at(d.Quality, i))
		w.PutF32(at(d.Uncertainty, i))
		w.PutF32(at(d.SignalStrength, i))
		w.Zero(extra)
	}
}

func (d *RawDetection) PayloadSize() int {
	return rawDetectionFixedSize + d.fieldSize()*int(d.Detections)
}
