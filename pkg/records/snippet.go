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
	register(layers.RecordTypeSnippet, func() Record { return &Snippet{} })
	register(layers.RecordTypeCalibratedSnippet, func() Record { return &CalibratedSnippet{} })
}

const (
	snippetWindowSize = 2 + 4 + 4 + 4

	// SnippetFlag32Bit selects 32 bit snippet samples instead of 16 bit ones
	SnippetFlag32Bit uint32 = 0x0001
	// CalibratedSnippetFootprints is set in ControlFlags when footprint areas follow the samples
	CalibratedSnippetFootprints uint32 = 0x0040
)

// SnippetWindows describes the sample window of each beam around its bottom detection
type SnippetWindows struct {
	BeamDescriptor  []uint16
	BeginSample     []uint32
	DetectionSample []uint32
	EndSample       []uint32
	// SampleStart indexes the first sample of each window in the sample arrays
	SampleStart []int
}

func (s *SnippetWindows) decodeWindows(r *layers.FieldReader, n int) (int, error) {
	if err := checkCount("snippet windows", n, snippetWindowSize, r); err != nil {
		return 0, err
	}
	s.BeamDescriptor = grow(s.BeamDescriptor, n)
	s.BeginSample = grow(s.BeginSample, n)
	s.DetectionSample = grow(s.DetectionSample, n)
	s.EndSample = grow(s.EndSample, n)
	s.SampleStart = grow(s.SampleStart, n)
	total := 0
	for i := 0; i < n; i++ {
		s.BeamDescriptor[i] = r.U16()
		s.BeginSample[i] = r.U32()
		s.DetectionSample[i] = r.U32()
		s.EndSample[i] = r.U32()
		s.SampleStart[i] = total
		total += beamSamples(s.BeginSample[i], s.EndSample[i])
	}
	return total, nil
}

func (s *SnippetWindows) encodeWindows(w *layers.FieldWriter, n int) {
	for i := 0; i < n; i++ {
		w.PutU16(at(s.BeamDescriptor, i))
		w.PutU32(at(s.BeginSample, i))
		w.PutU32(at(s.DetectionSample, i))
		w.PutU32(at(s.EndSample, i))
	}
}

func (s *SnippetWindows) totalSamples(n int) int {
	total := 0
	for i := 0; i < n && i < len(s.BeginSample) && i < len(s.EndSample); i++ {
		total += beamSamples(s.BeginSample[i], s.EndSample[i])
	}
	return total
}

// Snippet 7028, backscatter samples around the bottom detection of each beam
type Snippet struct {
	PingBase
	Beams        uint16
	ErrorFlag    uint8
	ControlFlags uint8
	Flags        uint32
	Reserved     [6]uint32
	SnippetWindows
	Samples []uint32
}

func (s *Snippet) Kind() Kind { return KindData }

func (s *Snippet) width() SampleWidth {
	if s.Flags&SnippetFlag32Bit != 0 {
		return SampleWidth32
	}
	return SampleWidth16
}

func (s *Snippet) DecodePayload(r *layers.FieldReader) error {
	s.decodePingBase(r)
	s.Beams = r.U16()
	s.ErrorFlag = r.U8()
	s.ControlFlags = r.U8()
	s.Flags = r.U32()
	for i := range s.Reserved {
		s.Reserved[i] = r.U32()
	}
	total, err := s.decodeWindows(r, int(s.Beams))
	if err != nil {
		return err
	}
	if err := checkCount("snippet samples", total, s.width().Bytes(), r); err != nil {
		return err
	}
	s.Samples = grow(s.Samples, total)
	readSamples(r, s.width(), s.Samples)
	return nil
}

func (s *Snippet) EncodePayload(w *layers.FieldWriter) {
	s.encodePingBase(w)
	w.PutU16(s.Beams)
	w.PutU8(s.ErrorFlag)
	w.PutU8(s.ControlFlags)
	w.PutU32(s.Flags)
	for _, v := range s.Reserved {
		w.PutU32(v)
	}
	s.encodeWindows(w, int(s.Beams))
	writeSamples(w, s.width(), s.Samples, s.totalSamples(int(s.Beams)))
}

func (s *Snippet) PayloadSize() int {
	n := int(s.Beams)
	return pingBaseSize + 2 + 1 + 1 + 4 + 6*4 + snippetWindowSize*n + s.totalSamples(n)*s.width().Bytes()
}

// CalibratedSnippet 7058, calibrated backscatter strength in dB around each detection
type CalibratedSnippet struct {
	PingBase
	Beams           uint16
	ErrorFlag       uint8
	ControlFlags    uint32
	AbsorptionCoeff float32
	Reserved        [6]uint32
	SnippetWindows
	Samples    []float32
	Footprints []float32
}

func (s *CalibratedSnippet) Kind() Kind { return KindData }

func (s *CalibratedSnippet) hasFootprints() bool {
	return s.ControlFlags&CalibratedSnippetFootprints != 0
}

func (s *CalibratedSnippet) DecodePayload(r *layers.FieldReader) error {
	s.decodePingBase(r)
	s.Beams = r.U16()
	s.ErrorFlag = r.U8()
	s.ControlFlags = r.U32()
	s.AbsorptionCoeff = r.F32()
	for i := range s.Reserved {
		s.Reserved[i] = r.U32()
	}
	total, err := s.decodeWindows(r, int(s.Beams))
	if err != nil {
		return err
	}
	per := 4
	if s.hasFootprints() {
		per = 8
	}
	if err := checkCount("calibrated snippet samples", total, per, r); err != nil {
		return err
	}
	s.Samples = grow(s.Samples, total)
	for i := range s.Samples {
		s.Samples[i] = r.F32()
	}
	if s.hasFootprints() {
		s.Footprints = grow(s.Footprints, total)
		for i := range s.Footprints {
			s.Footprints[i] = r.F32()
		}
	}
	return nil
}

func (s *CalibratedSnippet) EncodePayload(w *layers.FieldWriter) {
	s.encodePingBase(w)
	w.PutU16(s.Beams)
	w.PutU8(s.ErrorFlag)
	w.PutU32(s.ControlFlags)
	w.PutF32(s.AbsorptionCoeff)
	for _, v := range s.Reserved {
		w.PutU32(v)
	}
	n := int(s.Beams)
	s.encodeWindows(w, n)
	total := s.totalSamples(n)
	for i := 0; i < total; i++ {
		w.PutF32(at(s.Samples, i))
	}
	if s.hasFootprints() {
		for i := 0; i < total; i++ {
			w.PutF32(at(s.Footprints, i))
		}
	}
}

func (s *CalibratedSnippet) PayloadSize() int {
	n := int(s.Beams)
	per := 4
	if s.hasFootprints() {
		per = 8
	}
	return pingBaseSize + 2 + 1 + 4 + 4 + 6*4 + snippetWindowSize*n + s.totalSamples(n)*per
}
