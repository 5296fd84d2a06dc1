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
	register(layers.RecordTypeSonarSettings, func() Record { return &SonarSettings{} })
	register(layers.RecordTypeMatchFilter, func() Record { return &MatchFilter{} })
	register(layers.RecordTypeBeamGeometry, func() Record { return &BeamGeometry{} })
	register(layers.RecordTypeRemoteControlSonarSettings, func() Record { return &RemoteControlSonarSettings{} })
}

// SonarParams are the transmit and receive settings shared by the
// volatile sonar settings and the remote control echo of them.
// Angles are radians.
type SonarParams struct {
	Frequency                    float32
	SampleRate                   float32
	ReceiverBandwidth            float32
	TxPulseWidth                 float32
	TxPulseType                  uint32
	TxPulseEnvelope              uint32
	TxPulseEnvelopeParam         float32
	TxPulseMode                  uint16
	TxPulseReserved              uint16
	MaxPingRate                  float32
	PingPeriod                   float32
	RangeSelection               float32
	PowerSelection               float32
	GainSelection                float32
	ControlFlags                 uint32
	ProjectorID                  uint32
	ProjectorSteerVertical       float32
	ProjectorSteerHorizontal     float32
	ProjectorBeamwidthVertical   float32
	ProjectorBeamwidthHorizontal float32
	ProjectorFocalPoint          float32
	ProjectorWeighting           uint32
	ProjectorWeightingParam      float32
	TransmitFlags                uint32
	HydrophoneID                 uint32
	ReceiveWeighting             uint32
	ReceiveWeightingParam        float32
	ReceiveFlags                 uint32
	ReceiveBeamwidth             float32
	RangeMinimum                 float32
	RangeMaximum                 float32
	DepthMinimum                 float32
	DepthMaximum                 float32
	Absorption                   float32
	SoundVelocity                float32
	Spreading                    float32
	Reserved                     uint16
}

const sonarParamsSize = 4*4 + 4*2 + 4 + 2*2 + 4*5 + 4*2 + 4*5 + 4 + 4 + 4*3 + 4 + 4 + 4*8 + 2

func (p *SonarParams) decode(r *layers.FieldReader) {
	p.Frequency = r.F32()
	p.SampleRate = r.F32()
	p.ReceiverBandwidth = r.F32()
	p.TxPulseWidth = r.F32()
	p.TxPulseType = r.U32()
	p.TxPulseEnvelope = r.U32()
	p.TxPulseEnvelopeParam = r.F32()
	p.TxPulseMode = r.U16()
	p.TxPulseReserved = r.U16()
	p.MaxPingRate = r.F32()
	p.PingPeriod = r.F32()
	p.RangeSelection = r.F32()
	p.PowerSelection = r.F32()
	p.GainSelection = r.F32()
	p.ControlFlags = r.U32()
	p.ProjectorID = r.U32()
	p.ProjectorSteerVertical = r.F32()
	p.ProjectorSteerHorizontal = r.F32()
	p.ProjectorBeamwidthVertical = r.F32()
	p.ProjectorBeamwidthHorizontal = r.F32()
	p.ProjectorFocalPoint = r.F32()
	p.ProjectorWeighting = r.U32()
	p.ProjectorWeightingParam = r.F32()
	p.TransmitFlags = r.U32()
	p.HydrophoneID = r.U32()
	p.ReceiveWeighting = r.U32()
	p.ReceiveWeightingParam = r.F32()
	p.ReceiveFlags = r.U32()
	p.ReceiveBeamwidth = r.F32()
	p.RangeMinimum = r.F32()
	p.RangeMaximum = r.F32()
	p.DepthMinimum = r.F32()
	p.DepthMaximum = r.F32()
	p.Absorption = r.F32()
	p.SoundVelocity = r.F32()
	p.Spreading = r.F32()
	p.Reserved = r.U16()
}

func (p *SonarParams) encode(w *layers.FieldWriter) {
	w.PutF32(p.Frequency)
	w.PutF32(p.SampleRate)
	w.PutF32(p.ReceiverBandwidth)
	w.PutF32(p.TxPulseWidth)
	w.PutU32(p.TxPulseType)
	w.PutU32(p.TxPulseEnvelope)
	w.PutF32(p.TxPulseEnvelopeParam)
	w.PutU16(p.TxPulseMode)
	w.PutU16(p.TxPulseReserved)
	w.PutF32(p.MaxPingRate)
	w.PutF32(p.PingPeriod)
	w.PutF32(p.RangeSelection)
	w.PutF32(p.PowerSelection)
	w.PutF32(p.GainSelection)
	w.PutU32(p.ControlFlags)
	w.PutU32(p.ProjectorID)
	w.PutF32(p.ProjectorSteerVertical)
	w.PutF32(p.ProjectorSteerHorizontal)
	w.PutF32(p.ProjectorBeamwidthVertical)
	w.PutF32(p.ProjectorBeamwidthHorizontal)
	w.PutF32(p.ProjectorFocalPoint)
	w.PutU32(p.ProjectorWeighting)
	w.PutF32(p.ProjectorWeightingParam)
	w.PutU32(p.TransmitFlags)
	w.PutU32(p.HydrophoneID)
	w.PutU32(p.ReceiveWeighting)
	w.PutF32(p.ReceiveWeightingParam)
	w.PutU32(p.ReceiveFlags)
	w.PutF32(p.ReceiveBeamwidth)
	w.PutF32(p.RangeMinimum)
	w.PutF32(p.RangeMaximum)
	w.PutF32(p.DepthMinimum)
	w.PutF32(p.DepthMaximum)
	w.PutF32(p.Absorption)
	w.PutF32(p.SoundVelocity)
	w.PutF32(p.Spreading)
	w.PutU16(p.Reserved)
}

// SonarSettings 7000
type SonarSettings struct {
	PingBase
	SonarParams
}

func (s *SonarSettings) Kind() Kind { return KindData }

func (s *SonarSettings) DecodePayload(r *layers.FieldReader) error {
	s.decodePingBase(r)
	s.SonarParams.decode(r)
	return nil
}

func (s *SonarSettings) EncodePayload(w *layers.FieldWriter) {
	s.encodePingBase(w)
	s.SonarParams.encode(w)
}

func (s *SonarSettings) PayloadSize() int {
	return pingBaseSize + sonarParamsSize
}

// MatchFilter 7002
type MatchFilter struct {
	PingBase
	Operation           uint32
	StartFrequency      float32
	EndFrequency        float32
	WindowType          uint32
	Shading             float32
	EffectivePulseWidth float32
}

func (m *MatchFilter) Kind() Kind { return KindData }

func (m *MatchFilter) DecodePayload(r *layers.FieldReader) error {
	m.decodePingBase(r)
	m.Operation = r.U32()
	m.StartFrequency = r.F32()
	m.EndFrequency = r.F32()
	m.WindowType = r.U32()
	m.Shading = r.F32()
	m.EffectivePulseWidth = r.F32()
	return nil
}

func (m *MatchFilter) EncodePayload(w *layers.FieldWriter) {
	m.encodePingBase(w)
	w.PutU32(m.Operation)
	w.PutF32(m.StartFrequency)
	w.PutF32(m.EndFrequency)
	w.PutU32(m.WindowType)
	w.PutF32(m.Shading)
	w.PutF32(m.EffectivePulseWidth)
}

func (m *MatchFilter) PayloadSize() int {
	return pingBaseSize + 6*4
}

// BeamGeometry 7004. It carries no ping number, the reader assigns it to the ping in progress.
type BeamGeometry struct {
	Base
	SonarID uint64
	Beams   uint32
	// AngleAlongTrack is the vertical steering of each beam
	AngleAlongTrack      []float32
	AngleAcrossTrack     []float32
	BeamwidthAlongTrack  []float32
	BeamwidthAcrossTrack []float32
}

func (g *BeamGeometry) Kind() Kind { return KindData }

func (g *BeamGeometry) DecodePayload(r *layers.FieldReader) error {
	g.SonarID = r.U64()
	g.Beams = r.U32()
	n := int(g.Beams)
	if err := checkCount("beam geometry beams", n, 16, r); err != nil {
		return err
	}
	g.AngleAlongTrack = grow(g.AngleAlongTrack, n)
	g.AngleAcrossTrack = grow(g.AngleAcrossTrack, n)
	g.BeamwidthAlongTrack = grow(g.BeamwidthAlongTrack, n)
	g.BeamwidthAcrossTrack = grow(g.BeamwidthAcrossTrack, n)
	for _, a := range [][]float32{g.AngleAlongTrack, g.AngleAcrossTrack, g.BeamwidthAlongTrack, g.BeamwidthAcrossTrack} {
		for i := range a {
			a[i] = r.F32()
		}
	}
	return nil
}

func (g *BeamGeometry) EncodePayload(w *layers.FieldWriter) {
	w.PutU64(g.SonarID)
	w.PutU32(g.Beams)
	n := int(g.Beams)
	for _, a := range [][]float32{g.AngleAlongTrack, g.AngleAcrossTrack, g.BeamwidthAlongTrack, g.BeamwidthAcrossTrack} {
		for i := 0; i < n; i++ {
			w.PutF32(at(a, i))
		}
	}
}

func (g *BeamGeometry) PayloadSize() int {
	return 12 + 16*int(g.Beams)
}

// RemoteControlSonarSettings 7503
type RemoteControlSonarSettings struct {
	Base
	RemoteControlID uint32
	Ticket          uint32
	TrackingNumber  [16]byte
	SonarID         uint64
	Ping            uint32
	SonarParams
}

func (s *RemoteControlSonarSettings) Kind() Kind { return KindData }

func (s *RemoteControlSonarSettings) PingNumber() uint32 {
	return s.Ping
}

func (s *RemoteControlSonarSettings) SetPingNumber(ping uint32) {
	s.Ping = ping
}

func (s *RemoteControlSonarSettings) DecodePayload(r *layers.FieldReader) error {
	s.RemoteControlID = r.U32()
	s.Ticket = r.U32()
	r.Bytes(s.TrackingNumber[:])
	s.SonarID = r.U64()
	s.Ping = r.U32()
	s.SonarParams.decode(r)
	return nil
}

func (s *RemoteControlSonarSettings) EncodePayload(w *layers.FieldWriter) {
	w.PutU32(s.RemoteControlID)
	w.PutU32(s.Ticket)
	w.PutBytes(s.TrackingNumber[:])
	w.PutU64(s.SonarID)
	w.PutU32(s.Ping)
	s.SonarParams.encode(w)
}

func (s *RemoteControlSonarSettings) PayloadSize() int {
	return 4 + 4 + 16 + 8 + 4 + sonarParamsSize
}
