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
	register(layers.RecordTypeBathymetry, func() Record { return &Bathymetry{} })
}

const (
	bathymetryFixedSize    = pingBaseSize + 4 + 1 + 1 + 4
	bathymetryBeamSize     = 4 + 1 + 4 + 4 + 4
	bathymetryOptionalSize = 4 + 8 + 8 + 4 + 1 + 4 + 4 + 4 + 4 + 4
	bathymetryOptBeamSize  = 5 * 4
)

// Bathymetry 7006.
// The optional data section holds georeferenced soundings,
// either recorded by the sonar or reconstructed from detections.
type Bathymetry struct {
	PingBase
	Beams                 uint32
	LayerCompensationFlag uint8
	SoundVelocityFlag     uint8
	SoundVelocity         float32

	// two way travel time in seconds
	Range        []float32
	Quality      []uint8
	Intensity    []float32
	MinDepthGate []float32
	MaxDepthGate []float32

	OptionalData  bool
	Frequency     float32
	Latitude      float64
	Longitude     float64
	Heading       float32
	HeightSource  uint8
	Tide          float32
	Roll          float32
	Pitch         float32
	Heave         float32
	VehicleDepth  float32
	Depth         []float32
	AlongTrack    []float32
	AcrossTrack   []float32
	PointingAngle []float32
	AzimuthAngle  []float32
}

func (b *Bathymetry) Kind() Kind { return KindData }

// Resize grows the per beam arrays, including the optional ones, to n beams
func (b *Bathymetry) Resize(n int) {
	b.Beams = uint32(n)
	b.Range = grow(b.Range, n)
	b.Quality = grow(b.Quality, n)
	b.Intensity = grow(b.Intensity, n)
	b.MinDepthGate = grow(b.MinDepthGate, n)
	b.MaxDepthGate = grow(b.MaxDepthGate, n)
	b.resizeOptional(n)
}

func (b *Bathymetry) resizeOptional(n int) {
	b.Depth = grow(b.Depth, n)
	b.AlongTrack = grow(b.AlongTrack, n)
	b.AcrossTrack = grow(b.AcrossTrack, n)
	b.PointingAngle = grow(b.PointingAngle, n)
	b.AzimuthAngle = grow(b.AzimuthAngle, n)
}

func (b *Bathymetry) DecodePayload(r *layers.FieldReader) error {
	b.decodePingBase(r)
	b.Beams = r.U32()
	b.LayerCompensationFlag = r.U8()
	b.SoundVelocityFlag = r.U8()
	b.SoundVelocity = r.F32()
	n := int(b.Beams)
	if err := checkCount("bathymetry beams", n, bathymetryBeamSize, r); err != nil {
		return err
	}
	b.Range = grow(b.Range, n)
	b.Quality = grow(b.Quality, n)
	b.Intensity = grow(b.Intensity, n)
	b.MinDepthGate = grow(b.MinDepthGate, n)
	b.MaxDepthGate = grow(b.MaxDepthGate, n)
	for i := range b.Range {
		b.Range[i] = r.F32()
	}
	for i := range b.Quality {
		b.Quality[i] = r.U8()
	}
	for i := range b.Intensity {
		b.Intensity[i] = r.F32()
	}
	for i := range b.MinDepthGate {
		b.MinDepthGate[i] = r.F32()
	}
	for i := range b.MaxDepthGate {
		b.MaxDepthGate[i] = r.F32()
	}
	return nil
}

func (b *Bathymetry) EncodePayload(w *layers.FieldWriter) {
	b.encodePingBase(w)
	w.PutU32(b.Beams)
	w.PutU8(b.LayerCompensationFlag)
	w.PutU8(b.SoundVelocityFlag)
	w.PutF32(b.SoundVelocity)
	n := int(b.Beams)
	for i := 0; i < n; i++ {
		w.PutF32(at(b.Range, i))
	}
	for i := 0; i < n; i++ {
		w.PutU8(at(b.Quality, i))
	}
	for i := 0; i < n; i++ {
		w.PutF32(at(b.Intensity, i))
	}
	for i := 0; i < n; i++ {
		w.PutF32(at(b.MinDepthGate, i))
	}
	for i := 0; i < n; i++ {
		w.PutF32(at(b.MaxDepthGate, i))
	}
}

func (b *Bathymetry) PayloadSize() int {
	return bathymetryFixedSize + bathymetryBeamSize*int(b.Beams)
}

func (b *Bathymetry) HasOptionalData() bool {
	return b.OptionalData
}

func (b *Bathymetry) SetOptionalData(present bool) {
	b.OptionalData = present
}

func (b *Bathymetry) DecodeOptional(r *layers.FieldReader) error {
	b.Frequency = r.F32()
	b.Latitude = r.F64()
	b.Longitude = r.F64()
	b.Heading = r.F32()
	b.HeightSource = r.U8()
	b.Tide = r.F32()
	b.Roll = r.F32()
	b.Pitch = r.F32()
	b.Heave = r.F32()
	b.VehicleDepth = r.F32()
	n := int(b.Beams)
	if err := checkCount("bathymetry optional beams", n, bathymetryOptBeamSize, r); err != nil {
		return err
	}
	b.resizeOptional(n)
	for i := 0; i < n; i++ {
		b.Depth[i] = r.F32()
		b.AlongTrack[i] = r.F32()
		b.AcrossTrack[i] = r.F32()
		b.PointingAngle[i] = r.F32()
		b.AzimuthAngle[i] = r.F32()
	}
	return nil
}

func (b *Bathymetry) EncodeOptional(w *layers.FieldWriter) {
	w.PutF32(b.Frequency)
	w.PutF64(b.Latitude)
	w.PutF64(b.Longitude)
	w.PutF32(b.Heading)
	w.PutU8(b.HeightSource)
	w.PutF32(b.Tide)
	w.PutF32(b.Roll)
	w.PutF32(b.Pitch)
	w.PutF32(b.Heave)
	w.PutF32(b.VehicleDepth)
	for i := 0; i < int(b.Beams); i++ {
		w.PutF32(at(b.Depth, i))
		w.PutF32(at(b.AlongTrack, i))
		w.PutF32(at(b.AcrossTrack, i))
		w.PutF32(at(b.PointingAngle, i))
		w.PutF32(at(b.AzimuthAngle, i))
	}
}

func (b *Bathymetry) OptionalSize() int {
	return bathymetryOptionalSize + bathymetryOptBeamSize*int(b.Beams)
}

// OptionalDataOffset is where the optional section starts when the record
// is written with the default header
func (b *Bathymetry) OptionalDataOffset() uint32 {
	return uint32(layers.HeaderSize + b.PayloadSize())
}

// SwapAlongAcross exchanges the along and across track soundings
func (b *Bathymetry) SwapAlongAcross() {
	n := int(b.Beams)
	if len(b.AlongTrack) < n || len(b.AcrossTrack) < n {
		return
	}
	for i := 0; i < n; i++ {
		b.AlongTrack[i], b.AcrossTrack[i] = b.AcrossTrack[i], b.AlongTrack[i]
	}
}
