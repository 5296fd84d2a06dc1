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
	register(layers.RecordTypeEdgetechSidescan, func() Record { return &Edgetech{} })
	register(layers.RecordTypeEdgetechSubbottom, func() Record { return &Edgetech{} })
	register(layers.RecordTypeBluefin, func() Record { return &Bluefin{} })
}

const (
	edgetechFixedSize   = 4 + 4 + 2 + 2 + 2 + 2 + 1 + 1 + 1 + 1 + 2 + 2
	edgetechChannelSize = 2 + 2 + 4 + 4 + 4 + 2 + 2 + 2 + 2 + 4
)

// EdgetechChannel is one acoustic channel of a side scan or sub-bottom ping.
// DataFormat is the sample size in bytes, samples are widened to uint32.
type EdgetechChannel struct {
	Channel        uint16
	DataFormat     uint16
	Samples        uint32
	SampleInterval uint32 // ns
	StartDepth     uint32
	Weight         int16
	Gain           int16
	StartFrequency uint16
	EndFrequency   uint16
	Heading        float32
	Data           []uint32
}

// Edgetech 3000 and 3002, side scan and sub-bottom data from an Edgetech
// device logged through the datalogger. The device stamps the ping with its own clock.
type Edgetech struct {
	Base
	Subsystem   uint32
	Ping        uint32
	Channels    uint16
	Reserved    uint16
	Year        uint16
	Day         uint16
	Hour        uint8
	Minute      uint8
	Second      uint8
	Reserved2   uint8
	Millisecond uint16
	Reserved3   uint16
	ChannelData []EdgetechChannel
}

func (e *Edgetech) Kind() Kind {
	if e.Hdr.RecordType == layers.RecordTypeEdgetechSubbottom {
		return KindSubbottom
	}
	return KindSidescan
}

func (e *Edgetech) PingNumber() uint32 { return e.Ping }

func (e *Edgetech) SetPingNumber(ping uint32) { e.Ping = ping }

// DeviceTime is the device clock reading as a 7k time
func (e *Edgetech) DeviceTime() layers.Time {
	return layers.Time{
		Year:    e.Year,
		Day:     e.Day,
		Hours:   e.Hour,
		Minutes: e.Minute,
		Seconds: float32(e.Second) + float32(e.Millisecond)/1000,
	}
}

// SetDeviceTime stores t with millisecond resolution
func (e *Edgetech) SetDeviceTime(t layers.Time) {
	e.Year = t.Year
	e.Day = t.Day
	e.Hour = t.Hours
	e.Minute = t.Minutes
	ms := int(t.Seconds*1000 + 0.5)
	e.Second = uint8(ms / 1000)
	e.Millisecond = uint16(ms % 1000)
}

// DeviceEpoch is zero when the device time is not set
func (e *Edgetech) DeviceEpoch() float64 {
	return e.DeviceTime().Epoch()
}

func (e *Edgetech) DecodePayload(r *layers.FieldReader) error {
	e.Subsystem = r.U32()
	e.Ping = r.U32()
	e.Channels = r.U16()
	e.Reserved = r.U16()
	e.Year = r.U16()
	e.Day = r.U16()
	e.Hour = r.U8()
	e.Minute = r.U8()
	e.Second = r.U8()
	e.Reserved2 = r.U8()
	e.Millisecond = r.U16()
	e.Reserved3 = r.U16()
	n := int(e.Channels)
	if err := checkCount("edgetech channels", n, edgetechChannelSize, r); err != nil {
		return err
	}
	e.ChannelData = grow(e.ChannelData, n)
	for i := range e.ChannelData {
		c := &e.ChannelData[i]
		c.Channel = r.U16()
		c.DataFormat = r.U16()
		c.Samples = r.U32()
		c.SampleInterval = r.U32()
		c.StartDepth = r.U32()
		c.Weight = r.I16()
		c.Gain = r.I16()
		c.StartFrequency = r.U16()
		c.EndFrequency = r.U16()
		c.Heading = r.F32()
		width, err := sampleWidth(int(c.DataFormat))
		if err != nil {
			return err
		}
		if err := checkCount("edgetech samples", int(c.Samples), width.Bytes(), r); err != nil {
			return err
		}
		c.Data = grow(c.Data, int(c.Samples))
		readSamples(r, width, c.Data)
	}
	return nil
}

func (e *Edgetech) EncodePayload(w *layers.FieldWriter) {
	w.PutU32(e.Subsystem)
	w.PutU32(e.Ping)
	w.PutU16(e.Channels)
	w.PutU16(e.Reserved)
	w.PutU16(e.Year)
	w.PutU16(e.Day)
	w.PutU8(e.Hour)
	w.PutU8(e.Minute)
	w.PutU8(e.Second)
	w.PutU8(e.Reserved2)
	w.PutU16(e.Millisecond)
	w.PutU16(e.Reserved3)
	for i := 0; i < int(e.Channels); i++ {
		c := at(e.ChannelData, i)
		w.PutU16(c.Channel)
		w.PutU16(c.DataFormat)
		w.PutU32(c.Samples)
		w.PutU32(c.SampleInterval)
		w.PutU32(c.StartDepth)
		w.PutI16(c.Weight)
		w.PutI16(c.Gain)
		w.PutU16(c.StartFrequency)
		w.PutU16(c.EndFrequency)
		w.PutF32(c.Heading)
		writeSamples(w, SampleWidth(c.DataFormat), c.Data, int(c.Samples))
	}
}

func (e *Edgetech) PayloadSize() int {
	size := edgetechFixedSize
	for i := 0; i < int(e.Channels); i++ {
		c := at(e.ChannelData, i)
		size += edgetechChannelSize + int(c.Samples)*SampleWidth(c.DataFormat).Bytes()
	}
	return size
}

// Bluefin data formats
const (
	BluefinNavigation    uint32 = 0
	BluefinEnvironmental uint32 = 1

	bluefinFixedSize    = 4 + 4 + 4 + 5*4
	bluefinNavFrameSize = 4 + 2 + 2 + 4 + 8 + 4 + 8 + 8 + 4*6
	bluefinEnvFrameSize = 4 + 2 + 2 + 4 + 8 + 4*3
)

// BluefinNavFrame is one vehicle navigation sample, angles in radians
type BluefinNavFrame struct {
	PacketSize   uint32
	Version      uint16
	Offset       uint16
	DataFormat   uint32
	Timestamp    float64
	QualityFlags uint32
	Latitude     float64
	Longitude    float64
	Speed        float32
	Depth        float32
	Altitude     float32
	Roll         float32
	Pitch        float32
	Yaw          float32
}

// BluefinEnvFrame is one environmental sensor sample
type BluefinEnvFrame struct {
	PacketSize   uint32
	Version      uint16
	Offset       uint16
	DataFormat   uint32
	Timestamp    float64
	Temperature  float32
	Conductivity float32
	SoundSpeed   float32
}

// Bluefin 3100, navigation or environmental frames from a Bluefin AUV
type Bluefin struct {
	Base
	Frames     uint32
	DataFormat uint32
	Channel    uint32
	Reserved   [5]uint32
	Nav        []BluefinNavFrame
	Env        []BluefinEnvFrame
}

func (b *Bluefin) Kind() Kind {
	if b.DataFormat == BluefinEnvironmental {
		return KindCTD
	}
	return KindNavigation2
}

func (b *Bluefin) frameSize() int {
	if b.DataFormat == BluefinEnvironmental {
		return bluefinEnvFrameSize
	}
	return bluefinNavFrameSize
}

func (b *Bluefin) DecodePayload(r *layers.FieldReader) error {
	b.Frames = r.U32()
	b.DataFormat = r.U32()
	b.Channel = r.U32()
	for i := range b.Reserved {
		b.Reserved[i] = r.U32()
	}
	if b.DataFormat != BluefinNavigation && b.DataFormat != BluefinEnvironmental {
		return ErrBadCount{What: "bluefin data format", Count: int(b.DataFormat), Limit: int(BluefinEnvironmental)}
	}
	n := int(b.Frames)
	if err := checkCount("bluefin frames", n, b.frameSize(), r); err != nil {
		return err
	}
	if b.DataFormat == BluefinEnvironmental {
		b.Env = grow(b.Env, n)
		for i := range b.Env {
			f := &b.Env[i]
			f.PacketSize = r.U32()
			f.Version = r.U16()
			f.Offset = r.U16()
			f.DataFormat = r.U32()
			f.Timestamp = r.F64()
			f.Temperature = r.F32()
			f.Conductivity = r.F32()
			f.SoundSpeed = r.F32()
		}
		return nil
	}
	b.Nav = grow(b.Nav, n)
	for i := range b.Nav {
		f := &b.Nav[i]
		f.PacketSize = r.U32()
		f.Version = r.U16()
		f.Offset = r.U16()
		f.DataFormat = r.U32()
		f.Timestamp = r.F64()
		f.QualityFlags = r.U32()
		f.Latitude = r.F64()
		f.Longitude = r.F64()
		f.Speed = r.F32()
		f.Depth = r.F32()
		f.Altitude = r.F32()
		f.Roll = r.F32()
		f.Pitch = r.F32()
		f.Yaw = r.F32()
	}
	return nil
}

func (b *Bluefin) EncodePayload(w *layers.FieldWriter) {
	w.PutU32(b.Frames)
	w.PutU32(b.DataFormat)
	w.PutU32(b.Channel)
	for _, v := range b.Reserved {
		w.PutU32(v)
	}
	for i := 0; i < int(b.Frames); i++ {
		if b.DataFormat == BluefinEnvironmental {
			f := at(b.Env, i)
			w.PutU32(f.PacketSize)
			w.PutU16(f.Version)
			w.PutU16(f.Offset)
			w.PutU32(f.DataFormat)
			w.PutF64(f.Timestamp)
			w.PutF32(f.Temperature)
			w.PutF32(f.Conductivity)
			w.PutF32(f.SoundSpeed)
			continue
		}
		f := at(b.Nav, i)
		w.PutU32(f.PacketSize)
		w.PutU16(f.Version)
		w.PutU16(f.Offset)
		w.PutU32(f.DataFormat)
		w.PutF64(f.Timestamp)
		w.PutU32(f.QualityFlags)
		w.PutF64(f.Latitude)
		w.PutF64(f.Longitude)
		w.PutF32(f.Speed)
		w.PutF32(f.Depth)
		w.PutF32(f.Altitude)
		w.PutF32(f.Roll)
		w.PutF32(f.Pitch)
		w.PutF32(f.Yaw)
	}
}

func (b *Bluefin) PayloadSize() int {
	return bluefinFixedSize + b.frameSize()*int(b.Frames)
}

// SoundSpeed returns the last valid environmental sound speed
func (b *Bluefin) SoundSpeed() (float64, bool) {
	if b.DataFormat != BluefinEnvironmental {
		return 0, false
	}
	for i := int(b.Frames) - 1; i >= 0; i-- {
		if v := at(b.Env, i).SoundSpeed; v > 0 {
			return float64(v), true
		}
	}
	return 0, false
}
