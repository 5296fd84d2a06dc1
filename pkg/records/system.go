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
	register(layers.RecordTypeFileHeader, func() Record { return &FileHeader{} })
	register(layers.RecordTypeInstallationParameters, func() Record { return &InstallationParameters{} })
	register(layers.RecordTypeSystemEventMessage, func() Record { return &SystemEventMessage{} })
}

// Device is one entry of the file header device table
type Device struct {
	DeviceID         uint32
	SystemEnumerator uint16
}

const fileHeaderFixedSize = 16 + 2 + 2 + 16 + 4 + 4 + 64 + 16 + 64 + 128

// FileHeader 7200, the first record of a 7k file
type FileHeader struct {
	Base
	FileID           [16]byte
	Version          uint16
	Reserved         uint16
	SessionID        [16]byte
	RecordDataSize   uint32
	Devices          uint32
	RecordingName    string
	RecordingVersion string
	UserDefinedName  string
	Notes            string
	DeviceTable      []Device
}

func (f *FileHeader) Kind() Kind { return KindHeader }

func (f *FileHeader) DecodePayload(r *layers.FieldReader) error {
	r.Bytes(f.FileID[:])
	f.Version = r.U16()
	f.Reserved = r.U16()
	r.Bytes(f.SessionID[:])
	f.RecordDataSize = r.U32()
	f.Devices = r.U32()
	f.RecordingName = r.String(64)
	f.RecordingVersion = r.String(16)
	f.UserDefinedName = r.String(64)
	f.Notes = r.String(128)
	n := int(f.Devices)
	if err := checkCount("file header devices", n, 6, r); err != nil {
		return err
	}
	f.DeviceTable = grow(f.DeviceTable, n)
	for i := range f.DeviceTable {
		f.DeviceTable[i].DeviceID = r.U32()
		f.DeviceTable[i].SystemEnumerator = r.U16()
	}
	return nil
}

func (f *FileHeader) EncodePayload(w *layers.FieldWriter) {
	w.PutBytes(f.FileID[:])
	w.PutU16(f.Version)
	w.PutU16(f.Reserved)
	w.PutBytes(f.SessionID[:])
	w.PutU32(f.RecordDataSize)
	w.PutU32(f.Devices)
	w.PutString(f.RecordingName, 64)
	w.PutString(f.RecordingVersion, 16)
	w.PutString(f.UserDefinedName, 64)
	w.PutString(f.Notes, 128)
	for i := 0; i < int(f.Devices); i++ {
		d := at(f.DeviceTable, i)
		w.PutU32(d.DeviceID)
		w.PutU16(d.SystemEnumerator)
	}
}

func (f *FileHeader) PayloadSize() int {
	return fileHeaderFixedSize + 6*int(f.Devices)
}

const versionStringSize = 128

// InstallationParameters 7030, sensor offsets in meters and mounting angles in radians
type InstallationParameters struct {
	Base
	Frequency           float32
	FirmwareVersion     string
	SoftwareVersion     string
	S7kVersion          string
	ProtocolVersion     string
	TransmitX           float32
	TransmitY           float32
	TransmitZ           float32
	TransmitRoll        float32
	TransmitPitch       float32
	TransmitHeading     float32
	ReceiveX            float32
	ReceiveY            float32
	ReceiveZ            float32
	ReceiveRoll         float32
	ReceivePitch        float32
	ReceiveHeading      float32
	MotionX             float32
	MotionY             float32
	MotionZ             float32
	MotionRollOffset    float32
	MotionPitchOffset   float32
	MotionHeadingOffset float32
	MotionTimeDelay     uint16
	PositionX           float32
	PositionY           float32
	PositionZ           float32
	PositionTimeDelay   uint16
	WaterlineZ          float32
}

func (p *InstallationParameters) Kind() Kind { return KindInstallation }

// version strings are stored as a length followed by a fixed size buffer
func readVersionString(r *layers.FieldReader) string {
	n := int(r.U16())
	s := r.String(versionStringSize)
	if n < len(s) {
		s = s[:n]
	}
	return s
}

func writeVersionString(w *layers.FieldWriter, s string) {
	if len(s) > versionStringSize {
		s = s[:versionStringSize]
	}
	w.PutU16(uint16(len(s)))
	w.PutString(s, versionStringSize)
}

func (p *InstallationParameters) DecodePayload(r *layers.FieldReader) error {
	p.Frequency = r.F32()
	p.FirmwareVersion = readVersionString(r)
	p.SoftwareVersion = readVersionString(r)
	p.S7kVersion = readVersionString(r)
	p.ProtocolVersion = readVersionString(r)
	p.TransmitX = r.F32()
	p.TransmitY = r.F32()
	p.TransmitZ = r.F32()
	p.TransmitRoll = r.F32()
	p.TransmitPitch = r.F32()
	p.TransmitHeading = r.F32()
	p.ReceiveX = r.F32()
	p.ReceiveY = r.F32()
	p.ReceiveZ = r.F32()
	p.ReceiveRoll = r.F32()
	p.ReceivePitch = r.F32()
	p.ReceiveHeading = r.F32()
	p.MotionX = r.F32()
	p.MotionY = r.F32()
	p.MotionZ = r.F32()
	p.MotionRollOffset = r.F32()
	p.MotionPitchOffset = r.F32()
	p.MotionHeadingOffset = r.F32()
	p.MotionTimeDelay = r.U16()
	p.PositionX = r.F32()
	p.PositionY = r.F32()
	p.PositionZ = r.F32()
	p.PositionTimeDelay = r.U16()
	p.WaterlineZ = r.F32()
	return nil
}

func (p *InstallationParameters) EncodePayload(w *layers.FieldWriter) {
	w.PutF32(p.Frequency)
	writeVersionString(w, p.FirmwareVersion)
	writeVersionString(w, p.SoftwareVersion)
	writeVersionString(w, p.S7kVersion)
	writeVersionString(w, p.ProtocolVersion)
	w.PutF32(p.TransmitX)
	w.PutF32(p.TransmitY)
	w.PutF32(p.TransmitZ)
	w.PutF32(p.TransmitRoll)
	w.PutF32(p.TransmitPitch)
	w.PutF32(p.TransmitHeading)
	w.PutF32(p.ReceiveX)
	w.PutF32(p.ReceiveY)
	w.PutF32(p.ReceiveZ)
	w.PutF32(p.ReceiveRoll)
	w.PutF32(p.ReceivePitch)
	w.PutF32(p.ReceiveHeading)
	w.PutF32(p.MotionX)
	w.PutF32(p.MotionY)
	w.PutF32(p.MotionZ)
	w.PutF32(p.MotionRollOffset)
	w.PutF32(p.MotionPitchOffset)
	w.PutF32(p.MotionHeadingOffset)
	w.PutU16(p.MotionTimeDelay)
	w.PutF32(p.PositionX)
	w.PutF32(p.PositionY)
	w.PutF32(p.PositionZ)
	w.PutU16(p.PositionTimeDelay)
	w.PutF32(p.WaterlineZ)
}

func (p *InstallationParameters) PayloadSize() int {
	return 4 + 4*(2+versionStringSize) + 12*4 + 6*4 + 2 + 3*4 + 2 + 4
}

// ReceiverDepth is the depth of the receive array below the waterline
func (p *InstallationParameters) ReceiverDepth() float64 {
	return float64(p.WaterlineZ) - float64(p.ReceiveZ)
}

// SystemEventMessage 7051, free text logged by the sonar or the operator
type SystemEventMessage struct {
	Base
	SonarID         uint64
	EventID         uint16
	MessageLength   uint16
	EventIdentifier uint16
	Message         string
}

func (m *SystemEventMessage) Kind() Kind { return KindComment }

func (m *SystemEventMessage) DecodePayload(r *layers.FieldReader) error {
	m.SonarID = r.U64()
	m.EventID = r.U16()
	m.MessageLength = r.U16()
	m.EventIdentifier = r.U16()
	n := int(m.MessageLength)
	if err := checkCount("event message length", n, 1, r); err != nil {
		return err
	}
	m.Message = r.String(n)
	return nil
}

func (m *SystemEventMessage) EncodePayload(w *layers.FieldWriter) {
	w.PutU64(m.SonarID)
	w.PutU16(m.EventID)
	w.PutU16(m.MessageLength)
	w.PutU16(m.EventIdentifier)
	w.PutString(m.Message, int(m.MessageLength))
}

func (m *SystemEventMessage) PayloadSize() int {
	return 8 + 2 + 2 + 2 + int(m.MessageLength)
}

// SetMessage stores a message together with its zero terminated length
func (m *SystemEventMessage) SetMessage(s string) {
	m.Message = s
	m.MessageLength = uint16(len(s) + 1)
}
