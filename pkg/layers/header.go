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

// Package layers frames 7k records. All multi-byte fields are little-endian,
// the byte order the sonar firmware writes.
package layers

import (
	"encoding/binary"
)

const (
	SyncPattern uint32 = 0x0000ffff

	// HeaderSize is the fixed header prefix that is read before anything else is known
	HeaderSize   = 64
	ChecksumSize = 4

	// Offset field is counted from the sync pattern, so the payload starts at Offset + 4
	DefaultHeaderOffset = HeaderSize - 4
	MinHeaderOffset     = DefaultHeaderOffset

	MaxRecordSize = 64 * 1024 * 1024

	// FlagChecksum is set in Flags when the trailing checksum is valid
	FlagChecksum uint16 = 0x0001
)

// Header is the data record frame of a 7k record.
//
// Layout of the version dependent tail (offsets from the record start):
//
//	v2:  40 SystemEnumerator, 42 Reserved, 44 RecordNumber, 48 PreviousRecord(8), 56 NextRecord(8)
//	v3:  40 Reserved, 42 SystemEnumerator, 44 RecordNumber, 48 Flags, 52 PreviousRecord(4), 56 NextRecord(4)
//	v4+: 40 Reserved, 42 SystemEnumerator, 44 RecordNumber, 48 Flags, 56 FragmentTotal, 60 FragmentNumber
//
// Fields that a version does not carry are zero after decoding and are not written by Encode.
type Header struct {
	Version                uint16
	Offset                 uint16
	SyncPattern            uint32
	Size                   uint32
	OptionalDataOffset     uint32
	OptionalDataIdentifier uint32
	Time                   Time
	RecordVersion          uint16
	RecordType             RecordType
	DeviceID               uint32
	Reserved               uint16
	SystemEnumerator       uint16
	RecordNumber           uint32
	Flags                  uint16
	PreviousRecord         uint64
	NextRecord             uint64
	FragmentTotal          uint32
	FragmentNumber         uint32
}

// legacyLayout reports whether the version uses the earliest header revision,
// where the system enumerator sits in what later became a reserved field.
func legacyLayout(version uint16) bool {
	return version <= 2
}

// PayloadOffset is the offset of the first payload byte from the record start
func (h *Header) PayloadOffset() int {
	return int(h.Offset) + 4
}

// PayloadEnd is the offset right after the last payload byte (the checksum follows)
func (h *Header) PayloadEnd() int {
	return int(h.Size) - ChecksumSize
}

func (h *Header) HasOptionalData() bool {
	return h.OptionalDataOffset != 0
}

func (h Header) Epoch() float64 {
	return h.Time.Epoch()
}

// DecodeHeader decodes the header found at offset off and returns the offset
// right after the consumed header bytes.
func DecodeHeader(buf []byte, off int) (Header, int, error) {
	var h Header
	r := NewFieldReader(buf, off)
	h.Version = r.U16()
	h.Offset = r.U16()
	h.SyncPattern = r.U32()
	h.Size = r.U32()
	h.OptionalDataOffset = r.U32()
	h.OptionalDataIdentifier = r.U32()
	h.Time.Year = r.U16()
	h.Time.Day = r.U16()
	h.Time.Seconds = r.F32()
	h.Time.Hours = r.U8()
	h.Time.Minutes = r.U8()
	h.RecordVersion = r.U16()
	h.RecordType = RecordType(r.U32())
	h.DeviceID = r.U32()

	switch {
	case legacyLayout(h.Version):
		h.SystemEnumerator = r.U16()
		h.Reserved = r.U16()
		h.RecordNumber = r.U32()
		h.PreviousRecord = r.U64()
		h.NextRecord = r.U64()
	case h.Version == 3:
		h.Reserved = r.U16()
		h.SystemEnumerator = r.U16()
		h.RecordNumber = r.U32()
		h.Flags = r.U16()
		r.Skip(2)
		h.PreviousRecord = uint64(r.U32())
		h.NextRecord = uint64(r.U32())
		r.Skip(4)
	default:
		h.Reserved = r.U16()
		h.SystemEnumerator = r.U16()
		h.RecordNumber = r.U32()
		h.Flags = r.U16()
		r.Skip(2 + 4)
		h.FragmentTotal = r.U32()
		h.FragmentNumber = r.U32()
	}

	if err := r.Err(); err != nil {
		return h, off, err
	}
	return h, r.Offset(), nil
}

// Encode writes the fixed header prefix into buf, which must hold at least HeaderSize bytes
func (h *Header) Encode(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrOutOfBounds{Offset: 0, Length: HeaderSize, Size: len(buf)}
	}
	w := NewFieldWriter(buf[:HeaderSize])
	w.PutU16(h.Version)
	w.PutU16(h.Offset)
	w.PutU32(h.SyncPattern)
	w.PutU32(h.Size)
	w.PutU32(h.OptionalDataOffset)
	w.PutU32(h.OptionalDataIdentifier)
	w.PutU16(h.Time.Year)
	w.PutU16(h.Time.Day)
	w.PutF32(h.Time.Seconds)
	w.PutU8(h.Time.Hours)
	w.PutU8(h.Time.Minutes)
	w.PutU16(h.RecordVersion)
	w.PutU32(uint32(h.RecordType))
	w.PutU32(h.DeviceID)

	switch {
	case legacyLayout(h.Version):
		w.PutU16(h.SystemEnumerator)
		w.PutU16(h.Reserved)
		w.PutU32(h.RecordNumber)
		w.PutU64(h.PreviousRecord)
		w.PutU64(h.NextRecord)
	case h.Version == 3:
		w.PutU16(h.Reserved)
		w.PutU16(h.SystemEnumerator)
		w.PutU32(h.RecordNumber)
		w.PutU16(h.Flags)
		w.Zero(2)
		w.PutU32(uint32(h.PreviousRecord))
		w.PutU32(uint32(h.NextRecord))
		w.Zero(4)
	default:
		w.PutU16(h.Reserved)
		w.PutU16(h.SystemEnumerator)
		w.PutU32(h.RecordNumber)
		w.PutU16(h.Flags)
		w.Zero(2 + 4)
		w.PutU32(h.FragmentTotal)
		w.PutU32(h.FragmentNumber)
	}
	return w.Err()
}

// Summary holds the header fields needed to frame a record without decoding it
type Summary struct {
	Version          uint16
	Offset           uint16
	SyncPattern      uint32
	Size             uint32
	RecordType       RecordType
	DeviceID         uint32
	SystemEnumerator uint16
}

// Check validates the fixed header prefix in buf without a full decode.
// Every error it returns matches ErrFraming.
func Check(buf []byte) (Summary, error) {
	var s Summary
	if len(buf) < HeaderSize {
		return s, ErrOutOfBounds{Offset: 0, Length: HeaderSize, Size: len(buf)}
	}
	s.Version = binary.LittleEndian.Uint16(buf[0:2])
	s.Offset = binary.LittleEndian.Uint16(buf[2:4])
	s.SyncPattern = binary.LittleEndian.Uint32(buf[4:8])
	s.Size = binary.LittleEndian.Uint32(buf[8:12])
	s.RecordType = RecordType(binary.LittleEndian.Uint32(buf[32:36]))
	s.DeviceID = binary.LittleEndian.Uint32(buf[36:40])
	if legacyLayout(s.Version) {
		s.SystemEnumerator = binary.LittleEndian.Uint16(buf[40:42])
	} else {
		s.SystemEnumerator = binary.LittleEndian.Uint16(buf[42:44])
	}

	if s.SyncPattern != SyncPattern {
		return s, ErrSyncPattern{SyncPattern: s.SyncPattern}
	}
	if !s.RecordType.Valid() {
		return s, ErrRecordType{RecordType: uint32(s.RecordType)}
	}
	if s.Offset < MinHeaderOffset || s.Size > MaxRecordSize ||
		s.Size < uint32(s.Offset)+4+ChecksumSize {
		return s, ErrRecordSize{Size: s.Size, Offset: s.Offset}
	}
	return s, nil
}

// Checksum is the unsigned byte sum of data modulo 2^32
func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}
