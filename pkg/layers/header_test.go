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

package layers

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader(version uint16) Header {
	h := Header{
		Version:                version,
		Offset:                 DefaultHeaderOffset,
		SyncPattern:            SyncPattern,
		Size:                   HeaderSize + 16 + ChecksumSize,
		OptionalDataOffset:     HeaderSize + 8,
		OptionalDataIdentifier: 7000,
		Time:                   Time{Year: 2019, Day: 45, Seconds: 12.5, Hours: 3, Minutes: 14},
		RecordVersion:          1,
		RecordType:             RecordTypeSonarSettings,
		DeviceID:               7125,
		SystemEnumerator:       2,
		RecordNumber:           99,
	}
	switch {
	case version <= 2:
		h.PreviousRecord = 1 << 40
		h.NextRecord = 1<<40 + 7
	case version == 3:
		h.Flags = FlagChecksum
		h.PreviousRecord = 1000
		h.NextRecord = 2000
	default:
		h.Flags = FlagChecksum
		h.FragmentTotal = 3
		h.FragmentNumber = 1
	}
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	for version := uint16(2); version <= 5; version++ {
		t.Run(fmt.Sprintf("v%d", version), func(t *testing.T) {
			h := sampleHeader(version)
			buf := make([]byte, HeaderSize)
			require.NoError(t, h.Encode(buf))
			decoded, next, err := DecodeHeader(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, HeaderSize, next)
			assert.Equal(t, h, decoded)
		})
	}
}

func TestHeaderSystemEnumeratorPosition(t *testing.T) {
	buf := make([]byte, HeaderSize)
	h := sampleHeader(2)
	require.NoError(t, h.Encode(buf))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(buf[40:42]))

	h = sampleHeader(5)
	require.NoError(t, h.Encode(buf))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(buf[42:44]))
}

func TestHeaderEncodeShortBuffer(t *testing.T) {
	h := sampleHeader(5)
	err := h.Encode(make([]byte, HeaderSize-1))
	assert.True(t, errors.Is(err, ErrFraming))
}

func TestDecodeHeaderShortBuffer(t *testing.T) {
	_, _, err := DecodeHeader(make([]byte, 20), 0)
	assert.Error(t, err)
}

func encodedHeader(t *testing.T, h Header) []byte {
	t.Helper()
	buf := make([]byte, HeaderSize)
	require.NoError(t, h.Encode(buf))
	return buf
}

func TestCheck(t *testing.T) {
	summary, err := Check(encodedHeader(t, sampleHeader(5)))
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Version:          5,
		Offset:           DefaultHeaderOffset,
		SyncPattern:      SyncPattern,
		Size:             HeaderSize + 16 + ChecksumSize,
		RecordType:       RecordTypeSonarSettings,
		DeviceID:         7125,
		SystemEnumerator: 2,
	}, summary)

	summary, err = Check(encodedHeader(t, sampleHeader(2)))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), summary.SystemEnumerator)
}

func TestCheckFailures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(h *Header)
		target interface{}
	}{
		{"sync", func(h *Header) { h.SyncPattern = 0x1234 }, &ErrSyncPattern{}},
		{"type", func(h *Header) { h.RecordType = 4242 }, &ErrRecordType{}},
		{"offset", func(h *Header) { h.Offset = 10 }, &ErrRecordSize{}},
		{"small size", func(h *Header) { h.Size = HeaderSize }, &ErrRecordSize{}},
		{"large size", func(h *Header) { h.Size = MaxRecordSize + 1 }, &ErrRecordSize{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sampleHeader(5)
			tt.modify(&h)
			_, err := Check(encodedHeader(t, h))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFraming))
			assert.True(t, errors.As(err, tt.target))
		})
	}

	_, err := Check(make([]byte, HeaderSize-1))
	assert.True(t, errors.Is(err, ErrFraming))
}

func TestPingNumber(t *testing.T) {
	data := make([]byte, HeaderSize+16+ChecksumSize)
	binary.LittleEndian.PutUint32(data[HeaderSize+8:], 4321)

	n, ok := PingNumber(RecordTypeBathymetry, data, DefaultHeaderOffset)
	assert.True(t, ok)
	assert.Equal(t, uint32(4321), n)

	_, ok = PingNumber(RecordTypeSystemEventMessage, data, DefaultHeaderOffset)
	assert.False(t, ok)
	_, ok = PingNumber(RecordTypeBathymetry, data[:HeaderSize+10], DefaultHeaderOffset)
	assert.False(t, ok)

	assert.True(t, CarriesPingNumber(RecordTypeRawDetection))
	assert.False(t, CarriesPingNumber(RecordTypeBeamGeometry))
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, uint32(0), Checksum(nil))
	assert.Equal(t, uint32(0x1fe), Checksum([]byte{0xff, 0xff}))
	big := make([]byte, 1<<17)
	for i := range big {
		big[i] = 0xff
	}
	assert.Equal(t, uint32(0xff<<17), Checksum(big))
}

func TestRecordTypeNames(t *testing.T) {
	assert.True(t, RecordTypeBathymetry.Valid())
	assert.False(t, RecordType(4242).Valid())
	assert.Equal(t, "Bathymetry", RecordTypeBathymetry.Name())
	assert.Contains(t, RecordTypeBathymetry.String(), "7006")
	assert.Equal(t, "Bathymetry(7006)", RecordTypeBathymetry.String())
}

func headerAt(epoch float64) Header {
	return Header{Time: TimeFromEpoch(epoch)}
}

func TestHeaderEpochOnValue(t *testing.T) {
	assert.InDelta(t, 1.4e9, headerAt(1.4e9).Epoch(), 1e-3)
	assert.Zero(t, Header{}.Epoch())
}

func TestLittleEndianFields(t *testing.T) {
	h := Header{
		Version:     5,
		Offset:      DefaultHeaderOffset,
		SyncPattern: SyncPattern,
		Size:        HeaderSize + ChecksumSize,
		RecordType:  RecordTypeBathymetry,
	}
	buf := make([]byte, HeaderSize)
	require.NoError(t, h.Encode(buf))
	assert.Equal(t, []byte{0xff, 0xff, 0x00, 0x00}, buf[4:8])
	assert.Equal(t, []byte{0x5e, 0x1b, 0x00, 0x00}, buf[32:36])
}
