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
	"errors"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serializeFrame(t *testing.T, h Header, payload []byte) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	frame := &DataRecordFrame{Header: h}
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true},
		frame, gopacket.Payload(payload))
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFrameSerializeDecode(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	h := Header{Version: 5, RecordType: RecordTypeSystemEventMessage, DeviceID: 7125,
		Time: Time{Year: 2020, Day: 1}}
	data := serializeFrame(t, h, payload)
	require.Len(t, data, HeaderSize+len(payload)+ChecksumSize)

	var frame DataRecordFrame
	require.NoError(t, frame.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	assert.Equal(t, uint32(len(data)), frame.Size)
	assert.Equal(t, uint16(DefaultHeaderOffset), frame.Offset)
	assert.Equal(t, FlagChecksum, frame.Flags&FlagChecksum)
	assert.Equal(t, payload, frame.Payload)
	assert.Len(t, frame.Contents, HeaderSize)
	assert.True(t, frame.ChecksumValid())

	data[HeaderSize] ^= 0x01
	require.NoError(t, frame.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	assert.False(t, frame.ChecksumValid())
}

func TestFrameLegacyHasNoChecksumFlag(t *testing.T) {
	h := Header{Version: 2, RecordType: RecordTypeSystemEventMessage}
	data := serializeFrame(t, h, []byte{1, 2})
	var frame DataRecordFrame
	require.NoError(t, frame.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	assert.Zero(t, frame.Flags&FlagChecksum)
}

func TestFrameDecodeTruncated(t *testing.T) {
	data := serializeFrame(t, Header{Version: 5, RecordType: RecordTypeHeading}, make([]byte, 12))
	var frame DataRecordFrame
	err := frame.DecodeFromBytes(data[:len(data)-2], gopacket.NilDecodeFeedback)
	assert.True(t, errors.Is(err, ErrFraming))
}

func TestFrameDecodeBadOptionalOffset(t *testing.T) {
	data := serializeFrame(t, Header{Version: 5, RecordType: RecordTypeHeading,
		OptionalDataOffset: 1000}, make([]byte, 12))
	var frame DataRecordFrame
	err := frame.DecodeFromBytes(data, gopacket.NilDecodeFeedback)
	var sizeErr ErrRecordSize
	assert.True(t, errors.As(err, &sizeErr))
}

func TestFramePacketDecoding(t *testing.T) {
	data := serializeFrame(t, Header{Version: 5, RecordType: RecordTypeDepth}, []byte{9, 9, 9})
	packet := gopacket.NewPacket(data, DataRecordFrameLayerType, gopacket.Default)
	layer := packet.Layer(DataRecordFrameLayerType)
	require.NotNil(t, layer)
	frame := layer.(*DataRecordFrame)
	assert.Equal(t, RecordTypeDepth, frame.RecordType)
	assert.Equal(t, []byte{9, 9, 9}, frame.LayerPayload())
}

func TestTimeEpoch(t *testing.T) {
	tm := Time{Year: 2016, Day: 60, Hours: 10, Minutes: 20, Seconds: 30.25}
	expected := time.Date(2016, time.February, 29, 10, 20, 30, 250000000, time.UTC)
	assert.InDelta(t, float64(expected.UnixNano())/1e9, tm.Epoch(), 1e-6)
	assert.True(t, expected.Equal(tm.Time()))

	assert.Zero(t, Time{}.Epoch())
}

func TestTimeFromEpoch(t *testing.T) {
	tm := Time{Year: 2021, Day: 365, Hours: 23, Minutes: 59, Seconds: 59.5}
	back := TimeFromEpoch(tm.Epoch())
	assert.Equal(t, tm, back)
	assert.InDelta(t, tm.Epoch(), back.Epoch(), 1e-6)
}
