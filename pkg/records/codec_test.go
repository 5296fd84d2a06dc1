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
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

func header(t layers.RecordType) layers.Header {
	return layers.Header{
		Version:    5,
		RecordType: t,
		DeviceID:   7125,
		Time:       layers.Time{Year: 2018, Day: 200, Hours: 8, Minutes: 1, Seconds: 2.5},
	}
}

// frame serializes rec into a whole record the way a stream writer does
func frame(t *testing.T, rec Record) []byte {
	t.Helper()
	codec, err := Lookup(rec.Header().RecordType)
	require.NoError(t, err)
	hdr := *rec.Header()
	if opt, ok := rec.(OptionalRecord); ok && opt.HasOptionalData() {
		hdr.OptionalDataOffset = uint32(layers.HeaderSize + rec.PayloadSize())
		hdr.OptionalDataIdentifier = uint32(hdr.RecordType)
	}
	buf := gopacket.NewSerializeBuffer()
	f := &layers.DataRecordFrame{Header: hdr}
	err = gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true},
		f, &PayloadLayer{Codec: codec, Record: rec})
	require.NoError(t, err)
	data := buf.Bytes()
	require.Len(t, data, layers.HeaderSize+codec.EncodedSize(rec)+layers.ChecksumSize)
	*rec.Header() = f.Header
	return data
}

func decodeFrame(t *testing.T, data []byte) (Record, error) {
	t.Helper()
	var f layers.DataRecordFrame
	require.NoError(t, f.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	codec, err := Lookup(f.RecordType)
	require.NoError(t, err)
	rec := codec.New()
	return rec, codec.Decode(data, f.Header, rec)
}

func roundTrip(t *testing.T, rec Record) {
	t.Helper()
	data := frame(t, rec)
	decoded, err := decodeFrame(t, data)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestRoundTripBathymetry(t *testing.T) {
	b := &Bathymetry{}
	b.Hdr = header(layers.RecordTypeBathymetry)
	b.SonarID = 7125
	b.Ping = 77
	b.SoundVelocity = 1502.5
	b.Resize(3)
	for i := 0; i < 3; i++ {
		b.Range[i] = 0.01 * float32(i+1)
		b.Quality[i] = uint8(i)
		b.Intensity[i] = 10
		b.Depth[i] = 20 + float32(i)
		b.AcrossTrack[i] = float32(i) - 1
	}
	b.Latitude = 0.9
	b.Longitude = -0.1
	b.SetOptionalData(true)
	roundTrip(t, b)
	assert.Equal(t, b.OptionalDataOffset(), b.Hdr.OptionalDataOffset)
}

func TestRoundTripBathymetryWithoutOptionalData(t *testing.T) {
	b := &Bathymetry{}
	b.Hdr = header(layers.RecordTypeBathymetry)
	b.Beams = 2
	b.Range = []float32{1, 2}
	b.Quality = []uint8{3, 4}
	b.Intensity = []float32{5, 6}
	b.MinDepthGate = []float32{7, 8}
	b.MaxDepthGate = []float32{9, 10}
	roundTrip(t, b)
}

func TestRoundTripRawDetection(t *testing.T) {
	d := &RawDetection{}
	d.Hdr = header(layers.RecordTypeRawDetection)
	d.Ping = 12
	d.Detections = 2
	d.DataFieldSize = rawDetectionBeamSize
	d.SamplingRate = 34000
	d.TxAngle = 0.01
	d.BeamDescriptor = []uint16{4, 9}
	d.DetectionPoint = []float32{100, 200}
	d.RxAngle = []float32{-0.5, 0.5}
	d.DetectionFlags = []uint32{1, 2}
	d.Quality = []uint32{3, 3}
	d.Uncertainty = []float32{0, 0.1}
	d.SignalStrength = []float32{7, 8}
	roundTrip(t, d)
}

func TestRawDetectionWideFields(t *testing.T) {
	d := &RawDetection{}
	d.Hdr = header(layers.RecordTypeRawDetection)
	d.Detections = 1
	d.DataFieldSize = rawDetectionBeamSize + 6
	d.BeamDescriptor = []uint16{1}
	d.DetectionPoint = []float32{42}
	d.RxAngle = []float32{0}
	d.DetectionFlags = []uint32{0}
	d.Quality = []uint32{0}
	d.Uncertainty = []float32{0}
	d.SignalStrength = []float32{1}
	roundTrip(t, d)
	assert.Equal(t, rawDetectionFixedSize+rawDetectionBeamSize+6, d.PayloadSize())
}

func TestRoundTripFileHeader(t *testing.T) {
	f := &FileHeader{}
	f.Hdr = header(layers.RecordTypeFileHeader)
	f.FileID[0] = 0xaa
	f.Version = 1
	f.RecordingName = "line_0001"
	f.Notes = "calm sea"
	f.Devices = 2
	f.DeviceTable = []Device{{DeviceID: 7125, SystemEnumerator: 0}, {DeviceID: 20, SystemEnumerator: 1}}
	roundTrip(t, f)
}

func TestRoundTripSystemEventMessage(t *testing.T) {
	m := &SystemEventMessage{}
	m.Hdr = header(layers.RecordTypeSystemEventMessage)
	m.SonarID = 1
	m.EventID = 2
	m.SetMessage("start logging")
	assert.Equal(t, uint16(len("start logging")+1), m.MessageLength)
	roundTrip(t, m)
}

func TestRoundTripNavigation(t *testing.T) {
	n := &Navigation{}
	n.Hdr = header(layers.RecordTypeNavigation)
	n.Latitude = 0.95
	n.Longitude = 0.6
	n.SpeedOverGround = 2.5
	n.Heading = 1.2
	roundTrip(t, n)
}

func TestRoundTripRaw(t *testing.T) {
	r := &Raw{}
	r.Hdr = header(layers.RecordTypeSurveyLine)
	r.Data = []byte{1, 2, 3, 4, 5}
	assert.False(t, Typed(layers.RecordTypeSurveyLine))
	roundTrip(t, r)
	assert.Equal(t, KindParameter, r.Kind())
}

func TestLookupUnknownType(t *testing.T) {
	_, err := Lookup(layers.RecordType(4242))
	var noCodec ErrNoCodec
	assert.True(t, errors.As(err, &noCodec))
}

func TestDecodeBadCount(t *testing.T) {
	m := &SystemEventMessage{}
	m.Hdr = header(layers.RecordTypeSystemEventMessage)
	m.SetMessage("abc")
	data := frame(t, m)

	// claim a message longer than the record
	binary.LittleEndian.PutUint16(data[layers.HeaderSize+10:], 5000)
	_, err := decodeFrame(t, data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnintelligible))
	var badCount ErrBadCount
	assert.True(t, errors.As(err, &badCount))
	assert.Equal(t, 5000, badCount.Count)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	n := &Navigation{}
	n.Hdr = header(layers.RecordTypeNavigation)
	data := frame(t, n)
	codec, err := Lookup(layers.RecordTypeNavigation)
	require.NoError(t, err)

	// a header that promises a shorter payload than the record needs
	hdr := n.Hdr
	hdr.Size = uint32(layers.HeaderSize + 8 + layers.ChecksumSize)
	err = codec.Decode(data[:hdr.Size], hdr, codec.New())
	assert.True(t, errors.Is(err, ErrUnintelligible))
}

func TestDecodeReusesRecord(t *testing.T) {
	big := &Bathymetry{}
	big.Hdr = header(layers.RecordTypeBathymetry)
	big.Resize(8)
	small := &Bathymetry{}
	small.Hdr = header(layers.RecordTypeBathymetry)
	small.Resize(2)
	small.Range[1] = 5

	codec, err := Lookup(layers.RecordTypeBathymetry)
	require.NoError(t, err)
	rec := codec.New()
	for _, src := range []*Bathymetry{big, small} {
		data := frame(t, src)
		var f layers.DataRecordFrame
		require.NoError(t, f.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
		require.NoError(t, codec.Decode(data, f.Header, rec))
	}
	b := rec.(*Bathymetry)
	assert.Equal(t, uint32(2), b.Beams)
	assert.Len(t, b.Range, 2)
	assert.Equal(t, float32(5), b.Range[1])
	assert.GreaterOrEqual(t, cap(b.Range), 8)
}
