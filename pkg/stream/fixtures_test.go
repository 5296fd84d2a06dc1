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

package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

const (
	testSonarID = 7125
	testYear    = 2015
)

func testHeader(t layers.RecordType, year uint16, seconds float32) layers.Header {
	return layers.Header{
		Version:    5,
		RecordType: t,
		DeviceID:   testSonarID,
		Time:       layers.Time{Year: year, Day: 100, Hours: 12, Minutes: 30, Seconds: seconds},
	}
}

func newFileHeader() *records.FileHeader {
	f := &records.FileHeader{}
	f.Hdr = testHeader(layers.RecordTypeFileHeader, testYear, 0)
	f.Version = 1
	f.RecordingName = "survey"
	return f
}

func newSonarSettings(ping uint32, seconds float32) *records.SonarSettings {
	s := &records.SonarSettings{}
	s.Hdr = testHeader(layers.RecordTypeSonarSettings, testYear, seconds)
	s.SonarID = testSonarID
	s.Ping = ping
	s.Frequency = 400000
	s.SampleRate = 34000
	s.SoundVelocity = 1500
	return s
}

func newBeamGeometry(beams int, seconds float32) *records.BeamGeometry {
	g := &records.BeamGeometry{}
	g.Hdr = testHeader(layers.RecordTypeBeamGeometry, testYear, seconds)
	g.SonarID = testSonarID
	g.Beams = uint32(beams)
	for i := 0; i < beams; i++ {
		g.AngleAlongTrack = append(g.AngleAlongTrack, 0)
		g.AngleAcrossTrack = append(g.AngleAcrossTrack, float32(i-beams/2)*0.2)
		g.BeamwidthAlongTrack = append(g.BeamwidthAlongTrack, 0.01)
		g.BeamwidthAcrossTrack = append(g.BeamwidthAcrossTrack, 0.01)
	}
	return g
}

func newBathymetry(ping uint32, beams int, seconds float32) *records.Bathymetry {
	b := &records.Bathymetry{}
	b.Hdr = testHeader(layers.RecordTypeBathymetry, testYear, seconds)
	b.SonarID = testSonarID
	b.Ping = ping
	b.SoundVelocity = 1500
	b.Resize(beams)
	for i := 0; i < beams; i++ {
		b.Range[i] = 0.03 + 0.001*float32(i)
		b.Quality[i] = 0x0f
		b.Intensity[i] = 100
	}
	return b
}

func newRawDetection(ping uint32, beams []uint16, seconds float32) *records.RawDetection {
	d := &records.RawDetection{}
	d.Hdr = testHeader(layers.RecordTypeRawDetection, testYear, seconds)
	d.SonarID = testSonarID
	d.Ping = ping
	d.Detections = uint32(len(beams))
	d.SamplingRate = 34000
	for i, beam := range beams {
		d.BeamDescriptor = append(d.BeamDescriptor, beam)
		d.DetectionPoint = append(d.DetectionPoint, 1000+10*float32(i))
		d.RxAngle = append(d.RxAngle, float32(int(beam)-2)*0.2)
		d.DetectionFlags = append(d.DetectionFlags, 1)
		d.Quality = append(d.Quality, 3)
		d.Uncertainty = append(d.Uncertainty, 0)
		d.SignalStrength = append(d.SignalStrength, 50)
	}
	return d
}

func newComment(message string, seconds float32) *records.SystemEventMessage {
	m := &records.SystemEventMessage{}
	m.Hdr = testHeader(layers.RecordTypeSystemEventMessage, testYear, seconds)
	m.SonarID = testSonarID
	m.SetMessage(message)
	return m
}

func newNavigation(seconds float32, lon, lat float64) *records.Navigation {
	n := &records.Navigation{}
	n.Hdr = testHeader(layers.RecordTypeNavigation, testYear, seconds)
	n.Longitude = lon
	n.Latitude = lat
	n.SpeedOverGround = 2
	return n
}

// encodeRecords builds a byte stream with the real writer
func encodeRecords(t *testing.T, recs ...records.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)
	for _, rec := range recs {
		require.NoError(t, w.Write(rec))
	}
	return buf.Bytes()
}

func newTestReader(t *testing.T, data []byte, cfg *config.ReaderConfig) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(data), cfg)
	require.NoError(t, err)
	return r
}

// readAll returns every result up to the end of the stream and the error that ended it
func readAll(r *Reader) ([]*Result, error) {
	var results []*Result
	for {
		res, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return results, nil
			}
			return results, err
		}
		results = append(results, res)
	}
}
