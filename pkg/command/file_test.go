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

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

func header(t layers.RecordType, seconds float32) layers.Header {
	return layers.Header{
		Version:    5,
		RecordType: t,
		DeviceID:   7125,
		Time:       layers.Time{Year: 2021, Day: 32, Hours: 6, Seconds: seconds},
	}
}

// writeSurvey stores a file header, a navigation fix and two pings
func writeSurvey(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.s7k")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := stream.NewWriter(f, nil)

	fh := &records.FileHeader{}
	fh.Hdr = header(layers.RecordTypeFileHeader, 0)
	fh.RecordingName = "line_7"
	fh.Devices = 1
	fh.DeviceTable = []records.Device{{DeviceID: 7125}}
	require.NoError(t, w.Write(fh))

	nav := &records.Navigation{}
	nav.Hdr = header(layers.RecordTypeNavigation, 0.5)
	nav.Latitude = 0.7
	nav.Longitude = 0.2
	require.NoError(t, w.Write(nav))

	for ping := uint32(1); ping <= 2; ping++ {
		ss := &records.SonarSettings{}
		ss.Hdr = header(layers.RecordTypeSonarSettings, float32(ping))
		ss.Ping = ping
		ss.SoundVelocity = 1500
		require.NoError(t, w.Write(ss))
		b := &records.Bathymetry{}
		b.Hdr = header(layers.RecordTypeBathymetry, float32(ping))
		b.Ping = ping
		b.SoundVelocity = 1500
		b.Resize(4)
		for i := range b.Range {
			b.Range[i] = 0.02
			b.Quality[i] = 0x0f
		}
		require.NoError(t, w.Write(b))
	}
	return path
}

func TestProcessFile(t *testing.T) {
	path := writeSurvey(t)
	var seen int
	report, err := ProcessFile(path, nil, nil, func(res *stream.Result) error {
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, seen)
	assert.Equal(t, "line_7", report.RecordingName)
	assert.Equal(t, []uint32{7125}, report.Devices)
	assert.Equal(t, 2, report.Pings)
	assert.Zero(t, report.Salvaged)
	assert.Equal(t, 1, report.Results["header"])
	assert.Equal(t, 2, report.Results["data"])
	assert.Equal(t, 1, report.Results["navigation"])
	assert.Equal(t, 1, report.Nav["position"])
	assert.Equal(t, uint64(6), report.Stats.Records)
	assert.Equal(t, "2021-02-01T06:00:00Z", report.Start)
	assert.Equal(t, "2021-02-01T06:00:02Z", report.End)
}

func TestProcessFileMissing(t *testing.T) {
	_, err := ProcessFile(filepath.Join(t.TempDir(), "none"), nil, nil, nil)
	assert.True(t, os.IsNotExist(err))
}

func TestCopyFile(t *testing.T) {
	src := writeSurvey(t)
	dst := filepath.Join(t.TempDir(), "copy.s7k")
	report, err := CopyFile(src, dst, config.NewDefaultConfig())
	require.NoError(t, err)
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), report.Written)

	copied, err := ProcessFile(dst, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, report.Results, copied.Results)
	assert.Equal(t, report.Pings, copied.Pings)
	assert.Equal(t, report.RecordingName, copied.RecordingName)
}

func TestCopyFileMinimal(t *testing.T) {
	src := writeSurvey(t)
	dst := filepath.Join(t.TempDir(), "nav.s7k")
	cfg := config.NewDefaultConfig()
	cfg.Minimal = true
	_, err := CopyFile(src, dst, cfg)
	require.NoError(t, err)

	copied, err := ProcessFile(dst, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"navigation": 1}, copied.Results)
}

func TestBuildCatalog(t *testing.T) {
	path := writeSurvey(t)
	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer cat.Close()

	for i := 0; i < 2; i++ {
		_, err = BuildCatalog(cat, "survey", path, nil)
		require.NoError(t, err)
	}
	entries, err := cat.List("survey", catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, int64(-1), entries[0].Ping)
	assert.Equal(t, int64(1), entries[2].Ping)
	assert.Equal(t, int64(2), entries[5].Ping)
}
