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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", ConfigFile)
	c := NewDefaultConfig()
	c.SetPath(path)
	c.LogLevel = "debug"
	c.VerifyChecksum = true
	c.CompletionParts = []string{"bathymetry"}
	c.Minimal = true
	c.Api.Port = 9000
	require.NoError(t, c.Persist(false))

	err := c.Persist(false)
	var exists ErrConfigFileExists
	assert.True(t, errors.As(err, &exists))
	assert.NoError(t, c.Persist(true))

	loaded := NewDefaultConfig()
	loaded.SetPath(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, "debug", loaded.LogLevel)
	assert.True(t, loaded.VerifyChecksum)
	assert.Equal(t, []string{"bathymetry"}, loaded.CompletionParts)
	assert.True(t, loaded.Minimal)
	assert.Equal(t, 9000, loaded.Api.Port)
	assert.Equal(t, DefaultFeedPort, loaded.Feed.Port)
	assert.Equal(t, DefaultSoundSpeed, loaded.DefaultSoundSpeed)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	c := NewDefaultConfig()
	c.SetPath(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, c.Load())
	assert.Equal(t, DefaultLogLevel, c.LogLevel)
	assert.Equal(t, DefaultCompletionParts, c.CompletionParts)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("reader:\n  max_record_size: 1024\n"), 0644))
	c := NewDefaultConfig()
	c.SetPath(path)
	require.NoError(t, c.Load())
	assert.Equal(t, 1024, c.MaxRecordSize)
	assert.Equal(t, DefaultClockBugLastYear, c.ClockBugLastYear)
	assert.Equal(t, uint16(DefaultBathymetryVersion), c.BathymetryVersion)
}

func TestLoadBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("reader: [\n"), 0644))
	c := NewDefaultConfig()
	c.SetPath(path)
	var parseErr ErrConfigParse
	assert.True(t, errors.As(c.Load(), &parseErr))
}

func TestDefaultReaderConfigIsIndependent(t *testing.T) {
	a := NewDefaultReaderConfig()
	a.CompletionParts[0] = "tvg"
	assert.Equal(t, "bathymetry", NewDefaultReaderConfig().CompletionParts[0])
}
