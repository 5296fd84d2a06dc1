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

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	_, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	_, err = run(t, "--config", path, "config", "init")
	assert.Error(t, err)

	out, err := run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "max_record_size:")
	assert.Contains(t, out, "bathymetry_version: 5")
}

func TestInfoAndCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "line.s7k")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := stream.NewWriter(f, nil)
	m := &records.SystemEventMessage{}
	m.Hdr = layers.Header{Version: 5, RecordType: layers.RecordTypeSystemEventMessage, Time: layers.Time{Year: 2020, Day: 1}}
	m.SetMessage("hello")
	require.NoError(t, w.Write(m))
	require.NoError(t, f.Close())

	config := filepath.Join(dir, "config")
	out, err := run(t, "--config", config, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "comment: 1")

	db := filepath.Join(dir, "catalog.db")
	_, err = run(t, "--config", config, "catalog", "build", "--db", db, path)
	require.NoError(t, err)
	out, err = run(t, "--config", config, "catalog", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "- line\n", out)
	out, err = run(t, "--config", config, "catalog", "list", "--db", db, "line")
	require.NoError(t, err)
	assert.Contains(t, out, "name: SystemEventMessage")

	_, err = run(t, "--config", config, "info", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
