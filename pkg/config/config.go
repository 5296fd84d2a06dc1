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
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// ReaderConfig controls how a 7k stream is decoded and how pings are assembled
type ReaderConfig struct {
	VerifyChecksum        bool     `yaml:"verify_checksum"`
	ReconstructBathymetry bool     `yaml:"reconstruct_bathymetry"`
	CompletionParts       []string `yaml:"completion_parts"`
	DefaultSoundSpeed     float64  `yaml:"default_sound_speed"`
	SwapCutoffYear        int      `yaml:"swap_cutoff_year"`
	ClockBugLastYear      int      `yaml:"clock_bug_last_year"`
	MinClockOffset        float64  `yaml:"min_clock_offset"`
	StaleClockAge         float64  `yaml:"stale_clock_age"`
	MaxRecordSize         int      `yaml:"max_record_size"`
}

// WriterConfig controls record emission
type WriterConfig struct {
	Minimal           bool   `yaml:"minimal"`
	BathymetryVersion uint16 `yaml:"bathymetry_version"`
}

type FeedConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type ApiConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type Config struct {
	LogLevel      string `yaml:"log_level"`
	DBPath        string `yaml:"db_path"`
	*ReaderConfig `yaml:"reader,omitempty"`
	*WriterConfig `yaml:"writer,omitempty"`
	Feed          *FeedConfig `yaml:"feed,omitempty"`
	Api           *ApiConfig  `yaml:"api,omitempty"`
	filepath      string
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the defaults. A missing file is not an error.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return ErrConfigParse{Path: c.filepath, Err: err}
	}
	return nil
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DBFile)
}

func NewDefaultReaderConfig() *ReaderConfig {
	parts := make([]string, len(DefaultCompletionParts))
	copy(parts, DefaultCompletionParts)
	return &ReaderConfig{
		VerifyChecksum:        false,
		ReconstructBathymetry: true,
		CompletionParts:       parts,
		DefaultSoundSpeed:     DefaultSoundSpeed,
		SwapCutoffYear:        DefaultSwapCutoffYear,
		ClockBugLastYear:      DefaultClockBugLastYear,
		MinClockOffset:        DefaultMinClockOffset,
		StaleClockAge:         DefaultStaleClockAge,
		MaxRecordSize:         DefaultMaxRecordSize,
	}
}

func NewDefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Minimal:           false,
		BathymetryVersion: DefaultBathymetryVersion,
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		DBPath:       DefaultDBPath(),
		ReaderConfig: NewDefaultReaderConfig(),
		WriterConfig: NewDefaultWriterConfig(),
		Feed: &FeedConfig{
			Address: DefaultFeedAddress,
			Port:    DefaultFeedPort,
		},
		Api: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		filepath: DefaultConfigPath(),
	}
}
