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

package file

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-s7k/pkg/config"
)

const (
	VerifyChecksumOptionName = "verify-checksum"
	ReconstructOptionName    = "reconstruct"
	PartsOptionName          = "parts"
	SoundSpeedOptionName     = "sound-speed"
)

// readerFlags override the reader configuration when they are set
type readerFlags struct {
	verifyChecksum bool
	reconstruct    bool
	parts          []string
	soundSpeed     float64
}

func (f *readerFlags) add(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.verifyChecksum, VerifyChecksumOptionName, false, "Drop records with a wrong checksum")
	cmd.Flags().BoolVar(&f.reconstruct, ReconstructOptionName, true, "Compute soundings of pings without native bathymetry")
	cmd.Flags().StringSliceVar(&f.parts, PartsOptionName, nil, "Ping parts any of which completes a ping. E.g. bathymetry,rawdetection")
	cmd.Flags().Float64Var(&f.soundSpeed, SoundSpeedOptionName, 0, "Sound speed in m/s used when a ping carries none")
}

func (f *readerFlags) apply(cmd *cobra.Command, cfg *config.ReaderConfig) {
	if cmd.Flags().Changed(VerifyChecksumOptionName) {
		cfg.VerifyChecksum = f.verifyChecksum
	}
	if cmd.Flags().Changed(ReconstructOptionName) {
		cfg.ReconstructBathymetry = f.reconstruct
	}
	if cmd.Flags().Changed(PartsOptionName) {
		cfg.CompletionParts = f.parts
	}
	if cmd.Flags().Changed(SoundSpeedOptionName) {
		cfg.DefaultSoundSpeed = f.soundSpeed
	}
}
