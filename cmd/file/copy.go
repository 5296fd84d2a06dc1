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

	"jinr.ru/greenlab/go-s7k/pkg/command"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/log"
)

const (
	MinimalOptionName           = "minimal"
	BathymetryVersionOptionName = "bathymetry-version"
)

func NewCopyCommand(cfg *config.Config) *cobra.Command {
	var flags readerFlags
	var minimal bool
	var bathymetryVersion uint16
	cmd := &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Read a 7k file and write the records it yields to a new file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, cfg.ReaderConfig)
			if cmd.Flags().Changed(MinimalOptionName) {
				cfg.Minimal = minimal
			}
			if cmd.Flags().Changed(BathymetryVersionOptionName) {
				cfg.BathymetryVersion = bathymetryVersion
			}
			report, err := command.CopyFile(args[0], args[1], cfg)
			if err != nil {
				return err
			}
			log.Info("Copied %d of %d bytes from %s to %s", report.Written, report.Bytes, args[0], args[1])
			return command.PrintYaml(cmd.OutOrStdout(), report)
		},
	}
	flags.add(cmd)
	cmd.Flags().BoolVar(&minimal, MinimalOptionName, false, "Keep only navigation and attitude records")
	cmd.Flags().Uint16Var(&bathymetryVersion, BathymetryVersionOptionName, config.DefaultBathymetryVersion, "Minimal header version of bathymetry records")
	return cmd
}
