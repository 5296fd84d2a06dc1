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
)

func NewInfoCommand(cfg *config.Config) *cobra.Command {
	var flags readerFlags
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Read a 7k file and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, cfg.ReaderConfig)
			report, err := command.ProcessFile(args[0], cfg.ReaderConfig, nil, nil)
			if err != nil {
				return err
			}
			return command.PrintYaml(cmd.OutOrStdout(), report)
		},
	}
	flags.add(cmd)
	return cmd
}
