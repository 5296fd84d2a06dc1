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

package catalog

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgcatalog "jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/command"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/log"
)

const (
	NameOptionName = "name"
	DBOptionName   = "db"
)

func NewBuildCommand(cfg *config.Config) *cobra.Command {
	var name, dbPath string
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Catalog every record of a 7k file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			cat, err := pkgcatalog.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer cat.Close()
			report, err := command.BuildCatalog(cat, name, args[0], cfg.ReaderConfig)
			if err != nil {
				return err
			}
			log.Info("Cataloged %d records of %s as stream %s", report.Stats.Records, args[0], name)
			summary, err := cat.Summary(name)
			if err != nil {
				return err
			}
			return command.PrintYaml(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&name, NameOptionName, "", "Stream name. Defaults to the file name without extension")
	cmd.Flags().StringVar(&dbPath, DBOptionName, "", "Catalog database file")
	return cmd
}
