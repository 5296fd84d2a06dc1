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
	"github.com/spf13/cobra"

	pkgcatalog "jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/command"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

const (
	TypeOptionName    = "type"
	FromOptionName    = "from"
	LimitOptionName   = "limit"
	SummaryOptionName = "summary"
	RemoteOptionName  = "remote"
)

// lister is served either by the local database or by a running server
type lister interface {
	Streams() ([]string, error)
	List(stream string, filter pkgcatalog.Filter) ([]pkgcatalog.Entry, error)
	Summary(stream string) (*pkgcatalog.Summary, error)
}

type remoteLister struct {
	*command.ApiClient
}

func (r remoteLister) List(stream string, filter pkgcatalog.Filter) ([]pkgcatalog.Entry, error) {
	return r.Catalog(stream, filter)
}

func NewListCommand(cfg *config.Config) *cobra.Command {
	var recordType uint32
	var from int64
	var limit int
	var summary, remote bool
	var dbPath string
	cmd := &cobra.Command{
		Use:   "list [stream]",
		Short: "List cataloged streams or the records of one stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src lister
			if remote {
				src = remoteLister{command.NewApiClient(cfg)}
			} else {
				if dbPath != "" {
					cfg.DBPath = dbPath
				}
				cat, err := pkgcatalog.Open(cfg.DBPath)
				if err != nil {
					return err
				}
				defer cat.Close()
				src = cat
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				streams, err := src.Streams()
				if err != nil {
					return err
				}
				return command.PrintYaml(out, streams)
			}
			if summary {
				s, err := src.Summary(args[0])
				if err != nil {
					return err
				}
				return command.PrintYaml(out, s)
			}
			entries, err := src.List(args[0], pkgcatalog.Filter{
				RecordType: layers.RecordType(recordType),
				From:       from,
				Limit:      limit,
			})
			if err != nil {
				return err
			}
			return command.PrintYaml(out, entries)
		},
	}
	cmd.Flags().Uint32Var(&recordType, TypeOptionName, 0, "Only records of this type number. E.g. 7006")
	cmd.Flags().Int64Var(&from, FromOptionName, 0, "First stream offset")
	cmd.Flags().IntVar(&limit, LimitOptionName, 0, "Maximum number of records")
	cmd.Flags().BoolVar(&summary, SummaryOptionName, false, "Print the stream summary instead of its records")
	cmd.Flags().BoolVar(&remote, RemoteOptionName, false, "Query the API of a running server instead of the database file")
	cmd.Flags().StringVar(&dbPath, DBOptionName, "", "Catalog database file")
	return cmd
}
