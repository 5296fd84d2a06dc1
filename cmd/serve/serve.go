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

package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-s7k/pkg/command"
	"jinr.ru/greenlab/go-s7k/pkg/config"
)

const (
	AddressOptionName    = "address"
	PortOptionName       = "port"
	ApiAddressOptionName = "api-address"
	ApiPortOptionName    = "api-port"
	NameOptionName       = "name"
	OutputOptionName     = "output"
	DBOptionName         = "db"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var address, apiAddress, dbPath string
	var port, apiPort int
	opts := command.ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Read a live datalogger feed and serve its catalog and stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Feed.Address = address
			}
			if port != 0 {
				cfg.Feed.Port = port
			}
			if apiAddress != "" {
				cfg.Api.Address = apiAddress
			}
			if apiPort != 0 {
				cfg.Api.Port = apiPort
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return command.StartServer(ctx, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Feed address to connect to. E.g. 192.168.1.2")
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Feed port number. E.g. 7000")
	cmd.Flags().StringVar(&apiAddress, ApiAddressOptionName, "", "Address to bind the API to")
	cmd.Flags().IntVar(&apiPort, ApiPortOptionName, 0, "Port number to bind the API to")
	cmd.Flags().StringVar(&opts.Name, NameOptionName, "feed", "Prefix of the catalog stream names")
	cmd.Flags().StringVar(&opts.Output, OutputOptionName, "", "File to copy the feed to")
	cmd.Flags().StringVar(&dbPath, DBOptionName, "", "Catalog database file")
	return cmd
}
