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
	"bufio"
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/srv"
	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

// ServeOptions ...
type ServeOptions struct {
	// Name prefixes the catalog streams of the feed sessions
	Name string
	// Output is the file the feed is copied to, none when empty
	Output string
}

// StartServer runs the feed client and the API server until ctx is canceled
// or the API server fails
func StartServer(ctx context.Context, cfg *config.Config, opts ServeOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := stream.NewMetrics(reg)

	cat, err := catalog.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	feed := srv.NewFeedServer(ctx, cfg, opts.Name, cat, metrics)
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out := bufio.NewWriter(f)
		defer func() {
			if err := out.Flush(); err != nil {
				log.Error("Can not flush %s: %s", opts.Output, err)
			}
		}()
		feed.SetOutput(out)
	}

	api := srv.NewApiServer(ctx, cfg, feed, cat, reg)
	apiErr := make(chan error, 1)
	go func() {
		err := api.Run()
		if err != nil {
			log.Error("API server failed: %s", err)
			cancel()
		}
		apiErr <- err
	}()

	if err := feed.Run(); err != nil {
		return err
	}
	return <-apiErr
}
