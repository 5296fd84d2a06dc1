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
	"fmt"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/srv"
)

// ApiClient talks to a running serve command
type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d%s", cfg.Api.Address, cfg.Api.Port, srv.ApiPrefix),
	}
}

func (c *ApiClient) catalogUrl(stream string) string {
	return fmt.Sprintf("%s/catalog/%s", c.ApiPrefix, stream)
}

func (c *ApiClient) get(url string, v interface{}, params ...interface{}) error {
	r, err := req.Get(url, params...)
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return fmt.Errorf("%s: %s", r.Response().Status, strings.TrimSpace(r.String()))
	}
	return r.ToJSON(v)
}

// Stats returns the status of the live feed
func (c *ApiClient) Stats() (*srv.FeedStatus, error) {
	status := &srv.FeedStatus{}
	if err := c.get(c.ApiPrefix+"/stats", status); err != nil {
		return nil, err
	}
	return status, nil
}

// Streams returns the names of the cataloged streams
func (c *ApiClient) Streams() ([]string, error) {
	var streams []string
	if err := c.get(c.ApiPrefix+"/catalog", &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// Catalog returns the cataloged records of a stream
func (c *ApiClient) Catalog(stream string, filter catalog.Filter) ([]catalog.Entry, error) {
	param := req.Param{}
	if filter.RecordType != 0 {
		param["type"] = uint32(filter.RecordType)
	}
	if filter.From != 0 {
		param["from"] = filter.From
	}
	if filter.Limit != 0 {
		param["limit"] = filter.Limit
	}
	var entries []catalog.Entry
	if err := c.get(c.catalogUrl(stream), &entries, param); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *ApiClient) Summary(stream string) (*catalog.Summary, error) {
	summary := &catalog.Summary{}
	if err := c.get(c.catalogUrl(stream)+"/summary", summary); err != nil {
		return nil, err
	}
	return summary, nil
}
