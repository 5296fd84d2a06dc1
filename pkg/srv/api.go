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

package srv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
)

// ApiServer serves the feed status, the record catalog and the metrics
type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	feed     StatusSource
	catalog  *catalog.Catalog
	gatherer prometheus.Gatherer
}

// NewApiServer creates the API server. Routes whose backend is nil answer 404.
func NewApiServer(ctx context.Context, cfg *config.Config, feed StatusSource, cat *catalog.Catalog, gatherer prometheus.Gatherer) *ApiServer {
	s := &ApiServer{
		Context:  ctx,
		Config:   cfg,
		feed:     feed,
		catalog:  cat,
		gatherer: gatherer,
	}
	s.configureRouter()
	return s
}

func (s *ApiServer) Address() string {
	return fmt.Sprintf("%s:%d", s.Api.Address, s.Api.Port)
}

// Handler returns the router wrapped with access logging and panic recovery
func (s *ApiServer) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	return recovery(handlers.CombinedLoggingHandler(log.DebugWriter(), s.Router))
}

// Run serves until the context is canceled
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s", s.Address())
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.Address(),
	}
	go func() {
		<-s.Done()
		httpServer.Shutdown(context.Background())
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	if s.gatherer != nil {
		s.Router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	subRouter := s.Router.PathPrefix(ApiPrefix).Subrouter()
	subRouter.HandleFunc("/stats", s.handleStats()).Methods("GET")
	subRouter.HandleFunc("/catalog", s.handleStreams()).Methods("GET")
	subRouter.HandleFunc("/catalog/{stream}", s.handleCatalog()).Methods("GET")
	subRouter.HandleFunc("/catalog/{stream}/summary", s.handleSummary()).Methods("GET")
	subRouter.HandleFunc("/catalog/{stream}/{offset:[0-9]+}", s.handleEntry()).Methods("GET")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Can not encode response: %s", err)
	}
}

// catalogError maps catalog errors to http status codes
func catalogError(w http.ResponseWriter, err error) {
	var noStream catalog.ErrNoStream
	var noEntry catalog.ErrNoEntry
	if errors.As(err, &noStream) || errors.As(err, &noEntry) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *ApiServer) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.feed == nil {
			http.Error(w, "Feed is not running", http.StatusNotFound)
			return
		}
		writeJSON(w, s.feed.Status())
	}
}

func (s *ApiServer) handleStreams() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			http.Error(w, "Catalog is not open", http.StatusNotFound)
			return
		}
		streams, err := s.catalog.Streams()
		if err != nil {
			catalogError(w, err)
			return
		}
		if streams == nil {
			streams = []string{}
		}
		writeJSON(w, streams)
	}
}

// handleCatalog lists entries. Query parameters: type (record type number),
// from (stream offset) and limit.
func (s *ApiServer) handleCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			http.Error(w, "Catalog is not open", http.StatusNotFound)
			return
		}
		filter, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entries, err := s.catalog.List(mux.Vars(r)["stream"], filter)
		if err != nil {
			catalogError(w, err)
			return
		}
		writeJSON(w, entries)
	}
}

func (s *ApiServer) handleSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			http.Error(w, "Catalog is not open", http.StatusNotFound)
			return
		}
		summary, err := s.catalog.Summary(mux.Vars(r)["stream"])
		if err != nil {
			catalogError(w, err)
			return
		}
		writeJSON(w, summary)
	}
}

func (s *ApiServer) handleEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			http.Error(w, "Catalog is not open", http.StatusNotFound)
			return
		}
		vars := mux.Vars(r)
		offset, err := strconv.ParseInt(vars["offset"], 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entry, err := s.catalog.Get(vars["stream"], offset)
		if err != nil {
			catalogError(w, err)
			return
		}
		writeJSON(w, entry)
	}
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	var filter catalog.Filter
	query := r.URL.Query()
	if v := query.Get("type"); v != "" {
		t, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("wrong record type %q: %w", v, err)
		}
		filter.RecordType = layers.RecordType(t)
	}
	if v := query.Get("from"); v != "" {
		from, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("wrong offset %q: %w", v, err)
		}
		filter.From = from
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("wrong limit %q: %w", v, err)
		}
		filter.Limit = limit
	}
	return filter, nil
}
