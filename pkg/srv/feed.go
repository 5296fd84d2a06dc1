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
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/nav"
	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

// FeedServer reads the record stream a datalogger serves over TCP. Every
// connection is one session, cataloged as its own stream.
type FeedServer struct {
	context.Context
	*config.Config
	Name       string
	RetryDelay time.Duration

	catalog *catalog.Catalog
	metrics *stream.Metrics
	writer  *stream.Writer

	mu     sync.Mutex
	status FeedStatus
}

var _ StatusSource = &FeedServer{}

// NewFeedServer creates a feed client. cat and metrics may be nil.
func NewFeedServer(ctx context.Context, cfg *config.Config, name string, cat *catalog.Catalog, metrics *stream.Metrics) *FeedServer {
	s := &FeedServer{
		Context:    ctx,
		Config:     cfg,
		Name:       name,
		RetryDelay: RetryDelay,
		catalog:    cat,
		metrics:    metrics,
	}
	s.status.Address = s.Address()
	return s
}

func (s *FeedServer) Address() string {
	return fmt.Sprintf("%s:%d", s.Feed.Address, s.Feed.Port)
}

// SetOutput copies every session to w
func (s *FeedServer) SetOutput(w io.Writer) {
	s.writer = stream.NewWriter(w, s.WriterConfig)
	s.writer.SetMetrics(s.metrics)
}

func (s *FeedServer) Status() FeedStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.status
	status.Nav = make(map[string]int, len(s.status.Nav))
	for k, v := range s.status.Nav {
		status.Nav[k] = v
	}
	status.Stats.Types = make(map[string]uint64, len(s.status.Stats.Types))
	for k, v := range s.status.Stats.Types {
		status.Stats.Types[k] = v
	}
	if s.status.Position != nil {
		p := *s.status.Position
		status.Position = &p
	}
	return status
}

func (s *FeedServer) update(f func(status *FeedStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.status)
}

// Run reads the feed until the context is canceled. A lost or refused
// connection is retried after RetryDelay.
func (s *FeedServer) Run() error {
	log.Info("Starting feed client: address: %s", s.Address())
	for {
		err := s.connect()
		if s.Err() != nil {
			log.Info("Feed client stopped")
			return nil
		}
		if err != nil {
			log.Warning("%s", err)
			s.update(func(status *FeedStatus) { status.LastError = err.Error() })
		}
		select {
		case <-s.Done():
			log.Info("Feed client stopped")
			return nil
		case <-time.After(s.RetryDelay):
		}
	}
}

func (s *FeedServer) connect() error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(s, "tcp", s.Address())
	if err != nil {
		return ErrFeedConnect{Address: s.Address(), Err: err}
	}
	defer conn.Close()
	log.Info("Connected to feed %s", conn.RemoteAddr())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.Done():
			conn.Close()
		case <-done:
		}
	}()
	return s.Session(conn)
}

// Session reads one connection to its end
func (s *FeedServer) Session(src io.Reader) error {
	var name string
	s.update(func(status *FeedStatus) {
		status.Sessions++
		status.Connected = true
		name = fmt.Sprintf("%s-%d", s.Name, status.Sessions)
		status.Stream = name
	})
	defer s.update(func(status *FeedStatus) { status.Connected = false })

	reader, err := stream.NewReader(src, s.ReaderConfig)
	if err != nil {
		return err
	}
	buffer := nav.NewBuffer(nav.DefaultCapacity)
	reader.SetNavSink(buffer)
	reader.SetMetrics(s.metrics)

	if s.catalog != nil {
		recorder, err := s.catalog.NewRecorder(name, true, 0)
		if err != nil {
			return err
		}
		reader.SetObserver(recorder)
		defer func() {
			if err := recorder.Flush(); err != nil {
				log.Error("Catalog of stream %s is incomplete: %s", name, err)
			}
			log.Info("Cataloged %d records of stream %s", recorder.Stored(), name)
		}()
	}

	for {
		res, err := reader.Read()
		if err == io.EOF {
			log.Info("Feed session %s closed at offset %d", name, reader.Tell())
			s.snapshot(reader, buffer, 0)
			return nil
		}
		if err != nil {
			s.snapshot(reader, buffer, 0)
			return ErrSession{Stream: name, Offset: reader.Tell(), Err: err}
		}
		if s.writer != nil {
			if err := s.writer.WriteResult(res); err != nil {
				log.Error("Can not copy %s of stream %s: %s", res.Kind, name, err)
			}
		}
		s.snapshot(reader, buffer, res.Epoch)
	}
}

func (s *FeedServer) snapshot(reader *stream.Reader, buffer *nav.Buffer, epoch float64) {
	stats := reader.Stats()
	counts := buffer.Counts()
	var position *Position
	if epoch > 0 {
		if lon, lat, ok := buffer.Position(epoch); ok {
			position = &Position{Epoch: epoch, Longitude: lon, Latitude: lat}
		}
	}
	var written int64
	if s.writer != nil {
		written = s.writer.Tell()
	}
	s.update(func(status *FeedStatus) {
		status.Stats = stats
		status.Nav = counts
		status.Written = written
		if epoch > 0 {
			status.LastEpoch = epoch
		}
		if position != nil {
			status.Position = position
		}
	})
}
