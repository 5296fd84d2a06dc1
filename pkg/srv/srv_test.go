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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-s7k/pkg/catalog"
	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

func testHeader(t layers.RecordType, seconds float32) layers.Header {
	return layers.Header{
		Version:    5,
		RecordType: t,
		DeviceID:   7125,
		Time:       layers.Time{Year: 2019, Day: 20, Hours: 10, Seconds: seconds},
	}
}

// feedData returns a comment followed by two navigation fixes
func feedData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := stream.NewWriter(&buf, nil)
	comment := &records.SystemEventMessage{}
	comment.Hdr = testHeader(layers.RecordTypeSystemEventMessage, 0)
	comment.SetMessage("logging")
	require.NoError(t, w.Write(comment))
	for i := 0; i < 2; i++ {
		nav := &records.Navigation{}
		nav.Hdr = testHeader(layers.RecordTypeNavigation, float32(i+1))
		nav.Longitude = 0.1
		nav.Latitude = 0.2 + 0.01*float64(i)
		require.NoError(t, w.Write(nav))
	}
	return buf.Bytes()
}

func openCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFeedSession(t *testing.T) {
	data := feedData(t)
	cat := openCatalog(t)
	reg := prometheus.NewRegistry()
	s := NewFeedServer(context.Background(), config.NewDefaultConfig(), "feed", cat, stream.NewMetrics(reg))
	var out bytes.Buffer
	s.SetOutput(&out)

	require.NoError(t, s.Session(bytes.NewReader(data)))

	status := s.Status()
	assert.False(t, status.Connected)
	assert.Equal(t, 1, status.Sessions)
	assert.Equal(t, "feed-1", status.Stream)
	assert.Equal(t, uint64(3), status.Stats.Records)
	assert.Equal(t, 2, status.Nav["position"])
	require.NotNil(t, status.Position)
	assert.InDelta(t, 0.1*180/3.141592653589793, status.Position.Longitude, 1e-9)
	assert.Equal(t, int64(len(data)), status.Written)
	assert.Equal(t, data, out.Bytes())

	entries, err := cat.List("feed-1", catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, s.Session(bytes.NewReader(data)))
	assert.Equal(t, "feed-2", s.Status().Stream)
	streams, err := cat.Streams()
	require.NoError(t, err)
	assert.Equal(t, []string{"feed-1", "feed-2"}, streams)
}

func TestFeedSessionStatusIsCopied(t *testing.T) {
	s := NewFeedServer(context.Background(), config.NewDefaultConfig(), "feed", nil, nil)
	require.NoError(t, s.Session(bytes.NewReader(feedData(t))))
	status := s.Status()
	status.Stats.Types["Navigation"] = 100
	status.Nav["position"] = 100
	assert.Equal(t, uint64(2), s.Status().Stats.Types["Navigation"])
	assert.Equal(t, 2, s.Status().Nav["position"])
}

func TestFeedRun(t *testing.T) {
	data := feedData(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write(data)
		conn.Close()
	}()

	cfg := config.NewDefaultConfig()
	cfg.Feed.Address = "127.0.0.1"
	cfg.Feed.Port = ln.Addr().(*net.TCPAddr).Port
	cat := openCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := NewFeedServer(ctx, cfg, "live", cat, nil)
	s.RetryDelay = time.Hour

	done := make(chan error)
	go func() { done <- s.Run() }()
	require.Eventually(t, func() bool {
		status := s.Status()
		return status.Sessions == 1 && !status.Connected && status.Stats.Records == 3
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("feed client did not stop")
	}

	entries, err := cat.List("live-1", catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFeedRunRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	cfg := config.NewDefaultConfig()
	cfg.Feed.Address = "127.0.0.1"
	cfg.Feed.Port = port
	ctx, cancel := context.WithCancel(context.Background())
	s := NewFeedServer(ctx, cfg, "live", nil, nil)
	s.RetryDelay = time.Hour
	done := make(chan error)
	go func() { done <- s.Run() }()
	require.Eventually(t, func() bool {
		return s.Status().LastError != ""
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, s.Status().LastError, "Can not connect to feed")
	cancel()
	assert.NoError(t, <-done)
}

type fixedStatus FeedStatus

func (f fixedStatus) Status() FeedStatus {
	return FeedStatus(f)
}

func get(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestApiServer(t *testing.T) {
	cat := openCatalog(t)
	require.NoError(t, cat.CreateStream("s", false))
	require.NoError(t, cat.Put("s",
		catalog.NewEntry(0, testHeader(layers.RecordTypeFileHeader, 0), -1),
		catalog.NewEntry(100, testHeader(layers.RecordTypeBathymetry, 1), 4),
		catalog.NewEntry(300, testHeader(layers.RecordTypeBathymetry, 2), 5),
	))
	reg := prometheus.NewRegistry()
	metrics := stream.NewMetrics(reg)
	reader, err := stream.NewReader(bytes.NewReader(feedData(t)), nil)
	require.NoError(t, err)
	reader.SetMetrics(metrics)
	_, err = reader.Read()
	require.NoError(t, err)

	feed := fixedStatus{Address: "127.0.0.1:7000", Sessions: 2, Stream: "s"}
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), feed, cat, reg)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var status FeedStatus
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/api/stats", &status))
	assert.Equal(t, 2, status.Sessions)

	var streams []string
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/api/catalog", &streams))
	assert.Equal(t, []string{"s"}, streams)

	var entries []catalog.Entry
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/api/catalog/s?type=7006&limit=1", &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(100), entries[0].Offset)

	var entry catalog.Entry
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/api/catalog/s/300", &entry))
	assert.Equal(t, int64(5), entry.Ping)

	var summary catalog.Summary
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/api/catalog/s/summary", &summary))
	assert.Equal(t, 2, summary.Pings)

	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/catalog/none", nil))
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/catalog/s/42", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/api/catalog/s?limit=x", nil))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "s7k_records_read_total")
}

func TestApiServerWithoutBackends(t *testing.T) {
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), nil, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/stats", nil))
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/catalog", nil))
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/metrics", nil))
}
