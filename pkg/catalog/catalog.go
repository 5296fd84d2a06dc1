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
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
)

const (
	BucketPrefix = "stream_"
	OpenTimeout  = time.Second
)

// Entry describes one framed record of a stream
type Entry struct {
	Offset     int64             `json:"offset"`
	RecordType layers.RecordType `json:"recordType"`
	Name       string            `json:"name"`
	Size       uint32            `json:"size"`
	DeviceID   uint32            `json:"deviceId"`
	Epoch      float64           `json:"epoch"`
	// Ping is -1 for records outside of pings
	Ping int64 `json:"ping"`
}

func NewEntry(offset int64, hdr layers.Header, ping int64) Entry {
	return Entry{
		Offset:     offset,
		RecordType: hdr.RecordType,
		Name:       hdr.RecordType.Name(),
		Size:       hdr.Size,
		DeviceID:   hdr.DeviceID,
		Epoch:      hdr.Epoch(),
		Ping:       ping,
	}
}

// Summary aggregates the entries of a stream
type Summary struct {
	Stream  string         `json:"stream"`
	Records int            `json:"records"`
	Bytes   uint64         `json:"bytes"`
	Pings   int            `json:"pings"`
	First   float64        `json:"first"`
	Last    float64        `json:"last"`
	Types   map[string]int `json:"types"`
}

type Catalog struct {
	DB *bbolt.DB
}

// Open opens or creates the catalog database at path
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: OpenTimeout})
	if err != nil {
		return nil, err
	}
	return &Catalog{DB: db}, nil
}

func (c *Catalog) Close() error {
	return c.DB.Close()
}

func BucketName(stream string) string {
	return BucketPrefix + stream
}

// CreateStream creates the bucket of the stream. When reset is set an
// existing bucket is emptied first.
func (c *Catalog) CreateStream(stream string, reset bool) error {
	if stream == "" {
		return ErrStreamName{Stream: stream}
	}
	return c.DB.Update(func(tx *bbolt.Tx) error {
		name := []byte(BucketName(stream))
		if reset && tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (c *Catalog) DeleteStream(stream string) error {
	return c.DB.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket([]byte(BucketName(stream)))
		if err == bbolt.ErrBucketNotFound {
			return ErrNoStream{Stream: stream}
		}
		return err
	})
}

// Streams returns the names of the cataloged streams in lexical order
func (c *Catalog) Streams() ([]string, error) {
	var streams []string
	err := c.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if strings.HasPrefix(string(name), BucketPrefix) {
				streams = append(streams, strings.TrimPrefix(string(name), BucketPrefix))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(streams)
	return streams, nil
}

// Put stores the entries keyed by their stream offsets in one transaction
func (c *Catalog) Put(stream string, entries ...Entry) error {
	return c.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(stream)))
		if b == nil {
			return ErrNoStream{Stream: stream}
		}
		for _, e := range entries {
			data, err := yaml.Marshal(e)
			if err != nil {
				return err
			}
			if err := b.Put(offsetKey(e.Offset), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Catalog) Get(stream string, offset int64) (*Entry, error) {
	e := &Entry{}
	err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(stream)))
		if b == nil {
			return ErrNoStream{Stream: stream}
		}
		data := b.Get(offsetKey(offset))
		if data == nil {
			return ErrNoEntry{Stream: stream, Offset: offset}
		}
		return yaml.Unmarshal(data, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Filter selects entries in List. Zero fields match everything.
type Filter struct {
	RecordType layers.RecordType
	// From is the first stream offset to return
	From  int64
	Limit int
}

// List returns the entries of a stream in offset order
func (c *Catalog) List(stream string, filter Filter) ([]Entry, error) {
	entries := []Entry{}
	err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(stream)))
		if b == nil {
			return ErrNoStream{Stream: stream}
		}
		cur := b.Cursor()
		for k, v := cur.Seek(offsetKey(filter.From)); k != nil; k, v = cur.Next() {
			var e Entry
			if err := yaml.Unmarshal(v, &e); err != nil {
				log.Error("Can not decode catalog entry %x of stream %s: %s", k, stream, err)
				continue
			}
			if filter.RecordType != 0 && e.RecordType != filter.RecordType {
				continue
			}
			entries = append(entries, e)
			if filter.Limit > 0 && len(entries) >= filter.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Catalog) Summary(stream string) (*Summary, error) {
	entries, err := c.List(stream, Filter{})
	if err != nil {
		return nil, err
	}
	s := &Summary{Stream: stream, Types: map[string]int{}}
	pings := map[int64]struct{}{}
	for i, e := range entries {
		s.Records++
		s.Bytes += uint64(e.Size)
		s.Types[e.Name]++
		if e.Ping >= 0 {
			pings[e.Ping] = struct{}{}
		}
		if i == 0 || e.Epoch < s.First {
			s.First = e.Epoch
		}
		if e.Epoch > s.Last {
			s.Last = e.Epoch
		}
	}
	s.Pings = len(pings)
	return s, nil
}

func offsetKey(offset int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(offset))
	return b
}
