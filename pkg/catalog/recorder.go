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
	"sync"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
)

const DefaultBatchSize = 256

// Recorder collects the records observed by a stream reader and stores them
// in batches. The first storage error stops recording and is kept for Err.
type Recorder struct {
	catalog   *Catalog
	stream    string
	batchSize int

	mu      sync.Mutex
	pending []Entry
	stored  int
	err     error
}

// NewRecorder creates the stream bucket and returns a recorder filling it.
// A batchSize below 1 selects DefaultBatchSize.
func (c *Catalog) NewRecorder(stream string, reset bool, batchSize int) (*Recorder, error) {
	if err := c.CreateStream(stream, reset); err != nil {
		return nil, err
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Recorder{
		catalog:   c,
		stream:    stream,
		batchSize: batchSize,
		pending:   make([]Entry, 0, batchSize),
	}, nil
}

func (r *Recorder) ObserveRecord(offset int64, hdr layers.Header, ping int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.pending = append(r.pending, NewEntry(offset, hdr, ping))
	if len(r.pending) >= r.batchSize {
		r.flush()
	}
}

// Flush stores the pending entries
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.flush()
	}
	return r.err
}

func (r *Recorder) flush() {
	if len(r.pending) == 0 {
		return
	}
	if err := r.catalog.Put(r.stream, r.pending...); err != nil {
		log.Error("Can not store %d catalog entries of stream %s: %s", len(r.pending), r.stream, err)
		r.err = err
		return
	}
	r.stored += len(r.pending)
	r.pending = r.pending[:0]
}

// Stored returns the number of entries written to the database
func (r *Recorder) Stored() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored
}

func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
