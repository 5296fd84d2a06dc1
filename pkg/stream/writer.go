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

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-s7k/pkg/config"
	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/log"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

// minimalTypes are the record types kept by a minimal re-export
var minimalTypes = map[layers.RecordType]bool{
	layers.RecordTypePosition:       true,
	layers.RecordTypeAltitude:       true,
	layers.RecordTypeDepth:          true,
	layers.RecordTypeCTD:            true,
	layers.RecordTypeRollPitchHeave: true,
	layers.RecordTypeHeading:        true,
	layers.RecordTypeNavigation:     true,
	layers.RecordTypeAttitude:       true,
}

// Writer encodes records to a 7k byte stream
type Writer struct {
	cfg     *config.WriterConfig
	dst     io.Writer
	offset  int64
	buf     gopacket.SerializeBuffer
	metrics *Metrics
	broken  error
}

// NewWriter creates a writer to dst. A nil cfg selects the defaults.
func NewWriter(dst io.Writer, cfg *config.WriterConfig) *Writer {
	if cfg == nil {
		cfg = config.NewDefaultWriterConfig()
	}
	return &Writer{
		cfg: cfg,
		dst: dst,
		buf: gopacket.NewSerializeBuffer(),
	}
}

func (w *Writer) SetMetrics(metrics *Metrics) {
	w.metrics = metrics
}

// Tell returns the number of bytes written so far
func (w *Writer) Tell() int64 {
	return w.offset
}

// Emits reports whether records of type t pass the writer configuration
func (w *Writer) Emits(t layers.RecordType) bool {
	return !w.cfg.Minimal || minimalTypes[t]
}

// WriteResult writes a result returned by Reader.Read
func (w *Writer) WriteResult(res *Result) error {
	if res.Ping != nil {
		return w.WritePing(res.Ping)
	}
	return w.Write(res.Record)
}

// WritePing writes the parts decoded for the ping and the parts synthesized for it,
// in canonical order
func (w *Writer) WritePing(p *records.Ping) error {
	if w.cfg.Minimal {
		return nil
	}
	for _, part := range (p.Parts | p.Synthesized).Parts() {
		if err := w.Write(p.Record(part)); err != nil {
			return err
		}
	}
	return nil
}

// Write encodes one record. The record header is updated with the size,
// offsets and flags actually written.
func (w *Writer) Write(rec records.Record) error {
	if w.broken != nil {
		return fmt.Errorf("%w: %s", ErrWriterBroken, w.broken)
	}
	hdr := *rec.Header()
	t := hdr.RecordType
	if !w.Emits(t) {
		return nil
	}
	codec, err := records.Lookup(t)
	if err != nil {
		return err
	}

	frame := &layers.DataRecordFrame{Header: hdr}
	if frame.Version == 0 {
		frame.Version = w.cfg.BathymetryVersion
	}
	if t == layers.RecordTypeBathymetry && frame.Version < w.cfg.BathymetryVersion {
		frame.Version = w.cfg.BathymetryVersion
	}
	if opt, ok := rec.(records.OptionalRecord); ok {
		if opt.HasOptionalData() {
			frame.OptionalDataOffset = uint32(layers.HeaderSize + rec.PayloadSize())
			if frame.OptionalDataIdentifier == 0 {
				frame.OptionalDataIdentifier = uint32(t)
			}
		} else {
			frame.OptionalDataOffset = 0
			frame.OptionalDataIdentifier = 0
		}
	} else if frame.OptionalDataOffset != 0 && hdr.Offset >= layers.MinHeaderOffset {
		// opaque payloads carry their optional section along, only the header in front of it changes size
		frame.OptionalDataOffset = uint32(int(frame.OptionalDataOffset) + layers.DefaultHeaderOffset - int(hdr.Offset))
	}

	size := layers.HeaderSize + codec.EncodedSize(rec) + layers.ChecksumSize
	payload := &records.PayloadLayer{Codec: codec, Record: rec}
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(w.buf, opts, frame, payload); err != nil {
		if errors.Is(err, ErrSizeMismatch) {
			w.broken = err
			log.Error("Error while encoding %s: %s", t, err)
		}
		return err
	}
	data := w.buf.Bytes()
	if len(data) != size {
		w.broken = records.ErrEncodedSize{RecordType: t, Expected: size, Actual: len(data)}
		log.Error("Error while encoding %s: %s", t, w.broken)
		return w.broken
	}

	n, err := w.dst.Write(data)
	w.offset += int64(n)
	if n < len(data) {
		if err == nil {
			err = io.ErrShortWrite
		}
		return ErrWrite{RecordType: t, Written: n, Expected: len(data), Err: err}
	}
	if err != nil {
		return err
	}
	*rec.Header() = frame.Header
	w.metrics.recordWritten(t.Name(), n)
	return nil
}
