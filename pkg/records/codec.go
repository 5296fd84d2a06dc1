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

package records

import (
	"errors"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

// Codec decodes and encodes the payload of one record type
type Codec interface {
	RecordType() layers.RecordType
	// New allocates an empty record the codec can decode into
	New() Record
	// Decode fills rec from data, which holds the whole record starting with the header
	Decode(data []byte, hdr layers.Header, rec Record) error
	// Encode returns the payload bytes including the optional data section
	Encode(rec Record) ([]byte, error)
	EncodedSize(rec Record) int
}

type payloadCodec struct {
	recordType layers.RecordType
	newRecord  func() Record
}

func (c payloadCodec) RecordType() layers.RecordType {
	return c.recordType
}

func (c payloadCodec) New() Record {
	return c.newRecord()
}

func (c payloadCodec) Decode(data []byte, hdr layers.Header, rec Record) error {
	end := hdr.PayloadEnd()
	if end > len(data) || hdr.PayloadOffset() > end {
		return ErrDecode{RecordType: c.recordType,
			Err: layers.ErrOutOfBounds{Offset: hdr.PayloadOffset(), Length: end - hdr.PayloadOffset(), Size: len(data)}}
	}
	*rec.Header() = hdr

	opt, hasOptional := rec.(OptionalRecord)
	payloadEnd := end
	if hasOptional {
		opt.SetOptionalData(false)
		if hdr.OptionalDataOffset != 0 {
			payloadEnd = int(hdr.OptionalDataOffset)
		}
	}

	r := layers.NewFieldReader(data[:payloadEnd], hdr.PayloadOffset())
	if err := rec.DecodePayload(r); err != nil {
		return ErrDecode{RecordType: c.recordType, Err: err}
	}
	if err := r.Err(); err != nil {
		return ErrDecode{RecordType: c.recordType, Err: err}
	}

	if hasOptional && hdr.OptionalDataOffset != 0 {
		or := layers.NewFieldReader(data[:end], int(hdr.OptionalDataOffset))
		if err := opt.DecodeOptional(or); err != nil {
			return ErrDecode{RecordType: c.recordType, Err: err}
		}
		if err := or.Err(); err != nil {
			return ErrDecode{RecordType: c.recordType, Err: err}
		}
		opt.SetOptionalData(true)
	}
	return nil
}

func (c payloadCodec) EncodedSize(rec Record) int {
	size := rec.PayloadSize()
	if opt, ok := rec.(OptionalRecord); ok && opt.HasOptionalData() {
		size += opt.OptionalSize()
	}
	return size
}

func (c payloadCodec) Encode(rec Record) ([]byte, error) {
	size := c.EncodedSize(rec)
	buf := make([]byte, size)
	w := layers.NewFieldWriter(buf)
	rec.EncodePayload(w)
	if opt, ok := rec.(OptionalRecord); ok && opt.HasOptionalData() {
		opt.EncodeOptional(w)
	}
	if err := w.Err(); err != nil {
		// the encoder ran past the computed size
		if errors.As(err, new(layers.ErrOutOfBounds)) {
			return nil, ErrEncodedSize{RecordType: c.recordType, Expected: size, Actual: size + 1}
		}
		return nil, err
	}
	if w.Offset() != size {
		return nil, ErrEncodedSize{RecordType: c.recordType, Expected: size, Actual: w.Offset()}
	}
	return buf, nil
}

var codecs = map[layers.RecordType]Codec{}

func register(t layers.RecordType, newRecord func() Record) {
	codecs[t] = payloadCodec{recordType: t, newRecord: newRecord}
}

// Lookup returns the codec for a record type. Every valid type has one,
// the types without a typed codec get the opaque codec.
func Lookup(t layers.RecordType) (Codec, error) {
	if c, ok := codecs[t]; ok {
		return c, nil
	}
	if !t.Valid() {
		return nil, ErrNoCodec{RecordType: t}
	}
	return payloadCodec{recordType: t, newRecord: func() Record { return &Raw{} }}, nil
}

// Typed reports whether t has a codec that understands its fields
func Typed(t layers.RecordType) bool {
	_, ok := codecs[t]
	return ok
}

// Raw keeps the payload of a record type without a typed codec.
// The optional data section, if any, stays inside Data.
type Raw struct {
	Base
	Data []byte
}

var rawKinds = map[layers.RecordType]Kind{
	layers.RecordTypeConfiguration:          KindParameter,
	layers.RecordTypeFirmwareHardwareConfig: KindParameter,
	layers.RecordTypeBITE:                   KindStatus,
	layers.RecordTypeBITESummary:            KindStatus,
	layers.RecordTypeGeodesy:                KindParameter,
	layers.RecordTypeCustomAttitude:         KindAttitude,
	layers.RecordTypeMotionOverGround:       KindNavigation,
	layers.RecordTypeSurveyLine:             KindParameter,
}

func (r *Raw) Kind() Kind {
	if k, ok := rawKinds[r.Hdr.RecordType]; ok {
		return k
	}
	return KindOther
}

func (r *Raw) DecodePayload(fr *layers.FieldReader) error {
	r.Data = grow(r.Data, fr.Remaining())
	fr.Bytes(r.Data)
	return nil
}

func (r *Raw) EncodePayload(w *layers.FieldWriter) {
	w.PutBytes(r.Data)
}

func (r *Raw) PayloadSize() int {
	return len(r.Data)
}
