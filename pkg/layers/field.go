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

package layers

import (
	"encoding/binary"
	"math"
)

// FieldReader reads little-endian fields from a byte slice.
// The first out-of-bounds access is remembered and every following read returns zero,
// so a decoder can read a whole structure and check Err once at the end.
type FieldReader struct {
	buf []byte
	off int
	err error
}

func NewFieldReader(buf []byte, off int) *FieldReader {
	return &FieldReader{buf: buf, off: off}
}

func (r *FieldReader) Offset() int {
	return r.off
}

func (r *FieldReader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of unread bytes
func (r *FieldReader) Remaining() int {
	if r.off >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.off
}

func (r *FieldReader) Err() error {
	return r.err
}

// Seek moves to an absolute offset
func (r *FieldReader) Seek(off int) {
	if r.err != nil {
		return
	}
	if off < 0 || off > len(r.buf) {
		r.err = ErrOutOfBounds{Offset: off, Length: 0, Size: len(r.buf)}
		return
	}
	r.off = off
}

func (r *FieldReader) Skip(n int) {
	r.take(n)
}

func (r *FieldReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off < 0 || r.off+n > len(r.buf) {
		r.err = ErrOutOfBounds{Offset: r.off, Length: n, Size: len(r.buf)}
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *FieldReader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *FieldReader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *FieldReader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *FieldReader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *FieldReader) I8() int8 {
	return int8(r.U8())
}

func (r *FieldReader) I16() int16 {
	return int16(r.U16())
}

func (r *FieldReader) I32() int32 {
	return int32(r.U32())
}

func (r *FieldReader) F32() float32 {
	return math.Float32frombits(r.U32())
}

func (r *FieldReader) F64() float64 {
	return math.Float64frombits(r.U64())
}

// Bytes copies the next n bytes into dst, which must have length n
func (r *FieldReader) Bytes(dst []byte) {
	b := r.take(len(dst))
	if b == nil {
		return
	}
	copy(dst, b)
}

// String reads a fixed-size, zero-padded text field
func (r *FieldReader) String(n int) string {
	b := r.take(n)
	if b == nil {
		return ""
	}
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// FieldWriter writes little-endian fields into a preallocated byte slice.
// Writing past the end is remembered as an error, like FieldReader.
type FieldWriter struct {
	buf []byte
	off int
	err error
}

func NewFieldWriter(buf []byte) *FieldWriter {
	return &FieldWriter{buf: buf}
}

func (w *FieldWriter) Offset() int {
	return w.off
}

func (w *FieldWriter) Err() error {
	return w.err
}

func (w *FieldWriter) take(n int) []byte {
	if w.err != nil {
		return nil
	}
	if n < 0 || w.off+n > len(w.buf) {
		w.err = ErrOutOfBounds{Offset: w.off, Length: n, Size: len(w.buf)}
		return nil
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b
}

func (w *FieldWriter) PutU8(v uint8) {
	if b := w.take(1); b != nil {
		b[0] = v
	}
}

func (w *FieldWriter) PutU16(v uint16) {
	if b := w.take(2); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
}

func (w *FieldWriter) PutU32(v uint32) {
	if b := w.take(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

func (w *FieldWriter) PutU64(v uint64) {
	if b := w.take(8); b != nil {
		binary.LittleEndian.PutUint64(b, v)
	}
}

func (w *FieldWriter) PutI8(v int8) {
	w.PutU8(uint8(v))
}

func (w *FieldWriter) PutI16(v int16) {
	w.PutU16(uint16(v))
}

func (w *FieldWriter) PutI32(v int32) {
	w.PutU32(uint32(v))
}

func (w *FieldWriter) PutF32(v float32) {
	w.PutU32(math.Float32bits(v))
}

func (w *FieldWriter) PutF64(v float64) {
	w.PutU64(math.Float64bits(v))
}

func (w *FieldWriter) PutBytes(v []byte) {
	if b := w.take(len(v)); b != nil {
		copy(b, v)
	}
}

// PutString writes s into a fixed-size field of n bytes, truncating or zero padding
func (w *FieldWriter) PutString(s string, n int) {
	b := w.take(n)
	if b == nil {
		return
	}
	i := copy(b, s)
	for ; i < n; i++ {
		b[i] = 0
	}
}

// Zero writes n zero bytes
func (w *FieldWriter) Zero(n int) {
	b := w.take(n)
	for i := range b {
		b[i] = 0
	}
}
