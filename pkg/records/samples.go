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
	"fmt"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

// grow returns s resized to n elements, reallocating only when the capacity is too small.
// Elements kept from a previous use are not cleared.
func grow[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// at returns s[i], or the zero value when a count field claims more elements than s holds
func at[T any](s []T, i int) T {
	var zero T
	if i < 0 || i >= len(s) {
		return zero
	}
	return s[i]
}

// SampleWidth is the size in bytes of one stored sample
type SampleWidth uint8

const (
	SampleWidthNone SampleWidth = 0
	SampleWidth8    SampleWidth = 1
	SampleWidth16   SampleWidth = 2
	SampleWidth32   SampleWidth = 4
)

func (w SampleWidth) Bytes() int {
	return int(w)
}

func (w SampleWidth) Valid() bool {
	switch w {
	case SampleWidthNone, SampleWidth8, SampleWidth16, SampleWidth32:
		return true
	}
	return false
}

func (w SampleWidth) String() string {
	return fmt.Sprintf("%dbit", 8*int(w))
}

// ErrSampleWidth returned for a sample width code outside of 0, 1, 2, 4
type ErrSampleWidth struct {
	Code int
}

func (e ErrSampleWidth) Error() string {
	return fmt.Sprintf("Invalid sample width code: %d", e.Code)
}

func (e ErrSampleWidth) Is(target error) bool {
	return target == ErrUnintelligible
}

func sampleWidth(code int) (SampleWidth, error) {
	w := SampleWidth(code)
	if code < 0 || !w.Valid() {
		return SampleWidthNone, ErrSampleWidth{Code: code}
	}
	return w, nil
}

// readSamples reads len(dst) unsigned samples of the given width widened to 32 bits
func readSamples(r *layers.FieldReader, w SampleWidth, dst []uint32) {
	for i := range dst {
		switch w {
		case SampleWidth8:
			dst[i] = uint32(r.U8())
		case SampleWidth16:
			dst[i] = uint32(r.U16())
		case SampleWidth32:
			dst[i] = r.U32()
		default:
			dst[i] = 0
		}
	}
}

// readSignedSamples reads len(dst) signed samples of the given width sign extended to 32 bits
func readSignedSamples(r *layers.FieldReader, w SampleWidth, dst []int32) {
	for i := range dst {
		switch w {
		case SampleWidth8:
			dst[i] = int32(r.I8())
		case SampleWidth16:
			dst[i] = int32(r.I16())
		case SampleWidth32:
			dst[i] = r.I32()
		default:
			dst[i] = 0
		}
	}
}

// writeSample narrows a sample back to its stored width
func writeSample(w *layers.FieldWriter, width SampleWidth, v uint32) {
	switch width {
	case SampleWidth8:
		w.PutU8(uint8(v))
	case SampleWidth16:
		w.PutU16(uint16(v))
	case SampleWidth32:
		w.PutU32(v)
	}
}

func writeSignedSample(w *layers.FieldWriter, width SampleWidth, v int32) {
	switch width {
	case SampleWidth8:
		w.PutI8(int8(v))
	case SampleWidth16:
		w.PutI16(int16(v))
	case SampleWidth32:
		w.PutI32(v)
	}
}

// writeSamples writes n samples, zero filling past the end of src
func writeSamples(w *layers.FieldWriter, width SampleWidth, src []uint32, n int) {
	for i := 0; i < n; i++ {
		writeSample(w, width, at(src, i))
	}
}

// checkCount rejects counts that could not fit in the remaining bytes
func checkCount(what string, count, elemSize int, r *layers.FieldReader) error {
	if count < 0 {
		return ErrBadCount{What: what, Count: count, Limit: 0}
	}
	if elemSize < 1 {
		elemSize = 1
	}
	if count > r.Remaining()/elemSize {
		return ErrBadCount{What: what, Count: count, Limit: r.Remaining() / elemSize}
	}
	return nil
}
