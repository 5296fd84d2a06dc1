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

	"jinr.ru/greenlab/go-s7k/pkg/layers"
	"jinr.ru/greenlab/go-s7k/pkg/records"
)

var (
	// ErrFraming is matched by bad sync pattern, record type or size. The reader recovers by resync.
	ErrFraming = layers.ErrFraming
	// ErrUnintelligible is matched by records with a valid header and unusable payload.
	ErrUnintelligible = records.ErrUnintelligible
	// ErrSizeMismatch is matched when an encoder disagrees with its own size computation.
	ErrSizeMismatch = records.ErrSizeMismatch

	ErrShortRead  = errors.New("short read")
	ErrShortWrite = errors.New("short write")
	// ErrAllocation is matched when a record is larger than the reader is allowed to buffer
	ErrAllocation = errors.New("record buffer allocation failed")
	// ErrWriterBroken is returned by every write after a size mismatch
	ErrWriterBroken = errors.New("writer is broken by a previous size mismatch")
)

// ErrRead returned when the byte source fails or ends in the middle of a record
type ErrRead struct {
	Offset int64
	Err    error
}

func (e ErrRead) Error() string {
	return fmt.Sprintf("Error while reading record at offset %d: %s", e.Offset, e.Err)
}

func (e ErrRead) Unwrap() error {
	return e.Err
}

func (e ErrRead) Is(target error) bool {
	return target == ErrShortRead
}

// ErrWrite returned when the byte sink accepts fewer bytes than a record holds
type ErrWrite struct {
	RecordType layers.RecordType
	Written    int
	Expected   int
	Err        error
}

func (e ErrWrite) Error() string {
	return fmt.Sprintf("Error while writing %s: written: %d expected: %d: %v",
		e.RecordType, e.Written, e.Expected, e.Err)
}

func (e ErrWrite) Unwrap() error {
	return e.Err
}

func (e ErrWrite) Is(target error) bool {
	return target == ErrShortWrite
}

// ErrRecordTooLarge returned for a record whose size exceeds the configured limit
type ErrRecordTooLarge struct {
	RecordType layers.RecordType
	Size       uint32
	Limit      int
}

func (e ErrRecordTooLarge) Error() string {
	return fmt.Sprintf("Record %s of size %d exceeds buffer limit %d", e.RecordType, e.Size, e.Limit)
}

func (e ErrRecordTooLarge) Is(target error) bool {
	return target == ErrAllocation
}
