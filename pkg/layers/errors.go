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
	"errors"
	"fmt"
)

// ErrFraming is matched by every error that means the bytes at hand are not a valid 7k record.
// The stream reader recovers from these by resynchronizing.
var ErrFraming = errors.New("7k framing error")

// ErrOutOfBounds returned when a field access falls outside of the buffer
type ErrOutOfBounds struct {
	Offset int
	Length int
	Size   int
}

func (e ErrOutOfBounds) Error() string {
	return fmt.Sprintf("Field access out of bounds: offset: %d length: %d buffer size: %d", e.Offset, e.Length, e.Size)
}

func (e ErrOutOfBounds) Is(target error) bool {
	return target == ErrFraming
}

// ErrSyncPattern returned when the record does not start with the sync pattern
type ErrSyncPattern struct {
	SyncPattern uint32
}

func (e ErrSyncPattern) Error() string {
	return fmt.Sprintf("Invalid sync pattern: 0x%08x", e.SyncPattern)
}

func (e ErrSyncPattern) Is(target error) bool {
	return target == ErrFraming
}

// ErrRecordType returned when the record type is not a member of the known set
type ErrRecordType struct {
	RecordType uint32
}

func (e ErrRecordType) Error() string {
	return fmt.Sprintf("Unknown record type: %d", e.RecordType)
}

func (e ErrRecordType) Is(target error) bool {
	return target == ErrFraming
}

// ErrRecordSize returned when size and offset fields can not describe a real record
type ErrRecordSize struct {
	Size   uint32
	Offset uint16
}

func (e ErrRecordSize) Error() string {
	return fmt.Sprintf("Inconsistent record size: size: %d offset: %d", e.Size, e.Offset)
}

func (e ErrRecordSize) Is(target error) bool {
	return target == ErrFraming
}

// ErrChecksum returned when the stored checksum does not match the record bytes
type ErrChecksum struct {
	Stored   uint32
	Computed uint32
}

func (e ErrChecksum) Error() string {
	return fmt.Sprintf("Checksum mismatch: stored: 0x%08x computed: 0x%08x", e.Stored, e.Computed)
}
