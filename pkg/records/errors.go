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
	"fmt"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

var (
	// ErrUnintelligible is matched by errors about records whose header is valid
	// but whose payload content can not be used. The record is dropped, the stream goes on.
	ErrUnintelligible = errors.New("unintelligible record")

	// ErrSizeMismatch is matched when an encoder produced a different number of bytes
	// than its size computation promised. This is a codec defect.
	ErrSizeMismatch = errors.New("encoded size mismatch")
)

// ErrDecode returned when a payload can not be decoded
type ErrDecode struct {
	RecordType layers.RecordType
	Err        error
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("Error while decoding %s payload: %s", e.RecordType, e.Err)
}

func (e ErrDecode) Unwrap() error {
	return e.Err
}

func (e ErrDecode) Is(target error) bool {
	return target == ErrUnintelligible
}

// ErrBadCount returned when a count field is inconsistent with other fields of the record
type ErrBadCount struct {
	What  string
	Count int
	Limit int
}

func (e ErrBadCount) Error() string {
	return fmt.Sprintf("Invalid %s: %d (limit %d)", e.What, e.Count, e.Limit)
}

func (e ErrBadCount) Is(target error) bool {
	return target == ErrUnintelligible
}

// ErrEncodedSize returned when the encoded length differs from the computed size
type ErrEncodedSize struct {
	RecordType layers.RecordType
	Expected   int
	Actual     int
}

func (e ErrEncodedSize) Error() string {
	return fmt.Sprintf("Encoded size mismatch for %s: computed: %d written: %d", e.RecordType, e.Expected, e.Actual)
}

func (e ErrEncodedSize) Is(target error) bool {
	return target == ErrSizeMismatch
}

// ErrNoCodec returned for record types outside of the known set
type ErrNoCodec struct {
	RecordType layers.RecordType
}

func (e ErrNoCodec) Error() string {
	return fmt.Sprintf("No codec for record type %s", e.RecordType)
}
