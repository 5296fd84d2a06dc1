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
	"fmt"
)

// ErrNoStream returned when the catalog has no bucket for a stream
type ErrNoStream struct {
	Stream string
}

func (e ErrNoStream) Error() string {
	return fmt.Sprintf("Stream %q is not in the catalog", e.Stream)
}

// ErrNoEntry returned when no record is cataloged at the offset
type ErrNoEntry struct {
	Stream string
	Offset int64
}

func (e ErrNoEntry) Error() string {
	return fmt.Sprintf("No record at offset %d in stream %q", e.Offset, e.Stream)
}

// ErrStreamName returned for a stream name that can not be used as a bucket
type ErrStreamName struct {
	Stream string
}

func (e ErrStreamName) Error() string {
	return fmt.Sprintf("Wrong stream name: %q", e.Stream)
}
