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

package srv

import (
	"fmt"
)

// ErrFeedConnect returned when the datalogger feed can not be reached
type ErrFeedConnect struct {
	Address string
	Err     error
}

func (e ErrFeedConnect) Error() string {
	return fmt.Sprintf("Can not connect to feed %s: %s", e.Address, e.Err)
}

func (e ErrFeedConnect) Unwrap() error {
	return e.Err
}

// ErrSession returned when a feed session ends on a stream error
type ErrSession struct {
	Stream string
	Offset int64
	Err    error
}

func (e ErrSession) Error() string {
	return fmt.Sprintf("Feed session %s stopped at offset %d: %s", e.Stream, e.Offset, e.Err)
}

func (e ErrSession) Unwrap() error {
	return e.Err
}
