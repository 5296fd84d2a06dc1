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

package bathy

import (
	"fmt"

	"jinr.ru/greenlab/go-s7k/pkg/records"
)

// ErrBeamIndex returned when a detection addresses a beam the ping does not have
type ErrBeamIndex struct {
	Ping  uint32
	Beam  int
	Beams int
}

func (e ErrBeamIndex) Error() string {
	return fmt.Sprintf("Ping %d: beam index %d out of range, beams: %d", e.Ping, e.Beam, e.Beams)
}

func (e ErrBeamIndex) Is(target error) bool {
	return target == records.ErrUnintelligible
}

type ErrSamplingRate struct {
	Ping         uint32
	SamplingRate float32
}

func (e ErrSamplingRate) Error() string {
	return fmt.Sprintf("Ping %d: invalid sampling rate %g", e.Ping, e.SamplingRate)
}

func (e ErrSamplingRate) Is(target error) bool {
	return target == records.ErrUnintelligible
}
