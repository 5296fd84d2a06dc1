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
	"math"
	"time"
)

const (
	secondsPerDay = 86400
)

// Time is the compact 7k timestamp. Day is the 1-based day of year.
type Time struct {
	Year    uint16
	Day     uint16
	Seconds float32
	Hours   uint8
	Minutes uint8
}

// Epoch converts the timestamp to seconds since 1970-01-01 UTC
func (t Time) Epoch() float64 {
	if t.Year == 0 {
		return 0
	}
	start := time.Date(int(t.Year), time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	day := int64(t.Day)
	if day > 0 {
		day--
	}
	return float64(start+day*secondsPerDay+int64(t.Hours)*3600+int64(t.Minutes)*60) + float64(t.Seconds)
}

func (t Time) Time() time.Time {
	return EpochToTime(t.Epoch())
}

// TimeFromEpoch converts seconds since 1970-01-01 UTC to the compact 7k timestamp
func TimeFromEpoch(epoch float64) Time {
	whole := math.Floor(epoch)
	tm := time.Unix(int64(whole), 0).UTC()
	return Time{
		Year:    uint16(tm.Year()),
		Day:     uint16(tm.YearDay()),
		Hours:   uint8(tm.Hour()),
		Minutes: uint8(tm.Minute()),
		Seconds: float32(float64(tm.Second()) + (epoch - whole)),
	}
}

func EpochToTime(epoch float64) time.Time {
	whole := math.Floor(epoch)
	return time.Unix(int64(whole), int64((epoch-whole)*1e9)).UTC()
}
