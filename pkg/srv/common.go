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
	"time"

	"jinr.ru/greenlab/go-s7k/pkg/stream"
)

const (
	ApiPrefix = "/api"
	// RetryDelay is the pause between feed connection attempts
	RetryDelay = 2 * time.Second
)

// Position is the last interpolated vessel position in degrees
type Position struct {
	Epoch     float64 `json:"epoch"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// FeedStatus is the state of the live feed reported by /api/stats
type FeedStatus struct {
	Address   string         `json:"address"`
	Connected bool           `json:"connected"`
	Sessions  int            `json:"sessions"`
	Stream    string         `json:"stream"`
	LastError string         `json:"last_error,omitempty"`
	LastEpoch float64        `json:"last_epoch"`
	Written   int64          `json:"written"`
	Position  *Position      `json:"position,omitempty"`
	Nav       map[string]int `json:"nav"`
	Stats     stream.Stats   `json:"stats"`
}

// StatusSource reports the feed status to the API server
type StatusSource interface {
	Status() FeedStatus
}
