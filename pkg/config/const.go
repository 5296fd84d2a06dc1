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

package config

const (
	ConfigDir  = ".go-s7k"
	ConfigFile = "config"
	DBFile     = "catalog.db"

	DefaultLogLevel = "info"

	DefaultSoundSpeed       = 1500.0
	DefaultSwapCutoffYear   = 2012
	DefaultClockBugLastYear = 2006
	DefaultMinClockOffset   = 0.5
	DefaultStaleClockAge    = 10.0
	DefaultMaxRecordSize    = 16 * 1024 * 1024

	DefaultBathymetryVersion = 5

	DefaultFeedAddress = "127.0.0.1"
	DefaultFeedPort    = 7000
	DefaultApiAddress  = "127.0.0.1"
	DefaultApiPort     = 8007
)

// Names of the ping parts accepted in CompletionParts
var DefaultCompletionParts = []string{"bathymetry", "rawdetection", "detection"}
