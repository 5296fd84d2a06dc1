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
	"encoding/binary"
)

// Offset of the ping number relative to the first payload byte.
// Most sonar records start with an 8 byte sonar id followed by the ping number.
var pingNumberOffsets = map[RecordType]int{
	RecordTypeSonarSettings:              8,
	RecordTypeMatchFilter:                8,
	RecordTypeBathymetry:                 8,
	RecordTypeBackscatter:                8,
	RecordTypeBeamData:                   8,
	RecordTypeVerticalDepth:              4,
	RecordTypeTVG:                        8,
	RecordTypeImage:                      0,
	RecordTypePingMotion:                 8,
	RecordTypeDetectionSetup:             8,
	RecordTypeBeamformed:                 8,
	RecordTypeDetection:                  8,
	RecordTypeRawDetection:               8,
	RecordTypeSnippet:                    8,
	RecordTypeCalibratedSnippet:          8,
	RecordTypeProcessedSidescan:          8,
	RecordTypeRemoteControlSonarSettings: 32,
	RecordTypeEdgetechSidescan:           4,
	RecordTypeEdgetechSubbottom:          4,
}

// CarriesPingNumber reports whether records of type t embed a ping number
func CarriesPingNumber(t RecordType) bool {
	_, ok := pingNumberOffsets[t]
	return ok
}

// PingNumber extracts the ping number embedded in the payload of a record.
// data holds the whole record and offset is the header Offset field.
// It returns false when the type carries no ping number or the record is too short.
func PingNumber(t RecordType, data []byte, offset uint16) (uint32, bool) {
	rel, ok := pingNumberOffsets[t]
	if !ok {
		return 0, false
	}
	start := int(offset) + 4 + rel
	if start+4 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[start : start+4]), true
}
