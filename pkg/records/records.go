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
	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

// Kind tells consumers what sort of data an emitted record carries
type Kind int

const (
	KindNone Kind = iota
	KindHeader
	KindData
	KindComment
	KindNavigation
	KindNavigation2
	KindAttitude
	KindHeading
	KindAltitude
	KindSensorDepth
	KindTide
	KindVelocityProfile
	KindCTD
	KindInstallation
	KindParameter
	KindSidescan
	KindSubbottom
	KindStatus
	KindOther
)

var kindNames = map[Kind]string{
	KindNone:            "none",
	KindHeader:          "header",
	KindData:            "data",
	KindComment:         "comment",
	KindNavigation:      "navigation",
	KindNavigation2:     "navigation2",
	KindAttitude:        "attitude",
	KindHeading:         "heading",
	KindAltitude:        "altitude",
	KindSensorDepth:     "sensordepth",
	KindTide:            "tide",
	KindVelocityProfile: "velocityprofile",
	KindCTD:             "ctd",
	KindInstallation:    "installation",
	KindParameter:       "parameter",
	KindSidescan:        "sidescan",
	KindSubbottom:       "subbottom",
	KindStatus:          "status",
	KindOther:           "other",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Record is a decoded 7k record of one concrete type.
// Arrays inside a record are grown when a larger count arrives and never shrunk,
// so one instance can be reused for every record of its type in a stream.
type Record interface {
	Header() *layers.Header
	Kind() Kind
	// DecodePayload reads the record specific fields starting at the first payload byte
	DecodePayload(r *layers.FieldReader) error
	EncodePayload(w *layers.FieldWriter)
	// PayloadSize is the encoded size of the payload without the optional data section
	PayloadSize() int
}

// OptionalRecord is a record which may carry a trailing optional data section
type OptionalRecord interface {
	Record
	HasOptionalData() bool
	SetOptionalData(present bool)
	DecodeOptional(r *layers.FieldReader) error
	EncodeOptional(w *layers.FieldWriter)
	OptionalSize() int
}

// PingRecord is a record which embeds a ping number
type PingRecord interface {
	Record
	PingNumber() uint32
	SetPingNumber(ping uint32)
}

// Base holds the frame header shared by all records
type Base struct {
	Hdr layers.Header
}

func (b *Base) Header() *layers.Header {
	return &b.Hdr
}

// PingBase is embedded by records that start with a sonar id and a ping number
type PingBase struct {
	Base
	SonarID           uint64
	Ping              uint32
	MultiPingSequence uint16
}

const pingBaseSize = 8 + 4 + 2

func (b *PingBase) PingNumber() uint32 {
	return b.Ping
}

func (b *PingBase) SetPingNumber(ping uint32) {
	b.Ping = ping
}

func (b *PingBase) decodePingBase(r *layers.FieldReader) {
	b.SonarID = r.U64()
	b.Ping = r.U32()
	b.MultiPingSequence = r.U16()
}

func (b *PingBase) encodePingBase(w *layers.FieldWriter) {
	w.PutU64(b.SonarID)
	w.PutU32(b.Ping)
	w.PutU16(b.MultiPingSequence)
}
