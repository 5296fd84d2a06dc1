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
	"fmt"
	"strings"

	"jinr.ru/greenlab/go-s7k/pkg/layers"
)

// Part is one ping scoped record type
type Part uint8

const (
	PartSonarSettings Part = iota
	PartMatchFilter
	PartBeamGeometry
	PartBathymetry
	PartBackscatter
	PartBeamData
	PartVerticalDepth
	PartTVG
	PartImage
	PartPingMotion
	PartDetectionSetup
	PartBeamformed
	PartDetection
	PartRawDetection
	PartSnippet
	PartCalibratedSnippet
	PartProcessedSidescan
	PartRemoteControlSettings
	NumParts
)

var partTypes = [NumParts]layers.RecordType{
	PartSonarSettings:         layers.RecordTypeSonarSettings,
	PartMatchFilter:           layers.RecordTypeMatchFilter,
	PartBeamGeometry:          layers.RecordTypeBeamGeometry,
	PartBathymetry:            layers.RecordTypeBathymetry,
	PartBackscatter:           layers.RecordTypeBackscatter,
	PartBeamData:              layers.RecordTypeBeamData,
	PartVerticalDepth:         layers.RecordTypeVerticalDepth,
	PartTVG:                   layers.RecordTypeTVG,
	PartImage:                 layers.RecordTypeImage,
	PartPingMotion:            layers.RecordTypePingMotion,
	PartDetectionSetup:        layers.RecordTypeDetectionSetup,
	PartBeamformed:            layers.RecordTypeBeamformed,
	PartDetection:             layers.RecordTypeDetection,
	PartRawDetection:          layers.RecordTypeRawDetection,
	PartSnippet:               layers.RecordTypeSnippet,
	PartCalibratedSnippet:     layers.RecordTypeCalibratedSnippet,
	PartProcessedSidescan:     layers.RecordTypeProcessedSidescan,
	PartRemoteControlSettings: layers.RecordTypeRemoteControlSonarSettings,
}

var partNames = [NumParts]string{
	PartSonarSettings:         "sonarsettings",
	PartMatchFilter:           "matchfilter",
	PartBeamGeometry:          "beamgeometry",
	PartBathymetry:            "bathymetry",
	PartBackscatter:           "backscatter",
	PartBeamData:              "beamdata",
	PartVerticalDepth:         "verticaldepth",
	PartTVG:                   "tvg",
	PartImage:                 "image",
	PartPingMotion:            "pingmotion",
	PartDetectionSetup:        "detectionsetup",
	PartBeamformed:            "beamformed",
	PartDetection:             "detection",
	PartRawDetection:          "rawdetection",
	PartSnippet:               "snippet",
	PartCalibratedSnippet:     "calibratedsnippet",
	PartProcessedSidescan:     "processedsidescan",
	PartRemoteControlSettings: "remotecontrolsettings",
}

func (p Part) String() string {
	if p < NumParts {
		return partNames[p]
	}
	return fmt.Sprintf("part(%d)", uint8(p))
}

func (p Part) RecordType() layers.RecordType {
	if p < NumParts {
		return partTypes[p]
	}
	return layers.RecordTypeNone
}

// PartOf maps a record type to its ping part
func PartOf(t layers.RecordType) (Part, bool) {
	for p, pt := range partTypes {
		if pt == t {
			return Part(p), true
		}
	}
	return NumParts, false
}

// ErrPartName returned by ParsePart for an unknown name
type ErrPartName struct {
	Name string
}

func (e ErrPartName) Error() string {
	return fmt.Sprintf("Unknown ping part: %s", e.Name)
}

func ParsePart(name string) (Part, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range partNames {
		if n == name {
			return Part(p), nil
		}
	}
	return NumParts, ErrPartName{Name: name}
}

// ParseParts builds a set from part names
func ParseParts(names []string) (PartSet, error) {
	var s PartSet
	for _, name := range names {
		p, err := ParsePart(name)
		if err != nil {
			return 0, err
		}
		s.Set(p)
	}
	return s, nil
}

// PartSet holds one have-seen flag per ping part
type PartSet uint32

func (s PartSet) Has(p Part) bool {
	return s&(1<<p) != 0
}

func (s *PartSet) Set(p Part) {
	*s |= 1 << p
}

func (s *PartSet) Clear(p Part) {
	*s &^= 1 << p
}

func (s *PartSet) Reset() {
	*s = 0
}

// Any reports whether s and other share at least one part
func (s PartSet) Any(other PartSet) bool {
	return s&other != 0
}

func (s PartSet) Parts() []Part {
	var parts []Part
	for p := Part(0); p < NumParts; p++ {
		if s.Has(p) {
			parts = append(parts, p)
		}
	}
	return parts
}

func (s PartSet) String() string {
	parts := s.Parts()
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Ping is the set of records sharing one ping number.
// All records are allocated up front and reused, Parts tells which ones hold data of this ping.
type Ping struct {
	Number uint32
	Parts  PartSet
	// Synthesized marks parts built by the reader instead of decoded from the stream
	Synthesized PartSet

	SonarSettings         *SonarSettings
	MatchFilter           *MatchFilter
	BeamGeometry          *BeamGeometry
	Bathymetry            *Bathymetry
	Backscatter           *Backscatter
	BeamData              *BeamData
	VerticalDepth         *VerticalDepth
	TVG                   *TVG
	Image                 *Image
	PingMotion            *PingMotion
	DetectionSetup        *DetectionSetup
	Beamformed            *Beamformed
	Detection             *Detection
	RawDetection          *RawDetection
	Snippet               *Snippet
	CalibratedSnippet     *CalibratedSnippet
	ProcessedSidescan     *ProcessedSidescan
	RemoteControlSettings *RemoteControlSonarSettings
}

func NewPing() *Ping {
	return &Ping{
		SonarSettings:         &SonarSettings{},
		MatchFilter:           &MatchFilter{},
		BeamGeometry:          &BeamGeometry{},
		Bathymetry:            &Bathymetry{},
		Backscatter:           &Backscatter{},
		BeamData:              &BeamData{},
		VerticalDepth:         &VerticalDepth{},
		TVG:                   &TVG{},
		Image:                 &Image{},
		PingMotion:            &PingMotion{},
		DetectionSetup:        &DetectionSetup{},
		Beamformed:            &Beamformed{},
		Detection:             &Detection{},
		RawDetection:          &RawDetection{},
		Snippet:               &Snippet{},
		CalibratedSnippet:     &CalibratedSnippet{},
		ProcessedSidescan:     &ProcessedSidescan{},
		RemoteControlSettings: &RemoteControlSonarSettings{},
	}
}

// Record returns the record instance backing a part
func (p *Ping) Record(part Part) Record {
	switch part {
	case PartSonarSettings:
		return p.SonarSettings
	case PartMatchFilter:
		return p.MatchFilter
	case PartBeamGeometry:
		return p.BeamGeometry
	case PartBathymetry:
		return p.Bathymetry
	case PartBackscatter:
		return p.Backscatter
	case PartBeamData:
		return p.BeamData
	case PartVerticalDepth:
		return p.VerticalDepth
	case PartTVG:
		return p.TVG
	case PartImage:
		return p.Image
	case PartPingMotion:
		return p.PingMotion
	case PartDetectionSetup:
		return p.DetectionSetup
	case PartBeamformed:
		return p.Beamformed
	case PartDetection:
		return p.Detection
	case PartRawDetection:
		return p.RawDetection
	case PartSnippet:
		return p.Snippet
	case PartCalibratedSnippet:
		return p.CalibratedSnippet
	case PartProcessedSidescan:
		return p.ProcessedSidescan
	case PartRemoteControlSettings:
		return p.RemoteControlSettings
	}
	return nil
}

func (p *Ping) Has(part Part) bool {
	return p.Parts.Has(part)
}

// Records returns the records present in this ping in canonical write order
func (p *Ping) Records() []Record {
	parts := p.Parts.Parts()
	recs := make([]Record, 0, len(parts))
	for _, part := range parts {
		recs = append(recs, p.Record(part))
	}
	return recs
}

// Reset forgets the parts of the previous ping, the record instances stay allocated
func (p *Ping) Reset(number uint32) {
	p.Number = number
	p.Parts.Reset()
	p.Synthesized.Reset()
}

// Time returns the header time of the first present part
func (p *Ping) Time() layers.Time {
	parts := p.Parts.Parts()
	if len(parts) == 0 {
		return layers.Time{}
	}
	return p.Record(parts[0]).Header().Time
}
