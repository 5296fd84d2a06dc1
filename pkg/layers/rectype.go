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
	"fmt"
	"sort"
)

// RecordType identifies the payload of a 7k record
type RecordType uint32

const (
	RecordTypeNone RecordType = 0

	// Sensor and environment records
	RecordTypeReferencePoint           RecordType = 1000
	RecordTypeUncalibratedSensorOffset RecordType = 1001
	RecordTypeCalibratedSensorOffset   RecordType = 1002
	RecordTypePosition                 RecordType = 1003
	RecordTypeCustomAttitude           RecordType = 1004
	RecordTypeTide                     RecordType = 1005
	RecordTypeAltitude                 RecordType = 1006
	RecordTypeMotionOverGround         RecordType = 1007
	RecordTypeDepth                    RecordType = 1008
	RecordTypeSoundVelocityProfile     RecordType = 1009
	RecordTypeCTD                      RecordType = 1010
	RecordTypeGeodesy                  RecordType = 1011
	RecordTypeRollPitchHeave           RecordType = 1012
	RecordTypeHeading                  RecordType = 1013
	RecordTypeSurveyLine               RecordType = 1014
	RecordTypeNavigation               RecordType = 1015
	RecordTypeAttitude                 RecordType = 1016
	RecordTypePanTilt                  RecordType = 1017
	RecordTypeSonarInstallationIDs     RecordType = 1020
	RecordTypeSonarPipeEnvironment     RecordType = 2004
	RecordTypeContactOutput            RecordType = 3001

	// Auxiliary devices logged through the datalogger
	RecordTypeEdgetechSidescan  RecordType = 3000
	RecordTypeEdgetechSubbottom RecordType = 3002
	RecordTypeBluefin           RecordType = 3100
	RecordTypeProcessedSidescan RecordType = 3199

	// Sonar records
	RecordTypeSonarSettings                RecordType = 7000
	RecordTypeConfiguration                RecordType = 7001
	RecordTypeMatchFilter                  RecordType = 7002
	RecordTypeFirmwareHardwareConfig       RecordType = 7003
	RecordTypeBeamGeometry                 RecordType = 7004
	RecordTypeBathymetry                   RecordType = 7006
	RecordTypeBackscatter                  RecordType = 7007
	RecordTypeBeamData                     RecordType = 7008
	RecordTypeVerticalDepth                RecordType = 7009
	RecordTypeTVG                          RecordType = 7010
	RecordTypeImage                        RecordType = 7011
	RecordTypePingMotion                   RecordType = 7012
	RecordTypeAdaptiveGate                 RecordType = 7014
	RecordTypeDetectionSetup               RecordType = 7017
	RecordTypeBeamformed                   RecordType = 7018
	RecordTypeVernierProcessingRaw         RecordType = 7019
	RecordTypeBITE                         RecordType = 7021
	RecordTypeSonarSourceVersion           RecordType = 7022
	RecordTypeWetEndVersion                RecordType = 7023
	RecordTypeDetection                    RecordType = 7026
	RecordTypeRawDetection                 RecordType = 7027
	RecordTypeSnippet                      RecordType = 7028
	RecordTypeVernierProcessingFiltered    RecordType = 7029
	RecordTypeInstallationParameters       RecordType = 7030
	RecordTypeBITESummary                  RecordType = 7031
	RecordTypeCompressedBeamformed         RecordType = 7041
	RecordTypeCompressedWaterColumn        RecordType = 7042
	RecordTypeSegmentedRawDetection        RecordType = 7047
	RecordTypeCalibratedBeam               RecordType = 7048
	RecordTypeSystemEventMessage           RecordType = 7051
	RecordTypeRDRRecordingStatus           RecordType = 7052
	RecordTypeSubscriptions                RecordType = 7053
	RecordTypeRDRStorageRecording          RecordType = 7054
	RecordTypeCalibrationStatus            RecordType = 7055
	RecordTypeCalibratedSidescan           RecordType = 7057
	RecordTypeCalibratedSnippet            RecordType = 7058
	RecordTypeMB2Status                    RecordType = 7059
	RecordTypeFileHeader                   RecordType = 7200
	RecordTypeFileCatalog                  RecordType = 7300
	RecordTypeTimeMessage                  RecordType = 7400
	RecordTypeRemoteControl                RecordType = 7500
	RecordTypeRemoteControlAcknowledge     RecordType = 7501
	RecordTypeRemoteControlNotAcknowledge  RecordType = 7502
	RecordTypeRemoteControlSonarSettings   RecordType = 7503
	RecordTypeCommonSystemSettings         RecordType = 7504
	RecordTypeSVFiltering                  RecordType = 7510
	RecordTypeSystemLockStatus             RecordType = 7511
	RecordTypeSoundVelocity                RecordType = 7610
	RecordTypeAbsorptionLoss               RecordType = 7611
	RecordTypeSpreadingLoss                RecordType = 7612
)

var recordTypeNames = map[RecordType]string{
	RecordTypeReferencePoint:              "ReferencePoint",
	RecordTypeUncalibratedSensorOffset:    "UncalibratedSensorOffset",
	RecordTypeCalibratedSensorOffset:      "CalibratedSensorOffset",
	RecordTypePosition:                    "Position",
	RecordTypeCustomAttitude:              "CustomAttitude",
	RecordTypeTide:                        "Tide",
	RecordTypeAltitude:                    "Altitude",
	RecordTypeMotionOverGround:            "MotionOverGround",
	RecordTypeDepth:                       "Depth",
	RecordTypeSoundVelocityProfile:        "SoundVelocityProfile",
	RecordTypeCTD:                         "CTD",
	RecordTypeGeodesy:                     "Geodesy",
	RecordTypeRollPitchHeave:              "RollPitchHeave",
	RecordTypeHeading:                     "Heading",
	RecordTypeSurveyLine:                  "SurveyLine",
	RecordTypeNavigation:                  "Navigation",
	RecordTypeAttitude:                    "Attitude",
	RecordTypePanTilt:                     "PanTilt",
	RecordTypeSonarInstallationIDs:        "SonarInstallationIDs",
	RecordTypeSonarPipeEnvironment:        "SonarPipeEnvironment",
	RecordTypeContactOutput:               "ContactOutput",
	RecordTypeEdgetechSidescan:            "EdgetechSidescan",
	RecordTypeEdgetechSubbottom:           "EdgetechSubbottom",
	RecordTypeBluefin:                     "Bluefin",
	RecordTypeProcessedSidescan:           "ProcessedSidescan",
	RecordTypeSonarSettings:               "SonarSettings",
	RecordTypeConfiguration:               "Configuration",
	RecordTypeMatchFilter:                 "MatchFilter",
	RecordTypeFirmwareHardwareConfig:      "FirmwareHardwareConfig",
	RecordTypeBeamGeometry:                "BeamGeometry",
	RecordTypeBathymetry:                  "Bathymetry",
	RecordTypeBackscatter:                 "Backscatter",
	RecordTypeBeamData:                    "BeamData",
	RecordTypeVerticalDepth:               "VerticalDepth",
	RecordTypeTVG:                         "TVG",
	RecordTypeImage:                       "Image",
	RecordTypePingMotion:                  "PingMotion",
	RecordTypeAdaptiveGate:                "AdaptiveGate",
	RecordTypeDetectionSetup:              "DetectionSetup",
	RecordTypeBeamformed:                  "Beamformed",
	RecordTypeVernierProcessingRaw:        "VernierProcessingRaw",
	RecordTypeBITE:                        "BITE",
	RecordTypeSonarSourceVersion:          "SonarSourceVersion",
	RecordTypeWetEndVersion:               "WetEndVersion",
	RecordTypeDetection:                   "Detection",
	RecordTypeRawDetection:                "RawDetection",
	RecordTypeSnippet:                     "Snippet",
	RecordTypeVernierProcessingFiltered:   "VernierProcessingFiltered",
	RecordTypeInstallationParameters:      "InstallationParameters",
	RecordTypeBITESummary:                 "BITESummary",
	RecordTypeCompressedBeamformed:        "CompressedBeamformed",
	RecordTypeCompressedWaterColumn:       "CompressedWaterColumn",
	RecordTypeSegmentedRawDetection:       "SegmentedRawDetection",
	RecordTypeCalibratedBeam:              "CalibratedBeam",
	RecordTypeSystemEventMessage:          "SystemEventMessage",
	RecordTypeRDRRecordingStatus:          "RDRRecordingStatus",
	RecordTypeSubscriptions:               "Subscriptions",
	RecordTypeRDRStorageRecording:         "RDRStorageRecording",
	RecordTypeCalibrationStatus:           "CalibrationStatus",
	RecordTypeCalibratedSidescan:          "CalibratedSidescan",
	RecordTypeCalibratedSnippet:           "CalibratedSnippet",
	RecordTypeMB2Status:                   "MB2Status",
	RecordTypeFileHeader:                  "FileHeader",
	RecordTypeFileCatalog:                 "FileCatalog",
	RecordTypeTimeMessage:                 "TimeMessage",
	RecordTypeRemoteControl:               "RemoteControl",
	RecordTypeRemoteControlAcknowledge:    "RemoteControlAcknowledge",
	RecordTypeRemoteControlNotAcknowledge: "RemoteControlNotAcknowledge",
	RecordTypeRemoteControlSonarSettings:  "RemoteControlSonarSettings",
	RecordTypeCommonSystemSettings:        "CommonSystemSettings",
	RecordTypeSVFiltering:                 "SVFiltering",
	RecordTypeSystemLockStatus:            "SystemLockStatus",
	RecordTypeSoundVelocity:               "SoundVelocity",
	RecordTypeAbsorptionLoss:              "AbsorptionLoss",
	RecordTypeSpreadingLoss:               "SpreadingLoss",
}

// Valid reports whether t is a member of the closed set of known record types
func (t RecordType) Valid() bool {
	_, ok := recordTypeNames[t]
	return ok
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return fmt.Sprintf("%s(%d)", name, uint32(t))
	}
	return fmt.Sprintf("Unknown(%d)", uint32(t))
}

// Name returns the bare record type name
func (t RecordType) Name() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown%d", uint32(t))
}

// RecordTypes returns all known record types in ascending order
func RecordTypes() []RecordType {
	types := make([]RecordType, 0, len(recordTypeNames))
	for t := range recordTypeNames {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
