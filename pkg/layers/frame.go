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
	"encoding/hex"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-s7k/pkg/log"
)

const (
	// DataRecordFrameLayerNum identifies the layer
	DataRecordFrameLayerNum = 2007
)

// DataRecordFrame is a whole 7k record: header, payload and trailing checksum.
// Contents holds the header bytes, Payload the record specific bytes
// including the optional data section.
type DataRecordFrame struct {
	layers.BaseLayer
	Header
	Checksum uint32
}

var DataRecordFrameLayerType = gopacket.RegisterLayerType(DataRecordFrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "DataRecordFrameLayerType", Decoder: gopacket.DecodeFunc(DecodeDataRecordFrame)})

// LayerType returns the type of the frame layer in the layer catalog
func (f *DataRecordFrame) LayerType() gopacket.LayerType {
	return DataRecordFrameLayerType
}

// DecodeFromBytes decodes a complete record. data must begin with the header.
func (f *DataRecordFrame) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if _, err := Check(data); err != nil {
		if _, ok := err.(ErrOutOfBounds); ok {
			df.SetTruncated()
		}
		return err
	}
	h, _, err := DecodeHeader(data, 0)
	if err != nil {
		return err
	}
	if int(h.Size) > len(data) {
		df.SetTruncated()
		return ErrOutOfBounds{Offset: 0, Length: int(h.Size), Size: len(data)}
	}
	end := h.PayloadEnd()
	if h.OptionalDataOffset != 0 && (int(h.OptionalDataOffset) < h.PayloadOffset() || int(h.OptionalDataOffset) > end) {
		return ErrRecordSize{Size: h.Size, Offset: h.Offset}
	}
	f.Header = h
	f.Checksum = binary.LittleEndian.Uint32(data[end : end+ChecksumSize])
	f.BaseLayer = layers.BaseLayer{
		Contents: data[:h.PayloadOffset()],
		Payload:  data[h.PayloadOffset():end],
	}
	return nil
}

// ChecksumValid recomputes the byte sum over header and payload
func (f *DataRecordFrame) ChecksumValid() bool {
	return f.computeChecksum() == f.Checksum
}

func (f *DataRecordFrame) computeChecksum() uint32 {
	return Checksum(f.Contents) + Checksum(f.Payload)
}

// SerializeTo prepends the header to the payload already in the buffer and appends the checksum.
// With FixLengths the offset and size fields are rewritten from the real payload length.
func (f *DataRecordFrame) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	payloadLength := len(b.Bytes())
	if opts.FixLengths {
		f.SyncPattern = SyncPattern
		f.Offset = DefaultHeaderOffset
		f.Size = uint32(HeaderSize + payloadLength + ChecksumSize)
	}
	if f.Version >= 3 {
		f.Flags |= FlagChecksum
	}

	headerBytes, err := b.PrependBytes(HeaderSize)
	if err != nil {
		return err
	}
	if err := f.Header.Encode(headerBytes); err != nil {
		return err
	}

	f.Checksum = Checksum(b.Bytes())
	checksumBytes, err := b.AppendBytes(ChecksumSize)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(checksumBytes, f.Checksum)

	if log.Enabled(log.DebugLevel) {
		log.Debug("DataRecordFrame.SerializeTo: %s size: %d checksum: 0x%08x\n%s",
			f.RecordType, f.Size, f.Checksum, hex.Dump(headerBytes))
	}
	return nil
}

func DecodeDataRecordFrame(data []byte, p gopacket.PacketBuilder) error {
	f := &DataRecordFrame{}
	err := f.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(f)
	return p.NextDecoder(gopacket.LayerTypePayload)
}
