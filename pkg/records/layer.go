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
	"github.com/google/gopacket"
)

const (
	// PayloadLayerNum identifies the layer
	PayloadLayerNum = 2008
)

var PayloadLayerType = gopacket.RegisterLayerType(PayloadLayerNum,
	gopacket.LayerTypeMetadata{Name: "PayloadLayerType", Decoder: gopacket.LayerTypePayload})

// PayloadLayer serializes a typed record below a layers.DataRecordFrame
type PayloadLayer struct {
	Codec  Codec
	Record Record
}

func (p *PayloadLayer) LayerType() gopacket.LayerType {
	return PayloadLayerType
}

// SerializeTo prepends the encoded payload, including the optional data section
func (p *PayloadLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	data, err := p.Codec.Encode(p.Record)
	if err != nil {
		return err
	}
	bytes, err := b.PrependBytes(len(data))
	if err != nil {
		return err
	}
	copy(bytes, data)
	return nil
}
