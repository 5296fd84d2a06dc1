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

package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferInterpolatesPosition(t *testing.T) {
	b := NewBuffer(8)
	_, _, ok := b.Position(100)
	assert.False(t, ok)

	b.AddNavigationSample(100, 10, 50, 2)
	b.AddNavigationSample(110, 11, 51, 4)

	lon, lat, ok := b.Position(105)
	require.True(t, ok)
	assert.InDelta(t, 10.5, lon, 1e-9)
	assert.InDelta(t, 50.5, lat, 1e-9)
	speed, ok := b.Speed(102.5)
	require.True(t, ok)
	assert.InDelta(t, 2.5, speed, 1e-9)

	// clamped outside of the window
	lon, _, _ = b.Position(50)
	assert.Equal(t, 10.0, lon)
	lon, _, _ = b.Position(500)
	assert.Equal(t, 11.0, lon)
}

func TestBufferHeadingWrap(t *testing.T) {
	b := NewBuffer(8)
	b.AddHeadingSample(10, 350)
	b.AddHeadingSample(20, 10)
	h, ok := b.Heading(15)
	require.True(t, ok)
	assert.InDelta(t, 0, h, 1e-9)
	h, _ = b.Heading(17.5)
	assert.InDelta(t, 5, h, 1e-9)

	b.AddHeadingSample(30, -90)
	h, _ = b.Heading(30)
	assert.InDelta(t, 270, h, 1e-9)
}

func TestBufferKeepsTimeOrder(t *testing.T) {
	b := NewBuffer(8)
	b.AddDepthSample(10, 1)
	b.AddDepthSample(20, 2)
	b.AddDepthSample(15, 99)
	b.AddDepthSample(20, 3)
	b.AddDepthSample(0, 42)
	assert.Equal(t, 2, b.Counts()["depth"])
	d, _ := b.Depth(20)
	assert.Equal(t, 3.0, d)
}

func TestBufferCapacity(t *testing.T) {
	b := NewBuffer(3)
	for i := 1; i <= 5; i++ {
		b.AddAltitudeSample(float64(i), float64(i*10))
	}
	assert.Equal(t, 3, b.Counts()["altitude"])
	a, ok := b.Altitude(1)
	require.True(t, ok)
	assert.Equal(t, 30.0, a)
}

func TestBufferAttitude(t *testing.T) {
	b := NewBuffer(0)
	b.AddAttitudeSample(1, 0, 2, 0.1)
	b.AddAttitudeSample(3, 2, 4, 0.3)
	roll, pitch, heave, ok := b.Attitude(2)
	require.True(t, ok)
	assert.InDelta(t, 1, roll, 1e-9)
	assert.InDelta(t, 3, pitch, 1e-9)
	assert.InDelta(t, 0.2, heave, 1e-9)
}
