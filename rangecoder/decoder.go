/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rangecoder

import "io"

// Decoder mirrors Encoder: it reads bytes from r on demand, narrowing
// the same [low, high) range and recovering the bit sequence that
// produced them.
type Decoder struct {
	value, low, high uint32
	r                io.ByteReader
}

// NewDecoder returns a decoder reading from r. Once r is exhausted,
// every further byte needed to keep the range wide enough is taken to
// be 0xFF -- this lets the decoder run one bit past the encoder's last
// flushed byte without a separate "end of stream" signal, and is load
// bearing for the container's EOF-by-literal framing: never special
// case it into an error.
func NewDecoder(r io.ByteReader) *Decoder {
	return &Decoder{r: r}
}

// DecodeBit recovers the next bit given the same prediction the
// encoder used to produce it.
func (d *Decoder) DecodeBit(prediction uint32) (byte, error) {
	for (d.high ^ d.low) < 0x01000000 {
		b, err := d.r.ReadByte()
		if err != nil {
			b = 0xFF
		}
		d.value = (d.value << 8) | uint32(b)
		d.low <<= 8
		d.high = (d.high << 8) | 0xFF
	}
	delta := uint32((uint64(d.high-d.low) * uint64(prediction)) >> 32)
	middle := d.low + delta
	var bit byte
	if d.value <= middle {
		bit = 1
	}
	if bit == 0 {
		d.low = middle + 1
	} else {
		d.high = middle
	}
	return bit, nil
}
