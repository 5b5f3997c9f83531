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

package codec

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, input []byte) {
	t.Helper()

	var encoded bytes.Buffer
	if err := Encode(bytes.NewReader(input), &encoded); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded bytes.Buffer
	if err := Decode(bytes.NewReader(encoded.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(decoded.Bytes(), input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", decoded.Len(), len(input))
	}
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, nil)
}

func TestRoundTripSingleByte(t *testing.T) {
	for b := 0; b < 256; b += 37 {
		roundTrip(t, []byte{byte(b)})
	}
}

func TestRoundTripAllSameByte(t *testing.T) {
	buf := make([]byte, 5000)
	for i := range buf {
		buf[i] = 0xAB
	}
	roundTrip(t, buf)
}

func TestRoundTripRepeatingPattern(t *testing.T) {
	pattern := []byte{1, 2, 3, 4, 5, 4, 3, 2}
	var buf bytes.Buffer
	for i := 0; i < 1000; i++ {
		buf.Write(pattern)
	}
	roundTrip(t, buf.Bytes())
}

func TestRoundTripAscendingBytes(t *testing.T) {
	buf := make([]byte, 256*4)
	for i := range buf {
		buf[i] = byte(i)
	}
	roundTrip(t, buf)
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{0xFF})
	f.Add([]byte("the quick brown fox jumps over the lazy dog"))
	f.Add(bytes.Repeat([]byte{0x7A}, 300))

	f.Fuzz(func(t *testing.T, input []byte) {
		roundTrip(t, input)
	})
}
