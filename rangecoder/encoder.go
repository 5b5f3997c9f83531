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

// Package rangecoder implements a 32-bit binary range coder: given a
// caller-supplied probability for "next bit is 1", it narrows a
// [low, high) range and emits one byte every time the top byte of low
// and high agree.
package rangecoder

import "io"

// Encoder narrows a 32-bit range per bit coded and flushes whole bytes
// to w as the top byte of the range settles.
type Encoder struct {
	low, high uint32
	w         io.ByteWriter
}

// NewEncoder returns an encoder over the full [0, 2^32) range, writing
// flushed bytes to w.
func NewEncoder(w io.ByteWriter) *Encoder {
	return &Encoder{low: 0, high: 0xFFFFFFFF, w: w}
}

// EncodeBit narrows the range according to prediction (P(bit==1)
// scaled to [0, 1<<32)) and the observed bit, flushing any bytes whose
// value is now fully determined.
func (e *Encoder) EncodeBit(prediction uint32, bit byte) error {
	delta := uint32((uint64(e.high-e.low) * uint64(prediction)) >> 32)
	middle := e.low + delta
	if bit == 0 {
		e.low = middle + 1
	} else {
		e.high = middle
	}
	for (e.high ^ e.low) < 0x01000000 {
		if err := e.w.WriteByte(byte(e.low >> 24)); err != nil {
			return err
		}
		e.low <<= 8
		e.high = (e.high << 8) | 0xFF
	}
	return nil
}

// Close flushes the final byte needed to disambiguate the last range.
// It must be called exactly once, after the last EncodeBit.
func (e *Encoder) Close() error {
	return e.w.WriteByte(byte(e.low >> 24))
}
