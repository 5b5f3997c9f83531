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

// Package stream provides the container-level Compress and Decompress
// entry points: a four-byte magic header around the codec package's
// range-coded payload.
package stream

import (
	"fmt"
	"io"

	"github.com/thanhminhmr/srx"
	"github.com/thanhminhmr/srx/codec"
)

// Compress writes the magic header followed by the compressed encoding
// of every byte read from r.
func Compress(r io.Reader, w io.Writer) error {
	if _, err := w.Write(srx.Magic[:]); err != nil {
		return srx.WrapIO("stream", err)
	}
	return codec.Encode(r, w)
}

// Decompress reads and checks the magic header, then writes the
// decompressed bytes it decodes from the remainder of r.
func Decompress(r io.Reader, w io.Writer) error {
	var header [len(srx.Magic)]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("stream: %w: %v", srx.ErrCorruptHeader, err)
	}
	if header != srx.Magic {
		return fmt.Errorf("stream: %w: unrecognized magic %x", srx.ErrCorruptHeader, header)
	}
	return codec.Decode(r, w)
}
