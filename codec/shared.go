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
	"errors"
	"fmt"
	"io"

	"github.com/thanhminhmr/srx"
	"github.com/thanhminhmr/srx/pipe"
)

// runFileReader drains r into w, one chunk at a time, closing w once r
// is exhausted. It is the adapter from the outside world's io.Reader
// into the pipeline's byte pipe.
func runFileReader(r io.Reader, w *pipe.Writer[byte]) error {
	buf := make([]byte, 4096)
	for {
		n, readErr := r.Read(buf)
		for i := 0; i < n; i++ {
			if err := w.Write(buf[i]); err != nil {
				return err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return w.Close()
			}
			return srx.WrapIO("file reader", readErr)
		}
	}
}

// runFileWriter drains r into w until the pipeline signals end of
// stream. It is the adapter from the pipeline's byte pipe back out
// into the outside world's io.Writer.
func runFileWriter(r *pipe.Reader[byte], w io.Writer) error {
	buf := make([]byte, 4096)
	for {
		n := 0
		for n < len(buf) {
			value, ok, err := r.Read()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			buf[n] = value
			n++
		}
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return srx.WrapIO("file writer", err)
			}
		}
		if n < len(buf) {
			return nil
		}
	}
}

// pipeByteWriter adapts a *pipe.Writer[byte] to io.ByteWriter so the
// range coder can write through it without knowing about pipes.
type pipeByteWriter struct{ w *pipe.Writer[byte] }

func (p pipeByteWriter) WriteByte(b byte) error { return p.w.Write(b) }

// pipeByteReader adapts a *pipe.Reader[byte] to io.ByteReader so the
// range coder can read through it without knowing about pipes; end of
// stream is reported as io.EOF, which the range coder's decoder treats
// as an unlimited supply of 0xFF bytes.
type pipeByteReader struct{ r *pipe.Reader[byte] }

func (p pipeByteReader) ReadByte() (byte, error) {
	value, ok, err := p.r.Read()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	return value, nil
}

// aborter is satisfied by both pipe.Writer and pipe.Reader.
type aborter interface{ Abort() }

// runStage wraps a pipeline stage so that a panic is converted into an
// ErrThreadFailure instead of taking the whole process down, and so
// that a stage failing for any reason aborts the pipe ends it owns --
// otherwise a sibling stage blocked on one of those pipes would hang
// forever waiting for data or backpressure that will never arrive.
func runStage(name string, ends []aborter, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: %w: %v", name, srx.ErrThreadFailure, r)
			}
			if err != nil {
				for _, end := range ends {
					end.Abort()
				}
			}
		}()
		return fn()
	}
}
