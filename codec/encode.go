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
	"io"
	"sync"

	"github.com/thanhminhmr/srx"
	"github.com/thanhminhmr/srx/pipe"
	"github.com/thanhminhmr/srx/primary"
	"github.com/thanhminhmr/srx/rangecoder"
	"github.com/thanhminhmr/srx/secondary"
)

// runPrimaryContextEncoder consumes raw input bytes and, for each one,
// emits the packed messages describing how the primary model saw it:
// a match decision against the three remembered successor bytes, and a
// literal byte when none of them matched. End of stream is signalled
// by the same "none of the three, followed by a literal equal to the
// first remembered byte" shape the decoder uses to recognize EOF --
// there is no separate length field or sentinel.
func runPrimaryContextEncoder(reader *pipe.Reader[byte], writer *pipe.Writer[packedMessage]) error {
	ctx := primary.NewContext()
	for {
		snap := ctx.Snapshot()
		next, ok, err := reader.Read()
		if err != nil {
			return err
		}
		if !ok {
			if err := writer.Write(bitMessage(snap.FirstContext(), 1)); err != nil {
				return err
			}
			if err := writer.Write(bitMessage(snap.SecondContext(), 0)); err != nil {
				return err
			}
			if err := writer.Write(byteMessage(snap.LiteralContext(), snap.FirstByte())); err != nil {
				return err
			}
			if err := reader.Close(); err != nil {
				return err
			}
			return writer.Close()
		}

		switch ctx.Matching(snap, next) {
		case primary.First:
			if err := writer.Write(bitMessage(snap.FirstContext(), 0)); err != nil {
				return err
			}
		case primary.Second:
			if err := writer.Write(bitMessage(snap.FirstContext(), 1)); err != nil {
				return err
			}
			if err := writer.Write(bitMessage(snap.SecondContext(), 1)); err != nil {
				return err
			}
			if err := writer.Write(bitMessage(snap.ThirdContext(), 0)); err != nil {
				return err
			}
		case primary.Third:
			if err := writer.Write(bitMessage(snap.FirstContext(), 1)); err != nil {
				return err
			}
			if err := writer.Write(bitMessage(snap.SecondContext(), 1)); err != nil {
				return err
			}
			if err := writer.Write(bitMessage(snap.ThirdContext(), 1)); err != nil {
				return err
			}
		default: // primary.None
			if err := writer.Write(bitMessage(snap.FirstContext(), 1)); err != nil {
				return err
			}
			if err := writer.Write(bitMessage(snap.SecondContext(), 0)); err != nil {
				return err
			}
			if err := writer.Write(byteMessage(snap.LiteralContext(), next)); err != nil {
				return err
			}
		}
	}
}

// secondaryContextEncoder turns packed messages into range-coded bits,
// using the secondary model's prediction for each context it sees.
type secondaryContextEncoder struct {
	ctx     *secondary.Context
	encoder *rangecoder.Encoder
}

func (s *secondaryContextEncoder) bit(contextIndex int, bit byte) error {
	current := s.ctx.Info(contextIndex)
	s.ctx.Update(current, contextIndex, bit)
	return s.encoder.EncodeBit(current.Prediction(), bit)
}

// byte codes one literal byte as two nibble trees: the high nibble in
// 15 contexts right after contextIndex, the low nibble in one of 16
// blocks of 15 contexts past that, chosen by the high nibble -- this
// keeps the low-nibble contexts for different high nibbles apart so
// they don't thrash each other's cache lines.
func (s *secondaryContextEncoder) byte(contextIndex int, value byte) error {
	high := (int(value) >> 4) | 16
	if err := s.bit(contextIndex+1, byte((high>>3)&1)); err != nil {
		return err
	}
	if err := s.bit(contextIndex+(high>>3), byte((high>>2)&1)); err != nil {
		return err
	}
	if err := s.bit(contextIndex+(high>>2), byte((high>>1)&1)); err != nil {
		return err
	}
	if err := s.bit(contextIndex+(high>>1), byte(high&1)); err != nil {
		return err
	}

	lowContext := contextIndex + 15*(high-15)
	low := (int(value) & 15) | 16
	if err := s.bit(lowContext+1, byte((low>>3)&1)); err != nil {
		return err
	}
	if err := s.bit(lowContext+(low>>3), byte((low>>2)&1)); err != nil {
		return err
	}
	if err := s.bit(lowContext+(low>>2), byte((low>>1)&1)); err != nil {
		return err
	}
	return s.bit(lowContext+(low>>1), byte(low&1))
}

func runSecondaryContextEncoder(reader *pipe.Reader[packedMessage], writer *pipe.Writer[byte]) error {
	enc := &secondaryContextEncoder{
		ctx:     secondary.NewContext(),
		encoder: rangecoder.NewEncoder(pipeByteWriter{writer}),
	}
	for {
		message, ok, err := reader.Read()
		if err != nil {
			return err
		}
		if !ok {
			if err := reader.Close(); err != nil {
				return err
			}
			if err := enc.encoder.Close(); err != nil {
				return err
			}
			return writer.Close()
		}
		if message.isByte() {
			context, value := message.byte()
			if err := enc.byte(context, value); err != nil {
				return err
			}
		} else {
			context, bit := message.bit()
			if err := enc.bit(context, bit); err != nil {
				return err
			}
		}
	}
}

// Encode compresses every byte read from r into range-coded bits
// written to w, as four pipelined stages: a file reader, the primary
// symbol-ranking model, the secondary bit predictor feeding the range
// coder, and a file writer. Encode does not write the container
// header; see package stream for that.
func Encode(r io.Reader, w io.Writer) error {
	inputWriter, inputReader := pipe.New[byte](srx.IOBufferSize)
	messageWriter, messageReader := pipe.New[packedMessage](srx.MessageBufferSize)
	outputWriter, outputReader := pipe.New[byte](srx.IOBufferSize)

	stages := []func() error{
		runStage("file reader", []aborter{inputWriter}, func() error {
			return runFileReader(r, inputWriter)
		}),
		runStage("primary context encoder", []aborter{inputReader, messageWriter}, func() error {
			return runPrimaryContextEncoder(inputReader, messageWriter)
		}),
		runStage("secondary context encoder", []aborter{messageReader, outputWriter}, func() error {
			return runSecondaryContextEncoder(messageReader, outputWriter)
		}),
		runStage("file writer", []aborter{outputReader}, func() error {
			return runFileWriter(outputReader, w)
		}),
	}

	errs := make([]error, len(stages))
	var wg sync.WaitGroup
	wg.Add(len(stages))
	for i, stage := range stages {
		go func(i int, stage func() error) {
			defer wg.Done()
			errs[i] = stage()
		}(i, stage)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
