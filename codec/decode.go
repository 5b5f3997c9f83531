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

// combinedContextDecoder walks the same state machine the encoder used
// to produce its messages, but in reverse: it asks the secondary model
// to decode each bit, drives the primary model's match/miss decisions
// with the result, and writes the recovered bytes onward.
type combinedContextDecoder struct {
	primaryCtx   *primary.Context
	secondaryCtx *secondary.Context
	decoder      *rangecoder.Decoder
	writer       *pipe.Writer[byte]
}

func (cd *combinedContextDecoder) bit(contextIndex int) (byte, error) {
	current := cd.secondaryCtx.Info(contextIndex)
	bit, err := cd.decoder.DecodeBit(current.Prediction())
	if err != nil {
		return 0, err
	}
	cd.secondaryCtx.Update(current, contextIndex, bit)
	return bit, nil
}

// byte mirrors secondaryContextEncoder.byte, decoding the high nibble
// first and using it to pick which block of low-nibble contexts to
// decode from.
func (cd *combinedContextDecoder) byte(contextIndex int) (byte, error) {
	high := 1
	for i := 0; i < 3; i++ {
		b, err := cd.bit(contextIndex + high)
		if err != nil {
			return 0, err
		}
		high = high<<1 | int(b)
	}
	b, err := cd.bit(contextIndex + high)
	if err != nil {
		return 0, err
	}
	high = high<<1 | int(b)

	lowContext := contextIndex + 15*(high-15)
	low := 1
	for i := 0; i < 3; i++ {
		b, err := cd.bit(lowContext + low)
		if err != nil {
			return 0, err
		}
		low = low<<1 | int(b)
	}
	b, err = cd.bit(lowContext + low)
	if err != nil {
		return 0, err
	}
	low = low<<1 | int(b)

	return byte((high&0xF)<<4 | (low & 0xF)), nil
}

// decode runs the full primary/secondary state machine until it
// recognizes the encoder's end-of-stream shape: a miss followed by a
// literal byte equal to the context's first remembered byte.
func (cd *combinedContextDecoder) decode() error {
	for {
		snap := cd.primaryCtx.Snapshot()

		first, err := cd.bit(snap.FirstContext())
		if err != nil {
			return err
		}

		var next byte
		var matched primary.Matched
		if first == 0 {
			next, matched = snap.FirstByte(), primary.First
		} else {
			second, err := cd.bit(snap.SecondContext())
			if err != nil {
				return err
			}
			if second == 0 {
				literal, err := cd.byte(snap.LiteralContext())
				if err != nil {
					return err
				}
				if literal == snap.FirstByte() {
					return cd.writer.Close()
				}
				next, matched = literal, primary.None
			} else {
				third, err := cd.bit(snap.ThirdContext())
				if err != nil {
					return err
				}
				if third == 0 {
					next, matched = snap.SecondByte(), primary.Second
				} else {
					next, matched = snap.ThirdByte(), primary.Third
				}
			}
		}

		if err := cd.writer.Write(next); err != nil {
			return err
		}
		cd.primaryCtx.Matched(snap, next, matched)
	}
}

func runCombinedContextDecoder(reader *pipe.Reader[byte], writer *pipe.Writer[byte]) error {
	cd := &combinedContextDecoder{
		primaryCtx:   primary.NewContext(),
		secondaryCtx: secondary.NewContext(),
		decoder:      rangecoder.NewDecoder(pipeByteReader{reader}),
		writer:       writer,
	}
	return cd.decode()
}

// Decode reverses Encode: it reads range-coded bits from r, runs the
// combined primary/secondary state machine forward, and writes the
// recovered bytes to w. Decode does not read the container header; see
// package stream for that.
func Decode(r io.Reader, w io.Writer) error {
	inputWriter, inputReader := pipe.New[byte](srx.IOBufferSize)
	outputWriter, outputReader := pipe.New[byte](srx.IOBufferSize)

	stages := []func() error{
		runStage("file reader", []aborter{inputWriter}, func() error {
			return runFileReader(r, inputWriter)
		}),
		runStage("combined context decoder", []aborter{inputReader, outputWriter}, func() error {
			return runCombinedContextDecoder(inputReader, outputWriter)
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
