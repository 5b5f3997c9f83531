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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/thanhminhmr/srx"
	"github.com/thanhminhmr/srx/stream"
)

const _APP_HEADER = "srx (c) Frederic Langlet"

var (
	mutex sync.Mutex
	log   = Printer{out: bufio.NewWriter(os.Stdout)}
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	mode, inputName, outputName, err := parseArgs(os.Args)
	if err != nil {
		if !errors.Is(err, srx.ErrUsage) {
			log.Println(fmt.Sprintf("Error occurred! %v", err), true)
			os.Exit(1)
		}
		printHelp()
		os.Exit(0)
	}

	var code int
	if mode == "c" {
		code = run(inputName, outputName, stream.Compress, sizeRatio)
	} else {
		code = run(inputName, outputName, stream.Decompress, func(in, out int64) float64 { return sizeRatio(out, in) })
	}

	os.Exit(code)
}

// parseArgs validates the fixed-arity "srx c|d <input-file>
// <output-file>" invocation. Anything else -- wrong argument count,
// an unrecognized verb, -h/--help, no arguments at all -- is reported
// as ErrUsage, which main treats as "print the banner and exit 0"
// rather than a real failure.
func parseArgs(args []string) (mode, inputName, outputName string, err error) {
	if len(args) != 4 || (args[1] != "c" && args[1] != "d") {
		return "", "", "", fmt.Errorf("app: %w: usage: srx c|d <input-file> <output-file>", srx.ErrUsage)
	}
	return args[1], args[2], args[3], nil
}

func sizeRatio(in, out int64) float64 {
	if in == 0 {
		return 0
	}
	return float64(out) / float64(in) * 100
}

func run(inputName, outputName string, transform func(r io.Reader, w io.Writer) error, ratio func(in, out int64) float64) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log.Println(fmt.Sprintf("Error occurred! %v", r), true)
			code = 1
		}
	}()

	in, err := os.Open(inputName)
	if err != nil {
		log.Println(fmt.Sprintf("Error occurred! %v", err), true)
		return 1
	}
	defer in.Close()

	out, err := os.Create(outputName)
	if err != nil {
		log.Println(fmt.Sprintf("Error occurred! %v", err), true)
		return 1
	}
	defer out.Close()

	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)

	start := time.Now()

	if err := transform(reader, writer); err != nil {
		log.Println(fmt.Sprintf("Error occurred! %v", err), true)
		return 1
	}

	if err := writer.Flush(); err != nil {
		log.Println(fmt.Sprintf("Error occurred! %v", err), true)
		return 1
	}

	elapsed := time.Since(start).Seconds()

	inStat, err1 := in.Stat()
	outStat, err2 := out.Stat()
	if err1 != nil || err2 != nil {
		log.Println(fmt.Sprintf("Error occurred! %v", firstNonNil(err1, err2)), true)
		return 1
	}

	inSize := inStat.Size()
	outSize := outStat.Size()
	speed := 0.0
	if elapsed > 0 {
		speed = float64(inSize) / (1024 * 1024) / elapsed
	}

	log.Println(fmt.Sprintf("%d -> %d (%.2f%%) in %.3fs (%.2f MiB/s)",
		inSize, outSize, ratio(inSize, outSize), elapsed, speed), true)
	return code
}

func firstNonNil(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func printHelp() {
	log.Println("", true)
	log.Println(_APP_HEADER, true)
	log.Println("", true)
	log.Println("   srx c <input-file> <output-file>", true)
	log.Println("        Compress input-file into output-file.", true)
	log.Println("", true)
	log.Println("   srx d <input-file> <output-file>", true)
	log.Println("        Decompress input-file into output-file.", true)
	log.Println("", true)
}

// Printer serializes writes to a shared bufio.Writer so that the
// single-threaded reporting at the end of run doesn't need its own
// synchronization.
type Printer struct {
	out *bufio.Writer
}

// Println writes msg followed by a newline when enabled is true; it is
// a no-op otherwise, so call sites can pass a verbosity check straight
// through instead of wrapping every call in an if.
func (p *Printer) Println(msg string, enabled bool) {
	if !enabled {
		return
	}

	mutex.Lock()
	defer mutex.Unlock()

	// Best effort: a write failure here has nowhere useful to go.
	if _, err := p.out.WriteString(msg + "\n"); err == nil {
		_ = p.out.Flush()
	}
}
