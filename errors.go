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

package srx

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the srx error taxonomy. Stage-level failures
// wrap one of these with fmt.Errorf("%w: ...") so that callers can test
// with errors.Is while still getting a descriptive message.
var (
	// ErrIO wraps a failure of the underlying io.Reader/io.Writer.
	ErrIO = errors.New("I/O error")

	// ErrCorruptHeader is returned when a decompressed stream does not
	// begin with Magic.
	ErrCorruptHeader = errors.New("corrupt header")

	// ErrBrokenPipe is returned when a pipeline stage writes to, or
	// reads from, a queue whose peer has aborted. A normal Close by the
	// writer is not an error: the reader sees end of stream instead.
	ErrBrokenPipe = errors.New("broken pipe")

	// ErrThreadFailure is returned when a pipeline stage goroutine
	// panics; the panic value is recovered and reported through this
	// error rather than propagated.
	ErrThreadFailure = errors.New("thread failure")

	// ErrUsage is returned for invalid command-line invocations. It
	// never escapes the app package.
	ErrUsage = errors.New("usage error")
)

// WrapIO wraps err, if non-nil, as an ErrIO with component context.
// Returns nil if err is nil.
func WrapIO(component string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %v", component, ErrIO, err)
}
