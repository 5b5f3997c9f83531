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

// Package srx defines the shared types used by the symbol-ranking
// compressor/decompressor: the container magic, the error taxonomy and
// the buffer sizes shared between the pipeline stages.
//
// The implementation of the actual models is available in sub-packages:
// primary (order-3 symbol-ranking model), secondary (adaptive bit
// predictor), rangecoder (32-bit binary range coder), pipe (bounded
// double-buffer fabric), codec (pipeline wiring) and stream (container
// framing).
package srx

// Magic is the 4-byte header every srx container begins with.
var Magic = [4]byte{'s', 'R', 'x', 0}

const (
	// IOBufferSize is the capacity, in bytes, of each double-buffered
	// raw-byte pipe used between the file reader/writer stages and the
	// model stages.
	IOBufferSize = 64 * 1024

	// MessageBufferSize is the capacity, in packed messages, of the
	// double-buffered queue between the primary-context stage and the
	// secondary-context stage during compression.
	MessageBufferSize = 16 * 1024
)
