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

package primary

// ContextSize is the number of 24-bit rolling-hash buckets in the
// primary context table. It must stay a power of two: the rolling hash
// is reduced into it with a bitmask, not a general modulo.
const ContextSize = 1 << 24

// Addressing layout of the secondary model's context space, as derived
// from this package's fields. Kept here (not in package secondary)
// because the addressing is a function of primary-model state; package
// secondary only needs to know the total size, exported as
// SecondaryContextSize.
const (
	literalContextSize = 0x4000 * 256
	matchBuckets       = 1024 + 32
	bitContextStride   = 768

	// SecondaryContextSize is the number of bit-predictor slots the
	// secondary model must allocate to back every address this package
	// can produce (literal contexts plus the three match contexts).
	SecondaryContextSize = literalContextSize + matchBuckets*bitContextStride
)

// Context is the order-3 symbol-ranking model: a flat table of
// per-context byte histories addressed by a 24-bit rolling hash of the
// bytes seen so far.
type Context struct {
	table        []History
	previousByte byte
	hashValue    uint32
}

// NewContext returns an empty primary context, ready to process the
// first byte of a stream.
func NewContext() *Context {
	return &Context{table: make([]History, ContextSize)}
}

// Snapshot freezes the fields a pipeline stage needs to derive both the
// primary match outcome and the secondary model's context addresses for
// the byte about to be processed, before Matching/Matched mutate the
// table out from under it.
type Snapshot struct {
	state        StateEntry
	previousByte byte
	hashValue    uint32
	first        byte
	second       byte
	third        byte
}

// Snapshot captures the context's current state for the byte about to
// be read or written.
func (c *Context) Snapshot() Snapshot {
	h := c.table[c.hashValue]
	return Snapshot{
		state:        h.State(),
		previousByte: c.previousByte,
		hashValue:    c.hashValue,
		first:        h.FirstByte(),
		second:       h.SecondByte(),
		third:        h.ThirdByte(),
	}
}

// FirstByte, SecondByte and ThirdByte return the three remembered
// successor bytes as of the snapshot.
func (s Snapshot) FirstByte() byte  { return s.first }
func (s Snapshot) SecondByte() byte { return s.second }
func (s Snapshot) ThirdByte() byte  { return s.third }

// bitContext computes the shared base address for the three match
// contexts: it buckets on previous byte for low match counts, then on a
// halved match count past that. The integer division in the >=4 branch
// intentionally collapses pairs of adjacent match counts into one
// bucket above count 4 -- this loses a bit of resolution versus
// indexing every count directly, but the table layout already commits
// the address space for it and changing it would break compatibility
// with streams produced by this exact layout.
func (s Snapshot) bitContext() int {
	count := s.state.MatchCount()
	var bucket int
	if count < 4 {
		bucket = (int(s.previousByte) << 2) | count
	} else {
		c := count - 4
		if c > 63 {
			c = 63
		}
		bucket = 1024 + c>>1
	}
	return literalContextSize + bucket*bitContextStride
}

// FirstContext returns the secondary context address for "does the next
// byte match the first remembered byte".
func (s Snapshot) FirstContext() int {
	return s.bitContext() + int(s.first)
}

// SecondContext returns the secondary context address for "does the
// next byte match the second remembered byte", given it already missed
// the first.
func (s Snapshot) SecondContext() int {
	return s.bitContext() + 0x100 + int(s.second+s.third)
}

// ThirdContext returns the secondary context address for "does the next
// byte match the third remembered byte", given it already missed the
// first two.
func (s Snapshot) ThirdContext() int {
	return s.bitContext() + 0x200 + int(s.second*2-s.third)
}

// LiteralContext returns the secondary context base address for coding
// an escaped literal byte, keyed off the low 14 bits of the rolling hash.
func (s Snapshot) LiteralContext() int {
	return int(s.hashValue&0x3FFF) * 256
}

// Matching classifies nextByte against the context identified by snap
// and advances the rolling context to the next position. Used on the
// encode side, where the next byte is already known.
func (c *Context) Matching(snap Snapshot, nextByte byte) Matched {
	h := &c.table[snap.hashValue]
	matched := h.Matching(snap.state, nextByte)
	c.advance(nextByte)
	return matched
}

// Matched applies an already-known match outcome to the context
// identified by snap and advances the rolling context. Used on the
// decode side, where the outcome is recovered from the bitstream before
// the concrete next byte is known to the model.
func (c *Context) Matched(snap Snapshot, nextByte byte, matched Matched) {
	h := &c.table[snap.hashValue]
	h.Matched(snap.state, nextByte, matched)
	c.advance(nextByte)
}

func (c *Context) advance(nextByte byte) {
	c.previousByte = nextByte
	c.hashValue = (c.hashValue*(5<<5) + uint32(nextByte) + 1) & (ContextSize - 1)
}
