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

import "sort"

// StateEntry packs the four possible successor state-table indices for
// a given match-count state, plus the match count itself (used to
// derive the secondary model's bit_context bucket):
//
//	bits 39..32: match count (first-slot confidence)
//	bits 31..24: next index if the byte missed all three slots
//	bits 23..16: next index if the byte matched the third slot
//	bits 15..8:  next index if the byte matched the second slot
//	bits 7..0:   next index if the byte matched the first slot
type StateEntry uint64

func newStateEntry(matchCount, nextIfFirst, nextIfSecond, nextIfThird, nextIfMiss uint8) StateEntry {
	return StateEntry(nextIfFirst) |
		StateEntry(nextIfSecond)<<8 |
		StateEntry(nextIfThird)<<16 |
		StateEntry(nextIfMiss)<<24 |
		StateEntry(matchCount)<<32
}

// Next returns the successor state-table index for the given match outcome.
func (s StateEntry) Next(matched Matched) uint8 {
	switch matched {
	case First:
		return uint8(s)
	case Second:
		return uint8(s >> 8)
	case Third:
		return uint8(s >> 16)
	default: // None
		return uint8(s >> 24)
	}
}

// MatchCount returns this state's match count, used by the secondary
// model to bucket its bit_context address.
func (s StateEntry) MatchCount() int { return int(s >> 32) }

// triple is the (first, second, third) saturating-counter key the
// state table is built from, mirroring the original generator's
// StateInfo key.
type triple struct{ first, second, third uint8 }

func (t triple) less(o triple) bool {
	if t.first != o.first {
		return t.first < o.first
	}
	if t.second != o.second {
		return t.second < o.second
	}
	return t.third < o.third
}

const (
	maxFirst  uint8 = 67
	maxSecond uint8 = 7
	maxThird  uint8 = 3
)

func clampRange(value, max uint8) uint8 {
	if value >= max {
		return max
	}
	return value
}

func increase(value, max uint8) uint8 {
	value++
	return clampRange(value, max)
}

func decrease(value, max uint8) uint8 {
	if value > 0 {
		value--
	}
	return clampRange(value, max)
}

func decNZ(value, max uint8) uint8 {
	if value > 1 {
		value--
	}
	return clampRange(value, max)
}

func nextIfFirst(t triple) triple {
	if t.first <= 31 {
		return triple{increase(t.first, maxFirst), decNZ(t.second, maxSecond), decNZ(t.third, maxThird)}
	}
	return triple{increase(t.first, maxFirst), 1, 1}
}

func nextIfSecond(t triple) triple {
	return triple{clampRange(t.second, maxFirst), clampRange(t.first, maxSecond), decNZ(t.third, maxThird)}
}

func nextIfThird(t triple) triple {
	return triple{clampRange(t.third, maxFirst), clampRange(t.first, maxSecond), decNZ(t.second, maxThird)}
}

func nextIfMiss(t triple) triple {
	return triple{0, clampRange(t.first, maxSecond), decNZ(t.second, maxThird)}
}

type primitiveState struct {
	current                                      triple
	nextIfFirst, nextIfSecond, nextIfThird, nextIfMiss triple
}

// buildStateTable computes the closure over the (first, second, third)
// saturating-counter space reachable from (0,0,0), visiting states
// recursively (depth-first), then sorts the resulting states so that
// the visiting order does not affect the table, and resolves every
// transition to a table index. The set of reachable states is bounded (first<=67, second<=7,
// third<=3), so the table always fits in 256 entries.
func buildStateTable() [256]StateEntry {
	visited := make(map[triple]primitiveState)

	var visit func(t triple)
	visit = func(t triple) {
		if _, ok := visited[t]; ok {
			return
		}
		ps := primitiveState{
			current:      t,
			nextIfFirst:  nextIfFirst(t),
			nextIfSecond: nextIfSecond(t),
			nextIfThird:  nextIfThird(t),
			nextIfMiss:   nextIfMiss(t),
		}
		visited[t] = ps
		visit(ps.nextIfFirst)
		visit(ps.nextIfSecond)
		visit(ps.nextIfThird)
		visit(ps.nextIfMiss)
	}
	visit(triple{0, 0, 0})

	states := make([]primitiveState, 0, len(visited))
	for _, ps := range visited {
		states = append(states, ps)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].current.less(states[j].current) })

	index := make(map[triple]uint8, len(states))
	for i, ps := range states {
		index[ps.current] = uint8(i)
	}

	var table [256]StateEntry
	for i, ps := range states {
		table[i] = newStateEntry(
			ps.current.first,
			index[ps.nextIfFirst],
			index[ps.nextIfSecond],
			index[ps.nextIfThird],
			index[ps.nextIfMiss],
		)
	}
	return table
}

var stateTable = buildStateTable()
