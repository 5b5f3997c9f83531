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

package secondary

import (
	"math"
	"sort"
)

// fraction is an exact rational number, always kept in lowest terms.
type fraction struct{ num, den uint64 }

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func newFraction(num, den uint64) fraction {
	g := gcd(num, den)
	if g == 0 {
		g = 1
	}
	return fraction{num / g, den / g}
}

func (f fraction) add(o fraction) fraction {
	return newFraction(f.num*o.den+o.num*f.den, f.den*o.den)
}

func (f fraction) sub(o fraction) fraction {
	return newFraction(f.num*o.den-o.num*f.den, f.den*o.den)
}

func (f fraction) mul(o fraction) fraction {
	return newFraction(f.num*o.num, f.den*o.den)
}

func (f fraction) f64() float64 { return float64(f.num) / float64(f.den) }

var one = fraction{1, 1}

// value is either an exact fraction (while the observation count is
// still low enough to track exactly) or a plain float64 snapped to a
// fixed prediction grid (once the state has graduated into the pool).
// A fraction always orders below every prediction, matching the
// reference generator's Value ordering.
type value struct {
	isPrediction bool
	frac         fraction
	prediction   float64
}

func fracValue(num, den uint64) value { return value{frac: newFraction(num, den)} }
func predValue(p float64) value       { return value{isPrediction: true, prediction: p} }

func (v value) f64() float64 {
	if v.isPrediction {
		return v.prediction
	}
	return v.frac.f64()
}

func valueLess(a, b value) bool {
	if a.isPrediction != b.isPrediction {
		return !a.isPrediction
	}
	return a.f64() < b.f64()
}

// stateIndex identifies a node in the state graph: an observation count
// plus the value (exact fraction or snapped prediction) at that count.
type stateIndex struct {
	count uint64
	val   value
}

func less(a, b stateIndex) bool {
	if a.count != b.count {
		return a.count < b.count
	}
	return valueLess(a.val, b.val)
}

type primitiveState struct {
	current, nextIfZero, nextIfOne stateIndex
}

type primitiveTable struct {
	states map[stateIndex]primitiveState
}

func newPrimitiveTable() *primitiveTable {
	return &primitiveTable{states: make(map[stateIndex]primitiveState)}
}

func (t *primitiveTable) set(current, zero, one stateIndex) {
	ps := primitiveState{current, zero, one}
	if old, ok := t.states[current]; ok {
		if old != ps {
			panic("secondary state table: inconsistent transition for an existing state")
		}
		return
	}
	t.states[current] = ps
}

// stateAuto derives the two Laplace-rule successor fractions for a
// counted state: value - value/(count+2) on a 0, value + (1-value)/(count+2)
// on a 1, carried in exact fractions to avoid any rounding error while
// the count is still low.
func (t *primitiveTable) stateAuto(current stateIndex) {
	v := current.val.frac
	step := newFraction(1, current.count+2)
	zero := stateIndex{current.count + 1, value{frac: v.sub(v.mul(step))}}
	onev := stateIndex{current.count + 1, value{frac: v.add(one.sub(v).mul(step))}}
	t.set(current, zero, onev)
}

// snapToGrid reproduces the reference generator's nearest-neighbour
// snap: exact match wins outright; otherwise the insertion point's
// lower half of the grid snaps down, the upper half snaps up. This
// specific tie-break (by index position, not by distance) is part of
// the format and must not be "improved".
func snapToGrid(grid []float64, target float64) float64 {
	idx := sort.Search(len(grid), func(i int) bool { return grid[i] >= target })
	if idx < len(grid) && grid[idx] == target {
		return grid[idx]
	}
	if idx == 0 {
		return grid[0]
	}
	if idx == len(grid) {
		return grid[len(grid)-1]
	}
	if idx*2 < len(grid) {
		return grid[idx-1]
	}
	return grid[idx]
}

func predictionNext(grid []float64, current stateIndex, bit byte) stateIndex {
	var count uint64
	var v float64
	if current.val.isPrediction {
		count = current.count
		v = current.val.prediction
	} else {
		count = current.count + 1
		v = current.val.frac.f64()
	}
	var next float64
	if bit == 1 {
		next = v + (1.0-v)/float64(count+2)
	} else {
		next = v - v/float64(count+2)
	}
	return stateIndex{count, predValue(snapToGrid(grid, next))}
}

func (t *primitiveTable) stateManual(grid []float64, current stateIndex) {
	zero := predictionNext(grid, current, 0)
	onev := predictionNext(grid, current, 1)
	t.set(current, zero, onev)
}

// rescale maps a uniform fraction index/(den) through p^2/(p^2+(1-p)^2),
// concentrating the pool's prediction grid away from 0.5 the way a
// sharper-than-linear confidence curve would.
func rescale(num, den uint64) float64 {
	x := float64(num) / float64(den)
	sx := x * x
	sx1 := (1 - x) * (1 - x)
	return sx / (sx + sx1)
}

// buildPrimitiveTable constructs the full 65,536-state graph: the
// first 64 levels are exact-fraction Laplace counting states; the
// remainder is a pool of prediction-only states built from a uniform,
// rescaled grid sized to exactly fill the rest of the table.
func buildPrimitiveTable() *primitiveTable {
	const limitLevel = 64
	t := newPrimitiveTable()

	for level := uint64(0); level < limitLevel-1; level++ {
		den := (level + 1) * 2
		for index := uint64(0); index <= level; index++ {
			num := index*2 + 1
			t.stateAuto(stateIndex{level, fracValue(num, den)})
		}
	}

	limitDenominator := uint64(stateCount) - limitLevel - uint64(len(t.states))
	grid := make([]float64, 0, limitDenominator)
	for index := uint64(1); index <= limitDenominator; index++ {
		grid = append(grid, rescale(index, limitDenominator+1))
	}
	sort.Float64s(grid)

	for index := uint64(0); index < limitLevel; index++ {
		num := index*2 + 1
		t.stateManual(grid, stateIndex{limitLevel - 1, fracValue(num, limitLevel*2)})
	}
	for _, p := range grid {
		t.stateManual(grid, stateIndex{limitLevel, predValue(p)})
	}

	return t
}

func predictionToU32(fx float64) uint32 {
	scaled := math.Round(fx * 4294967296.0)
	if scaled >= 4294967296.0 {
		return math.MaxUint32
	}
	if scaled < 0 {
		return 0
	}
	return uint32(scaled)
}

// buildStateTable flattens buildPrimitiveTable's state graph into the
// dense, index-addressed array the codec actually runs against: every
// reachable state is assigned a table slot ordered by
// (observation count, value), and every transition is resolved from a
// state-graph key to a slot index.
func buildStateTable() [stateCount]StateEntry {
	primitive := buildPrimitiveTable()
	if len(primitive.states) != stateCount {
		panic("secondary state table generator did not produce exactly 65536 states")
	}

	keys := make([]stateIndex, 0, stateCount)
	for k := range primitive.states {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	index := make(map[stateIndex]uint16, len(keys))
	for i, k := range keys {
		index[k] = uint16(i)
	}

	var table [stateCount]StateEntry
	for i, k := range keys {
		ps := primitive.states[k]
		table[i] = newStateEntry(
			predictionToU32(k.val.f64()),
			index[ps.nextIfZero],
			index[ps.nextIfOne],
		)
	}
	return table
}
