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

import "testing"

func TestStateTableSize(t *testing.T) {
	if len(stateTable) != stateCount {
		t.Fatalf("state table has %d entries, want %d", len(stateTable), stateCount)
	}
}

func TestStateTableDeterministic(t *testing.T) {
	a := buildStateTable()
	b := buildStateTable()
	if a != b {
		t.Fatalf("secondary state table generation is not deterministic")
	}
	if a != stateTable {
		t.Fatalf("package-level stateTable does not match a freshly generated one")
	}
}

func TestRootStatePredictsOneHalf(t *testing.T) {
	root := stateTable[0]
	got := root.Prediction()
	// root is state(0, 1/2): expect close to the midpoint of the uint32 range.
	const want = uint32(1) << 31
	diff := int64(got) - int64(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > 1<<20 {
		t.Fatalf("root prediction = %d, want close to %d", got, want)
	}
}

func TestTransitionsStayInBounds(t *testing.T) {
	for i, e := range stateTable {
		if z := e.Next(0); int(z) >= len(stateTable) {
			t.Fatalf("state %d: Next(0) = %d out of bounds", i, z)
		}
		if o := e.Next(1); int(o) >= len(stateTable) {
			t.Fatalf("state %d: Next(1) = %d out of bounds", i, o)
		}
	}
}

func TestUpdateMovesTowardObservedBit(t *testing.T) {
	c := NewContext()
	idx := 12345
	for i := 0; i < 200; i++ {
		cur := c.Info(idx)
		c.Update(cur, idx, 1)
	}
	got := c.Info(idx).Prediction()
	if got <= 1<<31 {
		t.Fatalf("after 200 observed 1-bits, prediction = %d, want > midpoint", got)
	}
}
