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

import "testing"

// TestStateTableDeterministic verifies that rebuilding the state table
// from scratch always yields the same table: the generator has no
// hidden dependency on map iteration order despite using a map for the
// closure's visited set.
func TestStateTableDeterministic(t *testing.T) {
	a := buildStateTable()
	b := buildStateTable()
	if a != b {
		t.Fatalf("state table generation is not deterministic")
	}
	if a != stateTable {
		t.Fatalf("package-level stateTable does not match a freshly generated one")
	}
}

func TestStateTableRoot(t *testing.T) {
	root := stateTable[0]
	if root.MatchCount() != 0 {
		t.Fatalf("root state should start at match count 0, got %d", root.MatchCount())
	}
}

func TestStateTableTransitionsStayInBounds(t *testing.T) {
	for i, entry := range stateTable {
		for _, m := range []Matched{First, Second, Third, None} {
			next := entry.Next(m)
			if int(next) >= len(stateTable) {
				t.Fatalf("state %d: transition %v points out of bounds: %d", i, m, next)
			}
		}
	}
}
