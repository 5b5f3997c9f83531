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

func TestHashRollsForward(t *testing.T) {
	c := NewContext()
	if c.hashValue != 0 {
		t.Fatalf("expected initial hash to be 0")
	}
	snap := c.Snapshot()
	c.Matching(snap, 'a')
	want := (uint32(0)*(5<<5) + uint32('a') + 1) & (ContextSize - 1)
	if c.hashValue != want {
		t.Fatalf("hash after one byte = %d, want %d", c.hashValue, want)
	}
}

func TestMatchingDetectsFirstSecondThird(t *testing.T) {
	c := NewContext()

	// Pin the rolling hash back to bucket 0 before every byte, so that
	// each call classifies against the same table slot.
	feed := func(b byte) Matched {
		c.hashValue = 0
		snap := c.Snapshot()
		return c.Matching(snap, b)
	}

	if m := feed('x'); m != None {
		t.Fatalf("first-ever byte at a context should miss, got %v", m)
	}
	// slot is now (first, second, third) = (x, 0, 0)
	if m := feed('x'); m != First {
		t.Fatalf("repeat of the first byte should match First, got %v", m)
	}
	// (x, 0, 0) -> miss on y -> (y, x, 0)
	if m := feed('y'); m != None {
		t.Fatalf("unseen byte should miss, got %v", m)
	}
	if m := feed('x'); m != Second {
		t.Fatalf("byte in second place should match Second, got %v", m)
	}
	// (x, y, 0) -> miss on z -> (z, x, y)
	if m := feed('z'); m != None {
		t.Fatalf("unseen byte should miss, got %v", m)
	}
	if m := feed('y'); m != Third {
		t.Fatalf("byte in third place should match Third, got %v", m)
	}

	// A fresh context fed one byte moves on to a different, never-seen
	// bucket, so the same byte misses again there.
	c2 := NewContext()
	snap := c2.Snapshot()
	c2.Matching(snap, 'x')
	snap2 := c2.Snapshot()
	if m := c2.Matching(snap2, 'x'); m != None {
		t.Fatalf("expected miss on an unseen bucket, got %v", m)
	}
}

func TestLiteralContextMasksHash(t *testing.T) {
	c := NewContext()
	c.hashValue = 0xFFFFFF
	snap := c.Snapshot()
	if got := snap.LiteralContext(); got != int(0x3FFF)*256 {
		t.Fatalf("LiteralContext() = %d, want %d", got, int(0x3FFF)*256)
	}
}

func TestContextAddressesDoNotCollideWithLiteralRange(t *testing.T) {
	c := NewContext()
	snap := c.Snapshot()
	if fc := snap.FirstContext(); fc < literalContextSize {
		t.Fatalf("FirstContext() = %d should be >= literalContextSize %d", fc, literalContextSize)
	}
}
