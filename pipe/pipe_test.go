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

package pipe

import (
	"testing"
)

func TestRoundTripSmallerThanCapacity(t *testing.T) {
	w, r := New[int](4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			if err := w.Write(i); err != nil {
				t.Errorf("Write: %v", err)
				return
			}
		}
		if err := w.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	var got []int
	for {
		v, ok, err := r.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	<-done

	if len(got) != 3 {
		t.Fatalf("got %v, want 3 values", got)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestRoundTripManyBuffersWorth(t *testing.T) {
	const capacity = 8
	const n = 1000
	w, r := New[int](capacity)

	go func() {
		for i := 0; i < n; i++ {
			if err := w.Write(i); err != nil {
				return
			}
		}
		_ = w.Close()
	}()

	count := 0
	for {
		v, ok, err := r.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !ok {
			break
		}
		if v != count {
			t.Fatalf("Read() = %d, want %d", v, count)
		}
		count++
	}
	if count != n {
		t.Fatalf("read %d values, want %d", count, n)
	}
}

func TestAbortUnblocksReader(t *testing.T) {
	w, r := New[int](4)
	if err := w.Write(1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Abort()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if _, _, err := r.Read(); err != nil {
				return
			}
		}
		t.Errorf("Read should have failed after Abort")
	}()
	<-done
}

func TestAbortUnblocksWriter(t *testing.T) {
	w, r := New[int](2)
	r.Abort()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if err := w.Write(i); err != nil {
				return
			}
		}
		t.Errorf("Write should have failed after Abort")
	}()
	<-done
}
