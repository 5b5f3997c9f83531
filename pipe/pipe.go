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

// Package pipe implements a bounded, double-buffered rendezvous queue
// between two goroutines: a Writer fills one buffer while a Reader
// drains the other, and the two buffers swap hands through a pair of
// capacity-1 channels. This gives backpressure (the writer blocks once
// it is a full buffer ahead of the reader) without any allocation once
// the pipe is warmed up.
package pipe

import (
	"fmt"
	"sync"

	"github.com/thanhminhmr/srx"
)

// New creates a connected Writer/Reader pair, each backed by a buffer
// of the given capacity.
func New[T any](capacity int) (*Writer[T], *Reader[T]) {
	forward := make(chan []T, 1)
	back := make(chan []T, 1)
	done := make(chan struct{})
	var once sync.Once
	abort := func() { once.Do(func() { close(done) }) }

	return &Writer[T]{
			forward: forward, back: back, done: done, abort: abort,
			buf: make([]T, capacity), capacity: capacity,
		},
		&Reader[T]{
			forward: forward, back: back, done: done, abort: abort,
			buf: make([]T, capacity), capacity: capacity,
		}
}

// Writer is the producing end of a pipe.
type Writer[T any] struct {
	forward  chan<- []T
	back     <-chan []T
	done     chan struct{}
	abort    func()
	buf      []T
	idx      int
	capacity int
	broken   bool
}

// Write appends value to the current buffer, swapping buffers with the
// Reader once it fills.
func (w *Writer[T]) Write(value T) error {
	if w.broken {
		return fmt.Errorf("pipe: %w", srx.ErrBrokenPipe)
	}
	w.buf[w.idx] = value
	w.idx++
	if w.idx == w.capacity {
		return w.sync()
	}
	return nil
}

func (w *Writer[T]) sync() error {
	select {
	case w.forward <- w.buf[:w.idx]:
	case <-w.done:
		w.broken = true
		return fmt.Errorf("pipe: %w", srx.ErrBrokenPipe)
	}
	select {
	case next, ok := <-w.back:
		if !ok {
			w.broken = true
			return fmt.Errorf("pipe: %w", srx.ErrBrokenPipe)
		}
		w.buf = next[:w.capacity]
		w.idx = 0
		return nil
	case <-w.done:
		w.broken = true
		return fmt.Errorf("pipe: %w", srx.ErrBrokenPipe)
	}
}

// Close flushes any partially-filled buffer and signals the Reader that
// no more data is coming. Close must be called exactly once, after the
// last Write.
func (w *Writer[T]) Close() error {
	if w.broken {
		return nil
	}
	if w.idx > 0 {
		select {
		case w.forward <- w.buf[:w.idx]:
		case <-w.done:
			return nil
		}
	}
	close(w.forward)
	return nil
}

// Abort signals the Reader that this Writer has failed and will not be
// producing any more data or closing normally. Safe to call more than
// once, and safe to call from a deferred recover().
func (w *Writer[T]) Abort() { w.abort() }

// Reader is the consuming end of a pipe.
type Reader[T any] struct {
	forward  <-chan []T
	back     chan<- []T
	done     chan struct{}
	abort    func()
	buf      []T
	idx      int
	length   int
	capacity int
	broken   bool
}

// Read returns the next value, or ok == false once the Writer has
// closed the pipe and every buffered value has been drained.
func (r *Reader[T]) Read() (value T, ok bool, err error) {
	if err := r.sync(); err != nil {
		var zero T
		return zero, false, err
	}
	if r.idx >= r.length {
		var zero T
		return zero, false, nil
	}
	value = r.buf[r.idx]
	r.idx++
	return value, true, nil
}

func (r *Reader[T]) sync() error {
	if r.broken {
		return fmt.Errorf("pipe: %w", srx.ErrBrokenPipe)
	}
	if r.idx < r.length {
		return nil
	}
	select {
	case next, ok := <-r.forward:
		if !ok {
			r.length = 0
			r.idx = 0
			return nil
		}
		old := r.buf
		r.buf = next
		r.length = len(next)
		r.idx = 0
		select {
		case r.back <- old[:r.capacity]:
		case <-r.done:
		}
		return nil
	case <-r.done:
		r.broken = true
		return fmt.Errorf("pipe: %w", srx.ErrBrokenPipe)
	}
}

// Close releases the Reader's side of the pipe. It never blocks and
// never fails: a Reader that stops early simply stops asking for more.
func (r *Reader[T]) Close() error { return nil }

// Abort signals the Writer that this Reader has failed and will not be
// consuming any more data. Safe to call more than once, and safe to
// call from a deferred recover().
func (r *Reader[T]) Abort() { r.abort() }
