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

import "github.com/thanhminhmr/srx/primary"

// BitState is a context slot: an index into the package-level state
// table. The zero value is the table's root state.
type BitState uint16

// Context is the adaptive bit-predictor model: one BitState per address
// the primary model (or literal-byte coding) can produce.
type Context struct {
	table []BitState
}

// NewContext returns a fresh secondary context sized to address every
// context primary.Snapshot can produce.
func NewContext() *Context {
	return &Context{table: make([]BitState, primary.SecondaryContextSize)}
}

// Info returns the state entry currently stored at index, without
// mutating it. Callers read the prediction from it, then call Update
// once the bit is known.
func (c *Context) Info(index int) StateEntry {
	return stateTable[c.table[index]]
}

// Update advances the slot at index given the state entry that was
// returned by a prior Info call and the bit observed.
func (c *Context) Update(current StateEntry, index int, bit byte) {
	c.table[index] = BitState(current.Next(bit))
}
