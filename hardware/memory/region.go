// This file is part of thumbcore.
//
// thumbcore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// thumbcore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with thumbcore.  If not, see <https://www.gnu.org/licenses/>.

package memory

import (
	"fmt"
)

// Area defines the meta-operations for a memory area. These are "debugging"
// operations, outside of the normal operation of the processor. They do not
// cause memory faults.
type Area interface {
	Label() string
	Origin() uint32
	Memtop() uint32
	Peek(address uint32) (uint8, error)
	Poke(address uint32, value uint8) error
}

// Region is a contiguous block of memory in the address space of a Bus.
type Region struct {
	label  string
	origin uint32
	memtop uint32

	// writes from the processor to a read-only region are memory faults. the
	// region can still be changed with Poke() and with Bus.Load()
	readOnly bool

	data []byte
}

func newRegion(label string, origin uint32, size uint32, readOnly bool) *Region {
	return &Region{
		label:    label,
		origin:   origin,
		memtop:   origin + size - 1,
		readOnly: readOnly,
		data:     make([]byte, size),
	}
}

func (r *Region) String() string {
	ro := ""
	if r.readOnly {
		ro = " (read only)"
	}
	return fmt.Sprintf("%-8s %08x -> %08x%s", r.label, r.origin, r.memtop, ro)
}

// Label implements the Area interface.
func (r *Region) Label() string {
	return r.label
}

// Origin implements the Area interface.
func (r *Region) Origin() uint32 {
	return r.origin
}

// Memtop implements the Area interface.
func (r *Region) Memtop() uint32 {
	return r.memtop
}

// Size returns the number of bytes in the region.
func (r *Region) Size() int {
	return len(r.data)
}

// ReadOnly returns true if processor writes to the region are faults.
func (r *Region) ReadOnly() bool {
	return r.readOnly
}

// Data returns the underlying byte slice of the region.
func (r *Region) Data() []byte {
	return r.data
}

// contains returns true if the size bytes starting at the address are all
// inside the region.
func (r *Region) contains(address uint32, size uint32) bool {
	if address < r.origin || address > r.memtop {
		return false
	}
	return r.memtop-address >= size-1
}

// Peek implements the Area interface.
func (r *Region) Peek(address uint32) (uint8, error) {
	if !r.contains(address, 1) {
		return 0, fmt.Errorf("memory: %08x is outside of %s", address, r.label)
	}
	return r.data[address-r.origin], nil
}

// Poke implements the Area interface.
func (r *Region) Poke(address uint32, value uint8) error {
	if !r.contains(address, 1) {
		return fmt.Errorf("memory: %08x is outside of %s", address, r.label)
	}
	r.data[address-r.origin] = value
	return nil
}
