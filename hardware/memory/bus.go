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
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/logger"
)

// Curated error patterns raised by the memory package.
const (
	MemoryFault       = "memory: %s %d bytes at %08x: %s"
	OverlappingRegion = "memory: region %s overlaps %s"
	LoadOutOfRange    = "memory: cannot load %d bytes at %08x"
)

// the reason for a memory fault.
const (
	unmapped = "unmapped address"
	readOnly = "read only memory"
)

// Bus is a little-endian address space made up of regions. it implements the
// Memory and MemoryFaulter interfaces of the arm package.
//
// An access to an address that is not in a region, or that crosses the end of
// a region, is a memory fault. A faulting read returns zero and a faulting
// write is dropped. The fault is logged and held until MemoryFault() is
// called.
type Bus struct {
	regions []*Region

	// the most recent fault. cleared by MemoryFault()
	fault error

	// total number of faults since the bus was created
	faults int

	// the most recently mapped region. accesses tend to be to the same region
	// as the previous access
	last *Region
}

// NewBus is the preferred method of initialisation for the Bus type. the new
// bus has no regions.
func NewBus() *Bus {
	return &Bus{}
}

// AddRegion creates a new region of zeroed memory on the bus. it is an error
// for the new region to overlap an existing region.
func (b *Bus) AddRegion(label string, origin uint32, size uint32, readOnly bool) (*Region, error) {
	if size == 0 || origin+size-1 < origin {
		return nil, fmt.Errorf("memory: invalid size for region %s (%d)", label, size)
	}

	r := newRegion(label, origin, size, readOnly)
	for _, o := range b.regions {
		if r.origin <= o.memtop && o.origin <= r.memtop {
			return nil, curated.Errorf(OverlappingRegion, r.label, o.label)
		}
	}

	b.regions = append(b.regions, r)
	sort.Slice(b.regions, func(i, j int) bool {
		return b.regions[i].origin < b.regions[j].origin
	})

	return r, nil
}

// Regions returns the regions of the bus in address order.
func (b *Bus) Regions() []*Region {
	return b.regions
}

// MapAddress returns the region containing all size bytes starting at the
// address. returns nil if there is no such region.
func (b *Bus) MapAddress(address uint32, size uint32) *Region {
	if b.last != nil && b.last.contains(address, size) {
		return b.last
	}
	for _, r := range b.regions {
		if r.contains(address, size) {
			b.last = r
			return r
		}
	}
	return nil
}

func (b *Bus) raiseFault(event string, size uint32, address uint32, reason string) {
	b.fault = curated.Errorf(MemoryFault, event, size, address, reason)
	b.faults++
	logger.Log(logger.Allow, "memory", b.fault)
}

// MemoryFault returns the most recent fault and clears it. Implements the
// MemoryFaulter interface of the arm package.
func (b *Bus) MemoryFault() error {
	err := b.fault
	b.fault = nil
	return err
}

// Faults returns the number of faults since the bus was created.
func (b *Bus) Faults() int {
	return b.faults
}

func (b *Bus) read(address uint32, size uint32) []byte {
	r := b.MapAddress(address, size)
	if r == nil {
		b.raiseFault("read", size, address, unmapped)
		return nil
	}
	idx := address - r.origin
	return r.data[idx : idx+size]
}

func (b *Bus) write(address uint32, size uint32) []byte {
	r := b.MapAddress(address, size)
	if r == nil {
		b.raiseFault("write", size, address, unmapped)
		return nil
	}
	if r.readOnly {
		b.raiseFault("write", size, address, readOnly)
		return nil
	}
	idx := address - r.origin
	return r.data[idx : idx+size]
}

// Read8bit implements the arm.Memory interface.
func (b *Bus) Read8bit(address uint32) uint8 {
	d := b.read(address, 1)
	if d == nil {
		return 0
	}
	return d[0]
}

// Read16bit implements the arm.Memory interface. the address does not need to
// be aligned.
func (b *Bus) Read16bit(address uint32) uint16 {
	d := b.read(address, 2)
	if d == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d)
}

// Read32bit implements the arm.Memory interface. the address does not need to
// be aligned.
func (b *Bus) Read32bit(address uint32) uint32 {
	d := b.read(address, 4)
	if d == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d)
}

// Write8bit implements the arm.Memory interface.
func (b *Bus) Write8bit(address uint32, value uint8) {
	if d := b.write(address, 1); d != nil {
		d[0] = value
	}
}

// Write16bit implements the arm.Memory interface.
func (b *Bus) Write16bit(address uint32, value uint16) {
	if d := b.write(address, 2); d != nil {
		binary.LittleEndian.PutUint16(d, value)
	}
}

// Write32bit implements the arm.Memory interface.
func (b *Bus) Write32bit(address uint32, value uint32) {
	if d := b.write(address, 4); d != nil {
		binary.LittleEndian.PutUint32(d, value)
	}
}

// Load copies data into memory starting at the address. unlike the Write
// functions, Load() can change read-only regions. all the data must fit into
// a single region.
func (b *Bus) Load(address uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	r := b.MapAddress(address, uint32(len(data)))
	if r == nil {
		return curated.Errorf(LoadOutOfRange, len(data), address)
	}
	copy(r.data[address-r.origin:], data)
	return nil
}

// Peek returns the byte at the address without causing a memory fault.
func (b *Bus) Peek(address uint32) (uint8, error) {
	r := b.MapAddress(address, 1)
	if r == nil {
		return 0, fmt.Errorf("memory: %08x is unmapped", address)
	}
	return r.Peek(address)
}

// Poke sets the byte at the address without causing a memory fault. read-only
// regions can be poked.
func (b *Bus) Poke(address uint32, value uint8) error {
	r := b.MapAddress(address, 1)
	if r == nil {
		return fmt.Errorf("memory: %08x is unmapped", address)
	}
	return r.Poke(address, value)
}

// Clear zeroes every region.
func (b *Bus) Clear() {
	for _, r := range b.regions {
		clear(r.data)
	}
	b.fault = nil
}

// Snapshot creates a copy of the bus and the contents of every region. any
// pending fault is not copied.
func (b *Bus) Snapshot() *Bus {
	n := &Bus{faults: b.faults}
	for _, r := range b.regions {
		c := *r
		c.data = make([]byte, len(r.data))
		copy(c.data, r.data)
		n.regions = append(n.regions, &c)
	}
	return n
}
