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

package memory_test

import (
	"strings"
	"testing"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/hardware/memory"
	"github.com/retroarm/thumbcore/test"
)

func TestLittleEndian(t *testing.T) {
	mem, err := memory.NewFlat(0x100)
	test.DemandSuccess(t, err)

	mem.Write32bit(0x10, 0x12345678)
	test.ExpectEquality(t, mem.Read8bit(0x10), uint8(0x78))
	test.ExpectEquality(t, mem.Read8bit(0x13), uint8(0x12))
	test.ExpectEquality(t, mem.Read16bit(0x10), uint16(0x5678))
	test.ExpectEquality(t, mem.Read16bit(0x12), uint16(0x1234))
	test.ExpectEquality(t, mem.Read32bit(0x10), uint32(0x12345678))

	// unaligned accesses use the address as it is
	test.ExpectEquality(t, mem.Read16bit(0x11), uint16(0x3456))
	mem.Write16bit(0x21, 0xabcd)
	test.ExpectEquality(t, mem.Read8bit(0x21), uint8(0xcd))
	test.ExpectEquality(t, mem.Read8bit(0x22), uint8(0xab))

	test.ExpectSuccess(t, mem.MemoryFault())
	test.ExpectEquality(t, mem.Faults(), 0)
}

func TestFaults(t *testing.T) {
	mem, err := memory.NewFlat(0x100)
	test.DemandSuccess(t, err)

	// reads outside of the region return zero
	test.ExpectEquality(t, mem.Read32bit(0x100), uint32(0))
	err = mem.MemoryFault()
	test.ExpectSuccess(t, curated.Is(err, memory.MemoryFault))

	// the fault is cleared when it is returned
	test.ExpectSuccess(t, mem.MemoryFault())

	// an access that crosses the end of the region is a fault
	test.ExpectEquality(t, mem.Read32bit(0xfe), uint32(0))
	test.ExpectFailure(t, mem.MemoryFault())

	// writes outside of the region are dropped
	mem.Write8bit(0x1000, 0xff)
	test.ExpectFailure(t, mem.MemoryFault())

	test.ExpectEquality(t, mem.Faults(), 3)
}

func TestGBA(t *testing.T) {
	mem := memory.NewGBA()
	test.ExpectEquality(t, len(mem.Regions()), 7)

	// palette memory
	mem.Write8bit(0x05000000, 0x42)
	mem.Write8bit(0x05000001, 0x53)
	mem.Write8bit(0x05000002, 0x99)
	test.ExpectEquality(t, mem.Read16bit(0x05000001), uint16(0x9953))
	test.ExpectSuccess(t, mem.MemoryFault())

	// gap between BIOS and EWRAM
	mem.Read8bit(0x01000000)
	test.ExpectFailure(t, mem.MemoryFault())

	// ROM is read only for the processor but can be loaded
	test.ExpectSuccess(t, mem.Load(memory.GBAROMOrigin, []byte{0x01, 0x20}))
	test.ExpectEquality(t, mem.Read16bit(memory.GBAROMOrigin), uint16(0x2001))
	mem.Write16bit(memory.GBAROMOrigin, 0x0000)
	test.ExpectFailure(t, mem.MemoryFault())
	test.ExpectEquality(t, mem.Read16bit(memory.GBAROMOrigin), uint16(0x2001))
}

func TestRegions(t *testing.T) {
	mem := memory.NewBus()

	_, err := mem.AddRegion("A", 0x1000, 0x100, false)
	test.ExpectSuccess(t, err)

	_, err = mem.AddRegion("B", 0x10ff, 0x100, false)
	test.ExpectSuccess(t, curated.Is(err, memory.OverlappingRegion))

	_, err = mem.AddRegion("C", 0x0000, 0x1000, false)
	test.ExpectSuccess(t, err)

	_, err = mem.AddRegion("D", 0xffffff00, 0x200, false)
	test.ExpectFailure(t, err)

	// regions are sorted by origin
	test.ExpectEquality(t, mem.Regions()[0].Label(), "C")
	test.ExpectEquality(t, mem.Regions()[1].Label(), "A")
	test.ExpectEquality(t, mem.Regions()[1].Memtop(), uint32(0x10ff))

	test.ExpectSuccess(t, curated.Is(mem.Load(0x10f0, make([]byte, 0x20)), memory.LoadOutOfRange))
}

func TestPeekAndPoke(t *testing.T) {
	mem := memory.NewGBA()

	test.ExpectSuccess(t, mem.Poke(0x00000000, 0xea))
	v, err := mem.Peek(0x00000000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0xea))

	_, err = mem.Peek(0x04000000)
	test.ExpectFailure(t, err)

	// peek and poke do not cause faults
	test.ExpectSuccess(t, mem.MemoryFault())

	mem.Clear()
	v, _ = mem.Peek(0x00000000)
	test.ExpectEquality(t, v, uint8(0x00))
}

func TestLayout(t *testing.T) {
	mem, err := memory.NewLayout("FLAT", 0x400)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, mem.Regions()[0].Size(), 0x400)

	_, err = memory.NewLayout("gba", 0)
	test.ExpectSuccess(t, err)

	_, err = memory.NewLayout("nes", 0)
	test.ExpectFailure(t, err)
}

func TestSnapshot(t *testing.T) {
	mem, err := memory.NewFlat(0x100)
	test.DemandSuccess(t, err)

	mem.Write32bit(0x10, 0xdeadbeef)
	snap := mem.Snapshot()

	mem.Write32bit(0x10, 0x00000000)
	test.ExpectEquality(t, snap.Read32bit(0x10), uint32(0xdeadbeef))
	test.ExpectEquality(t, mem.Read32bit(0x10), uint32(0x00000000))
	test.ExpectEquality(t, len(snap.Regions()), len(mem.Regions()))
}

func TestMemoryMap(t *testing.T) {
	mem := memory.NewGBA()
	m := mem.MemoryMap()
	test.ExpectSuccess(t, strings.Contains(m, "00000000 -> 00003fff\tBIOS (ro)"))
	test.ExpectSuccess(t, strings.Contains(m, "08000000 -> 09ffffff\tROM (ro)"))
}
