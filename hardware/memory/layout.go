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
	"strings"
)

// NewFlat creates a bus with a single read/write region starting at address
// zero.
func NewFlat(size uint32) (*Bus, error) {
	b := NewBus()
	if _, err := b.AddRegion("RAM", 0, size, false); err != nil {
		return nil, err
	}
	return b, nil
}

// the memory map of the Game Boy Advance, the most common host of the ARM7TDMI
// in emulation. mirrors and I/O registers are not modelled.
var gbaLayout = []struct {
	label    string
	origin   uint32
	size     uint32
	readOnly bool
}{
	{label: "BIOS", origin: 0x00000000, size: 0x00004000, readOnly: true},
	{label: "EWRAM", origin: 0x02000000, size: 0x00040000},
	{label: "IWRAM", origin: 0x03000000, size: 0x00008000},
	{label: "PALETTE", origin: 0x05000000, size: 0x00000400},
	{label: "VRAM", origin: 0x06000000, size: 0x00018000},
	{label: "OAM", origin: 0x07000000, size: 0x00000400},
	{label: "ROM", origin: 0x08000000, size: 0x02000000, readOnly: true},
}

// Origin of the ROM region of the GBA layout. Programs are normally loaded
// and executed from here.
const GBAROMOrigin = 0x08000000

// Stack top of the GBA layout. The stack pointer is normally set to this
// value before execution.
const GBAStackTop = 0x03007f00

// NewGBA creates a bus with the memory regions of the Game Boy Advance.
func NewGBA() *Bus {
	b := NewBus()
	for _, l := range gbaLayout {
		// the layout is known to be valid so the error can be ignored
		_, _ = b.AddRegion(l.label, l.origin, l.size, l.readOnly)
	}
	return b
}

// NewLayout creates a bus from the name of a layout. the size argument is
// used by the flat layout.
func NewLayout(name string, size uint32) (*Bus, error) {
	switch strings.ToLower(name) {
	case "gba":
		return NewGBA(), nil
	case "flat":
		return NewFlat(size)
	}
	return nil, fmt.Errorf("memory: unknown layout (%s)", name)
}
