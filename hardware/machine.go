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

package hardware

import (
	"strings"

	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/hardware/memory"
	"github.com/retroarm/thumbcore/hardware/preferences"
)

// register numbers used by the machine
const (
	regSP = 13
	regPC = 15
)

// Machine is a Thumb processor attached to a memory bus.
type Machine struct {
	Prefs *preferences.Preferences
	Mem   *memory.Bus
	ARM   *arm.ARM

	Rewind *Rewind

	// the address the program was loaded to. Reset() sets the program counter
	// to this address
	origin uint32

	// the initial value of the stack pointer
	stackTop uint32
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The memory layout is taken from the preferences. If the preferences argument
// is nil then the default preferences are used.
func NewMachine(prefs *preferences.Preferences, diag arm.Diagnostics) (*Machine, error) {
	if prefs == nil {
		prefs = preferences.DefaultPreferences()
	}

	layout := prefs.MemoryLayout.Get().(string)
	size := uint32(prefs.FlatMemorySize.Get().(int))

	mem, err := memory.NewLayout(layout, size)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		Prefs: prefs,
		Mem:   mem,
	}

	if strings.ToLower(layout) == "gba" {
		m.origin = memory.GBAROMOrigin
		m.stackTop = memory.GBAStackTop
	} else {
		m.stackTop = size &^ 0x03
	}

	m.ARM = arm.NewARM(prefs.ARM, mem, diag)
	m.Rewind = newRewind(m)
	m.Reset()

	return m, nil
}

// Origin returns the address the program was loaded to.
func (m *Machine) Origin() uint32 {
	return m.origin
}

// Load the binary image into memory at the origin address and reset the
// machine.
func (m *Machine) Load(origin uint32, data []byte) error {
	if err := m.Mem.Load(origin, data); err != nil {
		return err
	}
	m.origin = origin
	m.Reset()
	return nil
}

// Reset the processor. The program counter is set to the load origin and the
// stack pointer to the top of the stack. Memory is not changed.
func (m *Machine) Reset() {
	m.ARM.Reset()
	m.ARM.SetRegister(regPC, m.origin)
	m.ARM.SetRegister(regSP, m.stackTop)
	m.Rewind.Reset()
}
