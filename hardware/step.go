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
	"github.com/retroarm/thumbcore/curated"
)

// Sentinal error patterns returned by Step().
const (
	FetchFault = "machine: fetch from %08x: %v"
	NotThumb   = "machine: not in thumb state at %08x"
)

// Step fetches the opcode at the program counter, advances the program
// counter past it and executes it.
func (m *Machine) Step() error {
	pc := m.ARM.Register(regPC)

	if !m.ARM.Status().Thumb() {
		return curated.Errorf(NotThumb, pc)
	}

	opcode := m.Mem.Read16bit(pc)
	if err := m.Mem.MemoryFault(); err != nil {
		return curated.Errorf(FetchFault, pc, err)
	}

	m.ARM.SetRegister(regPC, pc+2)

	return m.ARM.Execute(opcode)
}
