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
	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/hardware/memory"
)

// State stores the machine sub-systems. It is produced by the Snapshot()
// function and can be restored with the Plumb() function.
type State struct {
	ARM *arm.ARMState
	Mem *memory.Bus
}

// Snapshot creates a copy of a previously snapshotted State.
func (s *State) Snapshot() *State {
	return &State{
		ARM: s.ARM.Snapshot(),
		Mem: s.Mem.Snapshot(),
	}
}

// Snapshot the state of the machine.
func (m *Machine) Snapshot() *State {
	return &State{
		ARM: m.ARM.Snapshot(),
		Mem: m.Mem.Snapshot(),
	}
}

// Plumb a previously snapshotted state into the machine.
func (m *Machine) Plumb(state *State) {
	if state == nil {
		panic("machine: cannot plumb in a nil state")
	}

	// take another snapshot of the state before plumbing. the machine must not
	// change what is stored in the rewind history
	s := state.Snapshot()

	m.Mem = s.Mem
	m.ARM.Plumb(s.ARM, m.Mem)
}
