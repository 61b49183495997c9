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
	"github.com/retroarm/thumbcore/debugger/govern"
)

// Run the machine until the processor leaves Thumb state, an error occurs or
// the continueCheck function returns a state that is not a continuing state.
//
// The continueCheck function is called after every instruction. If it is nil
// then the machine runs until it halts.
//
// The returned state is Halted if the processor left Thumb state. Otherwise
// it is the last state returned by continueCheck.
func (m *Machine) Run(continueCheck func() (govern.State, error)) (govern.State, error) {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state.Continuing() {
		if state != govern.Paused {
			if !m.ARM.Status().Thumb() {
				return govern.Halted, nil
			}
			if err := m.Step(); err != nil {
				return govern.Halted, err
			}
		}

		state, err = continueCheck()
		if err != nil {
			return state, err
		}
	}

	return state, nil
}

// RunForInstructionCount runs the machine for the number of instructions or
// until the machine halts. The continueCheck function is called after every
// instruction with the number of instructions executed so far.
func (m *Machine) RunForInstructionCount(count int, continueCheck func(n int) (govern.State, error)) (govern.State, error) {
	if continueCheck == nil {
		continueCheck = func(n int) (govern.State, error) { return govern.Running, nil }
	}

	if count <= 0 {
		return govern.Ending, nil
	}

	n := 0
	return m.Run(func() (govern.State, error) {
		n++
		if n >= count {
			return govern.Ending, nil
		}
		return continueCheck(n)
	})
}
