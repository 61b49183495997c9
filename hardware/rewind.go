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

// the maximum number of states to store before the earliest states are
// forgotten.
const maxRewindSteps = 100

// Rewind keeps a history of machine states so that execution can be stepped
// backwards.
type Rewind struct {
	m     *Machine
	steps []*State
}

func newRewind(m *Machine) *Rewind {
	return &Rewind{
		m:     m,
		steps: make([]*State, 0, maxRewindSteps),
	}
}

// Reset the history, forgetting every stored state.
func (r *Rewind) Reset() {
	r.steps = r.steps[:0]
}

// Len returns the number of stored states.
func (r *Rewind) Len() int {
	return len(r.steps)
}

// Record the current state of the machine. If the history is full then the
// earliest state is forgotten.
func (r *Rewind) Record() {
	if len(r.steps) >= maxRewindSteps {
		copy(r.steps, r.steps[1:])
		r.steps = r.steps[:len(r.steps)-1]
	}
	r.steps = append(r.steps, r.m.Snapshot())
}

// Back restores the most recently recorded state and removes it from the
// history. Returns false if there is nothing to go back to.
func (r *Rewind) Back() bool {
	if len(r.steps) == 0 {
		return false
	}
	s := r.steps[len(r.steps)-1]
	r.steps = r.steps[:len(r.steps)-1]
	r.m.Plumb(s)
	return true
}
