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

package arm

import (
	"fmt"
	"strings"

	"github.com/retroarm/thumbcore/hardware/preferences"
	"github.com/retroarm/thumbcore/logger"
)

// register names.
const (
	rSB = 9 + iota // static base
	rSL            // stack limit
	rFP            // frame pointer
	rIP            // intra-procedure-call scratch register
	rSP
	rLR
	rPC
	NumRegisters
)

// the address taken by the software interrupt exception.
const swiVector = 0x00000008

// ARMState is the part of the ARM that changes as instructions are executed.
// it can be copied with the Snapshot() function and restored with Plumb().
type ARMState struct {
	registers [NumRegisters]uint32
	status    Status

	// address of the most recently executed instruction. ie. the value of R15
	// before the fetch loop advanced it
	executingPC uint32

	// number of instructions executed since the last reset
	instructions uint64
}

// Snapshot makes a copy of the ARMState.
func (s *ARMState) Snapshot() *ARMState {
	n := *s
	return &n
}

// ARM implements the Thumb instruction set of the ARM7TDMI. the ARM does not
// fetch instructions. the fetch loop that owns the ARM should read the opcode
// at R15, advance R15 by two and then call Execute().
type ARM struct {
	prefs *preferences.ARMPreferences
	mem   Memory
	diag  Diagnostics
	hook  SoftwareInterruptHook

	state *ARMState

	// values taken from the preferences. see updatePrefs()
	quirks             shifterQuirks
	imm8SignedOverflow bool
	abortOnMemoryFault bool
	logExecution       bool
}

// NewARM is the preferred method of initialisation for the ARM type. the
// preferences argument can be nil, in which case the default preferences are
// used. if diagnostics is nil then warnings and errors are sent to the central
// logger and errors do not terminate the program.
func NewARM(prefs *preferences.ARMPreferences, mem Memory, diag Diagnostics) *ARM {
	if prefs == nil {
		prefs = preferences.DefaultARMPreferences()
	}
	if diag == nil {
		diag = logDiagnostics{}
	}

	arm := &ARM{
		prefs: prefs,
		mem:   mem,
		diag:  diag,
		state: &ARMState{},
	}

	arm.Reset()
	arm.UpdatePrefs()

	return arm
}

// Reset clears the registers and condition flags. the processor is put into
// Thumb state.
func (arm *ARM) Reset() {
	arm.state.status.reset()
	for i := range arm.state.registers {
		arm.state.registers[i] = 0x00000000
	}
	arm.state.executingPC = 0
	arm.state.instructions = 0
}

// UpdatePrefs should be called whenever the preferences have changed. the ARM
// reads the preference values once rather than for every instruction.
func (arm *ARM) UpdatePrefs() {
	arm.quirks.lsr32CarryBit31 = arm.prefs.LSR32CarryBit31.Get().(bool)
	arm.imm8SignedOverflow = arm.prefs.Imm8SignedOverflow.Get().(bool)
	arm.abortOnMemoryFault = arm.prefs.AbortOnMemoryFault.Get().(bool)
	arm.logExecution = arm.prefs.LogExecution.Get().(bool)
}

// AllowLogging implements the logger.Permission interface.
func (arm *ARM) AllowLogging() bool {
	return arm.logExecution
}

// SetSoftwareInterruptHook installs a hook that is called before the SWI
// exception is taken. a nil value removes the hook.
func (arm *ARM) SetSoftwareInterruptHook(hook SoftwareInterruptHook) {
	arm.hook = hook
}

// Snapshot makes a copy of the ARM state.
func (arm *ARM) Snapshot() *ARMState {
	return arm.state.Snapshot()
}

// Plumb should be used to update the memory reference and, optionally, to
// restore the state from a previous snapshot.
//
// The ARMState argument can be nil as a special case. If it is nil then the
// existing state does not change.
func (arm *ARM) Plumb(state *ARMState, mem Memory) {
	if state != nil {
		arm.state = state
	}
	arm.mem = mem
}

// Register returns the raw value of the register. unlike reading the register
// with an instruction, the value of R15 is returned without the pipeline
// adjustment.
func (arm *ARM) Register(r int) uint32 {
	return arm.state.registers[r&0x0f]
}

// SetRegister sets the value of the register.
func (arm *ARM) SetRegister(r int, v uint32) {
	arm.state.registers[r&0x0f] = v
}

// Registers returns a copy of all sixteen registers.
func (arm *ARM) Registers() [NumRegisters]uint32 {
	return arm.state.registers
}

// Status returns a reference to the status register. changes made through the
// reference affect the ARM.
func (arm *ARM) Status() *Status {
	return &arm.state.status
}

// ExecutingPC returns the address of the most recently executed instruction.
func (arm *ARM) ExecutingPC() uint32 {
	return arm.state.executingPC
}

// Instructions returns the number of instructions executed since the last
// reset.
func (arm *ARM) Instructions() uint64 {
	return arm.state.instructions
}

// readRegister returns the value of the register as seen by an instruction
// operand. reading R15 gives the pipeline value.
func (arm *ARM) readRegister(r uint8) uint32 {
	if r == rPC {
		return arm.pipelinePC()
	}
	return arm.state.registers[r]
}

// writeRegister sets the register from an instruction result. writing R15
// clears bit 0 because the processor remains in Thumb state.
func (arm *ARM) writeRegister(r uint8, v uint32) {
	if r == rPC {
		v &^= 0x01
	}
	arm.state.registers[r] = v
}

func (arm *ARM) String() string {
	s := strings.Builder{}
	for i, r := range arm.state.registers {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("\t\t")
			}
		}
		s.WriteString(fmt.Sprintf("R%-2d: %08x", i, r))
	}
	s.WriteString(fmt.Sprintf("\nCPSR: %s", arm.state.status.String()))
	return s.String()
}

// logDiagnostics is used when NewARM() is not given a Diagnostics
// implementation.
type logDiagnostics struct{}

func (logDiagnostics) Warning(message string) {
	logger.Log(logger.Allow, "ARM7", message)
}

func (logDiagnostics) Error(message string) {
	logger.Log(logger.Allow, "ARM7", message)
}
