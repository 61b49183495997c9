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

package hardware_test

import (
	"strings"
	"testing"

	"github.com/retroarm/thumbcore/assembler"
	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/debugger/govern"
	"github.com/retroarm/thumbcore/hardware"
	"github.com/retroarm/thumbcore/hardware/memory"
	"github.com/retroarm/thumbcore/test"
)

// sum of 5 to 1 into R1 then leave thumb state
var program = []string{
	"    MOV R0, #5",
	"    MOV R1, #0",
	"loop:",
	"    ADD R1, R0",
	"    SUB R0, #1",
	"    BNE loop",
	"    MOV R3, #0",
	"    BX  R3",
}

func newMachine(t *testing.T) *hardware.Machine {
	t.Helper()

	m, err := hardware.NewMachine(nil, nil)
	test.DemandSuccess(t, err)

	asm := assembler.NewAssembler(memory.GBAROMOrigin)
	prog, err := asm.Assemble(strings.NewReader(strings.Join(program, "\n")))
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, m.Load(memory.GBAROMOrigin, prog.Bytes()))
	return m
}

func TestReset(t *testing.T) {
	m := newMachine(t)
	test.ExpectEquality(t, m.Origin(), uint32(memory.GBAROMOrigin))
	test.ExpectEquality(t, m.ARM.Register(15), uint32(memory.GBAROMOrigin))
	test.ExpectEquality(t, m.ARM.Register(13), uint32(memory.GBAStackTop))
	test.ExpectSuccess(t, m.ARM.Status().Thumb())
}

func TestStep(t *testing.T) {
	m := newMachine(t)

	test.ExpectSuccess(t, m.Step())
	test.ExpectEquality(t, m.ARM.Register(0), uint32(5))
	test.ExpectEquality(t, m.ARM.Register(15), uint32(memory.GBAROMOrigin+2))
	test.ExpectEquality(t, m.ARM.ExecutingPC(), uint32(memory.GBAROMOrigin))
}

func TestRun(t *testing.T) {
	m := newMachine(t)

	state, err := m.Run(nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, state, govern.Halted)
	test.ExpectEquality(t, m.ARM.Register(1), uint32(15))
	test.ExpectEquality(t, m.ARM.Register(0), uint32(0))
	test.ExpectEquality(t, m.ARM.Register(15), uint32(0))
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(19))
	test.ExpectFailure(t, m.ARM.Status().Thumb())

	// the processor is no longer in thumb state
	err = m.Step()
	test.ExpectSuccess(t, curated.Is(err, hardware.NotThumb))
}

func TestRunForInstructionCount(t *testing.T) {
	m := newMachine(t)

	state, err := m.RunForInstructionCount(3, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, state, govern.Ending)
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(3))
	test.ExpectEquality(t, m.ARM.Register(1), uint32(5))

	// the check function can end the run early
	m.Reset()
	state, err = m.RunForInstructionCount(100, func(n int) (govern.State, error) {
		if n == 2 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, state, govern.Ending)
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(2))
}

func TestFetchFault(t *testing.T) {
	m := newMachine(t)
	m.ARM.SetRegister(15, 0x04000000)

	err := m.Step()
	test.ExpectSuccess(t, curated.Is(err, hardware.FetchFault))
	test.ExpectSuccess(t, curated.Has(err, memory.MemoryFault))

	state, err := m.Run(nil)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, state, govern.Halted)
}

func TestRewind(t *testing.T) {
	m := newMachine(t)

	test.ExpectFailure(t, m.Rewind.Back())

	test.ExpectSuccess(t, m.Step())
	m.Rewind.Record()
	test.ExpectSuccess(t, m.Step())
	test.ExpectSuccess(t, m.Step())
	test.ExpectEquality(t, m.ARM.Register(1), uint32(5))

	test.ExpectSuccess(t, m.Rewind.Back())
	test.ExpectEquality(t, m.Rewind.Len(), 0)
	test.ExpectEquality(t, m.ARM.Register(0), uint32(5))
	test.ExpectEquality(t, m.ARM.Register(1), uint32(0))
	test.ExpectEquality(t, m.ARM.Register(15), uint32(memory.GBAROMOrigin+2))

	// the history is limited in length
	for i := 0; i < 150; i++ {
		m.Rewind.Record()
	}
	test.ExpectEquality(t, m.Rewind.Len(), 100)
}

func TestSnapshot(t *testing.T) {
	m := newMachine(t)

	s := m.Snapshot()
	m.Mem.Write32bit(0x02000000, 0x12345678)
	test.ExpectSuccess(t, m.Step())

	m.Plumb(s)
	test.ExpectEquality(t, m.Mem.Read32bit(0x02000000), uint32(0))
	test.ExpectEquality(t, m.ARM.Register(0), uint32(0))

	// plumbing does not alter the snapshot
	test.ExpectSuccess(t, m.Step())
	m.Plumb(s)
	test.ExpectEquality(t, m.ARM.Register(0), uint32(0))
}
