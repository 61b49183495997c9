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

package debugger_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/retroarm/thumbcore/assembler"
	"github.com/retroarm/thumbcore/debugger"
	"github.com/retroarm/thumbcore/debugger/govern"
	"github.com/retroarm/thumbcore/hardware"
	"github.com/retroarm/thumbcore/hardware/memory"
	"github.com/retroarm/thumbcore/test"
)

// sum of 5 to 1 into R1 then leave thumb state
const program = `
	MOV R0, #5
	MOV R1, #0
loop:
	ADD R1, R0
	SUB R0, #1
	BNE loop
	MOV R3, #0
	BX  R3
`

// an endless loop
const spin = `
loop:
	ADD R0, #1
	B   loop
`

func newMachine(t *testing.T, src string) *hardware.Machine {
	t.Helper()

	m, err := hardware.NewMachine(nil, nil)
	test.DemandSuccess(t, err)

	prog, err := assembler.NewAssembler(memory.GBAROMOrigin).Assemble(strings.NewReader(src))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.Load(memory.GBAROMOrigin, prog.Bytes()))

	return m
}

// keys implements the KeyReader interface
type keys struct {
	r io.ByteReader
}

func newKeys(s string) keys {
	return keys{r: strings.NewReader(s)}
}

func (k keys) ReadKey() (byte, error) {
	return k.r.ReadByte()
}

func TestRun(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	test.ExpectEquality(t, dbg.State(), govern.Initialising)

	err := dbg.Run(context.Background(), 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, dbg.Mode(), govern.ModeRun)
	test.ExpectEquality(t, dbg.State(), govern.Halted)
	test.ExpectEquality(t, m.ARM.Register(1), uint32(15))

	test.ExpectSuccess(t, tw.Contains("left thumb state at 00000000"), tw.String())
	test.ExpectSuccess(t, tw.Contains("19 instructions"), tw.String())
	test.ExpectSuccess(t, tw.Contains("R1 : 0000000f"), tw.String())
}

func TestRunLimit(t *testing.T) {
	m := newMachine(t, spin)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	err := dbg.Run(context.Background(), 10)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, dbg.State(), govern.Ending)
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(10))
	test.ExpectSuccess(t, tw.Contains("instruction limit reached"), tw.String())
}

func TestRunCancelled(t *testing.T) {
	m := newMachine(t, spin)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dbg.Run(ctx, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, dbg.State(), govern.Ending)
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(1))
	test.ExpectSuccess(t, tw.Contains("interrupted"), tw.String())
}

func TestRunError(t *testing.T) {
	m := newMachine(t, ".hword 0xde00")
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	err := dbg.Run(context.Background(), 0)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, dbg.State(), govern.Halted)
}

func TestStep(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	err := dbg.Step(context.Background(), newKeys("  \r"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, dbg.Mode(), govern.ModeStep)
	test.ExpectEquality(t, dbg.State(), govern.Ending)
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(3))
	test.ExpectEquality(t, m.ARM.Register(0), uint32(5))
	test.ExpectEquality(t, m.ARM.Register(1), uint32(5))
	test.ExpectSuccess(t, tw.Contains("08000000  2005  mov R0, #0x05"), tw.String())
}

// blockedKeys never returns a key until it is released
type blockedKeys struct {
	release chan struct{}
}

func (k blockedKeys) ReadKey() (byte, error) {
	<-k.release
	return 0, io.EOF
}

func TestStepCancelledWhileWaiting(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	k := blockedKeys{release: make(chan struct{})}
	defer close(k.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- dbg.Step(ctx, k)
	}()

	cancel()
	select {
	case err := <-done:
		test.ExpectSuccess(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("step did not return after the context was cancelled")
	}
	test.ExpectEquality(t, dbg.State(), govern.Ending)
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(0))
}

func TestStepBack(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	err := dbg.Step(context.Background(), newKeys("sssbbq"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.ARM.Register(15), uint32(memory.GBAROMOrigin+2))
	test.ExpectEquality(t, m.ARM.Register(1), uint32(0))
	test.ExpectEquality(t, m.Rewind.Len(), 1)
}

func TestStepRun(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	// the step after the run has nothing to do
	err := dbg.Step(context.Background(), newKeys("r q"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.ARM.Register(1), uint32(15))
	test.ExpectEquality(t, m.ARM.Instructions(), uint64(19))
	test.ExpectSuccess(t, tw.Contains("machine has halted"), tw.String())

	// going back undoes the entire run
	tw.Clear()
	err = dbg.Step(context.Background(), newKeys("b"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.ARM.Register(1), uint32(0))
	test.ExpectEquality(t, m.ARM.Register(15), uint32(memory.GBAROMOrigin))
}

func TestStepCommands(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, false)

	err := dbg.Step(context.Background(), newKeys("mhb"))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, tw.Contains("Memory Map"), tw.String())
	test.ExpectSuccess(t, tw.Contains("step back one instruction"), tw.String())
	test.ExpectSuccess(t, tw.Contains("no earlier state"), tw.String())
}

func TestColour(t *testing.T) {
	m := newMachine(t, program)
	tw := &test.CompareWriter{}
	dbg := debugger.NewDebugger(m, tw, true)

	err := dbg.Step(context.Background(), newKeys(" "))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, tw.Contains("\033["), tw.String())
}

func TestDump(t *testing.T) {
	m := newMachine(t, program)
	dbg := debugger.NewDebugger(m, io.Discard, false)

	b := &bytes.Buffer{}
	dbg.Dump(b)
	test.ExpectSuccess(t, strings.Contains(b.String(), "digraph"))

	test.ExpectFailure(t, dbg.DumpToFile(""))

	dbg.MemvizFile = filepath.Join(t.TempDir(), "state.dot")
	test.DemandSuccess(t, dbg.DumpToFile(dbg.MemvizFile))

	d, err := os.ReadFile(dbg.MemvizFile)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(d), "digraph"))
}
