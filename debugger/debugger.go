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

package debugger

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/retroarm/thumbcore/debugger/govern"
	"github.com/retroarm/thumbcore/hardware"
	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/logger"
	"github.com/retroarm/thumbcore/translate"
)

// Debugger is the controller for a machine.
type Debugger struct {
	m *hardware.Machine

	// all output is sent here
	output io.Writer

	// output with ANSI colour codes
	colour bool

	// file for the graphviz dump of processor state. the dump is not possible
	// if this is empty
	MemvizFile string

	// mode and state are atomic values so that they can be read from another
	// goroutine while the machine is running
	mode  atomic.Value // govern.Mode
	state atomic.Value // govern.State

	// register values before the most recent step. used to highlight changed
	// registers
	prev [arm.NumRegisters]uint32
}

// NewDebugger is the preferred method of initialisation for the Debugger type.
func NewDebugger(m *hardware.Machine, output io.Writer, colour bool) *Debugger {
	dbg := &Debugger{
		m:      m,
		output: output,
		colour: colour,
	}
	dbg.mode.Store(govern.ModeNone)
	dbg.state.Store(govern.Initialising)
	dbg.prev = m.ARM.Registers()
	return dbg
}

// Mode returns the current mode of the debugger.
func (dbg *Debugger) Mode() govern.Mode {
	return dbg.mode.Load().(govern.Mode)
}

// State returns the current state of the machine as seen by the debugger.
func (dbg *Debugger) State() govern.State {
	return dbg.state.Load().(govern.State)
}

func (dbg *Debugger) setMode(mode govern.Mode) {
	if dbg.Mode() == mode {
		return
	}
	logger.Logf(logger.Allow, "debugger", "mode: %s", mode)
	dbg.mode.Store(mode)
}

func (dbg *Debugger) setState(state govern.State) {
	if dbg.State() == state {
		return
	}
	logger.Logf(logger.Allow, "debugger", "state: %s", state)
	dbg.state.Store(state)
}

// continueCheck returns a function suitable for the machine's Run() function.
// the machine is stopped when the context is cancelled
func (dbg *Debugger) continueCheck(ctx context.Context) func() (govern.State, error) {
	return func() (govern.State, error) {
		if ctx.Err() != nil {
			return govern.Ending, nil
		}
		return govern.Running, nil
	}
}

// Run the machine until it halts, the context is cancelled or the number of
// instructions reaches the limit. A limit of zero or less means no limit.
//
// The final state of the registers is printed on return. The returned error is
// the error that halted the machine, if any.
func (dbg *Debugger) Run(ctx context.Context, limit int) error {
	dbg.setMode(govern.ModeRun)
	dbg.setState(govern.Running)

	start := dbg.m.ARM.Instructions()

	var state govern.State
	var err error

	check := dbg.continueCheck(ctx)
	if limit > 0 {
		state, err = dbg.m.RunForInstructionCount(limit, func(_ int) (govern.State, error) {
			return check()
		})
	} else {
		state, err = dbg.m.Run(check)
	}

	dbg.setState(state)
	dbg.halted(ctx, state, err)
	dbg.printLine(styleFeedback, translate.From("%d instructions", dbg.m.ARM.Instructions()-start))
	dbg.printRegisters()

	return err
}

// halted prints the reason the machine stopped running.
func (dbg *Debugger) halted(ctx context.Context, state govern.State, err error) {
	switch {
	case err != nil:
		dbg.printLine(styleError, "%v", err)
	case state == govern.Halted:
		dbg.printLine(styleFeedback, translate.From("left thumb state at %08x", dbg.m.ARM.Register(arm.NumRegisters-1)))
	case ctx.Err() != nil:
		dbg.printLine(styleFeedback, translate.From("interrupted"))
	case state == govern.Ending:
		dbg.printLine(styleFeedback, translate.From("instruction limit reached"))
	}
}

// step the machine once, recording the state beforehand so that the step can
// be undone.
func (dbg *Debugger) step() error {
	if dbg.State() == govern.Halted {
		return nil
	}

	dbg.setState(govern.Stepping)
	dbg.m.Rewind.Record()
	dbg.prev = dbg.m.ARM.Registers()

	if err := dbg.m.Step(); err != nil {
		dbg.setState(govern.Halted)
		return err
	}

	if !dbg.m.ARM.Status().Thumb() {
		dbg.setState(govern.Halted)
	} else {
		dbg.setState(govern.Paused)
	}

	return nil
}

// back undoes the most recent step.
func (dbg *Debugger) back() {
	if !dbg.m.Rewind.Back() {
		dbg.printLine(styleFeedback, translate.From("no earlier state"))
		return
	}
	dbg.prev = dbg.m.ARM.Registers()
	dbg.setState(govern.Paused)
}

// String returns the current mode and state.
func (dbg *Debugger) String() string {
	return fmt.Sprintf("%s: %s", dbg.Mode(), dbg.State())
}
