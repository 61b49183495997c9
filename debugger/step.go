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
	"errors"
	"io"

	"github.com/retroarm/thumbcore/debugger/easyterm"
	"github.com/retroarm/thumbcore/debugger/govern"
	"github.com/retroarm/thumbcore/logger"
	"github.com/retroarm/thumbcore/translate"
)

// KeyReader is the source of key presses for the Step() loop.
type KeyReader interface {
	ReadKey() (byte, error)
}

// number of log entries shown by the log command
const logTail = 10

const stepHelp = `space/enter   step one instruction
r             run until the machine halts
b             step back one instruction
m             print the memory map
d             dump processor state as a graphviz file
l             print the most recent log entries
h             help
q             quit`

// Step lets the user control execution one instruction at a time. Returns
// when the user quits, the KeyReader reaches io.EOF or the context is
// cancelled.
func (dbg *Debugger) Step(ctx context.Context, keys KeyReader) error {
	dbg.setMode(govern.ModeStep)
	if dbg.State() != govern.Halted {
		dbg.setState(govern.Paused)
	}
	dbg.printNext()

	for dbg.State() != govern.Ending {
		if ctx.Err() != nil {
			dbg.setState(govern.Ending)
			break
		}

		k, err := readKey(ctx, keys)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				dbg.setState(govern.Ending)
				break
			}
			return err
		}

		switch k {
		case easyterm.KeySpace, easyterm.KeyCarriageReturn, easyterm.KeyLineFeed, 's':
			if err := dbg.step(); err != nil {
				dbg.printLine(styleError, "%v", err)
			}
			dbg.printRegisters()
			dbg.printNext()

		case 'r':
			dbg.runUntilHalt(ctx)
			dbg.printRegisters()
			dbg.printNext()

		case 'b':
			dbg.back()
			dbg.printRegisters()
			dbg.printNext()

		case 'm':
			dbg.printLine(styleFeedback, dbg.m.Mem.MemoryMap())

		case 'd':
			if err := dbg.DumpToFile(dbg.MemvizFile); err != nil {
				dbg.printLine(styleError, "%v", err)
			} else {
				dbg.printLine(styleFeedback, translate.From("state written to %s", dbg.MemvizFile))
			}

		case 'l':
			logger.Tail(dbg.output, logTail)

		case 'h', '?':
			dbg.printLine(styleHelp, stepHelp)

		case 'q', easyterm.KeyCtrlC, easyterm.KeyCtrlD:
			dbg.setState(govern.Ending)
		}
	}

	return nil
}

type keyPress struct {
	key byte
	err error
}

// readKey waits for the next key press or for the context to be cancelled,
// whichever comes first. on cancellation the ReadKey() call is left to
// complete in the background. for a terminal that happens when it is closed.
func readKey(ctx context.Context, keys KeyReader) (byte, error) {
	ch := make(chan keyPress, 1)
	go func() {
		k, err := keys.ReadKey()
		ch <- keyPress{key: k, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case kp := <-ch:
		return kp.key, kp.err
	}
}

// printNext prints the instruction that will be executed by the next step.
func (dbg *Debugger) printNext() {
	if dbg.State() == govern.Halted {
		dbg.printLine(styleFeedback, translate.From("machine has halted"))
		return
	}
	dbg.printInstruction()
}

// runUntilHalt from the step loop. a single rewind state is recorded before
// the run.
func (dbg *Debugger) runUntilHalt(ctx context.Context) {
	if dbg.State() == govern.Halted {
		return
	}

	dbg.m.Rewind.Record()
	dbg.prev = dbg.m.ARM.Registers()
	dbg.setState(govern.Running)

	state, err := dbg.m.Run(dbg.continueCheck(ctx))
	dbg.halted(ctx, state, err)

	if state == govern.Ending {
		dbg.setState(govern.Paused)
	} else {
		dbg.setState(state)
	}
}
