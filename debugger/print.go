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
	"fmt"
	"strings"

	"github.com/retroarm/thumbcore/debugger/ansi"
	"github.com/retroarm/thumbcore/hardware/arm"
)

type style int

const (
	styleFeedback style = iota
	styleInstruction
	styleError
	styleHelp
)

func (sty style) pen() string {
	switch sty {
	case styleInstruction:
		return ansi.Pens["cyan"]
	case styleError:
		return ansi.Pens["red"]
	case styleHelp:
		return ansi.DimPens["white"]
	}
	return ""
}

// all print operations from the debugger should be made with this
// printLine() function. trailing newlines are removed and a single newline
// added.
func (dbg *Debugger) printLine(sty style, s string, a ...any) {
	if len(a) > 0 {
		s = fmt.Sprintf(s, a...)
	}

	s = strings.TrimRight(s, "\n")
	if len(s) == 0 {
		return
	}

	if dbg.colour && sty.pen() != "" {
		s = fmt.Sprintf("%s%s%s", sty.pen(), s, ansi.NormalPen)
	}

	fmt.Fprintln(dbg.output, s)
}

// printInstruction prints the disassembly of the instruction at the program
// counter.
func (dbg *Debugger) printInstruction() {
	pc := dbg.m.ARM.Register(arm.NumRegisters - 1)
	opcode := dbg.m.Mem.Read16bit(pc)
	if err := dbg.m.Mem.MemoryFault(); err != nil {
		dbg.printLine(styleError, "%v", err)
		return
	}

	e := arm.Disassemble(pc, opcode)
	dbg.printLine(styleInstruction, "%s  %04x  %s", e.Address, e.Opcode, e.String())
}

// printRegisters prints every register, four to a line, followed by the
// status flags. registers that have changed since the most recent step are
// highlighted.
func (dbg *Debugger) printRegisters() {
	regs := dbg.m.ARM.Registers()

	s := strings.Builder{}
	for i, r := range regs {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("  ")
			}
		}

		v := fmt.Sprintf("R%-2d: %08x", i, r)
		if dbg.colour && r != dbg.prev[i] {
			v = fmt.Sprintf("%s%s%s", ansi.Pens["yellow"], v, ansi.NormalPen)
		}
		s.WriteString(v)
	}
	s.WriteString(fmt.Sprintf("\nCPSR: %s", dbg.m.ARM.Status().String()))

	dbg.printLine(styleFeedback, s.String())
}
