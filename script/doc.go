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

// Package script runs starlark scripts that drive a Thumb machine. Scripts
// set up registers, flags and memory, execute instructions and check the
// results with expect() and expect_eq().
//
// The builtins available to a script are:
//
//	reset()                    new machine with cleared memory and registers
//	reg(n) / set_reg(n, v)     read and write register n
//	flag(f) / set_flag(f, b)   read and write flag "N", "Z", "C", "V" or "T"
//	thumb()                    true if the processor is in Thumb state
//	execute(opcode)            execute the opcode as if fetched from PC
//	step(n=1)                  fetch and execute n instructions
//	run(limit=100000)          run until the processor halts
//	asm(text, org=PC)          assemble text and return the list of opcodes
//	load(opcodes, addr)        write opcodes to memory
//	read8/16/32(addr)          read memory
//	write8/16/32(addr, v)      write memory
//	on_swi(fn)                 fn(comment) services software interrupts
//	expect(cond, msg="")       record a failure if cond is false
//	expect_eq(got, want, msg="")
//
// execute(), step() and run() return None on success or the error message.
//
// The names SP, LR, PC and ORIGIN are predeclared.
package script
