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
)

// The string that will be in the Operator field in the case of a decoding error
const DisasmEntryErrorOperator = "error:"

// DisasmEntry is the disassembly of a single instruction. a BL instruction pair
// is represented by a single entry when disassembled with DisassembleBlock().
type DisasmEntry struct {
	// the address value. the formatted value is in the Address field
	Addr uint32

	// the opcode for the instruction. in the case of a BL pair this is the
	// first half
	Opcode uint16

	// the instruction is a BL pair and the opcode of the second half
	Is32bit  bool
	OpcodeLo uint16

	// the format of the instruction. zero in the case of an error
	Format Format

	// formated strings based for use by disassemblies
	Address  string
	Operator string
	Operand  string
}

// String returns a very simple representation of the disassembly entry.
func (e DisasmEntry) String() string {
	if e.Operator == "" {
		return e.Operand
	}
	if e.Operand == "" {
		return e.Operator
	}
	return fmt.Sprintf("%s %s", e.Operator, e.Operand)
}

// CSV returns the entry with the fields separated by semicolons.
func (e DisasmEntry) CSV() string {
	if e.Is32bit {
		return fmt.Sprintf("%s;%04x %04x;%s;%s", e.Address, e.Opcode, e.OpcodeLo, e.Operator, e.Operand)
	}
	return fmt.Sprintf("%s;%04x;%s;%s", e.Address, e.Opcode, e.Operator, e.Operand)
}

// Size returns the number of bytes used by the instruction.
func (e DisasmEntry) Size() int {
	if e.Is32bit {
		return 4
	}
	return 2
}

// Disassemble the opcode found at the address. branch targets are given as
// absolute addresses.
func Disassemble(addr uint32, opcode uint16) DisasmEntry {
	e := DisasmEntry{
		Addr:    addr,
		Opcode:  opcode,
		Address: fmt.Sprintf("%08x", addr),
	}

	ins, err := Decode(opcode)
	if err != nil {
		e.Operator = DisasmEntryErrorOperator
		e.Operand = err.Error()
		return e
	}
	e.Format = ins.Format()

	switch ins := ins.(type) {
	case ConditionalBranch:
		e.Operator = fmt.Sprintf("b%s", strings.ToLower(ins.Cond.String()))
		e.Operand = fmt.Sprintf("%08x", addr+uint32(ins.displacement()))
	case UnconditionalBranch:
		e.Operator = "b"
		e.Operand = fmt.Sprintf("%08x", addr+uint32(ins.displacement()))
	default:
		s := ins.String()
		op, operand, _ := strings.Cut(s, " ")
		e.Operator = strings.ToLower(op)
		e.Operand = operand
	}

	return e
}

// DisassembleBlock disassembles a contiguous sequence of opcodes starting at
// the origin address. the two halves of a BL instruction are combined into
// one entry.
func DisassembleBlock(origin uint32, opcodes []uint16) []DisasmEntry {
	var entries []DisasmEntry

	for i := 0; i < len(opcodes); i++ {
		addr := origin + uint32(i)*2

		if i+1 < len(opcodes) {
			if target, ok := longBranchTarget(addr, opcodes[i], opcodes[i+1]); ok {
				entries = append(entries, DisasmEntry{
					Addr:     addr,
					Opcode:   opcodes[i],
					Is32bit:  true,
					OpcodeLo: opcodes[i+1],
					Format:   FormatLongBranchWithLink,
					Address:  fmt.Sprintf("%08x", addr),
					Operator: "bl",
					Operand:  fmt.Sprintf("%08x", target),
				})
				i++
				continue
			}
		}

		entries = append(entries, Disassemble(addr, opcodes[i]))
	}

	return entries
}

// longBranchTarget returns the target address of a BL instruction pair at the
// address. returns false if the opcodes are not a BL pair.
func longBranchTarget(addr uint32, hi uint16, lo uint16) (uint32, bool) {
	if hi&0xf800 != 0xf000 || lo&0xf800 != 0xf800 {
		return 0, false
	}

	offset := uint32(hi&0x07ff) << 12
	if offset&0x400000 == 0x400000 {
		offset |= 0xff800000
	}

	return addr + 4 + offset + uint32(lo&0x07ff)<<1, true
}
