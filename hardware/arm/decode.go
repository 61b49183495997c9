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
	"github.com/retroarm/thumbcore/curated"
)

// UndefinedInstruction is the curated error pattern returned by Decode() when
// the opcode does not belong to any of the ARMv4T Thumb formats.
const UndefinedInstruction = "thumb: undefined instruction (%04x)"

// Decode classifies the opcode into one of the Thumb instruction formats and
// extracts the operand fields. decoding is a pure function of the opcode.
func Decode(opcode uint16) (Instruction, error) {
	// working backwards up the table in Figure 5-1 of the ARM7TDMI Data Sheet.
	switch {
	case opcode&0xf000 == 0xf000:
		// format 19 - Long branch with link
		return LongBranchWithLink{
			Low:    opcode&0x0800 == 0x0800,
			Offset: opcode & 0x07ff,
		}, nil
	case opcode&0xf800 == 0xe000:
		// format 18 - Unconditional branch
		return UnconditionalBranch{
			Offset: opcode & 0x07ff,
		}, nil
	case opcode&0xff00 == 0xdf00:
		// format 17 - Software interrupt
		return SoftwareInterrupt{
			Value: uint8(opcode),
		}, nil
	case opcode&0xf000 == 0xd000:
		// format 16 - Conditional branch
		cond := Condition((opcode & 0x0f00) >> 8)
		if cond == AL {
			break
		}
		return ConditionalBranch{
			Cond:   cond,
			Offset: uint8(opcode),
		}, nil
	case opcode&0xf000 == 0xc000:
		// format 15 - Multiple load/store
		return MultipleLoadStore{
			Load:  opcode&0x0800 == 0x0800,
			Rb:    uint8((opcode & 0x0700) >> 8),
			RList: uint8(opcode),
		}, nil
	case opcode&0xf600 == 0xb400:
		// format 14 - Push/pop registers
		return PushPopRegisters{
			Load:  opcode&0x0800 == 0x0800,
			R:     opcode&0x0100 == 0x0100,
			RList: uint8(opcode),
		}, nil
	case opcode&0xff00 == 0xb000:
		// format 13 - Add offset to stack pointer
		return AddOffsetToSP{
			Negative: opcode&0x0080 == 0x0080,
			Word7:    uint8(opcode & 0x007f),
		}, nil
	case opcode&0xf000 == 0xa000:
		// format 12 - Load address
		return LoadAddress{
			SP:    opcode&0x0800 == 0x0800,
			Rd:    uint8((opcode & 0x0700) >> 8),
			Word8: uint8(opcode),
		}, nil
	case opcode&0xf000 == 0x9000:
		// format 11 - SP-relative load/store
		return SPRelativeLoadStore{
			Load:  opcode&0x0800 == 0x0800,
			Rd:    uint8((opcode & 0x0700) >> 8),
			Word8: uint8(opcode),
		}, nil
	case opcode&0xf000 == 0x8000:
		// format 10 - Load/store halfword
		return LoadStoreHalfword{
			Load:   opcode&0x0800 == 0x0800,
			Offset: uint8((opcode & 0x07c0) >> 6),
			Rb:     uint8((opcode & 0x0038) >> 3),
			Rd:     uint8(opcode & 0x0007),
		}, nil
	case opcode&0xe000 == 0x6000:
		// format 9 - Load/store with immediate offset
		return LoadStoreImmediateOffset{
			Byte:   opcode&0x1000 == 0x1000,
			Load:   opcode&0x0800 == 0x0800,
			Offset: uint8((opcode & 0x07c0) >> 6),
			Rb:     uint8((opcode & 0x0038) >> 3),
			Rd:     uint8(opcode & 0x0007),
		}, nil
	case opcode&0xf200 == 0x5200:
		// format 8 - Load/store sign-extended byte/halfword
		return LoadStoreSignExtended{
			H:  opcode&0x0800 == 0x0800,
			S:  opcode&0x0400 == 0x0400,
			Ro: uint8((opcode & 0x01c0) >> 6),
			Rb: uint8((opcode & 0x0038) >> 3),
			Rd: uint8(opcode & 0x0007),
		}, nil
	case opcode&0xf200 == 0x5000:
		// format 7 - Load/store with register offset
		return LoadStoreRegisterOffset{
			Load: opcode&0x0800 == 0x0800,
			Byte: opcode&0x0400 == 0x0400,
			Ro:   uint8((opcode & 0x01c0) >> 6),
			Rb:   uint8((opcode & 0x0038) >> 3),
			Rd:   uint8(opcode & 0x0007),
		}, nil
	case opcode&0xf800 == 0x4800:
		// format 6 - PC-relative load
		return PCRelativeLoad{
			Rd:    uint8((opcode & 0x0700) >> 8),
			Word8: uint8(opcode),
		}, nil
	case opcode&0xfc00 == 0x4400:
		// format 5 - Hi register operations/branch exchange
		ins := HiRegisterOperation{
			Op: HiOp((opcode & 0x0300) >> 8),
			H1: opcode&0x0080 == 0x0080,
			H2: opcode&0x0040 == 0x0040,
			Rs: uint8((opcode & 0x0038) >> 3),
			Rd: uint8(opcode & 0x0007),
		}

		// BLX (register) is an ARMv5 instruction
		if ins.Op == HiBX && ins.H1 {
			break
		}
		return ins, nil
	case opcode&0xfc00 == 0x4000:
		// format 4 - ALU operations
		return ALUOperation{
			Op: ALUOp((opcode & 0x03c0) >> 6),
			Rs: uint8((opcode & 0x0038) >> 3),
			Rd: uint8(opcode & 0x0007),
		}, nil
	case opcode&0xe000 == 0x2000:
		// format 3 - Move/compare/add/subtract immediate
		return MovCmpAddSubImmediate{
			Op:     ImmOp((opcode & 0x1800) >> 11),
			Rd:     uint8((opcode & 0x0700) >> 8),
			Offset: uint8(opcode),
		}, nil
	case opcode&0xf800 == 0x1800:
		// format 2 - Add/subtract
		return AddSubtract{
			Immediate: opcode&0x0400 == 0x0400,
			Subtract:  opcode&0x0200 == 0x0200,
			Rn:        uint8((opcode & 0x01c0) >> 6),
			Rs:        uint8((opcode & 0x0038) >> 3),
			Rd:        uint8(opcode & 0x0007),
		}, nil
	case opcode&0xe000 == 0x0000:
		// format 1 - Move shifted register
		return MoveShiftedRegister{
			Op:     ShiftOp((opcode & 0x1800) >> 11),
			Offset: uint8((opcode & 0x07c0) >> 6),
			Rs:     uint8((opcode & 0x0038) >> 3),
			Rd:     uint8(opcode & 0x0007),
		}, nil
	}

	return nil, curated.Errorf(UndefinedInstruction, opcode)
}
