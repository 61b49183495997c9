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

// Format identifies one of the nineteen Thumb instruction formats. numbering
// is from Figure 5-1 of the ARM7TDMI Data Sheet.
type Format int

// List of valid Format values.
const (
	FormatMoveShiftedRegister Format = iota + 1
	FormatAddSubtract
	FormatMovCmpAddSubImmediate
	FormatALUOperation
	FormatHiRegisterOperation
	FormatPCRelativeLoad
	FormatLoadStoreRegisterOffset
	FormatLoadStoreSignExtended
	FormatLoadStoreImmediateOffset
	FormatLoadStoreHalfword
	FormatSPRelativeLoadStore
	FormatLoadAddress
	FormatAddOffsetToSP
	FormatPushPopRegisters
	FormatMultipleLoadStore
	FormatConditionalBranch
	FormatSoftwareInterrupt
	FormatUnconditionalBranch
	FormatLongBranchWithLink
)

var formatNames = [...]string{
	"",
	"move shifted register",
	"add/subtract",
	"move/compare/add/subtract immediate",
	"ALU operations",
	"hi register operations/branch exchange",
	"PC-relative load",
	"load/store with register offset",
	"load/store sign-extended byte/halfword",
	"load/store with immediate offset",
	"load/store halfword",
	"SP-relative load/store",
	"load address",
	"add offset to stack pointer",
	"push/pop registers",
	"multiple load/store",
	"conditional branch",
	"software interrupt",
	"unconditional branch",
	"long branch with link",
}

func (f Format) String() string {
	if f < 1 || int(f) >= len(formatNames) {
		return "unknown format"
	}
	return formatNames[f]
}

// Instruction is implemented by every decoded Thumb instruction. the concrete
// type identifies the format and the fields of the type are the raw operand
// fields of the opcode, unscaled.
type Instruction interface {
	Format() Format

	// Encode returns the opcode that decodes to the instruction
	Encode() uint16

	// String returns the instruction in assembler syntax. branch targets are
	// relative to the address of the instruction, expressed as "pc+n"
	String() string
}

func bit(b bool, shift uint) uint16 {
	if b {
		return 1 << shift
	}
	return 0
}

func regName(r uint8) string {
	switch r {
	case rSP:
		return "SP"
	case rLR:
		return "LR"
	case rPC:
		return "PC"
	}
	return fmt.Sprintf("R%d", r)
}

// MoveShiftedRegister is format 1: "LSL Rd, Rs, #Offset5".
type MoveShiftedRegister struct {
	Op     ShiftOp
	Offset uint8
	Rs     uint8
	Rd     uint8
}

func (ins MoveShiftedRegister) Format() Format { return FormatMoveShiftedRegister }

func (ins MoveShiftedRegister) Encode() uint16 {
	return uint16(ins.Op&0x03)<<11 | uint16(ins.Offset&0x1f)<<6 | uint16(ins.Rs&0x07)<<3 | uint16(ins.Rd&0x07)
}

func (ins MoveShiftedRegister) String() string {
	return fmt.Sprintf("%s R%d, R%d, #0x%02x", ins.Op, ins.Rd, ins.Rs, ins.Offset)
}

// AddSubtract is format 2: "ADD Rd, Rs, Rn" or "ADD Rd, Rs, #Offset3".
type AddSubtract struct {
	Immediate bool
	Subtract  bool

	// register number or three bit immediate value
	Rn uint8

	Rs uint8
	Rd uint8
}

func (ins AddSubtract) Format() Format { return FormatAddSubtract }

func (ins AddSubtract) Encode() uint16 {
	return 0x1800 | bit(ins.Immediate, 10) | bit(ins.Subtract, 9) | uint16(ins.Rn&0x07)<<6 | uint16(ins.Rs&0x07)<<3 | uint16(ins.Rd&0x07)
}

func (ins AddSubtract) String() string {
	op := "ADD"
	if ins.Subtract {
		op = "SUB"
	}
	if ins.Immediate {
		return fmt.Sprintf("%s R%d, R%d, #0x%02x", op, ins.Rd, ins.Rs, ins.Rn)
	}
	return fmt.Sprintf("%s R%d, R%d, R%d", op, ins.Rd, ins.Rs, ins.Rn)
}

// ImmOp is the operation selector of format 3.
type ImmOp uint8

// List of valid ImmOp values.
const (
	ImmMOV ImmOp = iota
	ImmCMP
	ImmADD
	ImmSUB
)

func (op ImmOp) String() string {
	return [...]string{"MOV", "CMP", "ADD", "SUB"}[op&0x03]
}

// MovCmpAddSubImmediate is format 3: "MOV Rd, #Offset8".
type MovCmpAddSubImmediate struct {
	Op     ImmOp
	Rd     uint8
	Offset uint8
}

func (ins MovCmpAddSubImmediate) Format() Format { return FormatMovCmpAddSubImmediate }

func (ins MovCmpAddSubImmediate) Encode() uint16 {
	return 0x2000 | uint16(ins.Op&0x03)<<11 | uint16(ins.Rd&0x07)<<8 | uint16(ins.Offset)
}

func (ins MovCmpAddSubImmediate) String() string {
	return fmt.Sprintf("%s R%d, #0x%02x", ins.Op, ins.Rd, ins.Offset)
}

// ALUOperation is format 4: "AND Rd, Rs".
type ALUOperation struct {
	Op ALUOp
	Rs uint8
	Rd uint8
}

func (ins ALUOperation) Format() Format { return FormatALUOperation }

func (ins ALUOperation) Encode() uint16 {
	return 0x4000 | uint16(ins.Op&0x0f)<<6 | uint16(ins.Rs&0x07)<<3 | uint16(ins.Rd&0x07)
}

func (ins ALUOperation) String() string {
	return fmt.Sprintf("%s R%d, R%d", ins.Op, ins.Rd, ins.Rs)
}

// HiOp is the operation selector of format 5.
type HiOp uint8

// List of valid HiOp values.
const (
	HiADD HiOp = iota
	HiCMP
	HiMOV
	HiBX
)

func (op HiOp) String() string {
	return [...]string{"ADD", "CMP", "MOV", "BX"}[op&0x03]
}

// HiRegisterOperation is format 5: "ADD Hd, Hs" or "BX Hs". the H1 and H2
// flags select the high register bank for the destination and source
// registers respectively.
type HiRegisterOperation struct {
	Op HiOp
	H1 bool
	H2 bool
	Rs uint8
	Rd uint8
}

func (ins HiRegisterOperation) Format() Format { return FormatHiRegisterOperation }

func (ins HiRegisterOperation) Encode() uint16 {
	return 0x4400 | uint16(ins.Op&0x03)<<8 | bit(ins.H1, 7) | bit(ins.H2, 6) | uint16(ins.Rs&0x07)<<3 | uint16(ins.Rd&0x07)
}

// Source returns the full register number of the source operand.
func (ins HiRegisterOperation) Source() uint8 {
	if ins.H2 {
		return ins.Rs&0x07 + 8
	}
	return ins.Rs & 0x07
}

// Destination returns the full register number of the destination operand.
func (ins HiRegisterOperation) Destination() uint8 {
	if ins.H1 {
		return ins.Rd&0x07 + 8
	}
	return ins.Rd & 0x07
}

func (ins HiRegisterOperation) String() string {
	if ins.Op == HiBX {
		return fmt.Sprintf("BX %s", regName(ins.Source()))
	}
	return fmt.Sprintf("%s %s, %s", ins.Op, regName(ins.Destination()), regName(ins.Source()))
}

// PCRelativeLoad is format 6: "LDR Rd, [PC, #Imm]".
type PCRelativeLoad struct {
	Rd    uint8
	Word8 uint8
}

func (ins PCRelativeLoad) Format() Format { return FormatPCRelativeLoad }

func (ins PCRelativeLoad) Encode() uint16 {
	return 0x4800 | uint16(ins.Rd&0x07)<<8 | uint16(ins.Word8)
}

func (ins PCRelativeLoad) String() string {
	return fmt.Sprintf("LDR R%d, [PC, #0x%03x]", ins.Rd, uint16(ins.Word8)<<2)
}

// LoadStoreRegisterOffset is format 7: "LDR Rd, [Rb, Ro]".
type LoadStoreRegisterOffset struct {
	Load bool
	Byte bool
	Ro   uint8
	Rb   uint8
	Rd   uint8
}

func (ins LoadStoreRegisterOffset) Format() Format { return FormatLoadStoreRegisterOffset }

func (ins LoadStoreRegisterOffset) Encode() uint16 {
	return 0x5000 | bit(ins.Load, 11) | bit(ins.Byte, 10) | uint16(ins.Ro&0x07)<<6 | uint16(ins.Rb&0x07)<<3 | uint16(ins.Rd&0x07)
}

func (ins LoadStoreRegisterOffset) String() string {
	op := "STR"
	if ins.Load {
		op = "LDR"
	}
	if ins.Byte {
		op += "B"
	}
	return fmt.Sprintf("%s R%d, [R%d, R%d]", op, ins.Rd, ins.Rb, ins.Ro)
}

// LoadStoreSignExtended is format 8: "LDSH Rd, [Rb, Ro]".
type LoadStoreSignExtended struct {
	H  bool
	S  bool
	Ro uint8
	Rb uint8
	Rd uint8
}

func (ins LoadStoreSignExtended) Format() Format { return FormatLoadStoreSignExtended }

func (ins LoadStoreSignExtended) Encode() uint16 {
	return 0x5200 | bit(ins.H, 11) | bit(ins.S, 10) | uint16(ins.Ro&0x07)<<6 | uint16(ins.Rb&0x07)<<3 | uint16(ins.Rd&0x07)
}

func (ins LoadStoreSignExtended) String() string {
	var op string
	switch {
	case !ins.S && !ins.H:
		op = "STRH"
	case !ins.S && ins.H:
		op = "LDRH"
	case ins.S && !ins.H:
		op = "LDSB"
	default:
		op = "LDSH"
	}
	return fmt.Sprintf("%s R%d, [R%d, R%d]", op, ins.Rd, ins.Rb, ins.Ro)
}

// LoadStoreImmediateOffset is format 9: "LDR Rd, [Rb, #Imm]". for word
// transfers the immediate is Offset shifted left by two.
type LoadStoreImmediateOffset struct {
	Byte   bool
	Load   bool
	Offset uint8
	Rb     uint8
	Rd     uint8
}

func (ins LoadStoreImmediateOffset) Format() Format { return FormatLoadStoreImmediateOffset }

func (ins LoadStoreImmediateOffset) Encode() uint16 {
	return 0x6000 | bit(ins.Byte, 12) | bit(ins.Load, 11) | uint16(ins.Offset&0x1f)<<6 | uint16(ins.Rb&0x07)<<3 | uint16(ins.Rd&0x07)
}

// ByteOffset returns the offset in bytes.
func (ins LoadStoreImmediateOffset) ByteOffset() uint32 {
	if ins.Byte {
		return uint32(ins.Offset & 0x1f)
	}
	return uint32(ins.Offset&0x1f) << 2
}

func (ins LoadStoreImmediateOffset) String() string {
	op := "STR"
	if ins.Load {
		op = "LDR"
	}
	if ins.Byte {
		op += "B"
	}
	return fmt.Sprintf("%s R%d, [R%d, #0x%02x]", op, ins.Rd, ins.Rb, ins.ByteOffset())
}

// LoadStoreHalfword is format 10: "LDRH Rd, [Rb, #Imm]". the immediate is
// Offset shifted left by one.
type LoadStoreHalfword struct {
	Load   bool
	Offset uint8
	Rb     uint8
	Rd     uint8
}

func (ins LoadStoreHalfword) Format() Format { return FormatLoadStoreHalfword }

func (ins LoadStoreHalfword) Encode() uint16 {
	return 0x8000 | bit(ins.Load, 11) | uint16(ins.Offset&0x1f)<<6 | uint16(ins.Rb&0x07)<<3 | uint16(ins.Rd&0x07)
}

func (ins LoadStoreHalfword) String() string {
	op := "STRH"
	if ins.Load {
		op = "LDRH"
	}
	return fmt.Sprintf("%s R%d, [R%d, #0x%02x]", op, ins.Rd, ins.Rb, uint32(ins.Offset&0x1f)<<1)
}

// SPRelativeLoadStore is format 11: "LDR Rd, [SP, #Imm]".
type SPRelativeLoadStore struct {
	Load  bool
	Rd    uint8
	Word8 uint8
}

func (ins SPRelativeLoadStore) Format() Format { return FormatSPRelativeLoadStore }

func (ins SPRelativeLoadStore) Encode() uint16 {
	return 0x9000 | bit(ins.Load, 11) | uint16(ins.Rd&0x07)<<8 | uint16(ins.Word8)
}

func (ins SPRelativeLoadStore) String() string {
	op := "STR"
	if ins.Load {
		op = "LDR"
	}
	return fmt.Sprintf("%s R%d, [SP, #0x%03x]", op, ins.Rd, uint16(ins.Word8)<<2)
}

// LoadAddress is format 12: "ADD Rd, PC, #Imm" or "ADD Rd, SP, #Imm".
type LoadAddress struct {
	SP    bool
	Rd    uint8
	Word8 uint8
}

func (ins LoadAddress) Format() Format { return FormatLoadAddress }

func (ins LoadAddress) Encode() uint16 {
	return 0xa000 | bit(ins.SP, 11) | uint16(ins.Rd&0x07)<<8 | uint16(ins.Word8)
}

func (ins LoadAddress) String() string {
	src := "PC"
	if ins.SP {
		src = "SP"
	}
	return fmt.Sprintf("ADD R%d, %s, #0x%03x", ins.Rd, src, uint16(ins.Word8)<<2)
}

// AddOffsetToSP is format 13: "ADD SP, #Imm" or "ADD SP, #-Imm".
type AddOffsetToSP struct {
	Negative bool
	Word7    uint8
}

func (ins AddOffsetToSP) Format() Format { return FormatAddOffsetToSP }

func (ins AddOffsetToSP) Encode() uint16 {
	return 0xb000 | bit(ins.Negative, 7) | uint16(ins.Word7&0x7f)
}

func (ins AddOffsetToSP) String() string {
	if ins.Negative {
		return fmt.Sprintf("ADD SP, #-0x%03x", uint16(ins.Word7&0x7f)<<2)
	}
	return fmt.Sprintf("ADD SP, #0x%03x", uint16(ins.Word7&0x7f)<<2)
}

// PushPopRegisters is format 14: "PUSH {Rlist, LR}" or "POP {Rlist, PC}".
type PushPopRegisters struct {
	Load  bool
	R     bool
	RList uint8
}

func (ins PushPopRegisters) Format() Format { return FormatPushPopRegisters }

func (ins PushPopRegisters) Encode() uint16 {
	return 0xb400 | bit(ins.Load, 11) | bit(ins.R, 8) | uint16(ins.RList)
}

func (ins PushPopRegisters) String() string {
	if ins.Load {
		return fmt.Sprintf("POP {%s}", registerList(ins.RList, ins.R, "PC"))
	}
	return fmt.Sprintf("PUSH {%s}", registerList(ins.RList, ins.R, "LR"))
}

// MultipleLoadStore is format 15: "LDMIA Rb!, {Rlist}".
type MultipleLoadStore struct {
	Load  bool
	Rb    uint8
	RList uint8
}

func (ins MultipleLoadStore) Format() Format { return FormatMultipleLoadStore }

func (ins MultipleLoadStore) Encode() uint16 {
	return 0xc000 | bit(ins.Load, 11) | uint16(ins.Rb&0x07)<<8 | uint16(ins.RList)
}

func (ins MultipleLoadStore) String() string {
	op := "STMIA"
	if ins.Load {
		op = "LDMIA"
	}
	return fmt.Sprintf("%s R%d!, {%s}", op, ins.Rb, registerList(ins.RList, false, ""))
}

// registerList formats the list of low registers using ranges where possible.
// the extra register is appended if extra is true
func registerList(list uint8, extra bool, extraName string) string {
	var s []string

	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		j := i
		for j < 7 && list&(1<<(j+1)) != 0 {
			j++
		}
		switch j - i {
		case 0:
			s = append(s, fmt.Sprintf("R%d", i))
		case 1:
			s = append(s, fmt.Sprintf("R%d", i), fmt.Sprintf("R%d", j))
		default:
			s = append(s, fmt.Sprintf("R%d-R%d", i, j))
		}
		i = j
	}

	if extra {
		s = append(s, extraName)
	}

	return strings.Join(s, ", ")
}

// relativeTarget formats a branch offset relative to the address of the
// branch instruction.
func relativeTarget(offset int32) string {
	if offset < 0 {
		return fmt.Sprintf("pc-0x%x", -offset)
	}
	return fmt.Sprintf("pc+0x%x", offset)
}

// ConditionalBranch is format 16: "BEQ label".
type ConditionalBranch struct {
	Cond   Condition
	Offset uint8
}

func (ins ConditionalBranch) Format() Format { return FormatConditionalBranch }

func (ins ConditionalBranch) Encode() uint16 {
	return 0xd000 | uint16(ins.Cond&0x0f)<<8 | uint16(ins.Offset)
}

func (ins ConditionalBranch) String() string {
	return fmt.Sprintf("B%s %s", ins.Cond, relativeTarget(ins.displacement()))
}

// SoftwareInterrupt is format 17: "SWI Value8".
type SoftwareInterrupt struct {
	Value uint8
}

func (ins SoftwareInterrupt) Format() Format { return FormatSoftwareInterrupt }

func (ins SoftwareInterrupt) Encode() uint16 {
	return 0xdf00 | uint16(ins.Value)
}

func (ins SoftwareInterrupt) String() string {
	return fmt.Sprintf("SWI #0x%02x", ins.Value)
}

// UnconditionalBranch is format 18: "B label".
type UnconditionalBranch struct {
	Offset uint16
}

func (ins UnconditionalBranch) Format() Format { return FormatUnconditionalBranch }

func (ins UnconditionalBranch) Encode() uint16 {
	return 0xe000 | ins.Offset&0x07ff
}

func (ins UnconditionalBranch) String() string {
	return fmt.Sprintf("B %s", relativeTarget(ins.displacement()))
}

// LongBranchWithLink is format 19. a BL instruction is a pair of these. the
// first has Low set to false and carries the high part of the offset. the
// second has Low set to true and carries the low part.
//
// each half disassembles on its own as "BLH #Offset" and "BLL #Offset".
type LongBranchWithLink struct {
	Low    bool
	Offset uint16
}

func (ins LongBranchWithLink) Format() Format { return FormatLongBranchWithLink }

func (ins LongBranchWithLink) Encode() uint16 {
	return 0xf000 | bit(ins.Low, 11) | ins.Offset&0x07ff
}

func (ins LongBranchWithLink) String() string {
	if ins.Low {
		return fmt.Sprintf("BLL #0x%03x", ins.Offset&0x07ff)
	}
	return fmt.Sprintf("BLH #0x%03x", ins.Offset&0x07ff)
}
