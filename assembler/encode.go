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

package assembler

import (
	"strings"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/hardware/arm"
)

var aluOps = map[string]arm.ALUOp{
	"AND": arm.OpAND,
	"EOR": arm.OpEOR,
	"LSL": arm.OpLSL,
	"LSR": arm.OpLSR,
	"ASR": arm.OpASR,
	"ADC": arm.OpADC,
	"SBC": arm.OpSBC,
	"ROR": arm.OpROR,
	"TST": arm.OpTST,
	"NEG": arm.OpNEG,
	"CMP": arm.OpCMP,
	"CMN": arm.OpCMN,
	"ORR": arm.OpORR,
	"MUL": arm.OpMUL,
	"BIC": arm.OpBIC,
	"MVN": arm.OpMVN,
}

var shiftOps = map[string]arm.ShiftOp{
	"LSL": arm.LSL,
	"LSR": arm.LSR,
	"ASR": arm.ASR,
}

var conditions = map[string]arm.Condition{
	"BEQ": arm.EQ,
	"BNE": arm.NE,
	"BCS": arm.CS,
	"BHS": arm.CS,
	"BCC": arm.CC,
	"BLO": arm.CC,
	"BMI": arm.MI,
	"BPL": arm.PL,
	"BVS": arm.VS,
	"BVC": arm.VC,
	"BHI": arm.HI,
	"BLS": arm.LS,
	"BGE": arm.GE,
	"BLT": arm.LT,
	"BGT": arm.GT,
	"BLE": arm.LE,
}

func single(ins arm.Instruction) ([]uint16, error) {
	return []uint16{ins.Encode()}, nil
}

func expect(st statement, n int) error {
	if len(st.operands) != n {
		return curated.Errorf(OperandCount, st.mnemonic, n)
	}
	return nil
}

func (asm *Assembler) encode(st statement) ([]uint16, error) {
	switch st.mnemonic {
	case ".HWORD":
		return asm.data(st, -0x8000, 0xffff, 1)
	case ".WORD":
		return asm.data(st, -0x80000000, 0xffffffff, 2)
	case "LSL", "LSR", "ASR":
		if len(st.operands) == 3 {
			return asm.shift(st)
		}
		return asm.alu(st)
	case "AND", "EOR", "ADC", "SBC", "ROR", "TST", "NEG", "CMN", "ORR", "MUL", "BIC", "MVN":
		return asm.alu(st)
	case "ADD":
		return asm.add(st, false)
	case "SUB":
		return asm.add(st, true)
	case "MOV":
		return asm.mov(st)
	case "CMP":
		return asm.cmp(st)
	case "BX":
		if err := expect(st, 1); err != nil {
			return nil, err
		}
		rs, err := register(st.operands[0])
		if err != nil {
			return nil, err
		}
		return single(arm.HiRegisterOperation{Op: arm.HiBX, H2: rs > 7, Rs: rs & 0x07})
	case "LDR", "STR", "LDRB", "STRB":
		return asm.loadStore(st)
	case "LDRH", "STRH":
		return asm.loadStoreHalfword(st)
	case "LDSB", "LDSH", "LDRSB", "LDRSH":
		return asm.loadSignExtended(st)
	case "ADR":
		return asm.adr(st)
	case "PUSH", "POP":
		return asm.pushPop(st)
	case "LDMIA", "STMIA":
		return asm.multiple(st)
	case "SWI":
		if err := expect(st, 1); err != nil {
			return nil, err
		}
		v, err := asm.ranged("#"+strings.TrimPrefix(st.operands[0], "#"), st.addr, 0, 0xff, 1)
		if err != nil {
			return nil, err
		}
		return single(arm.SoftwareInterrupt{Value: uint8(v)})
	case "B":
		return asm.branch(st)
	case "BL":
		return asm.longBranch(st)
	case "BLH", "BLL":
		if err := expect(st, 1); err != nil {
			return nil, err
		}
		v, err := asm.ranged(st.operands[0], st.addr, 0, 0x7ff, 1)
		if err != nil {
			return nil, err
		}
		return single(arm.LongBranchWithLink{Low: st.mnemonic == "BLL", Offset: uint16(v)})
	}

	if cond, ok := conditions[st.mnemonic]; ok {
		return asm.conditionalBranch(st, cond)
	}

	return nil, curated.Errorf(UnknownMnemonic, st.mnemonic)
}

// data directives. each value is stored as one or more halfwords, least
// significant halfword first
func (asm *Assembler) data(st statement, lo int64, hi int64, halfwords int) ([]uint16, error) {
	if len(st.operands) == 0 {
		return nil, curated.Errorf(OperandCount, st.mnemonic, 1)
	}

	var o []uint16
	for _, op := range st.operands {
		v, err := asm.ranged("#"+op, st.addr, lo, hi, 1)
		if err != nil {
			return nil, err
		}
		for i := 0; i < halfwords; i++ {
			o = append(o, uint16(v>>(16*i)))
		}
	}
	return o, nil
}

// LSL Rd, Rs, #Offset5
func (asm *Assembler) shift(st statement) ([]uint16, error) {
	rd, err := lowRegister(st.operands[0])
	if err != nil {
		return nil, err
	}
	rs, err := lowRegister(st.operands[1])
	if err != nil {
		return nil, err
	}

	op := shiftOps[st.mnemonic]

	// LSR and ASR can shift by 32, which is encoded as zero
	lo, hi := int64(1), int64(32)
	if op == arm.LSL {
		lo, hi = 0, 31
	}
	v, err := asm.ranged(st.operands[2], st.addr, lo, hi, 1)
	if err != nil {
		return nil, err
	}

	return single(arm.MoveShiftedRegister{Op: op, Offset: uint8(v) & 0x1f, Rs: rs, Rd: rd})
}

// AND Rd, Rs
func (asm *Assembler) alu(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := lowRegister(st.operands[0])
	if err != nil {
		return nil, err
	}
	rs, err := lowRegister(st.operands[1])
	if err != nil {
		return nil, err
	}
	return single(arm.ALUOperation{Op: aluOps[st.mnemonic], Rs: rs, Rd: rd})
}

func hiRegister(op arm.HiOp, rd uint8, rs uint8) arm.HiRegisterOperation {
	return arm.HiRegisterOperation{Op: op, H1: rd > 7, H2: rs > 7, Rd: rd & 0x07, Rs: rs & 0x07}
}

// ADD and SUB in all their forms
func (asm *Assembler) add(st statement, subtract bool) ([]uint16, error) {
	ops := st.operands

	switch len(ops) {
	case 3:
		rd, err := lowRegister(ops[0])
		if err != nil {
			return nil, err
		}

		// ADD Rd, PC, #Imm and ADD Rd, SP, #Imm
		if r, ok := parseRegister(ops[1]); ok && !subtract && (r == regPC || r == regSP) {
			v, err := asm.ranged(ops[2], st.addr, 0, 1020, 4)
			if err != nil {
				return nil, err
			}
			return single(arm.LoadAddress{SP: r == regSP, Rd: rd, Word8: uint8(v >> 2)})
		}

		rs, err := lowRegister(ops[1])
		if err != nil {
			return nil, err
		}

		if isImmediate(ops[2]) {
			v, err := asm.ranged(ops[2], st.addr, 0, 7, 1)
			if err != nil {
				return nil, err
			}
			return single(arm.AddSubtract{Immediate: true, Subtract: subtract, Rn: uint8(v), Rs: rs, Rd: rd})
		}

		rn, err := lowRegister(ops[2])
		if err != nil {
			return nil, err
		}
		return single(arm.AddSubtract{Subtract: subtract, Rn: rn, Rs: rs, Rd: rd})

	case 2:
		rd, err := register(ops[0])
		if err != nil {
			return nil, err
		}

		if isImmediate(ops[1]) {
			// ADD SP, #Imm
			if rd == regSP {
				v, err := asm.ranged(ops[1], st.addr, -508, 508, 4)
				if err != nil {
					return nil, err
				}
				if subtract {
					v = -v
				}
				if v < 0 {
					return single(arm.AddOffsetToSP{Negative: true, Word7: uint8(-v >> 2)})
				}
				return single(arm.AddOffsetToSP{Word7: uint8(v >> 2)})
			}

			if rd > 7 {
				return nil, curated.Errorf(InvalidRegister, ops[0])
			}
			v, err := asm.ranged(ops[1], st.addr, 0, 0xff, 1)
			if err != nil {
				return nil, err
			}
			op := arm.ImmADD
			if subtract {
				op = arm.ImmSUB
			}
			return single(arm.MovCmpAddSubImmediate{Op: op, Rd: rd, Offset: uint8(v)})
		}

		rs, err := register(ops[1])
		if err != nil {
			return nil, err
		}
		if rd <= 7 && rs <= 7 {
			return single(arm.AddSubtract{Subtract: subtract, Rn: rs, Rs: rd, Rd: rd})
		}
		if subtract {
			return nil, curated.Errorf(InvalidRegister, ops[0])
		}
		return single(hiRegister(arm.HiADD, rd, rs))
	}

	return nil, curated.Errorf(OperandCount, st.mnemonic, 3)
}

// MOV Rd, #Offset8 and MOV Rd, Rs. a MOV between two low registers is
// assembled as ADD Rd, Rs, #0
func (asm *Assembler) mov(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := register(st.operands[0])
	if err != nil {
		return nil, err
	}

	if isImmediate(st.operands[1]) {
		if rd > 7 {
			return nil, curated.Errorf(InvalidRegister, st.operands[0])
		}
		v, err := asm.ranged(st.operands[1], st.addr, 0, 0xff, 1)
		if err != nil {
			return nil, err
		}
		return single(arm.MovCmpAddSubImmediate{Op: arm.ImmMOV, Rd: rd, Offset: uint8(v)})
	}

	rs, err := register(st.operands[1])
	if err != nil {
		return nil, err
	}
	if rd <= 7 && rs <= 7 {
		return single(arm.AddSubtract{Immediate: true, Rn: 0, Rs: rs, Rd: rd})
	}
	return single(hiRegister(arm.HiMOV, rd, rs))
}

// CMP Rd, #Offset8 and CMP Rd, Rs
func (asm *Assembler) cmp(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := register(st.operands[0])
	if err != nil {
		return nil, err
	}

	if isImmediate(st.operands[1]) {
		if rd > 7 {
			return nil, curated.Errorf(InvalidRegister, st.operands[0])
		}
		v, err := asm.ranged(st.operands[1], st.addr, 0, 0xff, 1)
		if err != nil {
			return nil, err
		}
		return single(arm.MovCmpAddSubImmediate{Op: arm.ImmCMP, Rd: rd, Offset: uint8(v)})
	}

	rs, err := register(st.operands[1])
	if err != nil {
		return nil, err
	}
	if rd <= 7 && rs <= 7 {
		return single(arm.ALUOperation{Op: arm.OpCMP, Rs: rs, Rd: rd})
	}
	return single(hiRegister(arm.HiCMP, rd, rs))
}

// pcRelative returns the offset of the target from the word aligned value of
// the program counter seen by the instruction at addr
func (asm *Assembler) pcRelative(expr string, addr uint32) (int64, error) {
	target, err := asm.evaluate(expr, addr)
	if err != nil {
		return 0, err
	}
	offset := target - int64((addr+4)&^0x03)
	if offset < 0 || offset > 1020 {
		return 0, curated.Errorf(ImmediateRange, offset)
	}
	if offset%4 != 0 {
		return 0, curated.Errorf(ImmediateAlign, offset)
	}
	return offset, nil
}

// LDR, STR, LDRB and STRB
func (asm *Assembler) loadStore(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := lowRegister(st.operands[0])
	if err != nil {
		return nil, err
	}

	load := strings.HasPrefix(st.mnemonic, "LDR")
	byt := strings.HasSuffix(st.mnemonic, "B")

	// LDR Rd, label
	if !strings.HasPrefix(st.operands[1], "[") {
		if st.mnemonic != "LDR" {
			return nil, curated.Errorf(InvalidOperand, st.operands[1])
		}
		v, err := asm.pcRelative(st.operands[1], st.addr)
		if err != nil {
			return nil, err
		}
		return single(arm.PCRelativeLoad{Rd: rd, Word8: uint8(v >> 2)})
	}

	parts, err := memory(st.operands[1])
	if err != nil {
		return nil, err
	}
	offset := "#0"
	if len(parts) == 2 {
		offset = parts[1]
	}

	rb, err := register(parts[0])
	if err != nil {
		return nil, err
	}

	switch {
	case rb == regPC:
		if st.mnemonic != "LDR" {
			return nil, curated.Errorf(InvalidRegister, parts[0])
		}
		v, err := asm.ranged(offset, st.addr, 0, 1020, 4)
		if err != nil {
			return nil, err
		}
		return single(arm.PCRelativeLoad{Rd: rd, Word8: uint8(v >> 2)})

	case rb == regSP:
		if byt {
			return nil, curated.Errorf(InvalidRegister, parts[0])
		}
		v, err := asm.ranged(offset, st.addr, 0, 1020, 4)
		if err != nil {
			return nil, err
		}
		return single(arm.SPRelativeLoadStore{Load: load, Rd: rd, Word8: uint8(v >> 2)})

	case rb > 7:
		return nil, curated.Errorf(InvalidRegister, parts[0])
	}

	if !isImmediate(offset) {
		ro, err := lowRegister(offset)
		if err != nil {
			return nil, err
		}
		return single(arm.LoadStoreRegisterOffset{Load: load, Byte: byt, Ro: ro, Rb: rb, Rd: rd})
	}

	if byt {
		v, err := asm.ranged(offset, st.addr, 0, 31, 1)
		if err != nil {
			return nil, err
		}
		return single(arm.LoadStoreImmediateOffset{Byte: true, Load: load, Offset: uint8(v), Rb: rb, Rd: rd})
	}

	v, err := asm.ranged(offset, st.addr, 0, 124, 4)
	if err != nil {
		return nil, err
	}
	return single(arm.LoadStoreImmediateOffset{Load: load, Offset: uint8(v >> 2), Rb: rb, Rd: rd})
}

// lowMemory parses a memory operand that only allows low registers
func lowMemory(s string) (uint8, string, error) {
	parts, err := memory(s)
	if err != nil {
		return 0, "", err
	}
	rb, err := lowRegister(parts[0])
	if err != nil {
		return 0, "", err
	}
	if len(parts) == 1 {
		return rb, "#0", nil
	}
	return rb, parts[1], nil
}

// LDRH and STRH
func (asm *Assembler) loadStoreHalfword(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := lowRegister(st.operands[0])
	if err != nil {
		return nil, err
	}
	rb, offset, err := lowMemory(st.operands[1])
	if err != nil {
		return nil, err
	}

	load := st.mnemonic == "LDRH"

	if !isImmediate(offset) {
		ro, err := lowRegister(offset)
		if err != nil {
			return nil, err
		}
		return single(arm.LoadStoreSignExtended{H: load, Ro: ro, Rb: rb, Rd: rd})
	}

	v, err := asm.ranged(offset, st.addr, 0, 62, 2)
	if err != nil {
		return nil, err
	}
	return single(arm.LoadStoreHalfword{Load: load, Offset: uint8(v >> 1), Rb: rb, Rd: rd})
}

// LDSB and LDSH. register offset only
func (asm *Assembler) loadSignExtended(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := lowRegister(st.operands[0])
	if err != nil {
		return nil, err
	}
	rb, offset, err := lowMemory(st.operands[1])
	if err != nil {
		return nil, err
	}
	ro, err := lowRegister(offset)
	if err != nil {
		return nil, err
	}
	return single(arm.LoadStoreSignExtended{S: true, H: strings.HasSuffix(st.mnemonic, "H"), Ro: ro, Rb: rb, Rd: rd})
}

// ADR Rd, label. assembled as ADD Rd, PC, #Imm
func (asm *Assembler) adr(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	rd, err := lowRegister(st.operands[0])
	if err != nil {
		return nil, err
	}
	v, err := asm.pcRelative(st.operands[1], st.addr)
	if err != nil {
		return nil, err
	}
	return single(arm.LoadAddress{Rd: rd, Word8: uint8(v >> 2)})
}

// PUSH {Rlist, LR} and POP {Rlist, PC}
func (asm *Assembler) pushPop(st statement) ([]uint16, error) {
	if err := expect(st, 1); err != nil {
		return nil, err
	}
	load := st.mnemonic == "POP"
	extra := uint8(regLR)
	if load {
		extra = regPC
	}
	list, r, err := registerList(st.operands[0], extra)
	if err != nil {
		return nil, err
	}
	return single(arm.PushPopRegisters{Load: load, R: r, RList: list})
}

// LDMIA Rb!, {Rlist}
func (asm *Assembler) multiple(st statement) ([]uint16, error) {
	if err := expect(st, 2); err != nil {
		return nil, err
	}
	base, ok := strings.CutSuffix(st.operands[0], "!")
	if !ok {
		return nil, curated.Errorf(InvalidOperand, st.operands[0])
	}
	rb, err := lowRegister(strings.TrimSpace(base))
	if err != nil {
		return nil, err
	}
	list, _, err := registerList(st.operands[1], 0)
	if err != nil {
		return nil, err
	}
	return single(arm.MultipleLoadStore{Load: st.mnemonic == "LDMIA", Rb: rb, RList: list})
}

// displacement of the target from the program counter value seen by the
// branch instruction
func (asm *Assembler) displacement(st statement) (int64, int64, error) {
	if err := expect(st, 1); err != nil {
		return 0, 0, err
	}
	target, err := asm.evaluate(st.operands[0], st.addr)
	if err != nil {
		return 0, 0, err
	}
	offset := target - int64(st.addr) - 4
	if offset%2 != 0 {
		return 0, 0, curated.Errorf(ImmediateAlign, offset)
	}
	return target, offset, nil
}

// BEQ label
func (asm *Assembler) conditionalBranch(st statement, cond arm.Condition) ([]uint16, error) {
	target, offset, err := asm.displacement(st)
	if err != nil {
		return nil, err
	}
	if offset < -256 || offset > 254 {
		return nil, curated.Errorf(BranchRange, target)
	}
	return single(arm.ConditionalBranch{Cond: cond, Offset: uint8(offset >> 1)})
}

// B label
func (asm *Assembler) branch(st statement) ([]uint16, error) {
	target, offset, err := asm.displacement(st)
	if err != nil {
		return nil, err
	}
	if offset < -2048 || offset > 2046 {
		return nil, curated.Errorf(BranchRange, target)
	}
	return single(arm.UnconditionalBranch{Offset: uint16(offset>>1) & 0x07ff})
}

// BL label. the high part of the offset is in the first instruction and the
// low part in the second
func (asm *Assembler) longBranch(st statement) ([]uint16, error) {
	target, offset, err := asm.displacement(st)
	if err != nil {
		return nil, err
	}
	if offset < -0x400000 || offset > 0x3ffffe {
		return nil, curated.Errorf(BranchRange, target)
	}
	hi := arm.LongBranchWithLink{Offset: uint16(offset>>12) & 0x07ff}
	lo := arm.LongBranchWithLink{Low: true, Offset: uint16(offset>>1) & 0x07ff}
	return []uint16{hi.Encode(), lo.Encode()}, nil
}
