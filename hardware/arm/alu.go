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

// flagMask indicates which of the condition flags an ALU result should write.
type flagMask uint8

const (
	flagN flagMask = 1 << iota
	flagZ
	flagC
	flagV

	flagsNZ  = flagN | flagZ
	flagsNZC = flagN | flagZ | flagC
	flagsAll = flagN | flagZ | flagC | flagV
)

// aluResult is the output of the ALU and shifter functions. the flags are only
// meaningful if the corresponding bit in writes is set
type aluResult struct {
	value    uint32
	negative bool
	zero     bool
	carry    bool
	overflow bool
	writes   flagMask
}

// logical produces a result that writes only the N and Z flags.
func logical(v uint32) aluResult {
	return aluResult{
		value:    v,
		negative: v&0x80000000 == 0x80000000,
		zero:     v == 0,
		writes:   flagsNZ,
	}
}

// shifted produces a result that writes N and Z from the value and C from the
// shifter carry out.
func shifted(v uint32, carry bool) aluResult {
	r := logical(v)
	r.carry = carry
	r.writes = flagsNZC
	return r
}

// addWithCarry is the adder for the additive and subtractive families. the
// subtractive family calls it with the complement of the subtrahend.
func addWithCarry(a, b uint32, carryIn bool) aluResult {
	var c uint64
	if carryIn {
		c = 1
	}
	sum := uint64(a) + uint64(b) + c
	v := uint32(sum)

	r := logical(v)
	r.carry = sum > 0xffffffff
	r.overflow = overflowFrom(a&0x80000000 != 0, b&0x80000000 != 0, r.negative)
	r.writes = flagsAll
	return r
}

// overflowFrom is true if both operands have the same sign and the sign of the
// result is different.
func overflowFrom(aNeg, bNeg, resultNeg bool) bool {
	return aNeg == bNeg && resultNeg != aNeg
}

func add(a, b uint32) aluResult {
	return addWithCarry(a, b, false)
}

// subtraction with an implied carry in of one. carry out is set if there was
// no borrow.
func sub(a, b uint32) aluResult {
	return addWithCarry(a, ^b, true)
}

// addImmediate8 is the adder used by the "ADD Rd, #Offset8" instruction. when
// signedOverflow is true the sign of the immediate, for the purpose of
// calculating the V flag, is bit 7 of the 8bit field. the result and the carry
// are the same in either case
func addImmediate8(a uint32, imm uint8, signedOverflow bool) aluResult {
	r := add(a, uint32(imm))
	if signedOverflow {
		r.overflow = overflowFrom(a&0x80000000 != 0, imm&0x80 != 0, r.negative)
	}
	return r
}

// ALUOp is the operation selector of the format 4 ALU instructions.
type ALUOp uint8

// List of valid ALUOp values.
const (
	OpAND ALUOp = iota
	OpEOR
	OpLSL
	OpLSR
	OpASR
	OpADC
	OpSBC
	OpROR
	OpTST
	OpNEG
	OpCMP
	OpCMN
	OpORR
	OpMUL
	OpBIC
	OpMVN
)

var aluMnemonics = [...]string{
	"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
	"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN",
}

func (op ALUOp) String() string {
	if int(op) >= len(aluMnemonics) {
		return "???"
	}
	return aluMnemonics[op]
}

// writesBack returns false for the operations that only compute flags.
func (op ALUOp) writesBack() bool {
	return op != OpTST && op != OpCMP && op != OpCMN
}

// shifterQuirks are the configurable choices made by the shifter.
type shifterQuirks struct {
	// LSR by exactly 32 takes the carry from bit 31 rather than bit 0
	lsr32CarryBit31 bool
}

// alu computes the format 4 operation "Rd = Rd OP Rs". the returned boolean is
// false if the operation is a complete no-op, writing neither register nor
// flags (ROR by a zero register).
//
// TST, CMP and CMN produce a result value but it must not be written back.
func alu(op ALUOp, rd, rs uint32, sr Status, q shifterQuirks) (aluResult, bool) {
	switch op {
	case OpAND:
		return logical(rd & rs), true
	case OpEOR:
		return logical(rd ^ rs), true
	case OpLSL:
		v, c := lsl(rd, rs&0xff, sr.carry)
		return shifted(v, c), true
	case OpLSR:
		v, c := lsr(rd, rs&0xff, sr.carry, q)
		return shifted(v, c), true
	case OpASR:
		v, c := asr(rd, rs&0xff, sr.carry)
		return shifted(v, c), true
	case OpADC:
		return addWithCarry(rd, rs, sr.carry), true
	case OpSBC:
		return addWithCarry(rd, ^rs, sr.carry), true
	case OpROR:
		if rs == 0 {
			return aluResult{value: rd}, false
		}
		v, c := ror(rd, rs&0xff, sr.carry)
		return shifted(v, c), true
	case OpTST:
		return logical(rd & rs), true
	case OpNEG:
		return sub(0, rs), true
	case OpCMP:
		return sub(rd, rs), true
	case OpCMN:
		return add(rd, rs), true
	case OpORR:
		return logical(rd | rs), true
	case OpMUL:
		// C and V are unaffected. on the ARM7TDMI the carry is "set to a
		// meaningless value" but we preserve it
		return logical(rd * rs), true
	case OpBIC:
		return logical(rd &^ rs), true
	case OpMVN:
		return logical(^rs), true
	}

	return aluResult{value: rd}, false
}
