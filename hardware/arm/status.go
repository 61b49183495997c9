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
	"strings"
)

// Status is the subset of the CPSR that the Thumb instruction set can observe:
// the four condition flags and the T bit.
//
// Flags not written by an instruction keep whatever value they had before it.
type Status struct {
	negative bool
	zero     bool
	carry    bool
	overflow bool

	// T bit. true when the processor is interpreting 16bit Thumb instructions
	thumb bool
}

func (sr Status) String() string {
	s := strings.Builder{}

	if sr.negative {
		s.WriteRune('N')
	} else {
		s.WriteRune('n')
	}
	if sr.zero {
		s.WriteRune('Z')
	} else {
		s.WriteRune('z')
	}
	if sr.carry {
		s.WriteRune('C')
	} else {
		s.WriteRune('c')
	}
	if sr.overflow {
		s.WriteRune('V')
	} else {
		s.WriteRune('v')
	}
	if sr.thumb {
		s.WriteRune('T')
	} else {
		s.WriteRune('t')
	}

	return s.String()
}

func (sr *Status) reset() {
	sr.negative = false
	sr.zero = false
	sr.carry = false
	sr.overflow = false
	sr.thumb = true
}

// Negative returns the N flag.
func (sr *Status) Negative() bool {
	return sr.negative
}

// SetNegative sets the N flag.
func (sr *Status) SetNegative(v bool) {
	sr.negative = v
}

// Zero returns the Z flag.
func (sr *Status) Zero() bool {
	return sr.zero
}

// SetZero sets the Z flag.
func (sr *Status) SetZero(v bool) {
	sr.zero = v
}

// Carry returns the C flag.
func (sr *Status) Carry() bool {
	return sr.carry
}

// SetCarry sets the C flag.
func (sr *Status) SetCarry(v bool) {
	sr.carry = v
}

// Overflow returns the V flag.
func (sr *Status) Overflow() bool {
	return sr.overflow
}

// SetOverflow sets the V flag.
func (sr *Status) SetOverflow(v bool) {
	sr.overflow = v
}

// Thumb returns the T bit.
func (sr *Status) Thumb() bool {
	return sr.thumb
}

// SetThumb sets the T bit. During execution only BX and exception entry
// change it.
func (sr *Status) SetThumb(v bool) {
	sr.thumb = v
}

// Flags returns all four condition flags in NZCV order.
func (sr *Status) Flags() (n, z, c, v bool) {
	return sr.negative, sr.zero, sr.carry, sr.overflow
}

// SetFlags sets all four condition flags.
func (sr *Status) SetFlags(n, z, c, v bool) {
	sr.negative = n
	sr.zero = z
	sr.carry = c
	sr.overflow = v
}

// commit writes the flags produced by the ALU. only the flags in the mask
// are changed
func (sr *Status) commit(res aluResult) {
	if res.writes&flagN == flagN {
		sr.negative = res.negative
	}
	if res.writes&flagZ == flagZ {
		sr.zero = res.zero
	}
	if res.writes&flagC == flagC {
		sr.carry = res.carry
	}
	if res.writes&flagV == flagV {
		sr.overflow = res.overflow
	}
}

// condition returns true if the condition code passes with the current flags.
// information from "A3.2 The condition field" in "ARM Architecture Reference
// Manual". the AL and NV codes are never seen because the decoder does not
// produce conditional branches with those conditions
func (sr *Status) condition(cond Condition) bool {
	switch cond {
	case EQ:
		return sr.zero
	case NE:
		return !sr.zero
	case CS:
		return sr.carry
	case CC:
		return !sr.carry
	case MI:
		return sr.negative
	case PL:
		return !sr.negative
	case VS:
		return sr.overflow
	case VC:
		return !sr.overflow
	case HI:
		// unsigned higher C==1 and Z==0
		return sr.carry && !sr.zero
	case LS:
		// unsigned lower or same C==0 or Z==1
		return !sr.carry || sr.zero
	case GE:
		// signed greater than or equal N==V
		return sr.negative == sr.overflow
	case LT:
		// signed less than N!=V
		return sr.negative != sr.overflow
	case GT:
		// signed greater than Z==0 and N==V
		return !sr.zero && sr.negative == sr.overflow
	case LE:
		// signed less than or equal Z==1 or N!=V
		return sr.zero || sr.negative != sr.overflow
	case AL:
		return true
	}
	return false
}
