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

import "math/bits"

// ShiftOp is the shift type of the format 1 instructions.
type ShiftOp uint8

// List of valid ShiftOp values. the value 0b11 in the op field of format 1
// selects format 2 and is never a shift.
const (
	LSL ShiftOp = iota
	LSR
	ASR
)

func (op ShiftOp) String() string {
	switch op {
	case LSL:
		return "LSL"
	case LSR:
		return "LSR"
	case ASR:
		return "ASR"
	}
	return "???"
}

// the shift functions take an amount in the range 0 to 255 and the incoming
// carry flag. they return the shifted value and the new carry flag. an amount
// of zero returns the value and carry unchanged

// if Rs[7:0] == 0
//
//	C Flag = unaffected
//	Rd = unaffected
//
// else if Rs[7:0] < 32 then
//
//	C Flag = Rd[32 - Rs[7:0]]
//	Rd = Rd Logical_Shift_Left Rs[7:0]
//
// else if Rs[7:0] == 32 then
//
//	C Flag = Rd[0]
//	Rd = 0
//
// else /* Rs[7:0] > 32 */
//
//	C Flag = 0
//	Rd = 0
func lsl(v uint32, amount uint32, carry bool) (uint32, bool) {
	switch {
	case amount == 0:
		return v, carry
	case amount < 32:
		m := uint32(0x01) << (32 - amount)
		return v << amount, v&m == m
	case amount == 32:
		return 0, v&0x01 == 0x01
	}
	return 0, false
}

// if Rs[7:0] == 0 then
//
//	C Flag = unaffected
//	Rd = unaffected
//
// else if Rs[7:0] < 32 then
//
//	C Flag = Rd[Rs[7:0] - 1]
//	Rd = Rd Logical_Shift_Right Rs[7:0]
//
// else if Rs[7:0] == 32 then
//
//	C Flag = Rd[0] (Rd[31] with the lsr32CarryBit31 quirk)
//	Rd = 0
//
// else /* Rs[7:0] > 32 */
//
//	C Flag = 0
//	Rd = 0
func lsr(v uint32, amount uint32, carry bool, q shifterQuirks) (uint32, bool) {
	switch {
	case amount == 0:
		return v, carry
	case amount < 32:
		m := uint32(0x01) << (amount - 1)
		return v >> amount, v&m == m
	case amount == 32:
		if q.lsr32CarryBit31 {
			return 0, v&0x80000000 == 0x80000000
		}
		return 0, v&0x01 == 0x01
	}
	return 0, false
}

// if Rs[7:0] == 0 then
//
//	C Flag = unaffected
//	Rd = unaffected
//
// else if Rs[7:0] < 32 then
//
//	C Flag = Rd[Rs[7:0] - 1]
//	Rd = Rd Arithmetic_Shift_Right Rs[7:0]
//
// else /* Rs[7:0] >= 32 */
//
//	C Flag = Rd[31]
//	if Rd[31] == 0 then
//		Rd = 0
//	else /* Rd[31] == 1 */
//		Rd = 0xFFFFFFFF
func asr(v uint32, amount uint32, carry bool) (uint32, bool) {
	switch {
	case amount == 0:
		return v, carry
	case amount < 32:
		m := uint32(0x01) << (amount - 1)
		return uint32(int32(v) >> amount), v&m == m
	}
	if v&0x80000000 == 0x80000000 {
		return 0xffffffff, true
	}
	return 0, false
}

// if Rs[7:0] == 0 then
//
//	C Flag = unaffected
//	Rd = unaffected
//
// else if Rs[4:0] == 0 then
//
//	C Flag = Rd[31]
//	Rd = unaffected
//
// else /* Rs[4:0] > 0 */
//
//	C Flag = Rd[Rs[4:0] - 1]
//	Rd = Rd Rotate_Right Rs[4:0]
func ror(v uint32, amount uint32, carry bool) (uint32, bool) {
	if amount == 0 {
		return v, carry
	}
	amount &= 0x1f
	if amount == 0 {
		return v, v&0x80000000 == 0x80000000
	}
	m := uint32(0x01) << (amount - 1)
	return bits.RotateLeft32(v, -int(amount)), v&m == m
}

// shiftImmediate performs the format 1 shift. an immediate of zero means no
// shift for LSL but means a shift of 32 for LSR and ASR
func shiftImmediate(op ShiftOp, v uint32, imm uint8, carry bool, q shifterQuirks) (uint32, bool) {
	amount := uint32(imm & 0x1f)
	switch op {
	case LSL:
		return lsl(v, amount, carry)
	case LSR:
		if amount == 0 {
			amount = 32
		}
		return lsr(v, amount, carry, q)
	case ASR:
		if amount == 0 {
			amount = 32
		}
		return asr(v, amount, carry)
	}
	return v, carry
}
