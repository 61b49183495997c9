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

package arm_test

import (
	"testing"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/test"
)

func TestDecodeRoundTrip(t *testing.T) {
	var undefined int

	for i := 0; i <= 0xffff; i++ {
		opcode := uint16(i)

		ins, err := arm.Decode(opcode)
		if err != nil {
			test.ExpectSuccess(t, curated.Is(err, arm.UndefinedInstruction), opcode)
			undefined++
			continue
		}

		test.ExpectEquality(t, ins.Encode(), opcode, ins.String())
	}

	// 0xdexx, 0xe800-0xefff, 0xb1xx-0xb3xx, 0xb6xx-0xbbxx, 0xbexx-0xbfxx and
	// the 0x47 opcodes with H1 set
	test.ExpectEquality(t, undefined, 0x100+0x800+0x300+0x600+0x200+0x80)
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		opcode uint16
		format arm.Format
	}{
		{0x0008, arm.FormatMoveShiftedRegister},
		{0x1853, arm.FormatAddSubtract},
		{0x3280, arm.FormatMovCmpAddSubImmediate},
		{0x40d3, arm.FormatALUOperation},
		{0x4770, arm.FormatHiRegisterOperation},
		{0x4801, arm.FormatPCRelativeLoad},
		{0x5088, arm.FormatLoadStoreRegisterOffset},
		{0x5ed4, arm.FormatLoadStoreSignExtended},
		{0x6808, arm.FormatLoadStoreImmediateOffset},
		{0x8808, arm.FormatLoadStoreHalfword},
		{0x9801, arm.FormatSPRelativeLoadStore},
		{0xa801, arm.FormatLoadAddress},
		{0xb082, arm.FormatAddOffsetToSP},
		{0xb5f0, arm.FormatPushPopRegisters},
		{0xc903, arm.FormatMultipleLoadStore},
		{0xd002, arm.FormatConditionalBranch},
		{0xdf00, arm.FormatSoftwareInterrupt},
		{0xe7fe, arm.FormatUnconditionalBranch},
		{0xf000, arm.FormatLongBranchWithLink},
		{0xf800, arm.FormatLongBranchWithLink},
	}

	for _, tt := range tests {
		ins, err := arm.Decode(tt.opcode)
		test.DemandSuccess(t, err, tt.opcode)
		test.ExpectEquality(t, ins.Format(), tt.format, tt.opcode)
	}
}

func TestDecodeFields(t *testing.T) {
	ins, err := arm.Decode(0x5ed4)
	test.DemandSuccess(t, err)
	ldsh := test.DemandImplements[arm.LoadStoreSignExtended](t, ins)
	test.ExpectSuccess(t, ldsh.H)
	test.ExpectSuccess(t, ldsh.S)
	test.ExpectEquality(t, ldsh.Ro, uint8(3))
	test.ExpectEquality(t, ldsh.Rb, uint8(2))
	test.ExpectEquality(t, ldsh.Rd, uint8(4))

	ins, err = arm.Decode(0x4770)
	test.DemandSuccess(t, err)
	bx := test.DemandImplements[arm.HiRegisterOperation](t, ins)
	test.ExpectEquality(t, bx.Op, arm.HiBX)
	test.ExpectEquality(t, bx.Source(), uint8(14))

	ins, err = arm.Decode(0xb5f0)
	test.DemandSuccess(t, err)
	push := test.DemandImplements[arm.PushPopRegisters](t, ins)
	test.ExpectFailure(t, push.Load)
	test.ExpectSuccess(t, push.R)
	test.ExpectEquality(t, push.RList, uint8(0xf0))
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		opcode uint16
		str    string
	}{
		{0x1853, "ADD R3, R2, R1"},
		{0x3280, "ADD R2, #0x80"},
		{0x40d3, "LSR R3, R2"},
		{0x4770, "BX LR"},
		{0x4687, "MOV PC, R0"},
		{0x5ed4, "LDSH R4, [R2, R3]"},
		{0xb5f0, "PUSH {R4-R7, LR}"},
		{0xbd03, "POP {R0, R1, PC}"},
		{0xc905, "LDMIA R1!, {R0, R2}"},
		{0xd002, "BEQ pc+0x8"},
		{0xd0fe, "BEQ pc+0x0"},
		{0xe7fe, "B pc+0x0"},
		{0xdf05, "SWI #0x05"},
		{0xb002, "ADD SP, #0x008"},
		{0xb082, "ADD SP, #-0x008"},
		{0xb0c2, "ADD SP, #-0x108"},
	}

	for _, tt := range tests {
		ins, err := arm.Decode(tt.opcode)
		test.DemandSuccess(t, err, tt.opcode)
		test.ExpectEquality(t, ins.String(), tt.str)
	}
}
