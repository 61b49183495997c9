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

// Condition is the four bit condition field of a conditional branch.
type Condition uint8

// List of valid Condition values. AL is not a valid condition for a Thumb
// conditional branch and NV is the software interrupt.
const (
	EQ Condition = iota
	NE
	CS
	CC
	MI
	PL
	VS
	VC
	HI
	LS
	GE
	LT
	GT
	LE
	AL
	NV
)

var conditionMnemonics = [...]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "AL", "NV",
}

func (c Condition) String() string {
	return conditionMnemonics[c&0x0f]
}

// displacement of the branch target from the address of the branch
// instruction. the offset is a nine bit two's complement value
func (ins ConditionalBranch) displacement() int32 {
	return int32(int8(ins.Offset))*2 + 4
}

// displacement of the branch target from the address of the branch
// instruction. the offset is a twelve bit two's complement value
func (ins UnconditionalBranch) displacement() int32 {
	offset := int32(ins.Offset&0x07ff) << 1
	if offset&0x800 == 0x800 {
		offset |= ^0x7ff
	}
	return offset + 4
}

// the program counter is always one instruction ahead of the instruction being
// executed when the dispatcher is called. the pipeline value of R15, the value
// seen by instructions that read it, is one further instruction ahead
func (arm *ARM) pipelinePC() uint32 {
	return arm.state.registers[rPC] + 2
}

// branch moves the program counter by the offset, which is relative to the
// pipeline value of the program counter.
func (arm *ARM) branch(offset int32) {
	arm.state.registers[rPC] = arm.pipelinePC() + uint32(offset)
}

func (arm *ARM) executeConditionalBranch(ins ConditionalBranch) {
	// if the condition is not met the program counter has already been
	// advanced to the next instruction
	if !arm.state.status.condition(ins.Cond) {
		return
	}
	arm.branch(ins.displacement() - 4)
}

func (arm *ARM) executeUnconditionalBranch(ins UnconditionalBranch) {
	arm.branch(ins.displacement() - 4)
}

func (arm *ARM) executeLongBranchWithLink(ins LongBranchWithLink) {
	offset := uint32(ins.Offset & 0x07ff)

	if !ins.Low {
		// first instruction. the high part of the offset, sign extended and
		// added to the pipeline PC, is stored in the link register
		offset <<= 12
		if offset&0x400000 == 0x400000 {
			offset |= 0xff800000
		}
		arm.state.registers[rLR] = arm.pipelinePC() + offset
		return
	}

	// second instruction. the address of the instruction following this one
	// becomes the new link register, with bit 0 set to indicate Thumb state
	next := arm.state.registers[rPC]
	arm.state.registers[rPC] = arm.state.registers[rLR] + offset<<1
	arm.state.registers[rLR] = next | 0x01
}

// branchExchange implements BX. bit 0 of the target selects the instruction
// set and is cleared before the value is written to the program counter.
//
// "If R15 is used as an operand, the value will be the address of the
// instruction + 4 with bit 0 cleared." -- ARM7TDMI Data Sheet
func (arm *ARM) branchExchange(src uint8) {
	target := arm.readRegister(src)
	arm.state.status.thumb = target&0x01 == 0x01
	arm.state.registers[rPC] = target &^ 0x01
}
