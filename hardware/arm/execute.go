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
	"math/bits"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/logger"
)

// AbortedExecution is the curated error pattern returned by Execute() when a
// memory fault occurs and the AbortOnMemoryFault preference is set.
const AbortedExecution = "thumb: aborted execution of %04x at %08x: %v"

// Execute decodes and executes a single Thumb opcode. R15 should already have
// been advanced past the opcode by the fetch loop.
//
// An undefined opcode is reported with the Diagnostics.Error() function. The
// error is also returned in case Diagnostics.Error() does not terminate the
// program.
func (arm *ARM) Execute(opcode uint16) error {
	arm.state.executingPC = arm.state.registers[rPC] - 2

	ins, err := Decode(opcode)
	if err != nil {
		arm.diag.Error(fmt.Sprintf("%08x: %v", arm.state.executingPC, err))
		return err
	}

	return arm.execute(opcode, ins)
}

// ExecuteInstruction is the same as Execute() except that the instruction has
// already been decoded.
func (arm *ARM) ExecuteInstruction(ins Instruction) error {
	arm.state.executingPC = arm.state.registers[rPC] - 2
	return arm.execute(ins.Encode(), ins)
}

func (arm *ARM) execute(opcode uint16, ins Instruction) error {
	logger.Logf(arm, "ARM7", "%08x %s", arm.state.executingPC, ins.String())

	arm.state.instructions++

	switch ins := ins.(type) {
	case MoveShiftedRegister:
		arm.executeMoveShiftedRegister(ins)
	case AddSubtract:
		arm.executeAddSubtract(ins)
	case MovCmpAddSubImmediate:
		arm.executeMovCmpAddSubImmediate(ins)
	case ALUOperation:
		arm.executeALUOperation(ins)
	case HiRegisterOperation:
		arm.executeHiRegisterOperation(ins)
	case PCRelativeLoad:
		arm.executePCRelativeLoad(ins)
	case LoadStoreRegisterOffset:
		arm.executeLoadStoreRegisterOffset(ins)
	case LoadStoreSignExtended:
		arm.executeLoadStoreSignExtended(ins)
	case LoadStoreImmediateOffset:
		arm.executeLoadStoreImmediateOffset(ins)
	case LoadStoreHalfword:
		arm.executeLoadStoreHalfword(ins)
	case SPRelativeLoadStore:
		arm.executeSPRelativeLoadStore(ins)
	case LoadAddress:
		arm.executeLoadAddress(ins)
	case AddOffsetToSP:
		arm.executeAddOffsetToSP(ins)
	case PushPopRegisters:
		arm.executePushPopRegisters(ins)
	case MultipleLoadStore:
		arm.executeMultipleLoadStore(ins)
	case ConditionalBranch:
		arm.executeConditionalBranch(ins)
	case SoftwareInterrupt:
		if err := arm.executeSoftwareInterrupt(ins); err != nil {
			return err
		}
	case UnconditionalBranch:
		arm.executeUnconditionalBranch(ins)
	case LongBranchWithLink:
		arm.executeLongBranchWithLink(ins)
	default:
		err := curated.Errorf(UndefinedInstruction, opcode)
		arm.diag.Error(fmt.Sprintf("%08x: %v", arm.state.executingPC, err))
		return err
	}

	return arm.checkMemoryFault(opcode)
}

// checkMemoryFault asks the memory for any fault caused by the most recent
// instruction.
func (arm *ARM) checkMemoryFault(opcode uint16) error {
	f, ok := arm.mem.(MemoryFaulter)
	if !ok {
		return nil
	}

	fault := f.MemoryFault()
	if fault == nil {
		return nil
	}

	if arm.abortOnMemoryFault {
		err := curated.Errorf(AbortedExecution, opcode, arm.state.executingPC, fault)
		arm.diag.Warning(err.Error())
		return err
	}

	arm.diag.Warning(fmt.Sprintf("%08x: %v", arm.state.executingPC, fault))
	return nil
}

func (arm *ARM) executeMoveShiftedRegister(ins MoveShiftedRegister) {
	v, c := shiftImmediate(ins.Op, arm.state.registers[ins.Rs], ins.Offset, arm.state.status.carry, arm.quirks)
	arm.state.registers[ins.Rd] = v
	arm.state.status.commit(shifted(v, c))
}

func (arm *ARM) executeAddSubtract(ins AddSubtract) {
	var operand uint32
	if ins.Immediate {
		operand = uint32(ins.Rn)
	} else {
		operand = arm.state.registers[ins.Rn]
	}

	var res aluResult
	if ins.Subtract {
		res = sub(arm.state.registers[ins.Rs], operand)
	} else {
		res = add(arm.state.registers[ins.Rs], operand)
	}

	arm.state.registers[ins.Rd] = res.value
	arm.state.status.commit(res)
}

func (arm *ARM) executeMovCmpAddSubImmediate(ins MovCmpAddSubImmediate) {
	imm := uint32(ins.Offset)

	switch ins.Op {
	case ImmMOV:
		res := logical(imm)
		arm.state.registers[ins.Rd] = res.value
		arm.state.status.commit(res)
	case ImmCMP:
		arm.state.status.commit(sub(arm.state.registers[ins.Rd], imm))
	case ImmADD:
		res := addImmediate8(arm.state.registers[ins.Rd], ins.Offset, arm.imm8SignedOverflow)
		arm.state.registers[ins.Rd] = res.value
		arm.state.status.commit(res)
	case ImmSUB:
		res := sub(arm.state.registers[ins.Rd], imm)
		arm.state.registers[ins.Rd] = res.value
		arm.state.status.commit(res)
	}
}

func (arm *ARM) executeALUOperation(ins ALUOperation) {
	res, ok := alu(ins.Op, arm.state.registers[ins.Rd], arm.state.registers[ins.Rs], arm.state.status, arm.quirks)
	if !ok {
		return
	}
	if ins.Op.writesBack() {
		arm.state.registers[ins.Rd] = res.value
	}
	arm.state.status.commit(res)
}

func (arm *ARM) executeHiRegisterOperation(ins HiRegisterOperation) {
	src := ins.Source()
	dst := ins.Destination()

	switch ins.Op {
	case HiADD:
		arm.writeRegister(dst, arm.readRegister(dst)+arm.readRegister(src))
	case HiCMP:
		arm.state.status.commit(sub(arm.readRegister(dst), arm.readRegister(src)))
	case HiMOV:
		arm.writeRegister(dst, arm.readRegister(src))
	case HiBX:
		arm.branchExchange(src)
	}
}

// the value of the PC used as a base address is always word aligned
func (arm *ARM) alignedPC() uint32 {
	return arm.pipelinePC() &^ 0x03
}

func (arm *ARM) executePCRelativeLoad(ins PCRelativeLoad) {
	addr := arm.alignedPC() + uint32(ins.Word8)<<2
	arm.state.registers[ins.Rd] = arm.mem.Read32bit(addr)
}

func (arm *ARM) executeLoadStoreRegisterOffset(ins LoadStoreRegisterOffset) {
	addr := arm.state.registers[ins.Rb] + arm.state.registers[ins.Ro]

	if ins.Load {
		if ins.Byte {
			arm.state.registers[ins.Rd] = uint32(arm.mem.Read8bit(addr))
		} else {
			arm.state.registers[ins.Rd] = arm.mem.Read32bit(addr)
		}
		return
	}

	if ins.Byte {
		arm.mem.Write8bit(addr, uint8(arm.state.registers[ins.Rd]))
	} else {
		arm.mem.Write32bit(addr, arm.state.registers[ins.Rd])
	}
}

func (arm *ARM) executeLoadStoreSignExtended(ins LoadStoreSignExtended) {
	addr := arm.state.registers[ins.Rb] + arm.state.registers[ins.Ro]

	switch {
	case !ins.S && !ins.H:
		// STRH
		arm.mem.Write16bit(addr, uint16(arm.state.registers[ins.Rd]))
	case !ins.S && ins.H:
		// LDRH
		arm.state.registers[ins.Rd] = uint32(arm.mem.Read16bit(addr))
	case ins.S && !ins.H:
		// LDSB
		arm.state.registers[ins.Rd] = uint32(int32(int8(arm.mem.Read8bit(addr))))
	case ins.S && ins.H:
		// LDSH. the address is used as it is even if it is not halfword
		// aligned
		arm.state.registers[ins.Rd] = uint32(int32(int16(arm.mem.Read16bit(addr))))
	}
}

func (arm *ARM) executeLoadStoreImmediateOffset(ins LoadStoreImmediateOffset) {
	addr := arm.state.registers[ins.Rb] + ins.ByteOffset()

	if ins.Load {
		if ins.Byte {
			arm.state.registers[ins.Rd] = uint32(arm.mem.Read8bit(addr))
		} else {
			arm.state.registers[ins.Rd] = arm.mem.Read32bit(addr)
		}
		return
	}

	if ins.Byte {
		arm.mem.Write8bit(addr, uint8(arm.state.registers[ins.Rd]))
	} else {
		arm.mem.Write32bit(addr, arm.state.registers[ins.Rd])
	}
}

func (arm *ARM) executeLoadStoreHalfword(ins LoadStoreHalfword) {
	addr := arm.state.registers[ins.Rb] + uint32(ins.Offset)<<1

	if ins.Load {
		arm.state.registers[ins.Rd] = uint32(arm.mem.Read16bit(addr))
	} else {
		arm.mem.Write16bit(addr, uint16(arm.state.registers[ins.Rd]))
	}
}

func (arm *ARM) executeSPRelativeLoadStore(ins SPRelativeLoadStore) {
	addr := arm.state.registers[rSP] + uint32(ins.Word8)<<2

	if ins.Load {
		arm.state.registers[ins.Rd] = arm.mem.Read32bit(addr)
	} else {
		arm.mem.Write32bit(addr, arm.state.registers[ins.Rd])
	}
}

func (arm *ARM) executeLoadAddress(ins LoadAddress) {
	if ins.SP {
		arm.state.registers[ins.Rd] = arm.state.registers[rSP] + uint32(ins.Word8)<<2
	} else {
		arm.state.registers[ins.Rd] = arm.alignedPC() + uint32(ins.Word8)<<2
	}
}

func (arm *ARM) executeAddOffsetToSP(ins AddOffsetToSP) {
	offset := uint32(ins.Word7&0x7f) << 2
	if ins.Negative {
		arm.state.registers[rSP] -= offset
	} else {
		arm.state.registers[rSP] += offset
	}
}

func (arm *ARM) executePushPopRegisters(ins PushPopRegisters) {
	if ins.Load {
		// POP is a full descending stack so the lowest register is at the
		// lowest address
		addr := arm.state.registers[rSP]
		for i := uint8(0); i < 8; i++ {
			if ins.RList&(1<<i) == 0 {
				continue
			}
			arm.state.registers[i] = arm.mem.Read32bit(addr)
			addr += 4
		}
		if ins.R {
			arm.state.registers[rPC] = arm.mem.Read32bit(addr) &^ 0x01
			addr += 4
		}
		arm.state.registers[rSP] = addr
		return
	}

	// PUSH
	count := uint32(bits.OnesCount8(ins.RList))
	if ins.R {
		count++
	}

	addr := arm.state.registers[rSP] - count*4
	arm.state.registers[rSP] = addr

	for i := uint8(0); i < 8; i++ {
		if ins.RList&(1<<i) == 0 {
			continue
		}
		arm.mem.Write32bit(addr, arm.state.registers[i])
		addr += 4
	}
	if ins.R {
		arm.mem.Write32bit(addr, arm.state.registers[rLR])
	}
}

func (arm *ARM) executeMultipleLoadStore(ins MultipleLoadStore) {
	addr := arm.state.registers[ins.Rb]

	// "an empty register list transfers R15 and the base register is
	// adjusted by 0x40". this is the documented behaviour of the ARM7TDMI
	// rather than an architectural guarantee
	if ins.RList == 0 {
		if ins.Load {
			arm.state.registers[rPC] = arm.mem.Read32bit(addr) &^ 0x01
		} else {
			arm.mem.Write32bit(addr, arm.pipelinePC())
		}
		arm.state.registers[ins.Rb] = addr + 0x40
		return
	}

	for i := uint8(0); i < 8; i++ {
		if ins.RList&(1<<i) == 0 {
			continue
		}
		if ins.Load {
			arm.state.registers[i] = arm.mem.Read32bit(addr)
		} else {
			arm.mem.Write32bit(addr, arm.state.registers[i])
		}
		addr += 4
	}

	// no write back for LDMIA if the base register was loaded
	if ins.Load && ins.RList&(1<<ins.Rb) != 0 {
		return
	}
	arm.state.registers[ins.Rb] = addr
}

func (arm *ARM) executeSoftwareInterrupt(ins SoftwareInterrupt) error {
	if arm.hook != nil {
		serviced, err := arm.hook.SoftwareInterrupt(arm, ins.Value)
		if err != nil {
			return err
		}
		if serviced {
			return nil
		}
	}

	// exception entry. the link register holds the address of the instruction
	// following the SWI. banked registers and the SPSR are not modelled
	arm.state.registers[rLR] = arm.state.registers[rPC]
	arm.state.registers[rPC] = swiVector
	arm.state.status.thumb = false

	return nil
}
