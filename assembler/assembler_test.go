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

package assembler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retroarm/thumbcore/assembler"
	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/hardware/arm"
)

const origin = 0x08000000

func assemble(t *testing.T, source ...string) (*assembler.Program, error) {
	t.Helper()
	asm := assembler.NewAssembler(origin)
	return asm.Assemble(strings.NewReader(strings.Join(source, "\n")))
}

func TestAssemblerEmpty(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, "")
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes()))
	assert.Equal(uint32(origin), prog.Origin)
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"    .equ COUNT 10",
		"start:",
		"    MOV R0, #COUNT   ; loop counter",
		"    add r1, r0, #1",
		"loop:",
		"    SUB R0, #1",
		"    BNE loop",
		"    BL  finish",
		"finish: .hword 0xbeef, COUNT * 2",
	)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint16{0x200a, 0x1c41, 0x3801, 0xd1fd, 0xf000, 0xf800, 0xbeef, 0x0014}, prog.Opcodes())
	assert.Equal(uint32(0x08000000), prog.Labels["start"])
	assert.Equal(uint32(0x08000004), prog.Labels["loop"])
	assert.Equal(uint32(0x0800000c), prog.Labels["finish"])
	assert.Equal(int64(10), prog.Equates["COUNT"])

	assert.Equal([]byte{0x0a, 0x20, 0x41, 0x1c}, prog.Bytes()[:4])

	listing := prog.String()
	assert.Contains(listing, "08000008  f000 f800      BL  finish")
	assert.Contains(listing, "08000000  200a")
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		source string
		opcode uint16
	}{
		{"LSL R1, R2, #3", 0x00d1},
		{"LSR R1, R2, #32", 0x0811},
		{"ASR R0, R7, #1", 0x1078},
		{"ADD R3, R2, R1", 0x1853},
		{"SUB R3, R2, #7", 0x1fd3},
		{"MOV R0, #0xff", 0x20ff},
		{"CMP R1, #0x10", 0x2910},
		{"ADD R2, #0x80", 0x3280},
		{"AND R0, R1", 0x4008},
		{"LSR R3, R2", 0x40d3},
		{"MVN R7, R7", 0x43ff},
		{"MUL R0, R1", 0x4348},
		{"CMP R0, R1", 0x4288},
		{"CMP R8, R0", 0x4580},
		{"ADD R0, R9", 0x4448},
		{"ADD R0, R1", 0x1840},
		{"MOV PC, R0", 0x4687},
		{"MOV R1, R2", 0x1c11},
		{"BX LR", 0x4770},
		{"LDR R0, [PC, #16]", 0x4804},
		{"STR R0, [R1, R2]", 0x5088},
		{"LDRB R0, [R1, R2]", 0x5c88},
		{"LDSH R4, [R2, R3]", 0x5ed4},
		{"LDRH R4, [R2, R3]", 0x5ad4},
		{"LDR R1, [R2, #4]", 0x6851},
		{"STRB R1, [R2, #31]", 0x77d1},
		{"LDR R1, [R2]", 0x6811},
		{"STRH R1, [R2, #2]", 0x8051},
		{"LDR R3, [SP, #8]", 0x9b02},
		{"ADD R0, SP, #4", 0xa801},
		{"ADD R0, PC, #8", 0xa002},
		{"ADD SP, #8", 0xb002},
		{"SUB SP, #8", 0xb082},
		{"ADD SP, #-8", 0xb082},
		{"PUSH {R4-R7, LR}", 0xb5f0},
		{"POP {R0, R1, PC}", 0xbd03},
		{"LDMIA R1!, {R0, R2}", 0xc905},
		{"STMIA R0!, {}", 0xc000},
		{"SWI #5", 0xdf05},
		{"SWI 5", 0xdf05},
		{"B pc", 0xe7fe},
		{"BEQ pc + 4", 0xd000},
		{"BLH #0x123", 0xf123},
		{"BLL #0x7ff", 0xffff},
	}

	for _, tt := range tests {
		prog, err := assemble(t, tt.source)
		if !assert.NoError(err, tt.source) {
			continue
		}
		assert.Equal([]uint16{tt.opcode}, prog.Opcodes(), tt.source)
	}
}

func TestAssemblerDisassemblyRoundTrip(t *testing.T) {
	assert := assert.New(t)

	opcodes := []uint16{
		0x00d1, 0x1853, 0x1c41, 0x3801, 0x40d3, 0x4770, 0x4687, 0x5ed4,
		0x6851, 0x9b02, 0xa801, 0xb082, 0xb5f0, 0xbd03, 0xc905, 0xdf05,
		0xf123, 0xffff,
	}

	for _, opcode := range opcodes {
		ins, err := arm.Decode(opcode)
		if !assert.NoError(err) {
			continue
		}
		prog, err := assemble(t, ins.String())
		if !assert.NoError(err, ins.String()) {
			continue
		}
		assert.Equal([]uint16{opcode}, prog.Opcodes(), ins.String())
	}
}

func TestAssemblerExpressions(t *testing.T) {
	assert := assert.New(t)

	asm := assembler.NewAssembler(origin)
	asm.Define("BASE", 0x20)

	prog, err := asm.Assemble(strings.NewReader(strings.Join([]string{
		".equ OFFSET BASE // 8",
		"MOV R0, #BASE + OFFSET",
		"MOV R1, #(1 << 4) | 3",
		"LDR R2, data",
		"ADR R3, data",
		".word 0x12345678",
		"data: .hword -1",
	}, "\n")))
	if !assert.NoError(err) {
		return
	}

	// data is at origin+12. the PC seen by the LDR at origin+4 is origin+8
	assert.Equal([]uint16{0x2024, 0x2113, 0x4a01, 0xa301, 0x5678, 0x1234, 0xffff}, prog.Opcodes())
	assert.Equal(int64(4), prog.Equates["OFFSET"])
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		source  string
		pattern string
	}{
		{"FOO R0", assembler.UnknownMnemonic},
		{"MOV R8, #1", assembler.InvalidRegister},
		{"MOV R0, #256", assembler.ImmediateRange},
		{"LSL R0, R1, #32", assembler.ImmediateRange},
		{"LDR R0, [R1, #3]", assembler.ImmediateAlign},
		{"BEQ pc + 0x200", assembler.BranchRange},
		{"ADD R0", assembler.OperandCount},
		{"MOV R0, #undefined", assembler.InvalidExpression},
		{"PUSH {R8}", assembler.InvalidRegister},
		{"POP {LR}", assembler.InvalidRegister},
		{"LDMIA R0, {R1}", assembler.InvalidOperand},
		{".equ 1abc 2", assembler.EquateSyntax},
		{"a:\na:", assembler.DuplicateSymbol},
	}

	for _, tt := range tests {
		_, err := assemble(t, tt.source)
		if !assert.Error(err, tt.source) {
			continue
		}
		assert.True(curated.Is(err, assembler.LineError), tt.source)
		assert.True(curated.Has(err, tt.pattern), "%s: %v", tt.source, err)
	}
}

func TestAssemblerLineNumbers(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, "MOV R0, #1", "", "MOV R0, #1000")
	assert.EqualError(err, "assembler: line 3: immediate out of range (1000)")
}
