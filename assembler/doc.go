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

// Package assembler is a two pass assembler for Thumb instructions. The syntax
// follows the ARM7TDMI data sheet:
//
//	; comments run to the end of the line
//	.equ  COUNT 10
//	start:
//		MOV  R0, #COUNT
//		ADD  R1, R0, #1
//	loop:
//		SUB  R0, #1
//		BNE  loop
//		BL   finish
//	finish:
//		.hword 0xbeef, COUNT * 2
//
// Immediates are introduced with '#' and are starlark expressions. The
// expression has access to every equate and label and to the name "pc", which
// is the address of the instruction being assembled. Branch targets are
// expressions without the '#'.
//
// BL is expanded into the pair of LongBranchWithLink halves. The halves can
// also be written individually with the BLH and BLL mnemonics.
package assembler
