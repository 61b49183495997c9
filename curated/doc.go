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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern and placeholder values. The pattern identifies the error
// and is normally an exported constant of the package that raises it:
//
//	const UndefinedInstruction = "thumb: undefined instruction (%04x)"
//
//	err := curated.Errorf(UndefinedInstruction, opcode)
//
//	if curated.Is(err, UndefinedInstruction) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain:
//
//	f := curated.Errorf("debugger: %v", err)
//
//	curated.Has(f, UndefinedInstruction) // true
//	curated.Is(f, UndefinedInstruction)  // false
//
// IsAny() answers whether the error was created by curated.Errorf() at all.
// It is useful for separating expected errors from unexpected errors.
//
// The error message of a curated error is normalised so that adjacent
// duplicate parts of the message chain are removed.
package curated
