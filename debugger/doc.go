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

// Package debugger drives a hardware.Machine on behalf of the command line
// tools. In the run mode the machine executes until it halts. In the step mode
// the user controls execution one instruction at a time with single key
// presses:
//
//	space/enter   step one instruction
//	r             run until the machine halts
//	b             step back one instruction
//	m             print the memory map
//	d             dump processor state as a graphviz file
//	l             print the most recent log entries
//	h             help
//	q             quit
//
// Key presses are read from a KeyReader. The easyterm package provides a
// KeyReader for the controlling terminal.
package debugger
