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

// Package memory implements the address space used by the ARM. The Bus type
// is a collection of regions and it implements the Memory and MemoryFaulter
// interfaces of the arm package.
//
// Accesses outside of a region are memory faults. They are logged to the
// central logger and the most recent fault is returned by MemoryFault(). The
// ARM decides whether a fault is a warning or an error.
//
// The Peek() and Poke() functions are for debuggers and other tools that need
// to inspect or change memory without affecting the fault state.
package memory
