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

// Memory is the interface the ARM uses to access the bytes of the emulated
// address space. values are little-endian. the ARM does not check or enforce
// alignment; addresses are passed as calculated by the instruction.
//
// the ARM does not decide what happens when an address is outside the backing
// storage. see the MemoryFaulter interface.
type Memory interface {
	Read8bit(addr uint32) uint8
	Read16bit(addr uint32) uint16
	Read32bit(addr uint32) uint32
	Write8bit(addr uint32, val uint8)
	Write16bit(addr uint32, val uint16)
	Write32bit(addr uint32, val uint32)
}

// MemoryFaulter is an optional interface for Memory implementations. the ARM
// checks for a fault after every instruction.
type MemoryFaulter interface {
	// MemoryFault returns the most recent access error and clears it. returns
	// nil if there has been no error since the previous call
	MemoryFault() error
}

// Diagnostics is the interface used to report problems that are not part of
// the state of the emulated processor.
type Diagnostics interface {
	// Warning reports the message and returns
	Warning(message string)

	// Error reports the message and terminates the program. implementations
	// used in testing may return, in which case the ARM returns the error
	// that caused the report
	Error(message string)
}

// SoftwareInterruptHook allows the host to service a SWI instruction directly,
// in the manner of a high-level emulated BIOS.
type SoftwareInterruptHook interface {
	// SoftwareInterrupt is called with the comment field of the SWI
	// instruction. returning false means that the interrupt has not been
	// serviced and that the exception should be taken as normal
	SoftwareInterrupt(arm *ARM, comment uint8) (bool, error)
}
