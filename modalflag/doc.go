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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes and allows different flags for each mode.
//
// Arguments are given with NewArgs() and parsed one layer at a time with
// Parse(). Flags for a layer are added before the call to Parse(), as are the
// sub-modes that may follow the flags:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "STEP", "ASM")
//	if r, err := md.Parse(); r != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		origin := md.AddAddress("org", 0x08000000, "load address")
//		...
//	}
//
// The first sub-mode in the list is the default mode, used when no sub-mode
// is named on the command line. Sub-mode comparisons are case insensitive.
//
// Path() returns every mode selected so far, separated by a slash, and is
// used in help messages.
//
// Address flags accept any integer syntax accepted by strconv.ParseUint with
// a base of zero. For example, 0x08000000.
package modalflag
