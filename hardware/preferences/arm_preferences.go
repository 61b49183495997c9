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

package preferences

import (
	"github.com/retroarm/thumbcore/prefs"
	"github.com/retroarm/thumbcore/resources"
)

// ARMPreferences are the preference values that affect the execution of
// Thumb instructions.
type ARMPreferences struct {
	dsk *prefs.Disk

	// an LSR by exactly 32 takes the carry from bit 31 rather than bit 0. the
	// default of bit 0 matches the behaviour observed in other emulators
	LSR32CarryBit31 prefs.Bool

	// the overflow flag of "ADD Rd, #Offset8" treats bit 7 of the offset as
	// the sign of the operand
	Imm8SignedOverflow prefs.Bool

	// abort conditions for memory faults
	AbortOnMemoryFault prefs.Bool

	// log every executed instruction to the central logger
	LogExecution prefs.Bool
}

func (p *ARMPreferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// DefaultARMPreferences returns preferences with the default values. The
// preferences are not associated with a file on disk and the Load() and
// Save() functions will return an error.
func DefaultARMPreferences() *ARMPreferences {
	p := &ARMPreferences{}
	p.SetDefaults()
	return p
}

// NewARMPreferences is the preferred method of initialisation for the
// ARMPreferences type. The path argument is the preferences file. An empty
// path means the default preferences file in the resource directory.
func NewARMPreferences(path string) (*ARMPreferences, error) {
	p := &ARMPreferences{}
	p.SetDefaults()

	if path == "" {
		var err error
		path, err = resources.JoinPath(prefs.DefaultPrefsFile)
		if err != nil {
			return nil, err
		}
	}

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.lsr32CarryBit31", &p.LSR32CarryBit31)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.imm8SignedOverflow", &p.Imm8SignedOverflow)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.abortOnMemoryFault", &p.AbortOnMemoryFault)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.logExecution", &p.LogExecution)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *ARMPreferences) SetDefaults() {
	p.LSR32CarryBit31.Set(false)
	p.Imm8SignedOverflow.Set(true)
	p.AbortOnMemoryFault.Set(false)
	p.LogExecution.Set(false)
}

// Load current arm preference from disk.
func (p *ARMPreferences) Load() error {
	if p.dsk == nil {
		return errNoDisk
	}
	return p.dsk.Load()
}

// Save current arm preferences to disk.
func (p *ARMPreferences) Save() error {
	if p.dsk == nil {
		return errNoDisk
	}
	return p.dsk.Save()
}
