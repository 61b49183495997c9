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
	"errors"

	"github.com/retroarm/thumbcore/prefs"
	"github.com/retroarm/thumbcore/resources"
)

var errNoDisk = errors.New("preferences: not associated with a preferences file")

// Preferences collates all the preference values used by the hardware.
type Preferences struct {
	dsk *prefs.Disk

	ARM *ARMPreferences

	// the memory layout used by the command line tools. "gba" or "flat"
	MemoryLayout prefs.String

	// the size in bytes of the flat memory layout
	FlatMemorySize prefs.Int
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return p.ARM.String()
	}
	return p.dsk.String() + p.ARM.String()
}

// DefaultPreferences returns preferences with default values that are not
// associated with a preferences file.
func DefaultPreferences() *Preferences {
	p := &Preferences{
		ARM: DefaultARMPreferences(),
	}
	p.SetDefaults()
	return p
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. An empty path means the default preferences file in the resource
// directory.
func NewPreferences(path string) (*Preferences, error) {
	if path == "" {
		var err error
		path, err = resources.JoinPath(prefs.DefaultPrefsFile)
		if err != nil {
			return nil, err
		}
	}

	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.ARM, err = NewARMPreferences(path)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.memory.layout", &p.MemoryLayout)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.memory.flatSize", &p.FlatMemorySize)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts the memory settings to the default values. ARM
// preferences are not affected.
func (p *Preferences) SetDefaults() {
	p.MemoryLayout.Set("gba")
	p.FlatMemorySize.Set(0x10000)
}

// Load current hardware preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return errNoDisk
	}
	if err := p.ARM.Load(); err != nil {
		return err
	}
	return p.dsk.Load()
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return errNoDisk
	}
	if err := p.ARM.Save(); err != nil {
		return err
	}
	return p.dsk.Save()
}
