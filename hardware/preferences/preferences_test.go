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

package preferences_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroarm/thumbcore/hardware/preferences"
	"github.com/retroarm/thumbcore/prefs"
	"github.com/retroarm/thumbcore/test"
)

func TestDefaults(t *testing.T) {
	p := preferences.DefaultARMPreferences()
	test.ExpectEquality(t, p.LSR32CarryBit31.Get().(bool), false)
	test.ExpectEquality(t, p.Imm8SignedOverflow.Get().(bool), true)
	test.ExpectEquality(t, p.AbortOnMemoryFault.Get().(bool), false)
	test.ExpectEquality(t, p.LogExecution.Get().(bool), false)

	// default preferences have no file
	test.ExpectFailure(t, p.Save())
	test.ExpectFailure(t, p.Load())

	h := preferences.DefaultPreferences()
	test.ExpectEquality(t, h.MemoryLayout.Get().(string), "gba")
	test.ExpectEquality(t, h.FlatMemorySize.Get().(int), 0x10000)
	test.ExpectFailure(t, h.Save())
}

func TestSaveAndLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	p, err := preferences.NewPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.MemoryLayout.String(), "gba")

	test.ExpectSuccess(t, p.ARM.LogExecution.Set(true))
	test.ExpectSuccess(t, p.MemoryLayout.Set("flat"))
	test.DemandSuccess(t, p.Save())

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(string(data), prefs.WarningBoilerPlate))
	test.ExpectSuccess(t, strings.Contains(string(data), "hardware.arm7.logExecution :: true\n"))
	test.ExpectSuccess(t, strings.Contains(string(data), "hardware.memory.layout :: flat\n"))

	// a new instance sees the saved values
	q, err := preferences.NewPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.ARM.LogExecution.Get().(bool), true)
	test.ExpectEquality(t, q.ARM.Imm8SignedOverflow.Get().(bool), true)
	test.ExpectEquality(t, q.MemoryLayout.String(), "flat")
}

func TestCommandLine(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	prefs.PushCommandLineStack("hardware.arm7.lsr32CarryBit31::true")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewARMPreferences(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.LSR32CarryBit31.Get().(bool), true)
}
