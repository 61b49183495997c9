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

package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/retroarm/thumbcore/diagnostics"
	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/logger"
	"github.com/retroarm/thumbcore/test"
)

func TestWarning(t *testing.T) {
	w := &strings.Builder{}
	d := diagnostics.NewDiagnostics(w, false)
	test.DemandImplements[arm.Diagnostics](t, d)

	d.Warning("memory fault")
	test.ExpectSuccess(t, strings.Contains(w.String(), "level=warning"))
	test.ExpectSuccess(t, strings.Contains(w.String(), `msg="memory fault"`))
	test.ExpectSuccess(t, strings.Contains(w.String(), "component=arm7"))

	// the message is also in the central logger
	l := &strings.Builder{}
	logger.Tail(l, 1)
	test.ExpectEquality(t, l.String(), "warning: memory fault\n")
}

func TestError(t *testing.T) {
	w := &strings.Builder{}
	d := diagnostics.NewDiagnostics(w, false)

	var code = -1
	d.SetExit(func(c int) {
		code = c
	})

	d.WithField("pc", "08000000").Error("undefined instruction")
	test.ExpectEquality(t, code, 1)
	test.ExpectSuccess(t, strings.Contains(w.String(), "level=error"))
	test.ExpectSuccess(t, strings.Contains(w.String(), "pc=08000000"))
}
