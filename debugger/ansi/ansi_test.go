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

package ansi_test

import (
	"testing"

	"github.com/retroarm/thumbcore/debugger/ansi"
	"github.com/retroarm/thumbcore/test"
)

func TestColorBuild(t *testing.T) {
	s, err := ansi.ColorBuild("red", "", "", true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[91m")

	s, err = ansi.ColorBuild("green", "black", "bold", false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[32;40;1m")

	_, err = ansi.ColorBuild("purple", "", "", false)
	test.ExpectFailure(t, err)

	test.ExpectEquality(t, ansi.Pens["blue"], "\033[94m")
	test.ExpectEquality(t, ansi.DimPens["white"], "\033[37m")
	test.ExpectEquality(t, ansi.CursorUp(0), "")
	test.ExpectEquality(t, ansi.CursorUp(3), "\033[3A")
}
