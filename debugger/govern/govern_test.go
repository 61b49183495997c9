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

package govern_test

import (
	"testing"

	"github.com/retroarm/thumbcore/debugger/govern"
	"github.com/retroarm/thumbcore/test"
)

func TestState(t *testing.T) {
	test.ExpectEquality(t, govern.Running.String(), "Running")
	test.ExpectEquality(t, govern.Halted.String(), "Halted")
	test.ExpectSuccess(t, govern.Running.Continuing())
	test.ExpectSuccess(t, govern.Paused.Continuing())
	test.ExpectFailure(t, govern.Halted.Continuing())
	test.ExpectFailure(t, govern.Ending.Continuing())
	test.ExpectEquality(t, govern.ModeStep.String(), "Step")
}
