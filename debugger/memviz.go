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

package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
)

// Dump writes a graphviz representation of the processor state.
func (dbg *Debugger) Dump(w io.Writer) {
	memviz.Map(w, dbg.m.ARM.Snapshot())
}

// DumpToFile writes the output of Dump() to the named file.
func (dbg *Debugger) DumpToFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("debugger: no file for state dump")
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	defer f.Close()

	dbg.Dump(f)

	return nil
}
