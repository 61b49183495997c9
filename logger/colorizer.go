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

package logger

import (
	"io"
	"strings"

	"github.com/retroarm/thumbcore/debugger/ansi"
)

// Colorizer applies basic coloring rules to logging output. the tag of each
// entry is written with the tag pen and entries from the ARM are dimmed.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method if initialisation for the Colorizer type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	for _, l := range strings.SplitAfter(string(p), "\n") {
		if l == "" {
			continue
		}

		tag, detail, ok := strings.Cut(l, ": ")
		if !ok {
			if _, err := io.WriteString(c.out, l); err != nil {
				return 0, err
			}
			continue
		}

		pen := ansi.Pens["blue"]
		if tag == "ARM7" {
			pen = ansi.DimPens["white"]
		}

		if _, err := io.WriteString(c.out, pen+tag+ansi.NormalPen+": "+detail); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}
