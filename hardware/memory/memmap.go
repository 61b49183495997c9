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

package memory

import (
	"fmt"
	"strings"
)

// MemoryMap returns the region layout of the bus as a string.
func (b *Bus) MemoryMap() string {
	s := strings.Builder{}
	s.WriteString("Memory Map\n----------\n")

	for _, r := range b.regions {
		ro := ""
		if r.readOnly {
			ro = " (ro)"
		}
		s.WriteString(fmt.Sprintf("%08x -> %08x\t%s%s\n", r.origin, r.memtop, r.label, ro))
	}

	return s.String()
}
