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

package assembler

import (
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/retroarm/thumbcore/curated"
)

// register numbers with special names
const (
	regSP = 13
	regLR = 14
	regPC = 15
)

// splitOperands divides the operand string at commas that are not inside
// brackets or braces
func splitOperands(s string) []string {
	var ops []string

	s = strings.TrimSpace(s)
	if s == "" {
		return ops
	}

	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case ',':
			if depth == 0 {
				ops = append(ops, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	return append(ops, strings.TrimSpace(s[start:]))
}

// parseRegister returns the register number of the named register. the names
// R0 to R15 are accepted along with SP, LR and PC
func parseRegister(s string) (uint8, bool) {
	switch strings.ToUpper(s) {
	case "SP":
		return regSP, true
	case "LR":
		return regLR, true
	case "PC":
		return regPC, true
	}
	if len(s) < 2 || (s[0] != 'R' && s[0] != 'r') {
		return 0, false
	}
	n, err := strconv.ParseUint(s[1:], 10, 8)
	if err != nil || n > 15 {
		return 0, false
	}
	return uint8(n), true
}

func isRegister(s string) bool {
	_, ok := parseRegister(s)
	return ok
}

func register(s string) (uint8, error) {
	r, ok := parseRegister(s)
	if !ok {
		return 0, curated.Errorf(InvalidRegister, s)
	}
	return r, nil
}

// lowRegister accepts only R0 to R7
func lowRegister(s string) (uint8, error) {
	r, ok := parseRegister(s)
	if !ok || r > 7 {
		return 0, curated.Errorf(InvalidRegister, s)
	}
	return r, nil
}

func isImmediate(s string) bool {
	return strings.HasPrefix(s, "#")
}

// immediate evaluates an operand of the form #expr
func (asm *Assembler) immediate(s string, pc uint32) (int64, error) {
	if !isImmediate(s) {
		return 0, curated.Errorf(InvalidOperand, s)
	}
	return asm.evaluate(strings.TrimSpace(s[1:]), pc)
}

// ranged evaluates an immediate and checks that it is in the range lo to hi
// and a multiple of align
func (asm *Assembler) ranged(s string, pc uint32, lo int64, hi int64, align int64) (int64, error) {
	v, err := asm.immediate(s, pc)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, curated.Errorf(ImmediateRange, v)
	}
	if v%align != 0 {
		return 0, curated.Errorf(ImmediateAlign, v)
	}
	return v, nil
}

// evaluate the expression with starlark. equates, labels and the current
// address are predeclared
func (asm *Assembler) evaluate(expr string, pc uint32) (int64, error) {
	if expr == "" {
		return 0, curated.Errorf(InvalidExpression, expr, "empty")
	}

	pred := make(starlark.StringDict, len(asm.equates)+len(asm.labels)+1)
	for k, v := range asm.equates {
		pred[k] = starlark.MakeInt64(v)
	}
	for k, v := range asm.labels {
		pred[k] = starlark.MakeUint64(uint64(v))
	}
	pred["pc"] = starlark.MakeUint64(uint64(pc))

	thread := &starlark.Thread{Name: "assembler"}
	prog := "rc = " + expr + "\n"

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, "expr", prog, pred)
	if err != nil {
		return 0, curated.Errorf(InvalidExpression, expr, err)
	}

	switch rc := globals["rc"].(type) {
	case starlark.Int:
		v, ok := rc.Int64()
		if !ok {
			return 0, curated.Errorf(InvalidExpression, expr, "too large")
		}
		return v, nil
	case starlark.Bool:
		if rc {
			return 1, nil
		}
		return 0, nil
	}

	return 0, curated.Errorf(InvalidExpression, expr, "not an integer")
}

// memory splits an operand of the form [Rb, X] into its parts
func memory(s string) ([]string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, curated.Errorf(InvalidOperand, s)
	}
	parts := splitOperands(s[1 : len(s)-1])
	if len(parts) == 0 || len(parts) > 2 {
		return nil, curated.Errorf(InvalidOperand, s)
	}
	return parts, nil
}

// registerList parses an operand of the form {R0-R3, R5, LR}. the extra
// register is the one high register allowed in the list, zero if none is
// allowed. the second return value is true if the extra register is in the list
func registerList(s string, extra uint8) (uint8, bool, error) {
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return 0, false, curated.Errorf(InvalidOperand, s)
	}

	var list uint8
	var withExtra bool

	for _, item := range splitOperands(s[1 : len(s)-1]) {
		if lo, hi, ok := strings.Cut(item, "-"); ok {
			l, err := lowRegister(strings.TrimSpace(lo))
			if err != nil {
				return 0, false, err
			}
			h, err := lowRegister(strings.TrimSpace(hi))
			if err != nil {
				return 0, false, err
			}
			if l > h {
				return 0, false, curated.Errorf(InvalidOperand, item)
			}
			for r := l; r <= h; r++ {
				list |= 1 << r
			}
			continue
		}

		r, err := register(item)
		if err != nil {
			return 0, false, err
		}
		switch {
		case r <= 7:
			list |= 1 << r
		case extra != 0 && r == extra:
			withExtra = true
		default:
			return 0, false, curated.Errorf(InvalidRegister, item)
		}
	}

	return list, withExtra, nil
}
