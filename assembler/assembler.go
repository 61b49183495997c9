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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/logger"
)

// Sentinal error patterns returned by the assembler.
const (
	LineError         = "assembler: line %d: %v"
	UnknownMnemonic   = "unknown mnemonic (%s)"
	OperandCount      = "%s: expected %d operands"
	InvalidRegister   = "invalid register (%s)"
	InvalidOperand    = "invalid operand (%s)"
	InvalidExpression = "invalid expression (%s): %v"
	ImmediateRange    = "immediate out of range (%d)"
	ImmediateAlign    = "immediate not aligned (%d)"
	BranchRange       = "branch target out of range (%08x)"
	DuplicateSymbol   = "symbol already defined (%s)"
	EquateSyntax      = ".equ syntax"
)

// a label at the start of a line
var labelPrefix = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):`)

// valid names for equates
var symbolName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Line is a single line of the assembled program.
type Line struct {
	LineNo  int
	Addr    uint32
	Source  string
	Opcodes []uint16
}

// Program is the result of a successful call to Assemble().
type Program struct {
	Origin  uint32
	Lines   []Line
	Labels  map[string]uint32
	Equates map[string]int64
}

// Opcodes returns every opcode in the program in address order.
func (p *Program) Opcodes() []uint16 {
	var o []uint16
	for _, l := range p.Lines {
		o = append(o, l.Opcodes...)
	}
	return o
}

// Bytes returns the program as a little-endian binary image.
func (p *Program) Bytes() []byte {
	var b []byte
	for _, o := range p.Opcodes() {
		b = binary.LittleEndian.AppendUint16(b, o)
	}
	return b
}

// String returns a listing of the program.
func (p *Program) String() string {
	s := strings.Builder{}
	for _, l := range p.Lines {
		var ops string
		switch len(l.Opcodes) {
		case 0:
			ops = ""
		case 1:
			ops = fmt.Sprintf("%04x", l.Opcodes[0])
		default:
			ops = fmt.Sprintf("%04x %04x", l.Opcodes[0], l.Opcodes[1])
		}
		s.WriteString(fmt.Sprintf("%08x  %-9s  %s\n", l.Addr, ops, l.Source))
	}
	return s.String()
}

// statement is a line of source with something to assemble
type statement struct {
	lineno   int
	line     int
	source   string
	mnemonic string
	operands []string
	addr     uint32
}

// Assembler converts Thumb assembly source into opcodes.
type Assembler struct {
	// the address of the first instruction
	Origin uint32

	predefine map[string]int64

	equates map[string]int64
	labels  map[string]uint32
}

// NewAssembler is the preferred method of initialisation for the Assembler type.
func NewAssembler(origin uint32) *Assembler {
	return &Assembler{
		Origin:    origin,
		predefine: make(map[string]int64),
	}
}

// Define an equate that will be available to every subsequent call to
// Assemble().
func (asm *Assembler) Define(name string, value int64) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]int64)
	}
	asm.predefine[name] = value
}

// Assemble the source in two passes. The first pass assigns addresses to labels
// and evaluates equates. The second pass encodes the instructions.
func (asm *Assembler) Assemble(input io.Reader) (*Program, error) {
	asm.equates = make(map[string]int64)
	for k, v := range asm.predefine {
		asm.equates[k] = v
	}
	asm.labels = make(map[string]uint32)

	prog := &Program{
		Origin:  asm.Origin,
		Labels:  asm.labels,
		Equates: asm.equates,
	}

	statements, err := asm.firstPass(input, prog)
	if err != nil {
		return nil, err
	}

	for _, st := range statements {
		prog.Lines[st.line].Opcodes, err = asm.encode(st)
		if err != nil {
			return nil, curated.Errorf(LineError, st.lineno, err)
		}
	}

	logger.Logf(logger.Allow, "assembler", "%d bytes at %08x", len(prog.Bytes()), prog.Origin)

	return prog, nil
}

func (asm *Assembler) firstPass(input io.Reader, prog *Program) ([]statement, error) {
	var statements []statement

	addr := asm.Origin
	lineno := 0

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		line, _, _ := strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		for {
			m := labelPrefix.FindStringSubmatch(line)
			if m == nil {
				break
			}
			if err := asm.defineLabel(m[1], addr); err != nil {
				return nil, curated.Errorf(LineError, lineno, err)
			}
			line = strings.TrimSpace(line[len(m[0]):])
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: lineno,
			Addr:   addr,
			Source: strings.TrimRightFunc(text, func(r rune) bool { return r == ' ' || r == '\t' }),
		})

		if line == "" {
			continue
		}

		mnemonic, rest := splitWord(line)
		mnemonic = strings.ToUpper(mnemonic)

		if mnemonic == ".EQU" {
			if err := asm.defineEquate(rest, addr); err != nil {
				return nil, curated.Errorf(LineError, lineno, err)
			}
			continue
		}

		st := statement{
			lineno:   lineno,
			line:     len(prog.Lines) - 1,
			source:   line,
			mnemonic: mnemonic,
			operands: splitOperands(rest),
			addr:     addr,
		}
		statements = append(statements, st)

		addr += size(st)
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(LineError, lineno, err)
	}

	return statements, nil
}

// splitWord returns the first word of the string and the remainder
func splitWord(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// size of the statement in bytes
func size(st statement) uint32 {
	switch st.mnemonic {
	case ".HWORD":
		return uint32(len(st.operands)) * 2
	case ".WORD":
		return uint32(len(st.operands)) * 4
	case "BL":
		return 4
	}
	return 2
}

func (asm *Assembler) defineLabel(name string, addr uint32) error {
	if _, ok := asm.labels[name]; ok {
		return curated.Errorf(DuplicateSymbol, name)
	}
	if _, ok := asm.equates[name]; ok {
		return curated.Errorf(DuplicateSymbol, name)
	}
	asm.labels[name] = addr
	return nil
}

// equates are evaluated in the first pass and so can only refer to symbols
// that have already been defined
func (asm *Assembler) defineEquate(operands string, addr uint32) error {
	name, expr := splitWord(operands)
	name = strings.TrimSuffix(name, ",")
	if expr == "" || !symbolName.MatchString(name) {
		return curated.Errorf(EquateSyntax)
	}

	if _, ok := asm.equates[name]; ok {
		return curated.Errorf(DuplicateSymbol, name)
	}
	if _, ok := asm.labels[name]; ok {
		return curated.Errorf(DuplicateSymbol, name)
	}

	v, err := asm.evaluate(strings.TrimPrefix(expr, "#"), addr)
	if err != nil {
		return err
	}
	asm.equates[name] = v
	return nil
}
