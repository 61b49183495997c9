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

package script

import (
	"fmt"
	"math"
	"strings"

	"go.starlark.net/starlark"

	"github.com/retroarm/thumbcore/assembler"
	"github.com/retroarm/thumbcore/hardware/arm"
)

const defaultRunLimit = 100000

func (s *Script) builtins() starlark.StringDict {
	b := starlark.StringDict{
		"SP":     starlark.MakeInt(13),
		"LR":     starlark.MakeInt(14),
		"PC":     starlark.MakeInt(15),
		"ORIGIN": starlark.MakeUint64(uint64(s.m.Origin())),
	}

	for name, fn := range map[string]func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error){
		"reset":     s.builtinReset,
		"reg":       s.builtinReg,
		"set_reg":   s.builtinSetReg,
		"flag":      s.builtinFlag,
		"set_flag":  s.builtinSetFlag,
		"thumb":     s.builtinThumb,
		"execute":   s.builtinExecute,
		"step":      s.builtinStep,
		"run":       s.builtinRun,
		"asm":       s.builtinAsm,
		"load":      s.builtinLoad,
		"read8":     s.builtinRead(1),
		"read16":    s.builtinRead(2),
		"read32":    s.builtinRead(4),
		"write8":    s.builtinWrite(1),
		"write16":   s.builtinWrite(2),
		"write32":   s.builtinWrite(4),
		"on_swi":    s.builtinOnSWI,
		"expect":    s.builtinExpect,
		"expect_eq": s.builtinExpectEq,
	} {
		b[name] = starlark.NewBuiltin(name, fn)
	}

	return b
}

// toUint32 accepts any starlark int that fits in 32 bits. negative values are
// converted to their two's complement form
func toUint32(v starlark.Value) (uint32, error) {
	var i int64
	if err := starlark.AsInt(v, &i); err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxUint32 {
		return 0, fmt.Errorf("value out of range (%d)", i)
	}
	return uint32(i), nil
}

func uintValue(v uint32) starlark.Value {
	return starlark.MakeUint64(uint64(v))
}

// result converts an error into the return value of execute(), step() and run()
func result(err error) starlark.Value {
	if err != nil {
		return starlark.String(err.Error())
	}
	return starlark.None
}

func (s *Script) builtinReset(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.None, s.reset()
}

func register(b *starlark.Builtin, v starlark.Value) (int, error) {
	var r int
	if err := starlark.AsInt(v, &r); err != nil {
		return 0, err
	}
	if r < 0 || r >= arm.NumRegisters {
		return 0, fmt.Errorf("%s: no register %d", b.Name(), r)
	}
	return r, nil
}

func (s *Script) builtinReg(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &n); err != nil {
		return nil, err
	}
	r, err := register(b, n)
	if err != nil {
		return nil, err
	}
	return uintValue(s.m.ARM.Register(r)), nil
}

func (s *Script) builtinSetReg(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n, v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &n, &v); err != nil {
		return nil, err
	}
	r, err := register(b, n)
	if err != nil {
		return nil, err
	}
	val, err := toUint32(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	s.m.ARM.SetRegister(r, val)
	return starlark.None, nil
}

// flagAccess returns the getter and setter for the named flag
func (s *Script) flagAccess(b *starlark.Builtin, name string) (func() bool, func(bool), error) {
	st := s.m.ARM.Status()
	switch strings.ToUpper(name) {
	case "N":
		return st.Negative, st.SetNegative, nil
	case "Z":
		return st.Zero, st.SetZero, nil
	case "C":
		return st.Carry, st.SetCarry, nil
	case "V":
		return st.Overflow, st.SetOverflow, nil
	case "T":
		return st.Thumb, st.SetThumb, nil
	}
	return nil, nil, fmt.Errorf("%s: no flag %q", b.Name(), name)
}

func (s *Script) builtinFlag(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	get, _, err := s.flagAccess(b, name)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(get()), nil
}

func (s *Script) builtinSetFlag(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var v bool
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &name, &v); err != nil {
		return nil, err
	}
	_, set, err := s.flagAccess(b, name)
	if err != nil {
		return nil, err
	}
	set(v)
	return starlark.None, nil
}

func (s *Script) builtinThumb(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Bool(s.m.ARM.Status().Thumb()), nil
}

// the opcode is treated as though it had been fetched from the address in PC.
// PC is advanced before the opcode is executed
func (s *Script) builtinExecute(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	var opcode uint16
	if err := starlark.AsInt(v, &opcode); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	s.m.ARM.SetRegister(15, s.m.ARM.Register(15)+2)
	return result(s.m.ARM.Execute(opcode)), nil
}

func (s *Script) builtinStep(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	n := 1
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n?", &n); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := s.m.Step(); err != nil {
			return result(err), nil
		}
	}
	return starlark.None, nil
}

func (s *Script) builtinRun(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	limit := defaultRunLimit
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "limit?", &limit); err != nil {
		return nil, err
	}
	_, err := s.m.RunForInstructionCount(limit, nil)
	return result(err), nil
}

func (s *Script) builtinAsm(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	var org starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text, "org?", &org); err != nil {
		return nil, err
	}

	origin := s.m.ARM.Register(15)
	if org != starlark.None {
		var err error
		origin, err = toUint32(org)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
	}

	prog, err := assembler.NewAssembler(origin).Assemble(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	var l []starlark.Value
	for _, o := range prog.Opcodes() {
		l = append(l, starlark.MakeInt(int(o)))
	}
	return starlark.NewList(l), nil
}

func (s *Script) builtinLoad(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var opcodes *starlark.List
	var addr starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &opcodes, &addr); err != nil {
		return nil, err
	}
	a, err := toUint32(addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	data := make([]byte, 0, opcodes.Len()*2)
	for i := 0; i < opcodes.Len(); i++ {
		var o uint16
		if err := starlark.AsInt(opcodes.Index(i), &o); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		data = append(data, uint8(o), uint8(o>>8))
	}

	return starlark.None, s.m.Mem.Load(a, data)
}

func (s *Script) builtinRead(size int) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr); err != nil {
			return nil, err
		}
		a, err := toUint32(addr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}

		var v uint32
		switch size {
		case 1:
			v = uint32(s.m.Mem.Read8bit(a))
		case 2:
			v = uint32(s.m.Mem.Read16bit(a))
		default:
			v = s.m.Mem.Read32bit(a)
		}

		if err := s.m.Mem.MemoryFault(); err != nil {
			return nil, err
		}
		return uintValue(v), nil
	}
}

func (s *Script) builtinWrite(size int) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr, val starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &addr, &val); err != nil {
			return nil, err
		}
		a, err := toUint32(addr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		v, err := toUint32(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}

		switch size {
		case 1:
			s.m.Mem.Write8bit(a, uint8(v))
		case 2:
			s.m.Mem.Write16bit(a, uint16(v))
		default:
			s.m.Mem.Write32bit(a, v)
		}

		if err := s.m.Mem.MemoryFault(); err != nil {
			return nil, err
		}
		return starlark.None, nil
	}
}

// swiHook services software interrupts with a starlark function
type swiHook struct {
	thread *starlark.Thread
	fn     starlark.Callable
}

func (h swiHook) SoftwareInterrupt(_ *arm.ARM, comment uint8) (bool, error) {
	v, err := starlark.Call(h.thread, h.fn, starlark.Tuple{starlark.MakeInt(int(comment))}, nil)
	if err != nil {
		return false, err
	}
	return bool(v.Truth()), nil
}

func (s *Script) builtinOnSWI(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &fn); err != nil {
		return nil, err
	}

	switch fn := fn.(type) {
	case starlark.NoneType:
		s.hook = nil
	case starlark.Callable:
		s.hook = swiHook{thread: thread, fn: fn}
	default:
		return nil, fmt.Errorf("%s: %s is not callable", b.Name(), fn.Type())
	}

	s.m.ARM.SetSoftwareInterruptHook(s.hook)
	return starlark.None, nil
}

func (s *Script) builtinExpect(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cond starlark.Value
	var msg string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "cond", &cond, "msg?", &msg); err != nil {
		return nil, err
	}

	s.expectations++
	if !cond.Truth() {
		if msg == "" {
			msg = "expectation failed"
		}
		s.fail(thread, msg)
	}
	return starlark.None, nil
}

func (s *Script) builtinExpectEq(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var got, want starlark.Value
	var msg string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "got", &got, "want", &want, "msg?", &msg); err != nil {
		return nil, err
	}

	s.expectations++

	eq, err := starlark.Equal(got, want)
	if err != nil {
		return nil, err
	}
	if !eq {
		detail := fmt.Sprintf("got %s, want %s", format(got), format(want))
		if msg != "" {
			detail = fmt.Sprintf("%s: %s", msg, detail)
		}
		s.fail(thread, detail)
	}
	return starlark.None, nil
}

// format ints as hex, which is more useful for register and memory values
func format(v starlark.Value) string {
	if i, ok := v.(starlark.Int); ok {
		if u, ok := i.Uint64(); ok {
			return fmt.Sprintf("%#x", u)
		}
	}
	return v.String()
}
