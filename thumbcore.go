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

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/retroarm/thumbcore/assembler"
	"github.com/retroarm/thumbcore/debugger"
	"github.com/retroarm/thumbcore/debugger/easyterm"
	"github.com/retroarm/thumbcore/diagnostics"
	"github.com/retroarm/thumbcore/hardware"
	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/hardware/memory"
	"github.com/retroarm/thumbcore/hardware/preferences"
	"github.com/retroarm/thumbcore/logger"
	"github.com/retroarm/thumbcore/modalflag"
	"github.com/retroarm/thumbcore/prefs"
	"github.com/retroarm/thumbcore/script"
	"github.com/retroarm/thumbcore/statsview"
	"github.com/retroarm/thumbcore/translate"
	"github.com/retroarm/thumbcore/version"
)

// exit values
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	// #ctrlc stops the machine. the program then exits normally
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitVal)
}

// launch the mode named in the arguments and return the exit value.
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	echo := md.AddBool("log", false, "echo log entries to stderr")
	showVersion := md.AddBool("version", false, "print version and exit")
	md.AddSubModes("RUN", "STEP", "ASM", "DISASM", "SCRIPT")
	md.AdditionalHelp(translate.From("use -help after a mode for the options of that mode"))

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	if *showVersion {
		fmt.Fprintln(output, version.String())
		return exitOK
	}

	if *echo {
		logger.SetEcho(logger.NewColorizer(os.Stderr))
		defer logger.SetEcho(nil)
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md)

	case "STEP":
		err = step(ctx, md)

	case "ASM":
		err = asm(md)

	case "DISASM":
		err = disasm(md)

	case "SCRIPT":
		err = scriptMode(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* %s\n", translate.From("error in %s mode: %v", md, err))
		return exitModeError
	}

	return exitOK
}

// singleArg returns the only remaining argument, failing if there is not
// exactly one.
func singleArg(md *modalflag.Modes, what string) (string, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return "", fmt.Errorf("%s required for %s mode", what, md)
	case 1:
		return md.GetArg(0), nil
	}
	return "", fmt.Errorf("too many arguments for %s mode", md)
}

// newPreferences loads the hardware preferences from the resource directory.
// values in the override string take precedence over the values on disk.
func newPreferences(override string) *preferences.Preferences {
	if override != "" {
		prefs.PushCommandLineStack(override)
		defer prefs.PopCommandLineStack()
	}

	p, err := preferences.NewPreferences("")
	if err != nil {
		logger.Logf(logger.Allow, "thumbcore", "using default preferences: %v", err)
		return preferences.DefaultPreferences()
	}

	return p
}

// newMachine creates a machine with the program in the named file loaded at
// the origin address.
func newMachine(filename string, origin uint32, override string, output io.Writer, colour bool) (*hardware.Machine, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	diag := diagnostics.NewDiagnostics(output, colour).WithField("program", filepath.Base(filename))

	m, err := hardware.NewMachine(newPreferences(override), diag)
	if err != nil {
		return nil, err
	}

	if err := m.Load(origin, data); err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "thumbcore", "%s: %d bytes at %08x", filename, len(data), origin)

	return m, nil
}

func run(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	origin := md.AddAddress("org", memory.GBAROMOrigin, "load address of the program")
	limit := md.AddInt("limit", 0, "maximum number of instructions to execute (0 for no limit)")
	memviz := md.AddString("memviz", "", "write processor state to graphviz file on halt")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	override := md.AddString("prefs", "", "preferences for this session (key::value; key::value)")
	colour := md.AddBool("colour", false, "colour output")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := singleArg(md, "program file")
	if err != nil {
		return err
	}

	m, err := newMachine(filename, *origin, *override, md.Output, *colour)
	if err != nil {
		return err
	}

	if *stats {
		statsview.Launch(md.Output)
	}

	dbg := debugger.NewDebugger(m, md.Output, *colour)
	dbg.MemvizFile = *memviz

	err = dbg.Run(ctx, *limit)

	if *memviz != "" {
		if dumpErr := dbg.DumpToFile(*memviz); dumpErr != nil {
			logger.Log(logger.Allow, "thumbcore", dumpErr)
		}
	}

	return err
}

func step(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	origin := md.AddAddress("org", memory.GBAROMOrigin, "load address of the program")
	memviz := md.AddString("memviz", "", "graphviz file for the state dump command")
	override := md.AddString("prefs", "", "preferences for this session (key::value; key::value)")
	colour := md.AddBool("colour", true, "colour output")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := singleArg(md, "program file")
	if err != nil {
		return err
	}

	m, err := newMachine(filename, *origin, *override, md.Output, *colour)
	if err != nil {
		return err
	}

	term, err := easyterm.NewTerminal()
	if err != nil {
		return err
	}
	defer func() {
		if err := term.CleanUp(); err != nil {
			logger.Log(logger.Allow, "thumbcore", err)
		}
	}()

	dbg := debugger.NewDebugger(m, md.Output, *colour)
	dbg.MemvizFile = *memviz

	return dbg.Step(ctx, term)
}

func asm(md *modalflag.Modes) error {
	md.NewMode()

	origin := md.AddAddress("org", memory.GBAROMOrigin, "origin of the assembled program")
	out := md.AddString("o", "", "write binary to file")
	listing := md.AddBool("listing", false, "print listing even when writing to file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := singleArg(md, "assembly file")
	if err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	prog, err := assembler.NewAssembler(*origin).Assemble(f)
	if err != nil {
		return err
	}

	if *out == "" || *listing {
		if _, err := io.WriteString(md.Output, prog.String()); err != nil {
			return err
		}
	}

	if *out != "" {
		b := prog.Bytes()
		if err := os.WriteFile(*out, b, 0644); err != nil {
			return err
		}
		fmt.Fprintln(md.Output, translate.From("%d bytes written to %s", len(b), *out))
	}

	return nil
}

func disasm(md *modalflag.Modes) error {
	md.NewMode()

	origin := md.AddAddress("org", memory.GBAROMOrigin, "address of the first instruction")
	csv := md.AddBool("csv", false, "output as semicolon separated values")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := singleArg(md, "program file")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	// a trailing odd byte is not an instruction
	opcodes := make([]uint16, len(data)/2)
	for i := range opcodes {
		opcodes[i] = binary.LittleEndian.Uint16(data[i*2:])
	}

	for _, e := range arm.DisassembleBlock(*origin, opcodes) {
		if *csv {
			fmt.Fprintln(md.Output, e.CSV())
			continue
		}

		var op string
		if e.Is32bit {
			op = fmt.Sprintf("%04x %04x", e.Opcode, e.OpcodeLo)
		} else {
			op = fmt.Sprintf("%04x", e.Opcode)
		}
		fmt.Fprintln(md.Output, strings.TrimRight(fmt.Sprintf("%s  %-9s  %s", e.Address, op, e.String()), " "))
	}

	return nil
}

func scriptMode(md *modalflag.Modes) error {
	md.NewMode()

	override := md.AddString("prefs", "", "preferences for this session (key::value; key::value)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := singleArg(md, "script file")
	if err != nil {
		return err
	}

	diag := diagnostics.NewDiagnostics(md.Output, false).WithField("script", filepath.Base(filename))

	// undefined instructions are returned to the script by execute() rather
	// than ending the program
	diag.SetExit(func(int) {})

	s, err := script.NewScript(newPreferences(*override), diag, md.Output)
	if err != nil {
		return err
	}

	return s.Run(filename, nil)
}
