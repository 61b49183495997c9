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
	"io"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/retroarm/thumbcore/curated"
	"github.com/retroarm/thumbcore/hardware"
	"github.com/retroarm/thumbcore/hardware/arm"
	"github.com/retroarm/thumbcore/hardware/preferences"
	"github.com/retroarm/thumbcore/logger"
)

// Sentinal error patterns returned by Run().
const (
	ScriptError  = "script: %v"
	ScriptFailed = "script: %d of %d expectations failed"
)

// Failure is an expectation that was not met.
type Failure struct {
	Position string
	Message  string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Position, f.Message)
}

// Script runs starlark scripts against a machine.
type Script struct {
	prefs  *preferences.Preferences
	diag   arm.Diagnostics
	output io.Writer

	m    *hardware.Machine
	hook arm.SoftwareInterruptHook

	expectations int
	failures     []Failure
}

// NewScript is the preferred method of initialisation for the Script type.
// The prefs and diag arguments can be nil. Output from print() and failures
// are written to output.
func NewScript(prefs *preferences.Preferences, diag arm.Diagnostics, output io.Writer) (*Script, error) {
	s := &Script{
		prefs:  prefs,
		diag:   diag,
		output: output,
	}
	if s.output == nil {
		s.output = io.Discard
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) reset() error {
	m, err := hardware.NewMachine(s.prefs, s.diag)
	if err != nil {
		return err
	}
	s.m = m
	s.m.ARM.SetSoftwareInterruptHook(s.hook)
	return nil
}

// Machine returns the machine the script is driving.
func (s *Script) Machine() *hardware.Machine {
	return s.m
}

// Failures returns the failed expectations of the most recent call to Run().
func (s *Script) Failures() []Failure {
	return s.failures
}

// Run the script. The src argument is the script source as a string or
// []byte, or nil if the script is to be read from the named file.
//
// Returns an error if the script could not be run or if any expectation
// failed.
func (s *Script) Run(filename string, src any) error {
	s.expectations = 0
	s.failures = s.failures[:0]

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(s.output, msg)
		},
	}

	opts := &syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}

	_, err := starlark.ExecFileOptions(opts, thread, filename, src, s.builtins())
	if err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			return curated.Errorf(ScriptError, evalErr.Backtrace())
		}
		return curated.Errorf(ScriptError, err)
	}

	logger.Logf(logger.Allow, "script", "%s: %d expectations", filename, s.expectations)

	if len(s.failures) > 0 {
		return curated.Errorf(ScriptFailed, len(s.failures), s.expectations)
	}

	return nil
}

func (s *Script) fail(thread *starlark.Thread, msg string) {
	f := Failure{
		Position: thread.CallFrame(1).Pos.String(),
		Message:  msg,
	}
	s.failures = append(s.failures, f)
	fmt.Fprintln(s.output, f.String())
}
