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

// Package easyterm is a wrapper for "github.com/pkg/term". It puts the
// controlling terminal into cbreak mode so that single key presses can be
// read without waiting for a carriage return, and restores the terminal
// afterwards.
package easyterm

import (
	"fmt"

	"github.com/pkg/term"
)

// the device opened by NewTerminal()
const ttyDevice = "/dev/tty"

// Terminal reads single key presses from the controlling terminal.
type Terminal struct {
	tty *term.Term
}

// NewTerminal opens the controlling terminal and puts it into cbreak mode.
// CleanUp() must be called to restore the terminal.
func NewTerminal() (*Terminal, error) {
	tty, err := term.Open(ttyDevice)
	if err != nil {
		return nil, fmt.Errorf("easyterm: %w", err)
	}

	if err := tty.SetCbreak(); err != nil {
		tty.Close()
		return nil, fmt.Errorf("easyterm: %w", err)
	}

	return &Terminal{tty: tty}, nil
}

// CleanUp restores the terminal to the mode it was in before NewTerminal()
// and closes it.
func (pt *Terminal) CleanUp() error {
	if err := pt.tty.Restore(); err != nil {
		pt.tty.Close()
		return fmt.Errorf("easyterm: %w", err)
	}
	return pt.tty.Close()
}

// ReadKey blocks until a key is pressed. Escape sequences are returned one
// byte at a time.
func (pt *Terminal) ReadKey() (byte, error) {
	b := make([]byte, 1)
	for {
		n, err := pt.tty.Read(b)
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return b[0], nil
		}
	}
}
