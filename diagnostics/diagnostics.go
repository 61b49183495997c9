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

// Package diagnostics implements the Diagnostics interface of the arm package.
// Messages are written through a logrus logger and are also recorded in the
// central logger.
//
// An error terminates the program with a call to os.Exit(1). The exit
// function can be replaced with SetExit(), which is useful for testing.
package diagnostics

import (
	"io"
	"os"

	"github.com/retroarm/thumbcore/logger"
	"github.com/sirupsen/logrus"
)

// Diagnostics reports warnings and errors.
type Diagnostics struct {
	log  *logrus.Logger
	exit func(code int)

	// fields added to every message
	fields logrus.Fields
}

// NewDiagnostics is the preferred method of initialisation for the
// Diagnostics type. Messages are written to output. Colours are used if
// colour is true.
func NewDiagnostics(output io.Writer, colour bool) *Diagnostics {
	log := logrus.New()
	log.SetOutput(output)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      colour,
		DisableColors:    !colour,
		DisableTimestamp: true,
	})

	return &Diagnostics{
		log:    log,
		exit:   os.Exit,
		fields: logrus.Fields{"component": "arm7"},
	}
}

// SetExit replaces the function called by Error(). A nil value restores
// os.Exit().
func (d *Diagnostics) SetExit(exit func(code int)) {
	if exit == nil {
		exit = os.Exit
	}
	d.exit = exit
}

// WithField returns a copy of Diagnostics that adds the field to every
// message.
func (d *Diagnostics) WithField(key string, value any) *Diagnostics {
	n := *d
	n.fields = make(logrus.Fields, len(d.fields)+1)
	for k, v := range d.fields {
		n.fields[k] = v
	}
	n.fields[key] = value
	return &n
}

// Warning implements the arm.Diagnostics interface.
func (d *Diagnostics) Warning(message string) {
	logger.Log(logger.Allow, "warning", message)
	d.log.WithFields(d.fields).Warn(message)
}

// Error implements the arm.Diagnostics interface. The program is terminated
// after the message has been written.
func (d *Diagnostics) Error(message string) {
	logger.Log(logger.Allow, "error", message)
	d.log.WithFields(d.fields).Error(message)
	d.exit(1)
}
