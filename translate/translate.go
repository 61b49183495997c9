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

// Package translate prepares user facing messages for the language of the
// host. Messages are written as en-US fmt patterns and are passed to From()
// along with the values for the pattern.
//
// Translations for other languages are added to the catalog with
// golang.org/x/text/message.SetString().
package translate

import (
	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/retroarm/thumbcore/logger"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		logger.Logf(logger.Allow, "translate", "%v", err)
	}
	SetLanguage(locales...)
}

// SetLanguage chooses the best match for the list of locales. If the list is
// empty then en-US is used.
func SetLanguage(locales ...string) {
	if len(locales) == 0 {
		locales = []string{language.AmericanEnglish.String()}
	}
	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() pattern, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
