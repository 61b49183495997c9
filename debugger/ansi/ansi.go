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

// Package ansi defines ANSI control codes for styles and colours.
package ansi

import (
	"fmt"
	"strings"
)

// ansi target.
const (
	targetPen       = 3
	targetPaper     = 4
	targetBrightPen = 9
)

// ansi attribute.
const (
	attrBold      = 1
	attrUnderline = 4
	attrInverse   = 7
)

// colour names in the order of their ANSI number.
var colours = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Pens is the table of colors to be used for text.
var Pens map[string]string

// DimPens is the table of pastel colors to be used for text.
var DimPens map[string]string

// PenStyles is the table of styles to be used for text.
var PenStyles map[string]string

// NormalPen is the CSI sequence for regular text.
const NormalPen = "\033[m"

func init() {
	Pens = make(map[string]string)
	DimPens = make(map[string]string)
	PenStyles = make(map[string]string)

	for _, c := range colours[1:] {
		Pens[c], _ = ColorBuild(c, "", "", true)
		DimPens[c], _ = ColorBuild(c, "", "", false)
	}

	PenStyles["bold"], _ = ColorBuild("", "", "bold", false)
	PenStyles["underline"], _ = ColorBuild("", "", "underline", false)
	PenStyles["inverse"], _ = ColorBuild("", "", "inverse", false)
}

func colour(name string) (int, bool) {
	for i, c := range colours {
		if strings.EqualFold(c, name) {
			return i, true
		}
	}
	return 0, false
}

// ColorBuild creates the ANSI sequence to create the pen with the correct
// foreground/background color and attribute.
func ColorBuild(pen, paper, attribute string, brightPen bool) (string, error) {
	var codes []string

	if pen != "" {
		c, ok := colour(pen)
		if !ok {
			return "", fmt.Errorf("unknown ANSI pen (%s)", pen)
		}
		target := targetPen
		if brightPen {
			target = targetBrightPen
		}
		codes = append(codes, fmt.Sprintf("%d%d", target, c))
	}

	if paper != "" {
		c, ok := colour(paper)
		if !ok {
			return "", fmt.Errorf("unknown ANSI paper (%s)", paper)
		}
		codes = append(codes, fmt.Sprintf("%d%d", targetPaper, c))
	}

	switch strings.ToLower(attribute) {
	case "bold":
		codes = append(codes, fmt.Sprintf("%d", attrBold))
	case "underline":
		codes = append(codes, fmt.Sprintf("%d", attrUnderline))
	case "inverse":
		codes = append(codes, fmt.Sprintf("%d", attrInverse))
	case "":
	default:
		return "", fmt.Errorf("unknown ANSI attribute (%s)", attribute)
	}

	return fmt.Sprintf("\033[%sm", strings.Join(codes, ";")), nil
}

// ClearLine is the CSI sequence to clear the entire of the current line.
const ClearLine = "\033[2K"

// CursorUp is the CSI sequence to move the cursor up n lines.
func CursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\033[%dA", n)
}
