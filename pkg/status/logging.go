// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent entries
	nameWidth    = 35 // Base width for the source
	kindWidth    = 8  // Width for entry kind
	outcomeWidth = 20 // Width for outcome text
)

// 🎯 FormatEntryLine formats an applied entry as one aligned console row
func FormatEntryLine(r Result) string {
	var prefix string
	switch {
	case r.Outcome.Failed():
		prefix = color.RedString("✗")
	case r.Outcome == Deleted:
		prefix = color.GreenString("➜")
	case r.Outcome == Copied:
		prefix = color.GreenString("✓")
	case r.Outcome == Planned:
		prefix = color.YellowString("~")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, r.Src.String())
	kindPart := fmt.Sprintf("%-*s", kindWidth, r.Kind.String())
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, r.Outcome.String())

	line := fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		kindPart,
		outcomePart,
		r.Dst.String(),
	)
	if r.Err != nil {
		line += " " + color.RedString("(%v)", r.Err)
	}
	return line
}
