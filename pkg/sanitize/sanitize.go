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

// Package sanitize turns arbitrary strings into names that are safe to use
// as a single path segment on every common filesystem.
package sanitize

import (
	"strings"
)

// stripped lists the characters removed outright.
const stripped = "/\\:*?\"<>|`%&="

var umlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// 🚫 reserved holds the Windows device names that cannot be used as names
var reserved = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// 🧼 Filename returns name rewritten to be filesystem safe.
//
// Rules are applied in order: spaces become underscores, the characters
// / \ : * ? " < > | ` % & = are dropped, German umlauts are transliterated,
// reserved device names get a "_safe" suffix and trailing periods and
// spaces are trimmed. The result may be empty.
func Filename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")

	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripped, r) {
			return -1
		}
		return r
	}, name)

	name = umlauts.Replace(name)

	if _, ok := reserved[strings.ToUpper(name)]; ok {
		name += "_safe"
	}

	return strings.TrimRight(name, ". ")
}
