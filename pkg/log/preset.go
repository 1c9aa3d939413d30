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

package log

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Preset names a ready-made zerolog setup
type Preset string

const (
	// PresetConsole logs info and above to the console.
	PresetConsole Preset = "console"
	// PresetConsoleDebug logs everything to the console.
	PresetConsoleDebug Preset = "console_debug"
	// PresetConsoleInfoFileDebug logs info to the console and everything to a file.
	PresetConsoleInfoFileDebug Preset = "console_info_file_debug"
	// PresetJSONDebug logs everything as JSON lines.
	PresetJSONDebug Preset = "json_debug"
)

// DefaultDebugFile is where PresetConsoleInfoFileDebug writes without a File.
const DefaultDebugFile = "reshelve_debug.log"

// Presets returns the known preset names, sorted.
func Presets() []string {
	out := []string{
		string(PresetConsole),
		string(PresetConsoleDebug),
		string(PresetConsoleInfoFileDebug),
		string(PresetJSONDebug),
	}
	sort.Strings(out)
	return out
}

// PresetOptions configures NewZerolog
type PresetOptions struct {
	// Out receives console or JSON output. Defaults to stderr.
	Out io.Writer
	// File is the debug log for PresetConsoleInfoFileDebug.
	File    string
	NoColor bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// 🏭 NewZerolog builds a logger for preset. The closer releases any file the
// preset opened and must be called when logging is done.
func NewZerolog(preset Preset, opts PresetOptions) (zerolog.Logger, io.Closer, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor, TimeFormat: time.Kitchen}

	switch preset {
	case PresetConsole, "":
		return zerolog.New(console).With().Timestamp().Logger().Level(zerolog.InfoLevel), nopCloser{}, nil

	case PresetConsoleDebug:
		return zerolog.New(console).With().Timestamp().Logger().Level(zerolog.DebugLevel), nopCloser{}, nil

	case PresetJSONDebug:
		return zerolog.New(out).With().Timestamp().Logger().Level(zerolog.DebugLevel), nopCloser{}, nil

	case PresetConsoleInfoFileDebug:
		path := opts.File
		if path == "" {
			path = DefaultDebugFile
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, errors.Errorf("opening debug log %s: %w", path, err)
		}
		w := zerolog.MultiLevelWriter(
			minLevelWriter{w: console, min: zerolog.InfoLevel},
			f,
		)
		return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.DebugLevel), f, nil

	default:
		return zerolog.Nop(), nil, errors.Errorf("unknown log preset %q (want one of %v)", preset, Presets())
	}
}

// minLevelWriter drops events below min.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}
