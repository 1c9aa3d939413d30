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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_entry",
			op: func(t *testing.T, logger *Logger) {
				logger.LogEntry(context.Background(), status.Result{
					Src:     paths.New("/data/a.txt"),
					Dst:     paths.New("/data/securecopy/a.txt"),
					Kind:    status.KindFile,
					Outcome: status.Copied,
				})
			},
			wantLogs: []string{
				"    ✓ /data/a.txt",
				"copied",
				"/data/securecopy/a.txt",
			},
		},
		{
			name: "run_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRunOperation(context.Background(), RunOperation{
					Planner: "combine",
					BaseDir: "/data",
					Entries: 3,
					DryRun:  true,
				})
				logger.EndRunOperation(context.Background())
			},
			wantLogs: []string{
				"◆ combine • dry run (3 entries)",
			},
		},
		{
			name: "header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("plan")
			},
			wantLogs: []string{
				"reshelve • plan",
			},
		},
		{
			name: "messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Successf("moved %d", 2)
				logger.Warningf("skipped %s", "x")
				logger.Errorf("failed %s", "y")
				logger.Infof("note %s", "z")
			},
			wantLogs: []string{
				"✅ moved 2",
				"⚠️  skipped x",
				"❌ failed y",
				"ℹ️  note z",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithZerolog(&buf, zerolog.Nop())

			tt.op(t, logger)

			got := buf.String()
			for _, want := range tt.wantLogs {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestContext(t *testing.T) {
	logger := NewWithZerolog(&bytes.Buffer{}, zerolog.Nop())
	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestNewZerolog(t *testing.T) {
	t.Run("console_filters_debug", func(t *testing.T) {
		var buf bytes.Buffer
		zlog, closer, err := NewZerolog(PresetConsole, PresetOptions{Out: &buf, NoColor: true})
		require.NoError(t, err)
		defer closer.Close()

		zlog.Debug().Msg("hidden")
		zlog.Info().Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("console_debug", func(t *testing.T) {
		var buf bytes.Buffer
		zlog, closer, err := NewZerolog(PresetConsoleDebug, PresetOptions{Out: &buf, NoColor: true})
		require.NoError(t, err)
		defer closer.Close()

		zlog.Debug().Msg("details")
		assert.Contains(t, buf.String(), "details")
	})

	t.Run("json_debug", func(t *testing.T) {
		var buf bytes.Buffer
		zlog, closer, err := NewZerolog(PresetJSONDebug, PresetOptions{Out: &buf})
		require.NoError(t, err)
		defer closer.Close()

		zlog.Debug().Str("src", "a").Msg("entry")
		assert.Contains(t, buf.String(), `"src":"a"`)
		assert.Contains(t, buf.String(), `"level":"debug"`)
	})

	t.Run("console_info_file_debug", func(t *testing.T) {
		var buf bytes.Buffer
		file := filepath.Join(t.TempDir(), "debug.log")
		zlog, closer, err := NewZerolog(PresetConsoleInfoFileDebug, PresetOptions{Out: &buf, File: file, NoColor: true})
		require.NoError(t, err)

		zlog.Debug().Msg("only in file")
		zlog.Info().Msg("everywhere")
		require.NoError(t, closer.Close())

		assert.NotContains(t, buf.String(), "only in file")
		assert.Contains(t, buf.String(), "everywhere")

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), "only in file")
		assert.Contains(t, string(data), "everywhere")
	})

	t.Run("unknown_preset", func(t *testing.T) {
		_, _, err := NewZerolog(Preset("loud"), PresetOptions{})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "console_debug"))
	})
}
