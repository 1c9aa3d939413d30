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

package provenance

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestNewRunID(t *testing.T) {
	id, err := newRunID(time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600)))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^20250102T020405Z_[0-9a-f]{8}$`), id)

	other, err := NewRunID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestConfigHash(t *testing.T) {
	type a struct {
		X int    `json:"x"`
		Y string `json:"y"`
	}
	type b struct {
		Y string `json:"y"`
		X int    `json:"x"`
	}

	ha, err := ConfigHash(a{X: 1, Y: "z"})
	require.NoError(t, err)
	hb, err := ConfigHash(b{Y: "z", X: 1})
	require.NoError(t, err)
	assert.Equal(t, ha, hb, "field order must not change the hash")
	assert.Len(t, ha, 64)

	hc, err := ConfigHash(a{X: 2, Y: "z"})
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)

	_, err = ConfigHash(make(chan int))
	assert.Error(t, err)
}

func TestWriteAndLoad(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	rec := &Record{
		Planner:    "combine",
		BaseDir:    "/data",
		ConfigHash: "abc",
		Entries:    2,
		Counts:     map[string]int{"deleted": 1, "copy_failed": 1},
		Failures: []FailedEntry{
			{Src: "/data/a", Dst: "/data/b", Outcome: "copy_failed", Error: "boom"},
		},
	}

	path, err := Write(ctx, dir, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.RunID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, filepath.Join(dir, RunsDir, rec.RunID+".json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), `  "config_hash_sha256": "abc"`)

	got, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, rec.RunID, got.RunID)
	assert.Equal(t, rec.Counts, got.Counts)
	assert.Equal(t, rec.Failures, got.Failures)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestWriteKeepsGivenRunID(t *testing.T) {
	path, err := Write(testContext(t), t.TempDir(), &Record{RunID: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed.json", filepath.Base(path))
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{invalid json}"), 0o600))

	_, err := Load(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing run record")
}
