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

// Package provenance records what a reshelve run did, one JSON file per run.
package provenance

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RunsDir is the directory below a record dir that holds run files.
const RunsDir = "_runs"

const runIDLayout = "20060102T150405Z"

// 🆔 NewRunID returns a sortable unique id such as 20250102T030405Z_1a2b3c4d
func NewRunID() (string, error) {
	return newRunID(time.Now())
}

func newRunID(now time.Time) (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", errors.Errorf("generating run id: %w", err)
	}
	return now.UTC().Format(runIDLayout) + "_" + hex.EncodeToString(b[:]), nil
}

// 🔍 ConfigHash returns the sha256 of v's JSON encoding with object keys
// sorted, so equal configs hash equally regardless of field order.
func ConfigHash(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.Errorf("encoding config: %w", err)
	}

	// maps marshal with sorted keys
	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return "", errors.Errorf("normalizing config: %w", err)
	}
	stable, err := json.Marshal(generic)
	if err != nil {
		return "", errors.Errorf("encoding config: %w", err)
	}

	sum := sha256.Sum256(stable)
	return hex.EncodeToString(sum[:]), nil
}

// FailedEntry is one entry that did not complete.
type FailedEntry struct {
	Src     string `json:"src"`
	Dst     string `json:"dst"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// 📜 Record describes one run
type Record struct {
	RunID      string         `json:"run_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Planner    string         `json:"planner"`
	BaseDir    string         `json:"base_dir"`
	ConfigFile string         `json:"config_file,omitempty"`
	ConfigHash string         `json:"config_hash_sha256"`
	DryRun     bool           `json:"dry_run"`
	Entries    int            `json:"entries"`
	Warnings   int            `json:"warnings"`
	Counts     map[string]int `json:"counts"`
	Failures   []FailedEntry  `json:"failures,omitempty"`
	Cancelled  bool           `json:"cancelled,omitempty"`
}

// 💾 Write stores rec as <dir>/_runs/<run_id>.json and returns the file path.
// A missing run id is generated.
func Write(ctx context.Context, dir string, rec *Record) (string, error) {
	if rec.RunID == "" {
		id, err := NewRunID()
		if err != nil {
			return "", err
		}
		rec.RunID = id
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	runs := filepath.Join(dir, RunsDir)
	if err := os.MkdirAll(runs, 0o755); err != nil {
		return "", errors.Errorf("creating runs directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", errors.Errorf("encoding run record: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(runs, rec.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Errorf("writing run record: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("run_id", rec.RunID).Msg("wrote run record")
	return path, nil
}

// Load reads a record written by Write.
func Load(ctx context.Context, path string) (*Record, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading run record")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading run record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Errorf("parsing run record: %w", err)
	}
	return &rec, nil
}
