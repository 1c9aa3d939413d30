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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidConfig marks a job file that loaded but cannot be run.
var ErrInvalidConfig = errors.Base("invalid config")

// 🧭 Planner names the planner block a job uses
type Planner string

const (
	PlannerSubstitute Planner = "substitute"
	PlannerCombine    Planner = "combine"
	PlannerSplit      Planner = "split"
	PlannerPrepend    Planner = "prepend"
	PlannerReorder    Planner = "reorder"
	PlannerTable      Planner = "table"
)

// ⚙️ ApplyArgs controls the executor
type ApplyArgs struct {
	// DryRun defaults to true. Only an explicit false touches files.
	DryRun           *bool `hcl:"dry_run,optional" json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	HandleSymlinks   bool  `hcl:"handle_symlinks,optional" json:"handle_symlinks,omitempty" yaml:"handle_symlinks,omitempty"`
	SequentialDelete bool  `hcl:"sequential_delete,optional" json:"sequential_delete,omitempty" yaml:"sequential_delete,omitempty"`
	StrictSymlinks   bool  `hcl:"strict_symlinks,optional" json:"strict_symlinks,omitempty" yaml:"strict_symlinks,omitempty"`
	VerifyChecksum   bool  `hcl:"verify_checksum,optional" json:"verify_checksum,omitempty" yaml:"verify_checksum,omitempty"`
}

// IsDryRun reports whether the run should leave the filesystem untouched.
func (a *ApplyArgs) IsDryRun() bool {
	return a == nil || a.DryRun == nil || *a.DryRun
}

// 🔄 SubstituteArgs configures find/replace renaming
type SubstituteArgs struct {
	Find       []string `hcl:"find" json:"find" yaml:"find"`
	Replace    []string `hcl:"replace,optional" json:"replace,omitempty" yaml:"replace,omitempty"`
	Prefix     string   `hcl:"prefix,optional" json:"prefix,omitempty" yaml:"prefix,omitempty"`
	CopyFolder string   `hcl:"copy_folder,optional" json:"copy_folder,omitempty" yaml:"copy_folder,omitempty"`
	Strict     bool     `hcl:"strict,optional" json:"strict,omitempty" yaml:"strict,omitempty"`
}

// 🧬 CombineArgs configures folder chain merging
type CombineArgs struct {
	Hierarchies [][]string `hcl:"hierarchies" json:"hierarchies" yaml:"hierarchies"`
	CopyFolder  string     `hcl:"copy_folder,optional" json:"copy_folder,omitempty" yaml:"copy_folder,omitempty"`
}

// ✂️ SplitArgs configures combined folder splitting
type SplitArgs struct {
	Combined   []string `hcl:"combined" json:"combined" yaml:"combined"`
	CopyFolder string   `hcl:"copy_folder,optional" json:"copy_folder,omitempty" yaml:"copy_folder,omitempty"`
}

// 🏷️ PrependArgs configures folder-to-filename prepending
type PrependArgs struct {
	Folders []string `hcl:"folders" json:"folders" yaml:"folders"`
	// Files defaults to every file below the base dir.
	Files      []string `hcl:"files,optional" json:"files,omitempty" yaml:"files,omitempty"`
	Remove     bool     `hcl:"remove,optional" json:"remove,omitempty" yaml:"remove,omitempty"`
	CopyFolder string   `hcl:"copy_folder,optional" json:"copy_folder,omitempty" yaml:"copy_folder,omitempty"`
}

// 🔀 ReorderArgs configures structure reordering
type ReorderArgs struct {
	Structure   []string `hcl:"structure" json:"structure" yaml:"structure"`
	TargetOrder []int    `hcl:"target_order" json:"target_order" yaml:"target_order"`
	CopyFolder  string   `hcl:"copy_folder,optional" json:"copy_folder,omitempty" yaml:"copy_folder,omitempty"`
	TargetDir   string   `hcl:"target_dir,optional" json:"target_dir,omitempty" yaml:"target_dir,omitempty"`
}

// 📊 TableArgs configures table-driven renaming
type TableArgs struct {
	// File is a .csv, .tsv, .json, .yaml or .yml table.
	File              string `hcl:"file" json:"file" yaml:"file"`
	KeyField          string `hcl:"key_field" json:"key_field" yaml:"key_field"`
	RenameFormat      string `hcl:"rename_format" json:"rename_format" yaml:"rename_format"`
	TargetDir         string `hcl:"target_dir,optional" json:"target_dir,omitempty" yaml:"target_dir,omitempty"`
	IncludeNonMatches bool   `hcl:"include_non_matches,optional" json:"include_non_matches,omitempty" yaml:"include_non_matches,omitempty"`
}

// 📚 Config is one reorganization job
type Config struct {
	BaseDir   string     `hcl:"base_dir" json:"base_dir" yaml:"base_dir"`
	Exclude   []string   `hcl:"exclude,optional" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	RecordDir string     `hcl:"record_dir,optional" json:"record_dir,omitempty" yaml:"record_dir,omitempty"`
	Apply     *ApplyArgs `hcl:"apply,block" json:"apply,omitempty" yaml:"apply,omitempty"`

	Substitute *SubstituteArgs `hcl:"substitute,block" json:"substitute,omitempty" yaml:"substitute,omitempty"`
	Combine    *CombineArgs    `hcl:"combine,block" json:"combine,omitempty" yaml:"combine,omitempty"`
	Split      *SplitArgs      `hcl:"split,block" json:"split,omitempty" yaml:"split,omitempty"`
	Prepend    *PrependArgs    `hcl:"prepend,block" json:"prepend,omitempty" yaml:"prepend,omitempty"`
	Reorder    *ReorderArgs    `hcl:"reorder,block" json:"reorder,omitempty" yaml:"reorder,omitempty"`
	Table      *TableArgs      `hcl:"table,block" json:"table,omitempty" yaml:"table,omitempty"`

	location string
}

// Location returns the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// Planner returns the configured planner. It is empty unless exactly one
// planner block is set.
func (cfg *Config) Planner() Planner {
	set := cfg.planners()
	if len(set) != 1 {
		return ""
	}
	return set[0]
}

func (cfg *Config) planners() []Planner {
	var out []Planner
	if cfg.Substitute != nil {
		out = append(out, PlannerSubstitute)
	}
	if cfg.Combine != nil {
		out = append(out, PlannerCombine)
	}
	if cfg.Split != nil {
		out = append(out, PlannerSplit)
	}
	if cfg.Prepend != nil {
		out = append(out, PlannerPrepend)
	}
	if cfg.Reorder != nil {
		out = append(out, PlannerReorder)
	}
	if cfg.Table != nil {
		out = append(out, PlannerTable)
	}
	return out
}

// 🔍 Validate checks the job and fills in defaults. Relative paths are
// resolved against dir, normally the config file's directory.
func Validate(ctx context.Context, cfg *Config, dir string) error {
	logger := zerolog.Ctx(ctx)

	if strings.TrimSpace(cfg.BaseDir) == "" {
		return errors.Errorf("%w: base_dir is required", ErrInvalidConfig)
	}

	switch set := cfg.planners(); len(set) {
	case 0:
		return errors.Errorf("%w: one planner block is required", ErrInvalidConfig)
	case 1:
	default:
		return errors.Errorf("%w: only one planner block is allowed, got %v", ErrInvalidConfig, set)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: bad exclude pattern %q", ErrInvalidConfig, pattern)
		}
	}

	if err := cfg.validatePlanner(); err != nil {
		return err
	}

	cfg.BaseDir = resolve(dir, cfg.BaseDir)
	cfg.RecordDir = resolve(dir, cfg.RecordDir)
	if cfg.Reorder != nil {
		cfg.Reorder.TargetDir = resolve(dir, cfg.Reorder.TargetDir)
	}
	if cfg.Table != nil {
		cfg.Table.File = resolve(dir, cfg.Table.File)
		cfg.Table.TargetDir = resolve(dir, cfg.Table.TargetDir)
	}

	if cfg.Apply == nil {
		cfg.Apply = &ApplyArgs{}
	}
	if cfg.Apply.DryRun == nil {
		dry := true
		cfg.Apply.DryRun = &dry
	}
	if cfg.Apply.StrictSymlinks && !cfg.Apply.HandleSymlinks {
		logger.Warn().Msg("strict_symlinks has no effect without handle_symlinks")
	}

	logger.Debug().
		Str("planner", string(cfg.Planner())).
		Str("base_dir", cfg.BaseDir).
		Bool("dry_run", cfg.Apply.IsDryRun()).
		Msg("config validated")

	return nil
}

func (cfg *Config) validatePlanner() error {
	switch {
	case cfg.Substitute != nil:
		if len(cfg.Substitute.Find) == 0 {
			return errors.Errorf("%w: substitute.find is required", ErrInvalidConfig)
		}
		if len(cfg.Substitute.Replace) > 0 && len(cfg.Substitute.Replace) != len(cfg.Substitute.Find) {
			return errors.Errorf("%w: substitute.replace must pair with substitute.find", ErrInvalidConfig)
		}
	case cfg.Combine != nil:
		if len(cfg.Combine.Hierarchies) == 0 {
			return errors.Errorf("%w: combine.hierarchies is required", ErrInvalidConfig)
		}
	case cfg.Split != nil:
		if len(cfg.Split.Combined) == 0 {
			return errors.Errorf("%w: split.combined is required", ErrInvalidConfig)
		}
	case cfg.Prepend != nil:
		if len(cfg.Prepend.Folders) == 0 {
			return errors.Errorf("%w: prepend.folders is required", ErrInvalidConfig)
		}
	case cfg.Reorder != nil:
		if len(cfg.Reorder.Structure) == 0 || len(cfg.Reorder.TargetOrder) == 0 {
			return errors.Errorf("%w: reorder.structure and reorder.target_order are required", ErrInvalidConfig)
		}
	case cfg.Table != nil:
		if cfg.Table.File == "" || cfg.Table.KeyField == "" || cfg.Table.RenameFormat == "" {
			return errors.Errorf("%w: table.file, table.key_field and table.rename_format are required", ErrInvalidConfig)
		}
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "dry run"
	if !cfg.Apply.IsDryRun() {
		mode = "apply"
	}
	return fmt.Sprintf("%s %s (%s)", cfg.Planner(), cfg.BaseDir, mode)
}
