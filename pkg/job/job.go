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

// Package job runs a configured reorganization: plan, check for conflicts,
// apply and record.
package job

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/config"
	"github.com/walteh/reshelve/pkg/log"
	"github.com/walteh/reshelve/pkg/operation"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/plan"
	"github.com/walteh/reshelve/pkg/provenance"
	"github.com/walteh/reshelve/pkg/scan"
	"github.com/walteh/reshelve/pkg/status"
	"github.com/walteh/reshelve/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// ErrConflicts is returned when two sources share a destination.
var ErrConflicts = errors.Base("plan has conflicting destinations")

// 🗺️ Plan builds the move map for cfg's planner
func Plan(ctx context.Context, cfg *config.Config) (*plan.Map, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("planner", string(cfg.Planner())).Str("base_dir", cfg.BaseDir).Msg("planning")

	switch cfg.Planner() {
	case config.PlannerSubstitute:
		s := cfg.Substitute
		copyFolder := s.CopyFolder
		if copyFolder == "" {
			copyFolder = plan.DefaultCopyFolder
		}
		files, err := listFiles(ctx, cfg, copyFolder)
		if err != nil {
			return nil, err
		}
		return plan.Substitute(ctx, plan.SubstituteOptions{
			BaseDir:    cfg.BaseDir,
			Files:      files,
			Find:       s.Find,
			Replace:    s.Replace,
			Prefix:     s.Prefix,
			CopyFolder: s.CopyFolder,
			Strict:     s.Strict,
		})

	case config.PlannerCombine:
		return plan.Combine(ctx, plan.CombineOptions{
			RootDir:     cfg.BaseDir,
			Hierarchies: cfg.Combine.Hierarchies,
			CopyFolder:  cfg.Combine.CopyFolder,
		})

	case config.PlannerSplit:
		return plan.Split(ctx, plan.SplitOptions{
			RootDir:    cfg.BaseDir,
			Combined:   cfg.Split.Combined,
			CopyFolder: cfg.Split.CopyFolder,
		})

	case config.PlannerPrepend:
		p := cfg.Prepend
		files := p.Files
		if len(files) == 0 {
			listed, err := listFiles(ctx, cfg, p.CopyFolder)
			if err != nil {
				return nil, err
			}
			for _, f := range listed {
				files = append(files, f.String())
			}
		}
		return plan.Prepend(ctx, plan.PrependOptions{
			RootDir:    cfg.BaseDir,
			Files:      files,
			Folders:    p.Folders,
			Remove:     p.Remove,
			CopyFolder: p.CopyFolder,
		})

	case config.PlannerReorder:
		r := cfg.Reorder
		return plan.Reorder(ctx, plan.ReorderOptions{
			BaseDir:     cfg.BaseDir,
			Structure:   r.Structure,
			TargetOrder: r.TargetOrder,
			CopyFolder:  r.CopyFolder,
			TargetDir:   r.TargetDir,
		})

	case config.PlannerTable:
		t := cfg.Table
		tbl, err := table.Load(ctx, t.File)
		if err != nil {
			return nil, errors.Errorf("loading table: %w", err)
		}
		return plan.FromTable(ctx, plan.TableOptions{
			Table:             tbl,
			BaseDir:           cfg.BaseDir,
			KeyField:          t.KeyField,
			RenameFormat:      t.RenameFormat,
			TargetDir:         t.TargetDir,
			IncludeNonMatches: t.IncludeNonMatches,
		})

	default:
		return nil, errors.Errorf("%w: no planner configured", config.ErrInvalidConfig)
	}
}

// listFiles lists the base dir, leaving out an earlier run's copy folder.
func listFiles(ctx context.Context, cfg *config.Config, copyFolder string) ([]paths.Path, error) {
	files, err := scan.ListFiles(ctx, cfg.BaseDir, scan.Options{OmitHidden: true, Exclude: cfg.Exclude})
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}
	if copyFolder == "" {
		return files, nil
	}

	skip := paths.New(cfg.BaseDir).Join(copyFolder)
	out := files[:0]
	for _, f := range files {
		if !f.Within(skip) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Options adjusts a Run beyond what the config says. Console output goes
// to the logger carried by the context (see log.NewContext).
type Options struct {
	// DryRun and SequentialDelete override the config when non-nil.
	DryRun           *bool
	SequentialDelete *bool
}

// 📋 Result is everything a run produced
type Result struct {
	Plan       *plan.Map
	Conflicts  []plan.Conflict
	Report     *operation.Report
	RecordPath string
}

// 🏃 Run plans cfg and applies the plan. A plan with conflicts is never
// applied; Run returns ErrConflicts with the conflicts in the result.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	apply := cfg.Apply
	if apply == nil {
		apply = &config.ApplyArgs{}
	}
	dryRun := apply.IsDryRun()
	if opts.DryRun != nil {
		dryRun = *opts.DryRun
	}
	seqDelete := apply.SequentialDelete
	if opts.SequentialDelete != nil {
		seqDelete = *opts.SequentialDelete
	}

	m, err := Plan(ctx, cfg)
	if err != nil {
		return nil, errors.Errorf("planning: %w", err)
	}
	res := &Result{Plan: m}

	if console != nil {
		console.Header("reshelving " + cfg.BaseDir)
		for _, w := range m.Warnings() {
			console.Warningf("%s: %s", w.Path, w.Message)
		}
	}

	if plan.HasConflicts(m) {
		res.Conflicts = plan.FindConflicts(m)
		for _, c := range res.Conflicts {
			logger.Error().Str("dst", c.Dst.String()).Int("sources", len(c.Srcs)).Msg("conflicting destination")
		}
		if console != nil {
			console.Errorf("%d destinations are claimed by more than one source, nothing was applied", len(res.Conflicts))
		}
		return res, errors.Errorf("%w: %d destinations", ErrConflicts, len(res.Conflicts))
	}

	if console != nil {
		console.StartRunOperation(ctx, log.RunOperation{
			Planner: string(cfg.Planner()),
			BaseDir: cfg.BaseDir,
			Entries: m.Len(),
			DryRun:  dryRun,
		})
		defer console.EndRunOperation(ctx)
	}

	exec := operation.New(operation.Options{
		DryRun:           dryRun,
		HandleSymlinks:   apply.HandleSymlinks,
		SequentialDelete: seqDelete,
		StrictSymlinks:   apply.StrictSymlinks,
		VerifyChecksum:   apply.VerifyChecksum,
		Console:          console,
	})
	report, applyErr := exec.Apply(ctx, m)
	res.Report = report

	if console != nil {
		console.LogNewline()
		switch failed := report.Failed(); {
		case applyErr != nil:
			console.Errorf("stopped after %d of %d entries: %v", len(report.Results), m.Len(), applyErr)
		case failed > 0:
			console.Errorf("%d of %d entries failed", failed, len(report.Results))
		case dryRun:
			console.Infof("dry run, %d entries planned, nothing was changed", len(report.Results))
		default:
			console.Successf("%d entries applied", len(report.Results))
		}
	}

	if cfg.RecordDir != "" {
		path, err := record(ctx, cfg, m, report, applyErr != nil)
		if err != nil {
			return res, err
		}
		res.RecordPath = path
	}

	if applyErr != nil {
		return res, applyErr
	}
	return res, nil
}

func record(ctx context.Context, cfg *config.Config, m *plan.Map, report *operation.Report, cancelled bool) (string, error) {
	hash, err := provenance.ConfigHash(cfg)
	if err != nil {
		return "", err
	}

	rec := &provenance.Record{
		Planner:    string(cfg.Planner()),
		BaseDir:    cfg.BaseDir,
		ConfigFile: cfg.Location(),
		ConfigHash: hash,
		DryRun:     report.DryRun,
		Entries:    m.Len(),
		Warnings:   len(m.Warnings()),
		Counts:     map[string]int{},
		Cancelled:  cancelled,
	}
	for o, n := range report.Counts {
		rec.Counts[o.String()] = n
	}
	for _, f := range report.Failures() {
		rec.Failures = append(rec.Failures, failedEntry(f))
	}

	path, err := provenance.Write(ctx, cfg.RecordDir, rec)
	if err != nil {
		return "", errors.Errorf("recording run: %w", err)
	}
	return path, nil
}

func failedEntry(r status.Result) provenance.FailedEntry {
	fe := provenance.FailedEntry{
		Src:     r.Src.String(),
		Dst:     r.Dst.String(),
		Outcome: r.Outcome.String(),
	}
	if r.Err != nil {
		fe.Error = r.Err.Error()
	}
	return fe
}
