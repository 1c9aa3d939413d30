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

package operation

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/log"
	"github.com/walteh/reshelve/pkg/plan"
	"github.com/walteh/reshelve/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Validator checks that dst is a faithful copy of src.
type Validator interface {
	Validate(ctx context.Context, src, dst string) error
}

// Options controls how a plan is applied
type Options struct {
	// DryRun reports every entry as planned and touches nothing.
	DryRun bool
	// HandleSymlinks recreates links instead of copying what they point to.
	HandleSymlinks bool
	// SequentialDelete removes each source after its copy validates twice.
	SequentialDelete bool
	// StrictSymlinks compares resolved link targets instead of link text.
	StrictSymlinks bool
	// VerifyChecksum adds a sha256 content comparison to the size check.
	VerifyChecksum bool

	// Validator replaces the default validation. Mostly useful in tests.
	Validator Validator
	// Console, when set, receives one line per entry.
	Console *log.Logger
	// Formatter renders log messages; defaults to status.DefaultFileFormatter.
	Formatter status.FileFormatter
}

// 🚚 Executor applies plans
type Executor struct {
	opts      Options
	validator Validator
}

// 🏭 New creates an executor
func New(opts Options) *Executor {
	v := opts.Validator
	if v == nil {
		v = &FSValidator{
			HandleSymlinks: opts.HandleSymlinks,
			StrictSymlinks: opts.StrictSymlinks,
			VerifyChecksum: opts.VerifyChecksum,
		}
	}
	return &Executor{opts: opts, validator: v}
}

// 📋 Report is the outcome of one Apply call
type Report struct {
	DryRun  bool                   `json:"dry_run"`
	Results []status.Result        `json:"results"`
	Counts  map[status.Outcome]int `json:"counts"`
}

// Failed returns the number of entries that ended in a failure.
func (r *Report) Failed() int {
	n := 0
	for o, c := range r.Counts {
		if o.Failed() {
			n += c
		}
	}
	return n
}

// Failures returns the failed results in processing order.
func (r *Report) Failures() []status.Result {
	var out []status.Result
	for _, res := range r.Results {
		if res.Outcome.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// 🏃 Apply processes every entry of m in order. Per-entry failures are
// recorded in the report. The returned error is only set when ctx is
// cancelled, in which case the report covers the entries processed so far.
func (e *Executor) Apply(ctx context.Context, m *plan.Map) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	tracker := status.NewTracker(logger, e.opts.Formatter)

	entries := m.Entries()
	tracker.StartOperation(ctx, len(entries))

	var applyErr error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			applyErr = errors.Errorf("applying plan: %w", err)
			break
		}

		res := e.applyEntry(ctx, entry)
		tracker.Track(ctx, res)
		if e.opts.Console != nil {
			e.opts.Console.LogEntry(ctx, res)
		}
	}
	tracker.FinishOperation(ctx)

	return &Report{
		DryRun:  e.opts.DryRun,
		Results: tracker.Results(),
		Counts:  tracker.Counts(),
	}, applyErr
}

func (e *Executor) applyEntry(ctx context.Context, entry plan.Entry) status.Result {
	src, dst := entry.Src.String(), entry.Dst.String()
	res := status.Result{Src: entry.Src, Dst: entry.Dst}

	info, statErr := os.Lstat(src)
	if statErr == nil {
		res.Kind = kindOf(info)
	}

	if e.opts.DryRun {
		res.Outcome = status.Planned
		return res
	}

	if statErr != nil {
		res.Outcome, res.Err = status.CopyFailed, errors.Errorf("reading source: %w", statErr)
		return res
	}

	// an identity entry is already in place and must never be deleted
	if entry.Src == entry.Dst {
		res.Outcome = status.Copied
		return res
	}
	if entry.Dst.Within(entry.Src) {
		res.Outcome, res.Err = status.CopyFailed, errors.Errorf("destination %s is inside source", dst)
		return res
	}

	if err := e.copyEntry(ctx, src, dst, info); err != nil {
		res.Outcome, res.Err = status.CopyFailed, err
		return res
	}

	if err := e.validator.Validate(ctx, src, dst); err != nil {
		res.Outcome, res.Err = status.ValidationFailed, err
		return res
	}

	if !e.opts.SequentialDelete {
		res.Outcome = status.Copied
		return res
	}

	// the source is gone after this, so check once more right before
	if err := e.validator.Validate(ctx, src, dst); err != nil {
		res.Outcome, res.Err = status.DeleteGuardFailed, err
		return res
	}

	if err := removeSource(src, info); err != nil {
		res.Outcome, res.Err = status.DeleteFailed, err
		return res
	}

	res.Outcome = status.Deleted
	return res
}

func kindOf(info os.FileInfo) status.EntryKind {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return status.KindSymlink
	case info.IsDir():
		return status.KindDir
	default:
		return status.KindFile
	}
}
