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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the final state of one applied entry
type Outcome int

const (
	OutcomeUnknown     Outcome = iota
	Planned                    // Dry run, nothing touched
	Copied                     // Copied and validated, source kept
	Deleted                    // Copied, validated and source removed
	ValidationFailed           // Destination does not match the source
	DeleteGuardFailed          // Re-validation before delete failed, source kept
	CopyFailed                 // Copy raised an error
	DeleteFailed               // Removing the source raised an error
)

var outcomeNames = map[Outcome]string{
	Planned:           "planned",
	Copied:            "copied",
	Deleted:           "deleted",
	ValidationFailed:  "validation_failed",
	DeleteGuardFailed: "delete_guard_failed",
	CopyFailed:        "copy_failed",
	DeleteFailed:      "delete_failed",
}

// Outcomes lists every known outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{Planned, Copied, Deleted, ValidationFailed, DeleteGuardFailed, CopyFailed, DeleteFailed}
}

// String returns a string representation of Outcome
func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	switch o {
	case ValidationFailed, DeleteGuardFailed, CopyFailed, DeleteFailed:
		return true
	default:
		return false
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for k, v := range outcomeNames {
		if v == string(b) {
			*o = k
			return nil
		}
	}
	return errors.Errorf("unknown outcome %q", string(b))
}

// 🗂️ EntryKind is the filesystem type of a source
type EntryKind int

const (
	KindUnknown EntryKind = iota
	KindFile
	KindDir
	KindSymlink
)

// String returns a string representation of EntryKind
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// 📄 Result is what happened to one src -> dst entry
type Result struct {
	Src     paths.Path `json:"src"`
	Dst     paths.Path `json:"dst"`
	Kind    EntryKind  `json:"-"`
	Outcome Outcome    `json:"outcome"`
	Err     error      `json:"-"`
}

// 📈 Tracker collects results in processing order and reports progress.
// It is used from a single goroutine.
type Tracker struct {
	logger    *zerolog.Logger
	formatter FileFormatter

	results []Result
	counts  map[Outcome]int

	total     int
	processed int
}

// 🏭 NewTracker creates a tracker that logs through logger
func NewTracker(logger *zerolog.Logger, formatter FileFormatter) *Tracker {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Tracker{
		logger:    logger,
		formatter: formatter,
		counts:    make(map[Outcome]int),
	}
}

// Track records a result and logs it. Failed results carry the formatted
// error in the message.
func (t *Tracker) Track(ctx context.Context, r Result) {
	t.results = append(t.results, r)
	t.counts[r.Outcome]++
	t.processed++

	msg := t.formatter.FormatEntry(r)
	ev := t.logger.Info()
	if r.Outcome.Failed() {
		ev = t.logger.Warn().Err(r.Err)
		if r.Err != nil {
			msg += " " + t.formatter.FormatError(r.Err)
		}
	}
	ev.Str("src", r.Src.String()).
		Str("dst", r.Dst.String()).
		Str("kind", r.Kind.String()).
		Stringer("outcome", r.Outcome).
		Msg(msg)
}

// Results returns the tracked results in order.
func (t *Tracker) Results() []Result {
	out := make([]Result, len(t.results))
	copy(out, t.results)
	return out
}

// Counts returns how many results ended in each outcome.
func (t *Tracker) Counts() map[Outcome]int {
	out := make(map[Outcome]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Failures returns how many results failed.
func (t *Tracker) Failures() int {
	n := 0
	for o, c := range t.counts {
		if o.Failed() {
			n += c
		}
	}
	return n
}

// StartOperation resets progress for a batch of total entries.
func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.total = total
	t.processed = 0
	t.logger.Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

// FinishOperation logs the final progress line.
func (t *Tracker) FinishOperation(ctx context.Context) {
	t.logger.Info().
		Int("processed", t.processed).
		Int("total", t.total).
		Int("failed", t.Failures()).
		Msg(t.formatter.FormatProgress(t.processed, t.total))
}
