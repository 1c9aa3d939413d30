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

package plan

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/sanitize"
	"github.com/walteh/reshelve/pkg/scan"
	"github.com/walteh/reshelve/pkg/table"
	"gitlab.com/tozd/go/errors"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// 🔧 TableOptions configures FromTable
type TableOptions struct {
	Table   *table.Table
	BaseDir string
	// KeyField names the column whose value is a folder name to rename.
	KeyField string
	// RenameFormat builds the new folder name, e.g. "task-{task_id}_run-{run_id}".
	RenameFormat string
	// TargetDir defaults to BaseDir/securecopy.
	TargetDir string
	// IncludeNonMatches copies files that no record renamed as they are.
	IncludeNonMatches bool
}

// Placeholders returns the placeholder names of format in order of
// appearance.
func Placeholders(format string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(format, -1) {
		names = append(names, m[1])
	}
	return names
}

// 📋 FromTable renames the folder named after each record's key value,
// building the new name from the record's other fields. It fails closed:
// a missing key column or a plan that still conflicts yields an empty map.
func FromTable(ctx context.Context, opts TableOptions) (*Map, error) {
	logger := zerolog.Ctx(ctx)

	if opts.Table == nil {
		return nil, errors.Errorf("%w: no dataset given", ErrInvalidInput)
	}
	if opts.KeyField == "" {
		return nil, errors.Errorf("%w: key field is required", ErrInvalidInput)
	}
	if opts.RenameFormat == "" {
		return nil, errors.Errorf("%w: rename format is required", ErrInvalidInput)
	}

	base := paths.New(opts.BaseDir)
	target := base.Join(DefaultCopyFolder)
	if opts.TargetDir != "" {
		target = paths.New(opts.TargetDir)
	}

	m := NewMap()
	if !opts.Table.HasColumn(opts.KeyField) {
		m.Warn(ctx, base, fmt.Sprintf("key field %q not in dataset, cannot build a plan", opts.KeyField))
		return m, nil
	}

	files, err := scan.ListFiles(ctx, base.String(), scan.DefaultOptions())
	if err != nil {
		return nil, err
	}
	paths.Sort(files)

	rels := make([][]string, len(files))
	for i, f := range files {
		rel, err := f.Rel(base)
		if err != nil {
			return nil, errors.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		rels[i] = rel.Segments()
	}

	matched := make(map[paths.Path]struct{})
	for _, row := range opts.Table.Rows() {
		key, ok := row.Text(opts.KeyField)
		if !ok || key == "" {
			m.Warn(ctx, base, fmt.Sprintf("record %d has no value for key field %q, skipping it", row.Index(), opts.KeyField))
			continue
		}

		newName, missing := formatRecord(opts.RenameFormat, row)
		if missing != "" {
			m.Warn(ctx, base, fmt.Sprintf("missing value for placeholder %q in record %q, skipping it", missing, key))
			continue
		}

		for i, file := range files {
			segs := rels[i]
			if !slices.Contains(segs, key) {
				continue
			}
			dst := target.Join(replaced(segs, key, newName)...)
			if m.HasDestination(dst) {
				m.Warn(ctx, file, fmt.Sprintf("duplicate destination %s, skipping file to avoid a conflict", dst))
				continue
			}
			m.Set(file, dst)
			matched[file] = struct{}{}
		}
	}

	if opts.IncludeNonMatches {
		for i, file := range files {
			if _, ok := matched[file]; ok {
				continue
			}
			dst := target.Join(rels[i]...)
			if m.HasDestination(dst) {
				m.Warn(ctx, file, fmt.Sprintf("duplicate destination %s for unmatched file, skipping it", dst))
				continue
			}
			m.Set(file, dst)
		}
	}

	if HasConflicts(m) {
		logger.Error().Int("entries", m.Len()).Msg("conflicts detected in table plan, returning an empty plan")
		return m.cleared(), nil
	}

	logger.Debug().Int("entries", m.Len()).Str("target", target.String()).Msg("planned table rename")
	return m, nil
}

// formatRecord fills every placeholder of format from row, sanitizing each
// value. It returns the first missing placeholder name when one is absent.
func formatRecord(format string, row table.Row) (string, string) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(format, func(tok string) string {
		name := tok[1 : len(tok)-1]
		v, ok := row.Text(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return tok
		}
		return sanitize.Filename(v)
	})
	return out, missing
}

func replaced(segs []string, key, name string) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		if s == key {
			out[i] = name
		} else {
			out[i] = s
		}
	}
	return out
}
