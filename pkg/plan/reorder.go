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

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/scan"
)

// reorderSkipDirs are never descended into while reordering.
var reorderSkipDirs = []string{".git", "git annex"}

// 🔧 ReorderOptions configures Reorder
type ReorderOptions struct {
	BaseDir string
	// Structure holds one specifier per template position, see ParseTemplate.
	Structure []string
	// TargetOrder lists 1-based template positions in output order.
	TargetOrder []int
	// CopyFolder is used below BaseDir when TargetDir is empty.
	CopyFolder string
	TargetDir  string
}

// 🔀 Reorder plans to move every file below BaseDir so that its directory
// segments follow TargetOrder instead of Structure. Files that do not fit
// the template are left out. Files already below the reorder root are left
// out too, so a second run against the same root plans nothing.
func Reorder(ctx context.Context, opts ReorderOptions) (*Map, error) {
	logger := zerolog.Ctx(ctx)

	tmpl, err := ParseTemplate(opts.Structure, opts.TargetOrder)
	if err != nil {
		return nil, err
	}

	base, err := paths.Resolve(opts.BaseDir)
	if err != nil {
		return nil, err
	}

	var target paths.Path
	if opts.TargetDir != "" {
		if target, err = paths.Resolve(opts.TargetDir); err != nil {
			return nil, err
		}
	} else {
		copyFolder := opts.CopyFolder
		if copyFolder == "" {
			copyFolder = DefaultCopyFolder
		}
		target = base.Join(copyFolder)
	}

	files, err := scan.WalkFiles(ctx, base.String(), reorderSkipDirs...)
	if err != nil {
		return nil, err
	}
	paths.Sort(files)

	m := NewMap()
	skipped := 0
	for _, file := range files {
		if file == target || file.Within(target) {
			continue
		}

		rel, err := file.Rel(base)
		if err != nil {
			continue
		}
		segs := rel.Segments()
		dirs, name := segs[:len(segs)-1], segs[len(segs)-1]

		reordered, ok := tmpl.Reorder(dirs)
		if !ok {
			skipped++
			logger.Trace().Str("file", rel.Slash()).Msg("file does not fit structure template")
			continue
		}

		m.Set(file, target.Join(reordered...).Join(name))
	}

	logger.Debug().
		Int("entries", m.Len()).
		Int("skipped", skipped).
		Str("target", target.String()).
		Msg("planned structure reorder")
	return m, nil
}
