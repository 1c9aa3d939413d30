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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"gitlab.com/tozd/go/errors"
)

// hierarchySep joins the names of a combined folder.
const hierarchySep = "_"

// 🔧 CombineOptions configures Combine
type CombineOptions struct {
	RootDir string
	// Hierarchies are folder chains, shallow to deep.
	Hierarchies [][]string
	// CopyFolder, when set, reroots destinations under RootDir/CopyFolder.
	CopyFolder string
}

// 🧬 Combine finds nested folder chains that match a hierarchy and plans to
// replace each chain with a single folder named by joining the hierarchy
// with underscores, placed where the chain's top folder was.
func Combine(ctx context.Context, opts CombineOptions) (*Map, error) {
	for _, h := range opts.Hierarchies {
		if err := validateNames(h); err != nil {
			return nil, err
		}
	}

	root := paths.New(opts.RootDir)
	dirs, err := listDirs(root)
	if err != nil {
		return nil, err
	}

	m := NewMap()
	for _, h := range opts.Hierarchies {
		if len(h) < 2 {
			continue
		}
		deepest := h[len(h)-1]

		for _, found := range dirs {
			if found.Base() != deepest {
				continue
			}
			rel, err := found.Rel(root)
			if err != nil {
				continue
			}
			segs := rel.Segments()
			if len(segs) < len(h) || !equalTail(segs, h) {
				continue
			}

			parent := found
			for range h {
				parent = parent.Dir()
			}
			dst, err := reroot(root, parent.Join(strings.Join(h, hierarchySep)), opts.CopyFolder)
			if err != nil {
				return nil, err
			}
			m.Set(found, dst)
		}
	}

	zerolog.Ctx(ctx).Debug().Int("entries", m.Len()).Msg("planned hierarchy combine")
	return m, nil
}

// 🔧 SplitOptions configures Split
type SplitOptions struct {
	RootDir string
	// Combined holds folder names such as "ses-01_task-rest".
	Combined   []string
	CopyFolder string
}

// ✂️ Split is the inverse of Combine: every folder named exactly like a
// combined name is planned to become nested folders, one per underscore
// separated part, under the folder's original parent.
func Split(ctx context.Context, opts SplitOptions) (*Map, error) {
	if err := validateNames(opts.Combined); err != nil {
		return nil, err
	}

	root := paths.New(opts.RootDir)
	dirs, err := listDirs(root)
	if err != nil {
		return nil, err
	}

	m := NewMap()
	for _, combined := range opts.Combined {
		parts := strings.Split(combined, hierarchySep)
		if len(parts) < 2 {
			continue
		}

		for _, found := range dirs {
			if found.Base() != combined {
				continue
			}
			dst, err := reroot(root, found.Dir().Join(parts...), opts.CopyFolder)
			if err != nil {
				return nil, err
			}
			m.Set(found, dst)
		}
	}

	zerolog.Ctx(ctx).Debug().Int("entries", m.Len()).Msg("planned hierarchy split")
	return m, nil
}

// listDirs returns every directory strictly below root in lexical walk order.
func listDirs(root paths.Path) ([]paths.Path, error) {
	var dirs []paths.Path
	err := filepath.WalkDir(root.String(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p := paths.New(path); p != root {
				dirs = append(dirs, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}
	return dirs, nil
}

func equalTail(segs, tail []string) bool {
	off := len(segs) - len(tail)
	for i, name := range tail {
		if segs[off+i] != name {
			return false
		}
	}
	return true
}

// reroot moves p under root/copyFolder, keeping its position relative to
// root. An empty copyFolder leaves p in place.
func reroot(root, p paths.Path, copyFolder string) (paths.Path, error) {
	if copyFolder == "" {
		return p, nil
	}
	rel, err := p.Rel(root)
	if err != nil {
		return paths.Path{}, errors.Errorf("rerooting: %w", err)
	}
	return root.Join(copyFolder).JoinPath(rel), nil
}

// validateNames checks that every name is a single usable path segment.
func validateNames(names []string) error {
	for _, name := range names {
		if name == "" || name == "." || name == ".." {
			return errors.Errorf("%w: folder name %q", ErrInvalidInput, name)
		}
		if strings.ContainsAny(name, `/\`) {
			return errors.Errorf("%w: folder name %q contains a path separator", ErrInvalidInput, name)
		}
	}
	return nil
}
