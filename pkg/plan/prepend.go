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
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"gitlab.com/tozd/go/errors"
)

// 🔧 PrependOptions configures Prepend
type PrependOptions struct {
	RootDir string
	// Files are relative to RootDir or absolute paths below it.
	Files []string
	// Folders must all appear in a file's directory chain for it to change.
	Folders []string
	// Remove drops every directory segment named like one of Folders.
	Remove     bool
	CopyFolder string
}

// 🏷️ Prepend moves folder names into file names. A file whose directory
// chain below RootDir contains every one of Folders gets
// "<folder1>_<folder2>_" prepended to its name, and optionally loses those
// folders from its chain. Other files keep their name and chain.
//
// With Folders ["bla1", "bla3"] and Remove set,
// bla1/bla2/bla3/bla4/test.txt becomes bla2/bla4/bla1_bla3_test.txt.
func Prepend(ctx context.Context, opts PrependOptions) (*Map, error) {
	if len(opts.Folders) == 0 {
		return nil, errors.Errorf("%w: at least one folder name is required", ErrInvalidInput)
	}
	if err := validateNames(opts.Folders); err != nil {
		return nil, err
	}

	root := paths.New(opts.RootDir)
	prefix := strings.Join(opts.Folders, hierarchySep)

	m := NewMap()
	for _, f := range opts.Files {
		src := paths.New(f)
		if !filepath.IsAbs(f) {
			src = root.Join(f)
		}
		rel, err := src.Dir().Rel(root)
		if err != nil || src.Base() == "" || src == root {
			return nil, errors.Errorf("%w: file %q is not under %q", ErrInvalidInput, f, root)
		}

		dirs := rel.Segments()
		name := src.Base()
		if containsAll(dirs, opts.Folders) {
			if opts.Remove {
				dirs = slices.DeleteFunc(dirs, func(s string) bool {
					return slices.Contains(opts.Folders, s)
				})
			}
			name = prefix + hierarchySep + name
		}

		dst := root
		if opts.CopyFolder != "" {
			dst = dst.Join(opts.CopyFolder)
		}
		m.Set(src, dst.Join(dirs...).Join(name))
	}

	zerolog.Ctx(ctx).Debug().Int("entries", m.Len()).Msg("planned folder prepend")
	return m, nil
}

func containsAll(haystack, needles []string) bool {
	for _, n := range needles {
		if !slices.Contains(haystack, n) {
			return false
		}
	}
	return true
}
