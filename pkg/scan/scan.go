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

// Package scan enumerates the files of a dataset tree.
//
// Neither function sorts its output. Walk order is whatever the filesystem
// hands back; callers that need a stable order use paths.Sort.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"gitlab.com/tozd/go/errors"
)

// Options controls which entries ListFiles returns.
type Options struct {
	// OmitHidden drops dot-entries and .git directories at every depth.
	OmitHidden bool
	// Exclude holds doublestar patterns matched against the slash-form path
	// relative to the root. A matching directory is pruned entirely.
	Exclude []string
}

// DefaultOptions omits hidden entries and excludes nothing else.
func DefaultOptions() Options {
	return Options{OmitHidden: true}
}

// 📂 ListFiles returns every file below root. Directories are walked but
// never returned, and neither are symlinks to directories. Dangling
// symlinks are returned as files.
func ListFiles(ctx context.Context, root string, opts Options) ([]paths.Path, error) {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	var files []paths.Path
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if opts.OmitHidden && (strings.HasPrefix(name, ".") || name == ".git") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if excluded(root, path, opts.Exclude) {
			logger.Debug().Str("path", path).Msg("excluded by pattern")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || linksToDir(path, d) {
			return nil
		}
		files = append(files, paths.New(path))
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	logger.Debug().Str("root", root).Int("files", len(files)).Msg("listed files")
	return files, nil
}

func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// 🚶 WalkFiles returns every regular file and every symlink that does not
// point at a directory below root, without descending into directories
// whose name is in skipDirs. Hidden entries are kept. Dangling symlinks are
// returned as files.
func WalkFiles(ctx context.Context, root string, skipDirs ...string) ([]paths.Path, error) {
	skip := make(map[string]struct{}, len(skipDirs))
	for _, s := range skipDirs {
		skip[s] = struct{}{}
	}

	var files []paths.Path
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, ok := skip[d.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if linksToDir(path, d) {
			return nil
		}
		files = append(files, paths.New(path))
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	zerolog.Ctx(ctx).Debug().Str("root", root).Int("files", len(files)).Msg("walked files")
	return files, nil
}

// linksToDir reports whether d is a symlink whose target is a directory.
// WalkDir does not follow links, so such an entry is not IsDir.
func linksToDir(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
