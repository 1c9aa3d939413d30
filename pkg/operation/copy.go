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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 copyEntry copies src to dst according to the source's type
func (e *Executor) copyEntry(ctx context.Context, src, dst string, info fs.FileInfo) error {
	logger := zerolog.Ctx(ctx)

	if info.Mode()&fs.ModeSymlink != 0 {
		if e.opts.HandleSymlinks {
			return copySymlink(src, dst)
		}

		target, err := os.Stat(src)
		if err != nil {
			return errors.Errorf("following symlink %s: %w", src, err)
		}
		resolved, err := filepath.EvalSymlinks(src)
		if err != nil {
			return errors.Errorf("resolving symlink %s: %w", src, err)
		}
		logger.Trace().Str("src", src).Str("resolved", resolved).Msg("copying symlink target")
		if target.IsDir() {
			return e.copyTree(ctx, resolved, dst)
		}
		return copyFile(resolved, dst, target)
	}

	if info.IsDir() {
		return e.copyTree(ctx, src, dst)
	}
	return copyFile(src, dst, info)
}

// 🌳 copyTree deep copies a directory, merging into dst when it exists
func (e *Executor) copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return errors.Errorf("reading %s: %w", path, err)
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return errors.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			return e.copyEntry(ctx, path, target, info)
		default:
			return copyFile(path, target, info)
		}
	})
}

// 🔗 copySymlink recreates the link at dst with the same target text
func copySymlink(src, dst string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return errors.Errorf("reading link %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	// replace a link left by an earlier run, never a real file
	if existing, err := os.Lstat(dst); err == nil {
		if existing.Mode()&fs.ModeSymlink == 0 {
			return errors.Errorf("destination %s exists and is not a symlink", dst)
		}
		if err := os.Remove(dst); err != nil {
			return errors.Errorf("replacing link %s: %w", dst, err)
		}
	}

	if err := os.Symlink(link, dst); err != nil {
		return errors.Errorf("creating link %s: %w", dst, err)
	}
	return nil
}

// 📄 copyFile copies content, creating parent directories and keeping the
// source's permission bits and modification time
func copyFile(src, dst string, info fs.FileInfo) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	if existing, err := os.Stat(dst); err == nil && os.SameFile(existing, info) {
		return errors.Errorf("%s and %s are the same file", src, dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing destination file: %w", cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Errorf("copying file content: %w", err)
	}
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return errors.Errorf("setting mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("setting times: %w", err)
	}
	return nil
}

// 🗑️ removeSource deletes a source after a validated copy. Links are
// unlinked without touching what they point to.
func removeSource(src string, info fs.FileInfo) error {
	if info.IsDir() {
		if err := os.RemoveAll(src); err != nil {
			return errors.Errorf("removing directory %s: %w", src, err)
		}
		return nil
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing %s: %w", src, err)
	}
	return nil
}
