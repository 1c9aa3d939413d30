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
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrMismatch marks a destination that does not match its source.
var ErrMismatch = errors.Base("copy does not match source")

// 🔍 FSValidator compares a copy against its source on disk.
//
// Directories must exist as directories. Recreated links must carry the
// same link text, or with StrictSymlinks resolve to the same target. Files,
// including followed links, must have the same size.
type FSValidator struct {
	HandleSymlinks bool
	StrictSymlinks bool
	VerifyChecksum bool
}

var _ Validator = (*FSValidator)(nil)

// Validate implements Validator.
func (v *FSValidator) Validate(ctx context.Context, src, dst string) error {
	// Lstat so that a recreated link that dangles from its new location
	// still counts as present
	dinfo, err := os.Lstat(dst)
	if err != nil {
		return errors.Errorf("%w: destination %s: %s", ErrMismatch, dst, err.Error())
	}
	sinfo, err := os.Lstat(src)
	if err != nil {
		return errors.Errorf("%w: source %s: %s", ErrMismatch, src, err.Error())
	}

	if sinfo.Mode()&fs.ModeSymlink != 0 {
		if v.HandleSymlinks {
			return v.validateLink(src, dst, dinfo)
		}
		target, err := os.Stat(src)
		if err != nil {
			return errors.Errorf("%w: following %s: %s", ErrMismatch, src, err.Error())
		}
		if dinfo, err = os.Stat(dst); err != nil {
			return errors.Errorf("%w: following %s: %s", ErrMismatch, dst, err.Error())
		}
		sinfo = target
	}

	if sinfo.IsDir() {
		if !dinfo.IsDir() {
			return errors.Errorf("%w: %s is not a directory", ErrMismatch, dst)
		}
		return nil
	}

	if !dinfo.Mode().IsRegular() {
		return errors.Errorf("%w: %s is not a regular file", ErrMismatch, dst)
	}
	if sinfo.Size() != dinfo.Size() {
		return errors.Errorf("%w: size %d != %d", ErrMismatch, sinfo.Size(), dinfo.Size())
	}

	if v.VerifyChecksum {
		a, err := checksum(src)
		if err != nil {
			return err
		}
		b, err := checksum(dst)
		if err != nil {
			return err
		}
		if a != b {
			return errors.Errorf("%w: sha256 %s != %s", ErrMismatch, a, b)
		}
		zerolog.Ctx(ctx).Trace().Str("dst", dst).Str("sha256", b).Msg("checksum verified")
	}
	return nil
}

func (v *FSValidator) validateLink(src, dst string, dinfo fs.FileInfo) error {
	if dinfo.Mode()&fs.ModeSymlink == 0 {
		return errors.Errorf("%w: %s is not a symlink", ErrMismatch, dst)
	}

	if v.StrictSymlinks {
		a, err := filepath.EvalSymlinks(src)
		if err != nil {
			return errors.Errorf("%w: resolving %s: %s", ErrMismatch, src, err.Error())
		}
		b, err := filepath.EvalSymlinks(dst)
		if err != nil {
			return errors.Errorf("%w: resolving %s: %s", ErrMismatch, dst, err.Error())
		}
		if a != b {
			return errors.Errorf("%w: link targets %s != %s", ErrMismatch, a, b)
		}
		return nil
	}

	a, err := os.Readlink(src)
	if err != nil {
		return errors.Errorf("reading link %s: %w", src, err)
	}
	b, err := os.Readlink(dst)
	if err != nil {
		return errors.Errorf("reading link %s: %w", dst, err)
	}
	if a != b {
		return errors.Errorf("%w: link text %q != %q", ErrMismatch, a, b)
	}
	return nil
}

// 🔍 checksum generates a SHA-256 hash of a file's content
func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
