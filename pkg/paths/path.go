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

// Package paths provides a comparable filesystem path value.
//
// A Path is normalized once, when it is built, with filepath.Clean and a
// conversion to forward slashes. Nothing else is folded: case is kept,
// symlinks are not resolved and "a" and "/a" are different paths. Two
// Paths are equal exactly when their root marker and segment sequence are
// equal, so Path can be used directly as a map key.
package paths

import (
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📍 Path is a normalized location on the local filesystem
type Path struct {
	root string // "" when relative, "/" or a volume plus "/" when absolute
	rel  string // slash-joined segments, "" for the root itself
}

// 🏭 New builds a Path from an OS path string
func New(p string) Path {
	if p == "" {
		return Path{}
	}
	c := filepath.Clean(p)
	vol := filepath.VolumeName(c)
	c = filepath.ToSlash(c[len(vol):])

	root := vol
	if strings.HasPrefix(c, "/") {
		root += "/"
		c = strings.TrimLeft(c, "/")
	}
	if c == "." {
		c = ""
	}
	return Path{root: root, rel: c}
}

// FromSegments builds a relative Path from already split segments.
func FromSegments(segments ...string) Path {
	if len(segments) == 0 {
		return Path{}
	}
	return New(filepath.Join(segments...))
}

// IsAbs reports whether the path is anchored at a filesystem root.
func (p Path) IsAbs() bool {
	return strings.HasSuffix(p.root, "/")
}

// IsZero reports whether p is the empty relative path.
func (p Path) IsZero() bool {
	return p.root == "" && p.rel == ""
}

// Segments returns a fresh copy of the path components below the root.
func (p Path) Segments() []string {
	if p.rel == "" {
		return nil
	}
	return strings.Split(p.rel, "/")
}

// Base returns the last segment, or "" for a root.
func (p Path) Base() string {
	if p.rel == "" {
		return ""
	}
	if i := strings.LastIndexByte(p.rel, '/'); i >= 0 {
		return p.rel[i+1:]
	}
	return p.rel
}

// Dir returns the parent path. The parent of a root is the root itself.
func (p Path) Dir() Path {
	if p.rel == "" {
		return p
	}
	if i := strings.LastIndexByte(p.rel, '/'); i >= 0 {
		return Path{root: p.root, rel: p.rel[:i]}
	}
	return Path{root: p.root}
}

// Join appends elements, cleaning the result.
func (p Path) Join(elem ...string) Path {
	if len(elem) == 0 {
		return p
	}
	return New(filepath.Join(append([]string{p.String()}, elem...)...))
}

// JoinPath appends the segments of a relative path.
func (p Path) JoinPath(rel Path) Path {
	return p.Join(rel.Segments()...)
}

// Within reports whether p lies strictly below ancestor.
func (p Path) Within(ancestor Path) bool {
	if p.root != ancestor.root || p.rel == ancestor.rel {
		return false
	}
	if ancestor.rel == "" {
		return p.rel != ""
	}
	return strings.HasPrefix(p.rel, ancestor.rel+"/")
}

// 🔍 Rel returns p expressed relative to base. It fails when p is not base
// itself or a descendant of base.
func (p Path) Rel(base Path) (Path, error) {
	if p == base {
		return Path{}, nil
	}
	if !p.Within(base) {
		return Path{}, errors.Errorf("%q is not under %q", p, base)
	}
	if base.rel == "" {
		return Path{rel: p.rel}, nil
	}
	return Path{rel: p.rel[len(base.rel)+1:]}, nil
}

// String returns the path in OS form.
func (p Path) String() string {
	s := p.root + p.rel
	if s == "" {
		return "."
	}
	return filepath.FromSlash(s)
}

// Slash returns the path with forward slashes, handy for pattern matching.
func (p Path) Slash() string {
	s := p.root + p.rel
	if s == "" {
		return "."
	}
	return s
}

// MarshalText encodes the path in OS form.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses an OS path.
func (p *Path) UnmarshalText(b []byte) error {
	*p = New(string(b))
	return nil
}

// Abs makes p absolute against the working directory.
func Abs(p string) (Path, error) {
	a, err := filepath.Abs(p)
	if err != nil {
		return Path{}, errors.Errorf("making %q absolute: %w", p, err)
	}
	return New(a), nil
}

// Resolve makes p absolute and resolves symlinks in the longest existing
// prefix. Missing trailing components are appended unresolved.
func Resolve(p string) (Path, error) {
	a, err := filepath.Abs(p)
	if err != nil {
		return Path{}, errors.Errorf("making %q absolute: %w", p, err)
	}
	return New(resolveExisting(a)), nil
}

func resolveExisting(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	dir := filepath.Dir(p)
	if dir == p {
		return p
	}
	return filepath.Join(resolveExisting(dir), filepath.Base(p))
}

// Sort orders paths lexically by their slash form.
func Sort(ps []Path) {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].Slash() < ps[j].Slash()
	})
}
