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

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/paths"
)

func TestNewNormalization(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{name: "trailing_slash", a: "/data/sub-01/", b: "/data/sub-01", same: true},
		{name: "dot_segments", a: "/data/./x/../sub-01", b: "/data/sub-01", same: true},
		{name: "double_slash", a: "data//sub", b: "data/sub", same: true},
		{name: "abs_vs_rel", a: "/data", b: "data", same: false},
		{name: "case_kept", a: "Data", b: "data", same: false},
		{name: "empty_vs_dot", a: "", b: ".", same: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, paths.New(tt.a) == paths.New(tt.b))
		})
	}
}

func TestPathAsMapKey(t *testing.T) {
	m := map[paths.Path]int{}
	m[paths.New("/a/b/")]++
	m[paths.New("/a/./b")]++
	m[paths.FromSegments("a", "b")]++

	assert.Len(t, m, 2)
	assert.Equal(t, 2, m[paths.New("/a/b")])
}

func TestSegmentsAndParts(t *testing.T) {
	p := paths.New("/data/sub-01/ses-02/file.txt")

	assert.True(t, p.IsAbs())
	assert.Equal(t, []string{"data", "sub-01", "ses-02", "file.txt"}, p.Segments())
	assert.Equal(t, "file.txt", p.Base())
	assert.Equal(t, paths.New("/data/sub-01/ses-02"), p.Dir())
	assert.Equal(t, paths.New("/"), paths.New("/data").Dir())
	assert.Equal(t, paths.New("/"), paths.New("/").Dir())
	assert.Nil(t, paths.New("/").Segments())
	assert.Equal(t, "", paths.New("/").Base())
	assert.Equal(t, paths.New("x"), paths.New("x/y").Dir())
	assert.Equal(t, paths.Path{}, paths.New("x").Dir())
}

func TestJoin(t *testing.T) {
	base := paths.New("/data")

	assert.Equal(t, paths.New("/data/a/b"), base.Join("a", "b"))
	assert.Equal(t, paths.New("/data/a/b"), base.JoinPath(paths.New("a/b")))
	assert.Equal(t, base, base.Join())
	assert.Equal(t, paths.New("a"), paths.Path{}.Join("a"))
}

func TestWithinAndRel(t *testing.T) {
	root := paths.New("/data")

	tests := []struct {
		name    string
		p       string
		within  bool
		rel     string
		wantErr bool
	}{
		{name: "child", p: "/data/a", within: true, rel: "a"},
		{name: "deep_child", p: "/data/a/b/c.txt", within: true, rel: "a/b/c.txt"},
		{name: "self", p: "/data", within: false, rel: "."},
		{name: "sibling_prefix", p: "/database/a", within: false, wantErr: true},
		{name: "outside", p: "/other", within: false, wantErr: true},
		{name: "relative", p: "data/a", within: false, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paths.New(tt.p)
			assert.Equal(t, tt.within, p.Within(root))

			rel, err := p.Rel(root)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, rel.IsAbs())
			assert.Equal(t, tt.rel, rel.Slash())
		})
	}

	assert.True(t, paths.New("/a").Within(paths.New("/")))
}

func TestTextRoundTrip(t *testing.T) {
	p := paths.New("/data/sub-01")
	b, err := p.MarshalText()
	require.NoError(t, err)

	var out paths.Path
	require.NoError(t, out.UnmarshalText(b))
	assert.Equal(t, p, out)
}

func TestSort(t *testing.T) {
	ps := []paths.Path{paths.New("b/a"), paths.New("a/z"), paths.New("a/b")}
	paths.Sort(ps)
	assert.Equal(t, []paths.Path{paths.New("a/b"), paths.New("a/z"), paths.New("b/a")}, ps)
}

func TestResolve(t *testing.T) {
	tmp := t.TempDir()
	real := filepath.Join(tmp, "real")
	require.NoError(t, os.MkdirAll(real, 0o755))
	require.NoError(t, os.Symlink(real, filepath.Join(tmp, "link")))

	want, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)

	got, err := paths.Resolve(filepath.Join(tmp, "link"))
	require.NoError(t, err)
	assert.Equal(t, paths.New(want), got)

	missing, err := paths.Resolve(filepath.Join(tmp, "link", "not", "there"))
	require.NoError(t, err)
	assert.Equal(t, paths.New(want).Join("not", "there"), missing)
}
