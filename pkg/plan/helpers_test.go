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

package plan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/plan"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// tempRoot returns a symlink-resolved temporary directory.
func tempRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return root
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
}

// relPlan renders a map as slash-form "src -> dst" pairs relative to root.
func relPlan(t *testing.T, root string, m *plan.Map) map[string]string {
	t.Helper()
	base := paths.New(root)
	out := make(map[string]string, m.Len())
	for _, e := range m.Entries() {
		src, err := e.Src.Rel(base)
		require.NoError(t, err)
		dst, err := e.Dst.Rel(base)
		require.NoError(t, err)
		out[src.Slash()] = dst.Slash()
	}
	return out
}

func listed(t *testing.T, root string, rel ...string) []paths.Path {
	t.Helper()
	out := make([]paths.Path, 0, len(rel))
	for _, r := range rel {
		out = append(out, paths.New(filepath.Join(root, filepath.FromSlash(r))))
	}
	return out
}
