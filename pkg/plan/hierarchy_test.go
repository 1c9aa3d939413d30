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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name        string
		tree        []string
		hierarchies [][]string
		copyFolder  string
		want        map[string]string
	}{
		{
			name:        "nested_chain",
			tree:        []string{"sub-01/ses-01/task-rest/f.txt", "sub-02/ses-01/task-rest/f.txt"},
			hierarchies: [][]string{{"ses-01", "task-rest"}},
			want: map[string]string{
				"sub-01/ses-01/task-rest": "sub-01/ses-01_task-rest",
				"sub-02/ses-01/task-rest": "sub-02/ses-01_task-rest",
			},
		},
		{
			name:        "partial_chain_is_ignored",
			tree:        []string{"sub-01/ses-02/task-rest/f.txt"},
			hierarchies: [][]string{{"ses-01", "task-rest"}},
			want:        map[string]string{},
		},
		{
			name:        "single_name_is_skipped",
			tree:        []string{"a/f.txt"},
			hierarchies: [][]string{{"a"}},
			want:        map[string]string{},
		},
		{
			name:        "chain_at_root_level",
			tree:        []string{"a/b/c/f.txt"},
			hierarchies: [][]string{{"a", "b", "c"}},
			want:        map[string]string{"a/b/c": "a_b_c"},
		},
		{
			name:        "rerooted_under_copy_folder",
			tree:        []string{"sub-01/ses-01/task-rest/f.txt"},
			hierarchies: [][]string{{"ses-01", "task-rest"}},
			copyFolder:  "securecopy",
			want:        map[string]string{"sub-01/ses-01/task-rest": "securecopy/sub-01/ses-01_task-rest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tempRoot(t)
			writeTree(t, root, tt.tree...)

			m, err := plan.Combine(testContext(t), plan.CombineOptions{
				RootDir:     root,
				Hierarchies: tt.hierarchies,
				CopyFolder:  tt.copyFolder,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPlan(t, root, m))
		})
	}
}

func TestSplit(t *testing.T) {
	root := tempRoot(t)
	writeTree(t, root,
		"sub-01/ses-01_task-rest/f.txt",
		"sub-02/single/f.txt",
	)

	m, err := plan.Split(testContext(t), plan.SplitOptions{
		RootDir:  root,
		Combined: []string{"ses-01_task-rest", "single"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"sub-01/ses-01_task-rest": "sub-01/ses-01/task-rest",
	}, relPlan(t, root, m))
}

func TestCombineThenSplitRoundTrip(t *testing.T) {
	ctx := testContext(t)
	root := tempRoot(t)
	writeTree(t, root, "sub-01/ses-01/task-rest/run-1/f.txt")

	hierarchy := []string{"ses-01", "task-rest", "run-1"}
	combined, err := plan.Combine(ctx, plan.CombineOptions{RootDir: root, Hierarchies: [][]string{hierarchy}})
	require.NoError(t, err)
	require.Equal(t, 1, combined.Len())

	entry := combined.Entries()[0]
	require.NoError(t, os.Rename(entry.Src.String(), entry.Dst.String()))
	require.NoError(t, os.RemoveAll(entry.Src.Dir().Dir().String()))

	split, err := plan.Split(ctx, plan.SplitOptions{RootDir: root, Combined: []string{"ses-01_task-rest_run-1"}})
	require.NoError(t, err)
	require.Equal(t, 1, split.Len())

	back := split.Entries()[0]
	assert.Equal(t, entry.Dst, back.Src)
	assert.Equal(t, entry.Src, back.Dst, "split restores the nested chain segment for segment")
}

func TestHierarchyInvalidNames(t *testing.T) {
	ctx := testContext(t)
	root := tempRoot(t)

	_, err := plan.Combine(ctx, plan.CombineOptions{RootDir: root, Hierarchies: [][]string{{"a", "b/c"}}})
	assert.True(t, errors.Is(err, plan.ErrInvalidInput))

	_, err = plan.Split(ctx, plan.SplitOptions{RootDir: root, Combined: []string{".."}})
	assert.True(t, errors.Is(err, plan.ErrInvalidInput))
}
