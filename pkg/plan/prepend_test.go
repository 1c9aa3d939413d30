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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

func TestPrepend(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		folders    []string
		remove     bool
		copyFolder string
		want       map[string]string
	}{
		{
			name:    "remove_folders",
			files:   []string{"bla1/bla2/bla3/bla4/test.txt"},
			folders: []string{"bla1", "bla3"},
			remove:  true,
			want:    map[string]string{"bla1/bla2/bla3/bla4/test.txt": "bla2/bla4/bla1_bla3_test.txt"},
		},
		{
			name:    "keep_folders",
			files:   []string{"bla1/bla2/bla3/bla4/test.txt"},
			folders: []string{"bla1", "bla3"},
			want:    map[string]string{"bla1/bla2/bla3/bla4/test.txt": "bla1/bla2/bla3/bla4/bla1_bla3_test.txt"},
		},
		{
			name:    "missing_folder_passes_through",
			files:   []string{"bla1/bla2/test.txt"},
			folders: []string{"bla1", "bla3"},
			remove:  true,
			want:    map[string]string{"bla1/bla2/test.txt": "bla1/bla2/test.txt"},
		},
		{
			name:       "copy_folder_reroots_every_file",
			files:      []string{"a/x.txt", "b/y.txt"},
			folders:    []string{"a"},
			copyFolder: "securecopy",
			want: map[string]string{
				"a/x.txt": "securecopy/a/a_x.txt",
				"b/y.txt": "securecopy/b/y.txt",
			},
		},
		{
			name:    "filename_is_not_a_folder",
			files:   []string{"x/a"},
			folders: []string{"a"},
			want:    map[string]string{"x/a": "x/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tempRoot(t)

			m, err := plan.Prepend(testContext(t), plan.PrependOptions{
				RootDir:    root,
				Files:      tt.files,
				Folders:    tt.folders,
				Remove:     tt.remove,
				CopyFolder: tt.copyFolder,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPlan(t, root, m))
		})
	}
}

func TestPrependAbsoluteFiles(t *testing.T) {
	root := tempRoot(t)

	m, err := plan.Prepend(testContext(t), plan.PrependOptions{
		RootDir: root,
		Files:   []string{filepath.Join(root, "a", "b", "f.txt")},
		Folders: []string{"a", "b"},
		Remove:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a/b/f.txt": "a_b_f.txt"}, relPlan(t, root, m))
}

func TestPrependInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		folders []string
	}{
		{name: "no_folders", files: []string{"a/f.txt"}},
		{name: "file_outside_root", files: []string{"/elsewhere/f.txt"}, folders: []string{"a"}},
		{name: "escaping_relative_file", files: []string{"../f.txt"}, folders: []string{"a"}},
		{name: "folder_with_separator", files: []string{"a/f.txt"}, folders: []string{"a/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.Prepend(testContext(t), plan.PrependOptions{
				RootDir: tempRoot(t),
				Files:   tt.files,
				Folders: tt.folders,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, plan.ErrInvalidInput))
		})
	}
}
