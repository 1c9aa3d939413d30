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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/plan"
	"github.com/walteh/reshelve/pkg/table"
	"gitlab.com/tozd/go/errors"
)

func loadCSV(t *testing.T, data string) *table.Table {
	t.Helper()
	tbl, err := table.LoadCSV(strings.NewReader(data), ',')
	require.NoError(t, err)
	return tbl
}

func TestFromTable(t *testing.T) {
	tree := []string{
		"sub-01/rec1/data.txt",
		"sub-01/rec2/data.txt",
		"sub-02/rec3/data.txt",
		"other/x.txt",
		".hidden/rec1/skip.txt",
	}

	tests := []struct {
		name         string
		dataset      string
		includeAll   bool
		want         map[string]string
		wantWarnings int
	}{
		{
			name:    "renames_key_folder",
			dataset: "recording_id,task_id,run_id\nrec1,rest,1\nrec3,motor task,2\n",
			want: map[string]string{
				"sub-01/rec1/data.txt": "securecopy/sub-01/task-rest_run-1/data.txt",
				"sub-02/rec3/data.txt": "securecopy/sub-02/task-motor_task_run-2/data.txt",
			},
		},
		{
			name:    "missing_placeholder_skips_record",
			dataset: "recording_id,task_id,run_id\nrec1,rest,1\nrec2,,2\n",
			want: map[string]string{
				"sub-01/rec1/data.txt": "securecopy/sub-01/task-rest_run-1/data.txt",
			},
			wantWarnings: 1,
		},
		{
			name:         "missing_key_value_skips_record",
			dataset:      "recording_id,task_id,run_id\n,rest,1\n",
			want:         map[string]string{},
			wantWarnings: 1,
		},
		{
			name:       "include_non_matches",
			dataset:    "recording_id,task_id,run_id\nrec1,rest,1\n",
			includeAll: true,
			want: map[string]string{
				"sub-01/rec1/data.txt": "securecopy/sub-01/task-rest_run-1/data.txt",
				"sub-01/rec2/data.txt": "securecopy/sub-01/rec2/data.txt",
				"sub-02/rec3/data.txt": "securecopy/sub-02/rec3/data.txt",
				"other/x.txt":          "securecopy/other/x.txt",
			},
		},
		{
			name:    "duplicate_destination_is_skipped",
			dataset: "recording_id,task_id,run_id\nrec1,rest,1\nrec2,rest,1\n",
			want: map[string]string{
				"sub-01/rec1/data.txt": "securecopy/sub-01/task-rest_run-1/data.txt",
			},
			wantWarnings: 1,
		},
		{
			name:         "missing_key_column_fails_closed",
			dataset:      "id,task_id,run_id\nrec1,rest,1\n",
			want:         map[string]string{},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tempRoot(t)
			writeTree(t, root, tree...)

			m, err := plan.FromTable(testContext(t), plan.TableOptions{
				Table:             loadCSV(t, tt.dataset),
				BaseDir:           root,
				KeyField:          "recording_id",
				RenameFormat:      "task-{task_id}_run-{run_id}",
				IncludeNonMatches: tt.includeAll,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPlan(t, root, m))
			assert.Len(t, m.Warnings(), tt.wantWarnings)
			assert.False(t, plan.HasConflicts(m))
		})
	}
}

func TestFromTableTargetDir(t *testing.T) {
	root := tempRoot(t)
	out := tempRoot(t)
	writeTree(t, root, "rec1/f.txt")

	m, err := plan.FromTable(testContext(t), plan.TableOptions{
		Table:        loadCSV(t, "recording_id,run_id\nrec1,7\n"),
		BaseDir:      root,
		KeyField:     "recording_id",
		RenameFormat: "run-{run_id}",
		TargetDir:    out,
	})
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
	assert.Equal(t, filepath.Join(out, "run-7", "f.txt"), m.Entries()[0].Dst.String())
}

func TestFromTableInvalidInput(t *testing.T) {
	_, err := plan.FromTable(testContext(t), plan.TableOptions{BaseDir: tempRoot(t), KeyField: "id", RenameFormat: "{x}"})
	assert.True(t, errors.Is(err, plan.ErrInvalidInput))

	_, err = plan.FromTable(testContext(t), plan.TableOptions{Table: table.New("id"), BaseDir: tempRoot(t), RenameFormat: "{x}"})
	assert.True(t, errors.Is(err, plan.ErrInvalidInput))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"task_id", "run_id"}, plan.Placeholders("task-{task_id}_run-{run_id}"))
	assert.Empty(t, plan.Placeholders("static"))
}
