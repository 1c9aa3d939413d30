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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/plan"
)

func TestHasConflicts(t *testing.T) {
	tests := []struct {
		name  string
		pairs [][2]string
		want  bool
	}{
		{name: "empty_map", want: false},
		{name: "unique_destinations", pairs: [][2]string{{"/a", "/x/a"}, {"/b", "/x/b"}}, want: false},
		{name: "shared_destination", pairs: [][2]string{{"/a", "/x/a"}, {"/b", "/x/a"}}, want: true},
		{name: "normalized_equal_destination", pairs: [][2]string{{"/a", "/x//a/"}, {"/b", "/x/./a"}}, want: true},
		{name: "identity_entries", pairs: [][2]string{{"/a", "/a"}, {"/b", "/b"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := plan.NewMap()
			for _, p := range tt.pairs {
				m.Set(paths.New(p[0]), paths.New(p[1]))
			}
			assert.Equal(t, tt.want, plan.HasConflicts(m))
			assert.Equal(t, tt.want, len(plan.FindConflicts(m)) > 0)
		})
	}

	assert.False(t, plan.HasConflicts(nil))
}

func TestMapSetKeepsPosition(t *testing.T) {
	m := plan.NewMap()
	m.Set(paths.New("/a"), paths.New("/x/1"))
	m.Set(paths.New("/b"), paths.New("/x/2"))
	m.Set(paths.New("/a"), paths.New("/x/3"))

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, paths.New("/a"), entries[0].Src)
	assert.Equal(t, paths.New("/x/3"), entries[0].Dst)

	assert.False(t, m.HasDestination(paths.New("/x/1")), "overwritten destination is released")
	assert.True(t, m.HasDestination(paths.New("/x/3")))

	dst, ok := m.Get(paths.New("/b"))
	assert.True(t, ok)
	assert.Equal(t, paths.New("/x/2"), dst)
}

func TestMapOverwriteResolvesConflict(t *testing.T) {
	m := plan.NewMap()
	m.Set(paths.New("/a"), paths.New("/x"))
	m.Set(paths.New("/b"), paths.New("/x"))
	require.True(t, plan.HasConflicts(m))

	m.Set(paths.New("/b"), paths.New("/y"))
	assert.False(t, plan.HasConflicts(m))
	assert.True(t, m.HasDestination(paths.New("/x")))
}

func TestFindConflicts(t *testing.T) {
	m := plan.NewMap()
	m.Set(paths.New("/a"), paths.New("/x"))
	m.Set(paths.New("/b"), paths.New("/y"))
	m.Set(paths.New("/c"), paths.New("/x"))
	m.Set(paths.New("/d"), paths.New("/x"))

	conflicts := plan.FindConflicts(m)
	require.Len(t, conflicts, 1)
	assert.Equal(t, paths.New("/x"), conflicts[0].Dst)
	assert.Equal(t, []paths.Path{paths.New("/a"), paths.New("/c"), paths.New("/d")}, conflicts[0].Srcs)
}

func TestMapMarshalJSON(t *testing.T) {
	m := plan.NewMap()
	m.Set(paths.New("/b"), paths.New("/x/b"))
	m.Set(paths.New("/a"), paths.New("/x/a"))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"src":"/b","dst":"/x/b"},{"src":"/a","dst":"/x/a"}]`, string(data))

	data, err = json.Marshal(plan.NewMap())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
