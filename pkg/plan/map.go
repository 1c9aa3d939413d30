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

package plan

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
)

// 🔗 Entry is one planned source -> destination move
type Entry struct {
	Src paths.Path `json:"src"`
	Dst paths.Path `json:"dst"`
}

// ⚠️ Warning is a non-fatal planning note about one path
type Warning struct {
	Path    paths.Path `json:"path"`
	Message string     `json:"message"`
}

// 🗺️ Map is an ordered mapping from source to destination paths.
//
// Keys are unique. Setting an existing key replaces its destination but
// keeps its original position, so insertion order is processing order.
type Map struct {
	entries  []Entry
	index    map[paths.Path]int
	dsts     map[paths.Path]int
	warnings []Warning
}

// 🏭 NewMap creates an empty map
func NewMap() *Map {
	return &Map{
		index: make(map[paths.Path]int),
		dsts:  make(map[paths.Path]int),
	}
}

// Set maps src to dst.
func (m *Map) Set(src, dst paths.Path) {
	if i, ok := m.index[src]; ok {
		m.dropDestination(m.entries[i].Dst)
		m.entries[i].Dst = dst
		m.dsts[dst]++
		return
	}
	m.index[src] = len(m.entries)
	m.entries = append(m.entries, Entry{Src: src, Dst: dst})
	m.dsts[dst]++
}

func (m *Map) dropDestination(dst paths.Path) {
	if m.dsts[dst] <= 1 {
		delete(m.dsts, dst)
		return
	}
	m.dsts[dst]--
}

// Get returns the destination planned for src.
func (m *Map) Get(src paths.Path) (paths.Path, bool) {
	if m == nil {
		return paths.Path{}, false
	}
	i, ok := m.index[src]
	if !ok {
		return paths.Path{}, false
	}
	return m.entries[i].Dst, true
}

// HasDestination reports whether any source already maps to dst.
func (m *Map) HasDestination(dst paths.Path) bool {
	if m == nil {
		return false
	}
	return m.dsts[dst] > 0
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Warn records a warning and logs it.
func (m *Map) Warn(ctx context.Context, p paths.Path, msg string) {
	zerolog.Ctx(ctx).Warn().Str("path", p.String()).Msg(msg)
	m.warnings = append(m.warnings, Warning{Path: p, Message: msg})
}

// Warnings returns the warnings recorded while planning.
func (m *Map) Warnings() []Warning {
	if m == nil {
		return nil
	}
	out := make([]Warning, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// cleared returns an empty map that keeps the warnings of m.
func (m *Map) cleared() *Map {
	out := NewMap()
	out.warnings = m.Warnings()
	return out
}

// MarshalJSON encodes the entries as an ordered list.
func (m *Map) MarshalJSON() ([]byte, error) {
	entries := m.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// 💥 Conflict is one destination claimed by more than one source
type Conflict struct {
	Dst  paths.Path
	Srcs []paths.Path
}

// HasConflicts reports whether two or more distinct sources share a
// destination.
func HasConflicts(m *Map) bool {
	seen := make(map[paths.Path]struct{}, m.Len())
	for _, e := range m.Entries() {
		if _, ok := seen[e.Dst]; ok {
			return true
		}
		seen[e.Dst] = struct{}{}
	}
	return false
}

// FindConflicts returns every shared destination with all of its sources,
// ordered by first appearance.
func FindConflicts(m *Map) []Conflict {
	bySrc := make(map[paths.Path][]paths.Path)
	var order []paths.Path
	for _, e := range m.Entries() {
		if _, ok := bySrc[e.Dst]; !ok {
			order = append(order, e.Dst)
		}
		bySrc[e.Dst] = append(bySrc[e.Dst], e.Src)
	}

	var out []Conflict
	for _, dst := range order {
		if srcs := bySrc[dst]; len(srcs) > 1 {
			out = append(out, Conflict{Dst: dst, Srcs: srcs})
		}
	}
	return out
}
