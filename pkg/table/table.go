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

// Package table holds a small read-only columnar dataset: named columns and
// rows of scalar cells, loaded from CSV, JSON or YAML.
package table

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// 📊 Table is an ordered set of columns and the rows filled against them
type Table struct {
	columns []string
	known   map[string]struct{}
	rows    []Row
}

// 📄 Row is one record. A cell that is absent or nil is missing.
type Row struct {
	index  int
	values map[string]any
}

// 🏭 New creates an empty table with the given columns
func New(columns ...string) *Table {
	t := &Table{known: make(map[string]struct{})}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.known[name]; ok {
		return
	}
	t.known[name] = struct{}{}
	t.columns = append(t.columns, name)
}

// Append adds a record. Keys not seen before become new columns, in the
// order they are first met.
func (t *Table) Append(record map[string]any) {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	t.appendOrdered(keys, record)
}

func (t *Table) appendOrdered(keys []string, record map[string]any) {
	values := make(map[string]any, len(record))
	for _, k := range keys {
		t.addColumn(k)
		if v := record[k]; v != nil {
			values[k] = v
		}
	}
	t.rows = append(t.rows, Row{index: len(t.rows), values: values})
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.known[name]
	return ok
}

// Rows returns the records in load order.
func (t *Table) Rows() []Row {
	return slices.Clone(t.rows)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Index is the zero-based position of the row in its table.
func (r Row) Index() int {
	return r.index
}

// Get returns the cell for column, and false when it is missing.
func (r Row) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Text returns the cell for column rendered as text.
func (r Row) Text(column string) (string, bool) {
	v, ok := r.values[column]
	if !ok {
		return "", false
	}
	return Format(v), true
}

// Format renders a scalar cell. Whole floats print without a fraction so
// that a JSON 3 and a CSV "3" render the same.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
