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

package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a dataset from path. The format follows the extension:
// .csv, .tsv, .json, .yaml or .yml.
func Load(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var t *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = LoadCSV(f, ',')
	case ".tsv":
		t, err = LoadCSV(f, '\t')
	case ".json":
		t, err = LoadJSON(f)
	case ".yaml", ".yml":
		t, err = LoadYAML(f)
	default:
		return nil, errors.Errorf("unsupported dataset extension %q", ext)
	}
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("rows", t.Len()).
		Strs("columns", t.Columns()).
		Msg("loaded dataset")
	return t, nil
}

// LoadCSV reads a delimited file whose first record is the header. Empty
// cells are missing.
func LoadCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, errors.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	t := New(header...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading row %d: %w", t.Len()+1, err)
		}
		values := make(map[string]any, len(header))
		for i, cell := range rec {
			if cell != "" {
				values[header[i]] = cell
			}
		}
		t.appendOrdered(header, values)
	}
	return t, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		if h == "" {
			return errors.Errorf("column %d has no name", i+1)
		}
		if _, ok := seen[h]; ok {
			return errors.Errorf("duplicate column %q", h)
		}
		seen[h] = struct{}{}
	}
	return nil
}

// LoadJSON reads an array of flat objects. Column order follows first
// appearance; numbers keep their literal form.
func LoadJSON(r io.Reader) (*Table, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}

	t := New()
	for i, msg := range raw {
		keys, values, err := decodeJSONObject(msg)
		if err != nil {
			return nil, errors.Errorf("record %d: %w", i, err)
		}
		t.appendOrdered(keys, values)
	}
	return t, nil
}

func decodeJSONObject(msg json.RawMessage) ([]string, map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, errors.Errorf("reading object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("expected an object")
	}

	var keys []string
	values := make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, errors.Errorf("reading key: %w", err)
		}
		key := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, errors.Errorf("reading %q: %w", key, err)
		}
		switch v.(type) {
		case map[string]any, []any:
			return nil, nil, errors.Errorf("field %q is not a scalar", key)
		}
		keys = append(keys, key)
		values[key] = v
	}
	return keys, values, nil
}

// LoadYAML reads a sequence of flat mappings.
func LoadYAML(r io.Reader) (*Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("line %d: expected a sequence of records", root.Line)
	}

	t := New()
	for i, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, errors.Errorf("record %d (line %d): expected a mapping", i, item.Line)
		}
		keys := make([]string, 0, len(item.Content)/2)
		values := make(map[string]any, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			k, v := item.Content[j], item.Content[j+1]
			if v.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("record %d: field %q is not a scalar", i, k.Value)
			}
			var val any
			if err := v.Decode(&val); err != nil {
				return nil, errors.Errorf("record %d: field %q: %w", i, k.Value, err)
			}
			keys = append(keys, k.Value)
			values[k.Value] = val
		}
		t.appendOrdered(keys, values)
	}
	return t, nil
}
