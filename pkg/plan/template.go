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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// SpecifierKind tells literal and wildcard template positions apart.
type SpecifierKind int

const (
	// Literal matches exactly one segment with a regular expression.
	Literal SpecifierKind = iota
	// Wildcard captures zero or more contiguous segments.
	Wildcard
)

// String returns a string representation of SpecifierKind
func (k SpecifierKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Wildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// 🧩 Specifier is one parsed template position
type Specifier struct {
	Kind SpecifierKind
	// Raw is the specifier as written.
	Raw string
	// Name is the text between the angle brackets of a wildcard.
	Name string

	re *regexp.Regexp
}

// Match reports whether a literal specifier accepts seg. The pattern is
// anchored at the start of the segment only, so "^sub-" style patterns
// need an explicit "$" to pin the end.
func (s Specifier) Match(seg string) bool {
	return s.re != nil && s.re.MatchString(seg)
}

// 📐 Template is a parsed StructureTemplate plus its target order.
type Template struct {
	specs []Specifier
	order []int // zero-based template positions
}

// ParseTemplate parses structure and a 1-based target order. A specifier
// of the form "<name>" is a wildcard; anything else is a regular
// expression for a single segment.
func ParseTemplate(structure []string, targetOrder []int) (*Template, error) {
	if len(structure) == 0 {
		return nil, errors.Errorf("%w: structure template is empty", ErrInvalidInput)
	}
	if len(targetOrder) == 0 {
		return nil, errors.Errorf("%w: target order is empty", ErrInvalidInput)
	}

	t := &Template{
		specs: make([]Specifier, 0, len(structure)),
		order: make([]int, 0, len(targetOrder)),
	}

	for i, raw := range structure {
		if isWildcard(raw) {
			if i > 0 && t.specs[i-1].Kind == Wildcard {
				return nil, errors.Errorf("%w: wildcards %q and %q are adjacent, their split point is ambiguous",
					ErrInvalidInput, structure[i-1], raw)
			}
			t.specs = append(t.specs, Specifier{Kind: Wildcard, Raw: raw, Name: raw[1 : len(raw)-1]})
			continue
		}

		re, err := regexp.Compile(`^(?:` + raw + `)`)
		if err != nil {
			return nil, errors.Errorf("%w: template position %d: %s", ErrInvalidInput, i+1, err.Error())
		}
		t.specs = append(t.specs, Specifier{Kind: Literal, Raw: raw, re: re})
	}

	for _, pos := range targetOrder {
		if pos < 1 || pos > len(structure) {
			return nil, errors.Errorf("%w: target position %d is outside 1..%d", ErrInvalidInput, pos, len(structure))
		}
		t.order = append(t.order, pos-1)
	}

	return t, nil
}

func isWildcard(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">")
}

// Specifiers returns the parsed template positions.
func (t *Template) Specifiers() []Specifier {
	out := make([]Specifier, len(t.specs))
	copy(out, t.specs)
	return out
}

// Order returns the zero-based target order.
func (t *Template) Order() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// 🔀 Reorder matches segments against the template left to right and
// reassembles the captures in target order. It reports false when the
// segments do not fit the template.
func (t *Template) Reorder(segments []string) ([]string, bool) {
	captures, ok := t.capture(segments)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(segments))
	for _, pos := range t.order {
		out = append(out, captures[pos]...)
	}
	return out, true
}

func (t *Template) capture(segments []string) ([][]string, bool) {
	captures := make([][]string, len(t.specs))
	idx := 0

	for i, s := range t.specs {
		if s.Kind == Wildcard {
			next := t.nextLiteralMatch(i+1, segments, idx)
			captures[i] = append([]string(nil), segments[idx:next]...)
			idx = next
			continue
		}

		if idx >= len(segments) || !s.Match(segments[idx]) {
			return nil, false
		}
		captures[i] = []string{segments[idx]}
		idx++
	}

	if idx < len(segments) {
		last := len(t.specs) - 1
		if t.specs[last].Kind != Wildcard {
			return nil, false
		}
		captures[last] = append(captures[last], segments[idx:]...)
	}

	return captures, true
}

// nextLiteralMatch finds the first literal specifier at or after from and
// returns the index of the first segment at or after cursor it matches.
// Without a later literal, or without a matching segment, every remaining
// segment belongs to the wildcard.
func (t *Template) nextLiteralMatch(from int, segments []string, cursor int) int {
	var next *Specifier
	for i := from; i < len(t.specs); i++ {
		if t.specs[i].Kind == Literal {
			next = &t.specs[i]
			break
		}
	}
	if next == nil {
		return len(segments)
	}

	for i := cursor; i < len(segments); i++ {
		if next.Match(segments[i]) {
			return i
		}
	}
	return len(segments)
}
