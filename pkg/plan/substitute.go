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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidInput marks planner preconditions that abort the whole call.
var ErrInvalidInput = errors.Base("invalid planner input")

// DefaultCopyFolder is the staging folder used when none is given.
const DefaultCopyFolder = "securecopy"

// 🔧 SubstituteOptions configures Substitute
type SubstituteOptions struct {
	BaseDir string
	Files   []paths.Path
	Find    []string
	// Replace, when non-empty, pairs with Find. When empty each found
	// string is kept and only prefixed.
	Replace    []string
	Prefix     string
	CopyFolder string
	Strict     bool
}

// 🔄 Substitute rewrites each file's base-relative path with find/replace
// rules and relocates it under BaseDir/CopyFolder.
func Substitute(ctx context.Context, opts SubstituteOptions) (*Map, error) {
	logger := zerolog.Ctx(ctx)

	rules, err := substitutionRules(opts)
	if err != nil {
		return nil, err
	}
	replacer, err := text.NewReplacer(rules, opts.Strict)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	base := paths.New(opts.BaseDir)
	copyFolder := opts.CopyFolder
	if copyFolder == "" {
		copyFolder = DefaultCopyFolder
	}
	target := base.Join(copyFolder)

	m := NewMap()
	for _, file := range opts.Files {
		rel, err := file.Rel(base)
		if err != nil {
			return nil, errors.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}

		res := replacer.Replace(filepath.FromSlash(rel.Slash()))
		dst := target.Join(res.Modified)
		if !dst.Within(target) {
			return nil, errors.Errorf("%w: %q rewrites to %q, outside %q", ErrInvalidInput, rel.Slash(), res.Modified, target)
		}
		m.Set(file, dst)

		if len(res.Partial) > 0 {
			m.Warn(ctx, file, fmt.Sprintf(
				"potential partial match in %q, replacements may not be isolated words: %s",
				file, strings.Join(res.Partial, ", ")))
		}
	}

	logger.Debug().Int("entries", m.Len()).Str("target", target.String()).Msg("planned substitutions")
	return m, nil
}

func substitutionRules(opts SubstituteOptions) ([]text.Rule, error) {
	if len(opts.Replace) > 0 && len(opts.Replace) != len(opts.Find) {
		return nil, errors.Errorf("%w: find and replace lists differ in length (%d != %d)",
			ErrInvalidInput, len(opts.Find), len(opts.Replace))
	}

	rules := make([]text.Rule, 0, len(opts.Find))
	for i, find := range opts.Find {
		to := opts.Prefix + find
		if len(opts.Replace) > 0 {
			to = opts.Prefix + opts.Replace[i]
		}
		rules = append(rules, text.Rule{From: find, To: to})
	}
	return rules, nil
}
