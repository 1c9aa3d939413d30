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

package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/reshelve/pkg/paths"
	"github.com/walteh/reshelve/pkg/plan"
	"github.com/walteh/reshelve/pkg/status"
)

// rel shows p relative to base when it lies below it
func rel(base, p paths.Path) string {
	if r, err := p.Rel(base); err == nil {
		return r.Slash()
	}
	return p.String()
}

// 📋 renderPlan prints every planned move as a table
func renderPlan(w io.Writer, baseDir string, m *plan.Map) error {
	if m.Len() == 0 {
		pterm.Info.WithWriter(w).WithPrefix(pterm.Prefix{Text: "📦"}).Println("Nothing to do")
		return nil
	}

	base := paths.New(baseDir)
	data := pterm.TableData{{"#", "source", "destination"}}
	for i, e := range m.Entries() {
		data = append(data, []string{strconv.Itoa(i + 1), rel(base, e.Src), rel(base, e.Dst)})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

// ⚠️ renderWarnings prints planning warnings
func renderWarnings(w io.Writer, baseDir string, m *plan.Map) {
	base := paths.New(baseDir)
	printer := pterm.Warning.WithWriter(w).WithPrefix(pterm.Prefix{Text: "⚠️"})
	for _, warn := range m.Warnings() {
		printer.Println(fmt.Sprintf("%s: %s", rel(base, warn.Path), warn.Message))
	}
}

// 💥 renderConflicts prints every shared destination with its sources
func renderConflicts(w io.Writer, baseDir string, conflicts []plan.Conflict) error {
	base := paths.New(baseDir)
	data := pterm.TableData{{"destination", "sources"}}
	for _, c := range conflicts {
		for i, src := range c.Srcs {
			dst := ""
			if i == 0 {
				dst = rel(base, c.Dst)
			}
			data = append(data, []string{dst, rel(base, src)})
		}
	}
	pterm.Error.WithWriter(w).WithPrefix(pterm.Prefix{Text: "💥"}).Println(
		fmt.Sprintf("%d destinations are claimed by more than one source", len(conflicts)))
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

// 📊 renderSummary prints outcome counts and the failed entries
func renderSummary(w io.Writer, baseDir string, counts map[status.Outcome]int, failures []status.Result) error {
	data := pterm.TableData{{"outcome", "entries"}}
	for _, o := range status.Outcomes() {
		if n := counts[o]; n > 0 {
			data = append(data, []string{o.String(), strconv.Itoa(n)})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render(); err != nil {
		return err
	}

	base := paths.New(baseDir)
	printer := pterm.Error.WithWriter(w).WithPrefix(pterm.Prefix{Text: "❌"})
	for _, f := range failures {
		msg := fmt.Sprintf("%s -> %s: %s", rel(base, f.Src), rel(base, f.Dst), f.Outcome)
		if f.Err != nil {
			msg += fmt.Sprintf(" (%v)", f.Err)
		}
		printer.Println(msg)
	}
	return nil
}
