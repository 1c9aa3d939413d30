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
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/reshelve/cmd/reshelve/opts"
	"github.com/walteh/reshelve/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// NewTemplateCmd creates the template command group
func NewTemplateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Work with structure reorder templates",
	}

	cmd.AddCommand(newTemplateCheckCmd())

	return cmd
}

func newTemplateCheckCmd() *cobra.Command {
	var (
		structure []string
		order     []int
	)

	cmd := &cobra.Command{
		Use:   "check [PATH...]",
		Short: "Parse a template and show how paths would be reordered",
		Long: `Check parses --structure and --order and prints each specifier.
Every PATH is a slash separated directory chain such as sub-01/taskA/run-02;
check prints its reordered form or says that it does not fit.`,
		Example: `  reshelve template check --structure 'sub-\d+,<task>,run-\d+' --order 3,1,2 sub-01/taskA/run-02`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			tmpl, err := plan.ParseTemplate(structure, order)
			if err != nil {
				return errors.Errorf("parsing template: %w", err)
			}

			for i, sp := range tmpl.Specifiers() {
				fmt.Fprintf(out, "%d  %-8s %s\n", i+1, sp.Kind, sp.Raw)
			}

			misfits := 0
			for _, arg := range args {
				segs := strings.Split(strings.Trim(path.Clean(arg), "/"), "/")
				got, ok := tmpl.Reorder(segs)
				if !ok {
					misfits++
					fmt.Fprintf(out, "%s -> does not fit\n", arg)
					continue
				}
				fmt.Fprintf(out, "%s -> %s\n", arg, strings.Join(got, "/"))
			}

			if misfits > 0 {
				return errors.Errorf("%d of %d paths do not fit the template", misfits, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&structure, "structure", nil, "comma separated specifiers, <name> for a wildcard")
	cmd.Flags().IntSliceVar(&order, "order", nil, "comma separated 1-based template positions in output order")
	_ = cmd.MarkFlagRequired("structure")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}
