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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/reshelve/cmd/reshelve/opts"
	"github.com/walteh/reshelve/pkg/job"
	"github.com/walteh/reshelve/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(o *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a job would move",
		Long: `Plan builds the move map for the job file without touching anything.
It will:
1. Load and validate the job file
2. Run the configured planner
3. Print every source -> destination pair and any warnings
4. Fail if two sources share a destination`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			m, err := job.Plan(ctx, cfg)
			if err != nil {
				return errors.Errorf("planning: %w", err)
			}

			if asJSON {
				data, err := json.MarshalIndent(m, "", "  ")
				if err != nil {
					return errors.Errorf("encoding plan: %w", err)
				}
				fmt.Fprintln(out, string(data))
			} else {
				if err := renderPlan(out, cfg.BaseDir, m); err != nil {
					return err
				}
				renderWarnings(out, cfg.BaseDir, m)
			}

			if plan.HasConflicts(m) {
				conflicts := plan.FindConflicts(m)
				if err := renderConflicts(cmd.ErrOrStderr(), cfg.BaseDir, conflicts); err != nil {
					return err
				}
				return errors.Errorf("%w: %d destinations", job.ErrConflicts, len(conflicts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")

	return cmd
}
