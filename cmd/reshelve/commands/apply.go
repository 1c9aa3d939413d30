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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/reshelve/cmd/reshelve/opts"
	"github.com/walteh/reshelve/pkg/job"
	"github.com/walteh/reshelve/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun bool
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Plan a job and carry it out",
		Long: `Apply plans the job and copies every entry to its destination.
It will:
1. Refuse to run when two sources share a destination
2. Copy each entry and validate the copy
3. With --delete, validate again and remove the source
4. Write a run record when record_dir is set

The job's apply.dry_run setting is used unless --dry-run is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			ctx = log.NewContext(ctx, log.NewWithZerolog(cmd.OutOrStdout(), *zerolog.Ctx(ctx)))

			var runOpts job.Options
			if cmd.Flags().Changed("dry-run") {
				runOpts.DryRun = &dryRun
			}
			if cmd.Flags().Changed("delete") {
				runOpts.SequentialDelete = &remove
			}

			res, runErr := job.Run(ctx, cfg, runOpts)
			if res != nil && len(res.Conflicts) > 0 {
				if err := renderConflicts(cmd.ErrOrStderr(), cfg.BaseDir, res.Conflicts); err != nil {
					return err
				}
			}
			if res != nil && res.Report != nil {
				if err := renderSummary(cmd.OutOrStdout(), cfg.BaseDir, res.Report.Counts, res.Report.Failures()); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}

			if n := res.Report.Failed(); n > 0 {
				return errors.Errorf("%d of %d entries failed", n, len(res.Report.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "only report what would happen")
	cmd.Flags().BoolVar(&remove, "delete", false, "remove each source after its copy validates")

	return cmd
}
