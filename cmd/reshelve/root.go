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

package main

import (
	"github.com/spf13/cobra"
	"github.com/walteh/reshelve/cmd/reshelve/commands"
	"github.com/walteh/reshelve/cmd/reshelve/opts"
)

func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "reshelve",
		Short: "Reorganize dataset files and folders in validated batches",
		Long: `reshelve plans a batch of moves for a research dataset (find/replace,
folder combine and split, folder-to-filename prepend, structure reorder or a
table of records), refuses plans where two sources share a destination, and
applies the rest as copy, validate and optionally delete.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.SetupLogging(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return o.Close()
		},
	}

	o.AddFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewPlanCmd(o),
		commands.NewApplyCmd(o),
		commands.NewTemplateCmd(o),
	)

	return rootCmd
}
