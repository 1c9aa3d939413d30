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

package opts

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/reshelve/pkg/config"
	"github.com/walteh/reshelve/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	LogPreset  string

	closer io.Closer
}

// AddFlags adds shared flags to the root command
func (o *RootOpts) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "reshelve.hcl", "job file path (.hcl, .yaml, .yml or .json)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.LogPreset, "log-preset", string(log.PresetConsole), "logging preset, one of console, console_debug, console_info_file_debug, json_debug")
}

// SetupLogging puts a zerolog logger for the chosen preset into cmd's context
func (o *RootOpts) SetupLogging(cmd *cobra.Command) error {
	preset := log.Preset(o.LogPreset)
	if o.Debug && (preset == log.PresetConsole || preset == "") {
		preset = log.PresetConsoleDebug
	}

	zlog, closer, err := log.NewZerolog(preset, log.PresetOptions{Out: cmd.ErrOrStderr()})
	if err != nil {
		return errors.Errorf("setting up logging: %w", err)
	}
	o.closer = closer

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(zlog.WithContext(ctx))
	return nil
}

// Close releases anything SetupLogging opened
func (o *RootOpts) Close() error {
	if o.closer == nil {
		return nil
	}
	err := o.closer.Close()
	o.closer = nil
	return err
}

// LoadConfig loads the job file named by --config
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
