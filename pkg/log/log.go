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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/reshelve/pkg/status"
)

// 📦 RunOperation describes one plan or apply run for logging
type RunOperation struct {
	Planner string // Planner name (substitute/combine/...)
	BaseDir string // Directory the plan was built from
	Entries int    // Number of planned entries
	DryRun  bool   // Whether the run touches the filesystem
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *RunOperation
	results   []status.Result
}

// 🏭 NewWithZerolog creates a logger that mirrors console lines to zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the console logger from context, or nil when ctx
// carries none
func FromContext(ctx context.Context) *Logger {
	logger, _ := ctx.Value(contextKey{}).(*Logger)
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 LogEntry logs one applied plan entry
func (l *Logger) LogEntry(ctx context.Context, r status.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)

	fmt.Fprintln(l.console, status.FormatEntryLine(r))

	ev := l.zlog.Info()
	if r.Outcome.Failed() {
		ev = l.zlog.Warn().Err(r.Err)
	}
	ev.Str("src", r.Src.String()).
		Str("dst", r.Dst.String()).
		Str("kind", r.Kind.String()).
		Str("outcome", r.Outcome.String()).
		Msg("plan entry")
}

// 📝 StartRunOperation starts a new run
func (l *Logger) StartRunOperation(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.results = nil

	mode := color.New(color.FgGreen).Sprint("apply")
	if op.DryRun {
		mode = color.New(color.FgYellow).Sprint("dry run")
	}

	fmt.Fprintf(l.console, "%s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Planner),
		color.New(color.Faint).Sprint("•"),
		mode,
		color.New(color.Faint).Sprintf("(%d entries)", op.Entries))

	l.zlog.Info().
		Str("planner", op.Planner).
		Str("base_dir", op.BaseDir).
		Int("entries", op.Entries).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRunOperation ends the current run
func (l *Logger) EndRunOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	failed := 0
	for _, r := range l.results {
		if r.Outcome.Failed() {
			failed++
		}
	}

	l.zlog.Info().
		Str("planner", l.currentOp.Planner).
		Int("processed", len(l.results)).
		Int("failed", failed).
		Msg("run complete")

	l.currentOp = nil
	l.results = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("reshelve")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
