// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runnertest provides a Runner that records commands instead of
// running them.
package runnertest

import (
	"context"
	"sync"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/runner"
)

// Recorder is a runner.Runner that records the commands instead of running them. It
// is used by the tests of the packages that drive external tools.
//
// Exit maps a tool name to the exit code it returns (0 if absent). Hook, if
// set, is called for every command before the exit code is consulted and
// can be used to simulate the files produced by a tool.
type Recorder struct {
	Exit map[string]int
	Hook func(cmd runner.Command) error

	mu   sync.Mutex
	cmds []runner.Command
}

func (r *Recorder) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	r.mu.Lock()
	r.cmds = append(r.cmds, cmd)
	r.mu.Unlock()
	if r.Hook != nil {
		if err := r.Hook(cmd); err != nil {
			te := &rterr.ToolError{Tool: cmd.Name, ExitCode: -1, Err: err}
			return runner.Result{ExitCode: -1}, rterr.New(rterr.ExternalTool, cmd.Stage, te)
		}
	}
	if code := r.Exit[cmd.Name]; code != 0 {
		te := &rterr.ToolError{Tool: cmd.Name, ExitCode: code}
		return runner.Result{ExitCode: code}, rterr.New(rterr.ExternalTool, cmd.Stage, te)
	}
	return runner.Result{}, nil
}

// Commands returns the recorded commands in invocation order.
func (r *Recorder) Commands() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runner.Command(nil), r.cmds...)
}

// Stages returns the Stage fields of the recorded commands.
func (r *Recorder) Stages() []string {
	cmds := r.Commands()
	stages := make([]string, len(cmds))
	for i, c := range cmds {
		stages[i] = c.Stage
	}
	return stages
}
