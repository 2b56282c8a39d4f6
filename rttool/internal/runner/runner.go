// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner invokes the external tools (compiler, linker, objcopy, header
// tool, openocd) as synchronous calls returning a structured result.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
)

// Command describes one invocation of an external tool. Stage names the
// pipeline stage the invocation belongs to and is used in error messages.
type Command struct {
	Stage string
	Name  string
	Args  []string
	Dir   string
}

func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	for _, a := range c.Args {
		sb.WriteByte(' ')
		if strings.ContainsAny(a, " \t\"';") {
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(a, `"`, `\"`))
			sb.WriteByte('"')
			continue
		}
		sb.WriteString(a)
	}
	return sb.String()
}

type Result struct {
	ExitCode int
	Output   []byte
}

// Runner runs a command and waits for its completion. A non-zero exit status
// is returned as an rterr.ExternalTool error wrapping *rterr.ToolError, along
// with the Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec runs commands on the host. The combined output of the command is
// captured and also copied to Echo (os.Stderr if nil).
type Exec struct {
	Echo io.Writer
}

func (x *Exec) Run(ctx context.Context, cmd Command) (res Result, err error) {
	log := ctxlog.FromContext(ctx)
	log.Debug("run", "stage", cmd.Stage, "cmd", cmd.String())

	echo := x.Echo
	if echo == nil {
		echo = os.Stderr
	}
	var out bytes.Buffer
	w := io.MultiWriter(&out, echo)
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = w
	c.Stderr = w
	err = c.Run()
	res.Output = out.Bytes()
	if err == nil {
		return
	}
	te := &rterr.ToolError{Tool: cmd.Name, ExitCode: -1, Output: res.Output, Err: err}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		// ExitCode is -1 for a tool killed by a signal. Keep ee then.
		if te.ExitCode = ee.ProcessState.ExitCode(); te.ExitCode >= 0 {
			te.Err = nil
		}
	}
	res.ExitCode = te.ExitCode
	return res, rterr.New(rterr.ExternalTool, cmd.Stage, te)
}
