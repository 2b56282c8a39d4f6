// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func needSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestExecCapturesOutput(t *testing.T) {
	needSh(t)
	var echo bytes.Buffer
	x := &Exec{Echo: &echo}
	res, err := x.Run(context.Background(), Command{
		Stage: "test", Name: "sh", Args: []string{"-c", "echo hello; echo oops >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Output), "hello")
	assert.Contains(t, string(res.Output), "oops")
	assert.Equal(t, string(res.Output), echo.String())
}

func TestExecNonZeroExit(t *testing.T) {
	needSh(t)
	x := &Exec{Echo: new(bytes.Buffer)}
	res, err := x.Run(context.Background(), Command{
		Stage: "link", Name: "sh", Args: []string{"-c", "echo failed; exit 3"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rterr.ErrExternalTool)
	assert.Equal(t, 3, res.ExitCode)
	var te *rterr.ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.ExitCode)
	assert.Contains(t, string(te.Output), "failed")
	assert.Equal(t, "link: sh: exit status 3", err.Error())
}

func TestExecMissingTool(t *testing.T) {
	x := &Exec{Echo: new(bytes.Buffer)}
	res, err := x.Run(context.Background(), Command{
		Stage: "size", Name: "rttool-no-such-tool-xyz",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rterr.ErrExternalTool)
	assert.Equal(t, -1, res.ExitCode)
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "openocd", Args: []string{"-f", "artik053.cfg", "-c", "flash_write os a.bin; exit"}}
	assert.Equal(t, `openocd -f artik053.cfg -c "flash_write os a.bin; exit"`, c.String())
}

func TestExecKilledBySignal(t *testing.T) {
	needSh(t)
	x := &Exec{Echo: new(bytes.Buffer)}
	res, err := x.Run(context.Background(), Command{
		Stage: "link", Name: "sh", Args: []string{"-c", "kill -9 $$"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rterr.ErrExternalTool)
	assert.Equal(t, -1, res.ExitCode)
	var te *rterr.ToolError
	require.True(t, errors.As(err, &te))
	require.Error(t, te.Err)
	assert.NotPanics(t, func() { _ = err.Error() })
	assert.Equal(t, "link: sh: signal: killed", err.Error())
}
