// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flash uploads the stamped image to the board using OpenOCD.
package flash

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/pipeline"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/runner"
)

const (
	// SwitchDriverScript rebinds the FTDI adapter from the Apple driver to
	// libusb. It is used only on macOS.
	SwitchDriverScript = "switch-driver.py"
	switchDriverOS     = "darwin"
)

// Target holds the connection parameters of a single upload.
type Target struct {
	Board      string
	ScriptsDir string // OpenOCD installation with the board configs
}

// ConfigFile returns the OpenOCD configuration file of the board.
func (t Target) ConfigFile() string {
	return t.Board + ".cfg"
}

// OpenOCD returns the openocd binary: the one bundled in ScriptsDir if
// present, otherwise the one found in PATH.
func (t Target) OpenOCD() string {
	for _, name := range []string{"openocd", "openocd.exe"} {
		p := filepath.Join(t.ScriptsDir, "bin", name)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p
		}
	}
	return "openocd"
}

// Args returns the openocd arguments that write bin and exit.
func (t Target) Args(bin string) []string {
	return []string{
		"-s", t.ScriptsDir,
		"-f", t.ConfigFile(),
		"-c", "flash_write os " + filepath.ToSlash(bin) + "; exit",
	}
}

// AdapterProbe lists the debug adapters connected to the host.
type AdapterProbe func() ([]string, error)

type Orchestrator struct {
	Runner runner.Runner
	GOOS   string       // runtime.GOOS if empty
	Probe  AdapterProbe // optional
}

func (o *Orchestrator) goos() string {
	if o.GOOS != "" {
		return o.GOOS
	}
	return runtime.GOOS
}

// SwitchDriver runs the driver switching script on macOS if the script is
// present in the OpenOCD installation. It returns nil if there is nothing to
// do and an rterr.DriverSwitch error if the script failed.
func (o *Orchestrator) SwitchDriver(ctx context.Context, t Target) error {
	if o.goos() != switchDriverOS {
		return nil
	}
	script := filepath.Join(t.ScriptsDir, SwitchDriverScript)
	if fi, err := os.Stat(script); err != nil || !fi.Mode().IsRegular() {
		return nil
	}
	ctxlog.FromContext(ctx).Info("switching driver", "script", script)
	_, err := o.Runner.Run(ctx, runner.Command{
		Stage: "switch driver",
		Name:  "sudo",
		Args:  []string{script},
	})
	if err != nil {
		return rterr.New(rterr.DriverSwitch, "switch driver", err)
	}
	return nil
}

func (o *Orchestrator) probe(ctx context.Context) {
	if o.Probe == nil {
		return
	}
	log := ctxlog.FromContext(ctx)
	adapters, err := o.Probe()
	switch {
	case err != nil:
		log.Debug("cannot list USB adapters", "err", err)
	case len(adapters) == 0:
		log.Warn("no debug adapter found on USB")
	default:
		for _, a := range adapters {
			log.Debug("debug adapter", "usb", a)
		}
	}
}

// Upload writes bin to the board. The driver switching step is best-effort:
// its failure is logged and the upload is attempted anyway. A failure of
// openocd is returned as an rterr.ExternalTool error.
func (o *Orchestrator) Upload(ctx context.Context, bin *pipeline.StampedBinary, t Target) error {
	if bin == nil {
		return rterr.New(rterr.Configuration, "upload", errors.New("no image to upload"))
	}
	log := ctxlog.FromContext(ctx)
	if err := o.SwitchDriver(ctx, t); err != nil {
		log.Warn("driver switch failed, uploading anyway", "err", err)
	}
	o.probe(ctx)
	log.Info("uploading", "image", bin.Path(), "board", t.Board)
	_, err := o.Runner.Run(ctx, runner.Command{
		Stage: "upload",
		Name:  t.OpenOCD(),
		Args:  t.Args(bin.Path()),
	})
	return err
}
