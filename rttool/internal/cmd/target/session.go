// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package target

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/engine"
	"github.com/embeddedgo/tizenrt/rttool/internal/flash"
	"github.com/embeddedgo/tizenrt/rttool/internal/pipeline"
	"github.com/embeddedgo/tizenrt/rttool/internal/project"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/runner"
	"github.com/embeddedgo/tizenrt/rttool/internal/sdk"
	"github.com/embeddedgo/tizenrt/rttool/internal/toolchain"
)

// Name is a build target.
type Name string

const (
	Buildprog Name = "buildprog"
	Nobuild   Name = "nobuild"
	Size      Name = "size"
	Upload    Name = "upload"
)

// Names lists the known targets with their descriptions.
var Names = map[Name]string{
	Buildprog: "build the program image",
	Nobuild:   "use the image left by an earlier build",
	Size:      "print the section sizes of the program",
	Upload:    "write the program image to the board",
}

// Default is run if no target is given.
var Default = []Name{Buildprog, Size}

// ParseTargets converts the command line words to targets. The result is
// Default if words is empty.
func ParseTargets(words []string) ([]Name, error) {
	if len(words) == 0 {
		return slices.Clone(Default), nil
	}
	targets := make([]Name, 0, len(words))
	for _, w := range words {
		n := Name(w)
		if _, ok := Names[n]; !ok {
			return nil, rterr.Errorf(rterr.Configuration, "targets", "unknown target %q", w)
		}
		if !slices.Contains(targets, n) {
			targets = append(targets, n)
		}
	}
	if slices.Contains(targets, Buildprog) && slices.Contains(targets, Nobuild) {
		return nil, rterr.Errorf(
			rterr.Configuration, "targets", "%s and %s exclude each other", Buildprog, Nobuild,
		)
	}
	return targets, nil
}

// Options holds the collaborators of a session that tests replace.
type Options struct {
	Runner runner.Runner
	GOOS   string             // runtime.GOOS if empty
	Probe  flash.AdapterProbe // optional
}

// Session is a single rttool invocation. It memoizes the build so that every
// stage runs at most once however the targets are combined.
type Session struct {
	Project  *project.Config
	SDK      *sdk.SDK
	Pipeline *pipeline.Pipeline
	Flash    *flash.Orchestrator

	built    bool
	linked   *pipeline.Linked
	stamped  *pipeline.StampedBinary
	buildErr error
}

// Prepare resolves the SDK variant, discovers the libraries and configures
// the toolchain. Configuration, metadata and I/O errors are all reported here,
// before any external tool runs.
func Prepare(ctx context.Context, cfg *project.Config, opts Options) (*Session, error) {
	s, err := sdk.Open(ctx, cfg.Path(cfg.SDKRoot), cfg.PreConfig)
	if err != nil {
		return nil, err
	}
	buildDir := cfg.Path(cfg.BuildDir)
	tc, err := toolchain.Configure(toolchain.Inputs{
		Board:        cfg.ToolchainBoard(),
		Libs:         s.Libs,
		IncludePaths: s.IncludePaths,
		LinkerScript: s.LinkerScript(),
		LibDir:       s.Variant.LibDir(),
		BuildDir:     buildDir,
		Debug:        cfg.Debug,
		Prefix:       cfg.ToolchainPrefix,
	})
	if err != nil {
		return nil, err
	}
	gcc := &engine.GCC{
		Runner:      opts.Runner,
		BuildDir:    buildDir,
		SrcDir:      cfg.Path(cfg.SrcDir),
		EntrySource: s.EntrySource(),
		VectorTable: s.Variant.VectorTable(),
		Jobs:        cfg.Jobs,
	}
	p := pipeline.New(pipeline.Config{
		Toolchain:  tc,
		Runner:     opts.Runner,
		Linker:     gcc,
		BuildDir:   buildDir,
		HeaderTool: s.HeaderTool(),
		Python:     cfg.Python,
		Builtin:    cfg.Converter == project.ConverterBuiltin,
		Pad:        0xff,
	})
	ctxlog.FromContext(ctx).Debug(
		"session", "id", p.ID(), "board", cfg.Board.ID, "variant", s.Variant.ID,
	)
	return &Session{
		Project:  cfg,
		SDK:      s,
		Pipeline: p,
		Flash:    &flash.Orchestrator{Runner: opts.Runner, GOOS: opts.GOOS, Probe: opts.Probe},
	}, nil
}

// Build runs the artifact pipeline once. Later calls return the memoized
// result.
func (s *Session) Build(ctx context.Context) (*pipeline.Linked, *pipeline.StampedBinary, error) {
	if !s.built {
		s.built = true
		s.linked, s.stamped, s.buildErr = s.Pipeline.Build(ctx)
	}
	return s.linked, s.stamped, s.buildErr
}

func (s *Session) check(targets []Name) error {
	if slices.Contains(targets, Upload) && s.Project.OpenOCDDir == "" {
		return rterr.Errorf(
			rterr.Configuration, "upload", "openocd_dir is required (or RTTOOL_OPENOCD_DIR)",
		)
	}
	return nil
}

// Run executes targets. With Nobuild nothing is built and the image left by
// an earlier build must exist. Size failures are only reported as warnings.
func (s *Session) Run(ctx context.Context, targets []Name) error {
	if err := s.check(targets); err != nil {
		return err
	}
	log := ctxlog.FromContext(ctx)
	nobuild := slices.Contains(targets, Nobuild)
	var (
		bin *pipeline.StampedBinary
		err error
	)
	if nobuild {
		bin, err = s.Pipeline.Existing()
	} else {
		_, bin, err = s.Build(ctx)
	}
	if err != nil {
		return err
	}
	if slices.Contains(targets, Size) {
		if nobuild {
			log.Warn("size skipped: nothing is built in nobuild mode")
		} else if err := s.Pipeline.Size(ctx, s.linked); err != nil {
			log.Warn("size failed", "err", err)
		}
	}
	if !slices.Contains(targets, Upload) {
		return nil
	}
	return s.Flash.Upload(ctx, bin, flash.Target{
		Board:      s.Project.Board.ID,
		ScriptsDir: s.Project.Path(s.Project.OpenOCDDir),
	})
}

func (s *Session) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "board:    %s (%s, %s)\n", s.Project.Board.ID, s.Project.Board.CPU, s.Project.Board.FPU)
	fmt.Fprintf(&b, "sdk:      %s\n", s.SDK.Root)
	fmt.Fprintf(&b, "variant:  %s\n", s.SDK.Variant.ID)
	fmt.Fprintf(&b, "libs:     %s\n", strings.Join(s.SDK.Libs, " "))
	fmt.Fprintf(&b, "build:    %s\n", s.Project.Path(s.Project.BuildDir))
	return b.String()
}
