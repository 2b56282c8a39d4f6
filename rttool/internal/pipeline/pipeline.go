// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline turns the project into a flashable image:
//
//	sources --link--> Linked --extract--> RawBinary --stamp--> StampedBinary
//
// Every artifact remembers the pipeline that produced it and the stages
// accept only artifacts of their own pipeline, so a StampedBinary always
// derives from a RawBinary and a Linked artifact of the same invocation.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/runner"
	"github.com/embeddedgo/tizenrt/rttool/internal/toolchain"
	"github.com/embeddedgo/tizenrt/rttool/internal/util"
	"github.com/google/uuid"
)

// Artifact file names in the build directory.
const (
	ELFName     = "program.elf"
	RawName     = "interim_program.bin"
	StampedName = "program.bin"
)

// Linker is the build engine that compiles the sources and links them into
// the ELF file out.
type Linker interface {
	Link(ctx context.Context, tc *toolchain.Config, out string) error
}

type Config struct {
	Toolchain  toolchain.Config
	Runner     runner.Runner
	Linker     Linker
	BuildDir   string
	HeaderTool string // S5J checksum script
	Python     string // interpreter of HeaderTool
	// Builtin selects the in-process ELF to binary converter instead of
	// objcopy.
	Builtin bool
	Pad     byte // used by the builtin converter
}

type Pipeline struct {
	cfg Config
	id  uuid.UUID
}

// New returns a pipeline for a single build invocation.
func New(cfg Config) *Pipeline {
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	return &Pipeline{cfg: cfg, id: uuid.New()}
}

// ID identifies the invocation.
func (p *Pipeline) ID() uuid.UUID { return p.id }

func (p *Pipeline) path(name string) string {
	return filepath.Join(p.cfg.BuildDir, name)
}

// Linked is the ELF file with debug information and symbols.
type Linked struct {
	path string
	inv  uuid.UUID
}

func (a *Linked) Path() string { return a.path }

// RawBinary is the flat memory image extracted from a Linked artifact.
type RawBinary struct {
	path string
	inv  uuid.UUID
	elf  *Linked
}

func (a *RawBinary) Path() string { return a.path }

// StampedBinary is the RawBinary with the vendor header, ready to flash.
type StampedBinary struct {
	path     string
	inv      uuid.UUID
	raw      *RawBinary // nil if prebuilt
	prebuilt bool
}

func (a *StampedBinary) Path() string { return a.path }

// Prebuilt reports whether the artifact was found on disk (nobuild mode)
// instead of being built by this invocation.
func (a *StampedBinary) Prebuilt() bool { return a.prebuilt }

var errForeign = errors.New("artifact does not belong to this build")

func (p *Pipeline) check(op string, inv uuid.UUID, ok bool) error {
	if !ok || inv != p.id {
		return rterr.New(rterr.Configuration, op, errForeign)
	}
	return nil
}

func existsRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (p *Pipeline) produced(op, tool, path string) error {
	if existsRegular(path) {
		return nil
	}
	return rterr.New(rterr.ExternalTool, op, &rterr.ToolError{
		Tool: tool, ExitCode: -1, Err: fmt.Errorf("%s was not produced", path),
	})
}

// Link runs the build engine. On failure no artifact is returned.
func (p *Pipeline) Link(ctx context.Context) (*Linked, error) {
	out := p.path(ELFName)
	if err := os.MkdirAll(p.cfg.BuildDir, 0o755); err != nil {
		return nil, rterr.New(rterr.IO, "link", err)
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return nil, rterr.New(rterr.IO, "link", err)
	}
	tc := p.cfg.Toolchain
	if err := p.cfg.Linker.Link(ctx, &tc, out); err != nil {
		return nil, err
	}
	if err := p.produced("link", tc.Tools.CC, out); err != nil {
		return nil, err
	}
	return &Linked{path: out, inv: p.id}, nil
}

// Extract converts the Linked artifact into the raw binary image.
func (p *Pipeline) Extract(ctx context.Context, elf *Linked) (*RawBinary, error) {
	if err := p.check("extract", elf.invOf(), elf != nil); err != nil {
		return nil, err
	}
	out := p.path(RawName)
	log := ctxlog.FromContext(ctx)
	log.Info("building", "out", out)
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return nil, rterr.New(rterr.IO, "extract", err)
	}
	if p.cfg.Builtin {
		if err := p.flatten(elf.path, out, log.Warn); err != nil {
			return nil, err
		}
	} else {
		tc := &p.cfg.Toolchain
		_, err := p.cfg.Runner.Run(ctx, runner.Command{
			Stage: "extract",
			Name:  tc.Tools.OBJCOPY,
			Args:  tc.ObjcopyArgs(elf.path, out),
		})
		if err != nil {
			return nil, err
		}
		if err = p.produced("extract", tc.Tools.OBJCOPY, out); err != nil {
			return nil, err
		}
	}
	return &RawBinary{path: out, inv: p.id, elf: elf}, nil
}

func (p *Pipeline) flatten(elf, out string, warn func(string, ...any)) error {
	sections, err := util.ReadELF(elf, func(f string, args ...any) {
		warn(fmt.Sprintf(f, args...))
	})
	if err != nil {
		return rterr.New(rterr.IO, "extract", err)
	}
	var buf bytes.Buffer
	buf.Grow(sections.Size() * 5 / 4)
	if _, err = sections.Flatten(&buf, p.cfg.Pad); err != nil {
		return rterr.New(rterr.IO, "extract", err)
	}
	if err = os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return rterr.New(rterr.IO, "extract", err)
	}
	return nil
}

// Stamp runs the header tool that adds the vendor checksum header.
func (p *Pipeline) Stamp(ctx context.Context, raw *RawBinary) (*StampedBinary, error) {
	if err := p.check("stamp", raw.invOf(), raw != nil && raw.elf != nil); err != nil {
		return nil, err
	}
	out := p.path(StampedName)
	ctxlog.FromContext(ctx).Info("adding NS2 header", "out", out)
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return nil, rterr.New(rterr.IO, "stamp", err)
	}
	_, err := p.cfg.Runner.Run(ctx, runner.Command{
		Stage: "stamp",
		Name:  p.cfg.Python,
		Args:  []string{p.cfg.HeaderTool, raw.path, out},
	})
	if err != nil {
		return nil, err
	}
	if err = p.produced("stamp", p.cfg.Python, out); err != nil {
		return nil, err
	}
	return &StampedBinary{path: out, inv: p.id, raw: raw}, nil
}

// Build runs Link, Extract and Stamp. It returns the Linked artifact even if
// a later stage fails so the caller can still report its size.
func (p *Pipeline) Build(ctx context.Context) (*Linked, *StampedBinary, error) {
	elf, err := p.Link(ctx)
	if err != nil {
		return nil, nil, err
	}
	raw, err := p.Extract(ctx, elf)
	if err != nil {
		return elf, nil, err
	}
	bin, err := p.Stamp(ctx, raw)
	if err != nil {
		return elf, nil, err
	}
	return elf, bin, nil
}

// Existing returns the StampedBinary left in the build directory by an
// earlier build. No tool is run. A missing file is an rterr.MissingArtifact
// error.
func (p *Pipeline) Existing() (*StampedBinary, error) {
	path := p.path(StampedName)
	if !existsRegular(path) {
		return nil, rterr.Errorf(
			rterr.MissingArtifact, "nobuild", "%s does not exist, build it first", path,
		)
	}
	return &StampedBinary{path: path, inv: p.id, prebuilt: true}, nil
}

// Size prints the section sizes of the Linked artifact. Its failure doesn't
// affect the other artifacts.
func (p *Pipeline) Size(ctx context.Context, elf *Linked) error {
	if err := p.check("size", elf.invOf(), elf != nil); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("calculating size", "elf", elf.path)
	tc := &p.cfg.Toolchain
	_, err := p.cfg.Runner.Run(ctx, runner.Command{
		Stage: "size",
		Name:  tc.Tools.SIZE,
		Args:  tc.SizeArgs(elf.path),
	})
	return err
}

// Owns reports whether bin was produced (or found) by this pipeline.
func (p *Pipeline) Owns(bin *StampedBinary) bool {
	return bin != nil && bin.inv == p.id
}

func (a *Linked) invOf() uuid.UUID {
	if a == nil {
		return uuid.Nil
	}
	return a.inv
}

func (a *RawBinary) invOf() uuid.UUID {
	if a == nil {
		return uuid.Nil
	}
	return a.inv
}
