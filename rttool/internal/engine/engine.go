// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine compiles the project sources and links them with the SDK
// libraries using the configured GCC toolchain.
package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/runner"
	"github.com/embeddedgo/tizenrt/rttool/internal/toolchain"
	"golang.org/x/sync/errgroup"
)

var sourceExts = []string{".c", ".cc", ".cpp", ".cxx", ".S", ".s"}

// GCC builds the program. Independent sources are compiled concurrently,
// at most Jobs at a time (runtime.NumCPU if Jobs <= 0).
type GCC struct {
	Runner      runner.Runner
	BuildDir    string
	SrcDir      string // may not exist
	EntrySource string
	VectorTable string
	Jobs        int
}

// Sources returns the source files found in SrcDir, sorted.
func (g *GCC) Sources() ([]string, error) {
	var srcs []string
	err := filepath.WalkDir(g.SrcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == g.SrcDir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != g.SrcDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(sourceExts, filepath.Ext(path)) {
			srcs = append(srcs, path)
		}
		return nil
	})
	if err != nil {
		return nil, rterr.New(rterr.IO, "find sources", err)
	}
	return srcs, nil
}

func (g *GCC) objPath(src string) string {
	rel, err := filepath.Rel(g.SrcDir, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	return filepath.Join(g.BuildDir, "src", rel+".o")
}

func (g *GCC) compile(ctx context.Context, tc *toolchain.Config, src, obj string) error {
	if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
		return rterr.New(rterr.IO, "compile", err)
	}
	_, err := g.Runner.Run(ctx, runner.Command{
		Stage: "compile",
		Name:  tc.Compiler(src),
		Args:  tc.CompileArgs(src, obj),
	})
	return err
}

// EntryLibPath returns the path of the archive with the startup code.
func (g *GCC) EntryLibPath() string {
	return filepath.Join(g.BuildDir, "lib"+toolchain.EntryLib+".a")
}

func (g *GCC) entryLib(ctx context.Context, tc *toolchain.Config) error {
	obj := filepath.Join(g.BuildDir, toolchain.EntryLib, "main.o")
	if err := g.compile(ctx, tc, g.EntrySource, obj); err != nil {
		return err
	}
	lib := g.EntryLibPath()
	if err := os.Remove(lib); err != nil && !os.IsNotExist(err) {
		return rterr.New(rterr.IO, "archive", err)
	}
	_, err := g.Runner.Run(ctx, runner.Command{
		Stage: "archive",
		Name:  tc.Tools.AR,
		Args:  tc.ArchiveArgs(lib, []string{obj, g.VectorTable}),
	})
	return err
}

// Link builds the entry library, compiles the project sources and links
// everything into out.
func (g *GCC) Link(ctx context.Context, tc *toolchain.Config, out string) error {
	log := ctxlog.FromContext(ctx)
	srcs, err := g.Sources()
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		log.Warn("no project sources", "dir", g.SrcDir)
	}
	objs := make([]string, len(srcs))
	jobs := g.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	eg.Go(func() error {
		return g.entryLib(ectx, tc)
	})
	for i, src := range srcs {
		objs[i] = g.objPath(src)
		eg.Go(func() error {
			log.Info("compiling", "src", src)
			return g.compile(ectx, tc, src, objs[i])
		})
	}
	if err = eg.Wait(); err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return rterr.New(rterr.IO, "link", err)
	}
	log.Info("linking", "out", out)
	_, err = g.Runner.Run(ctx, runner.Command{
		Stage: "link",
		Name:  tc.Tools.CC,
		Args:  tc.LinkArgs(out, objs),
	})
	return err
}
