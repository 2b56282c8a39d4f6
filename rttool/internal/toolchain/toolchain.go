// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package toolchain assembles the arm-none-eabi tool names and the compiler,
// assembler and linker flags for a board and an SDK variant.
//
// Config is a value: Configure builds it once per invocation and the
// argument builders return new slices without modifying it.
package toolchain

import (
	"path/filepath"
	"slices"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
)

const (
	Prefix     = "arm-none-eabi-"
	DefaultFPU = "vfpv3"

	// EntryLib is the library that holds the startup code and the vector
	// table. It must be the first library on the link line.
	EntryLib = "entry"
	// RuntimeLib is the compiler support library.
	RuntimeLib = "gcc"
	EntrySym   = "__start"
)

// Board describes the target board.
type Board struct {
	ID  string
	CPU string
	FPU string
}

type Tools struct {
	AR      string
	AS      string
	CC      string
	CXX     string
	GDB     string
	OBJCOPY string
	RANLIB  string
	SIZE    string
	STRIP   string
}

func prefixed(prefix string) Tools {
	return Tools{
		AR:      prefix + "ar",
		AS:      prefix + "as",
		CC:      prefix + "gcc",
		CXX:     prefix + "g++",
		GDB:     prefix + "gdb",
		OBJCOPY: prefix + "objcopy",
		RANLIB:  prefix + "ranlib",
		SIZE:    prefix + "size",
		STRIP:   prefix + "strip",
	}
}

var (
	baseASFlags = []string{"-D__ASSEMBLY__"}

	baseCCFlags = []string{
		"-g",
		"-O0",
		"-Wall",
		"-fno-builtin",
		"-Wstrict-prototypes",
		"-Wshadow",
		"-Wno-implicit-function-declaration",
		"-Wno-unused-function",
		"-Wno-unused-but-set-variable",
		"-fno-strict-aliasing",
		"-fno-strength-reduce",
		"-fomit-frame-pointer",
		"-Wp,-w",
	}

	debugCCFlags = []string{"-O0", "-g3", "-ggdb"}

	baseLinkFlags = []string{
		"-Wl,--gc-sections,--relax",
		"-mthumb",
		"-nostartfiles",
		"-nostdlib",
		"--entry=" + EntrySym,
	}
)

// Inputs collects everything Configure needs.
type Inputs struct {
	Board        Board
	Libs         []string // precompiled SDK libraries
	IncludePaths []string
	LinkerScript string
	LibDir       string // directory of Libs
	BuildDir     string // directory of the entry library
	Debug        bool
	Prefix       string // defaults to Prefix
}

type Config struct {
	Board        Board
	Tools        Tools
	ASFlags      []string
	CCFlags      []string
	LinkFlags    []string
	IncludePaths []string
	LibPaths     []string
	Libs         []string // link order, EntryLib first
	LinkerScript string
}

// Configure builds the toolchain configuration. The CPU of the board is
// required, an empty FPU means DefaultFPU.
func Configure(in Inputs) (Config, error) {
	b := in.Board
	if b.CPU == "" {
		return Config{}, rterr.Errorf(
			rterr.Configuration, "configure toolchain",
			"board %q: no CPU", b.ID,
		)
	}
	if b.FPU == "" {
		b.FPU = DefaultFPU
	}
	prefix := in.Prefix
	if prefix == "" {
		prefix = Prefix
	}
	cpuFlags := []string{"-mcpu=" + b.CPU, "-mfpu=" + b.FPU}

	ccFlags := slices.Concat(baseCCFlags, cpuFlags)
	if in.Debug {
		ccFlags = append(ccFlags, debugCCFlags...)
	}
	libs := make([]string, 0, len(in.Libs)+2)
	libs = append(libs, EntryLib)
	for _, l := range in.Libs {
		if l != EntryLib && l != RuntimeLib {
			libs = append(libs, l)
		}
	}
	slices.Sort(libs[1:])
	libs = append(libs, RuntimeLib)

	return Config{
		Board:        b,
		Tools:        prefixed(prefix),
		ASFlags:      slices.Clone(baseASFlags),
		CCFlags:      ccFlags,
		LinkFlags:    slices.Concat(baseLinkFlags, cpuFlags),
		IncludePaths: slices.Clone(in.IncludePaths),
		LibPaths:     []string{in.LibDir, in.BuildDir},
		Libs:         libs,
		LinkerScript: in.LinkerScript,
	}, nil
}

func (c *Config) includeArgs() []string {
	args := make([]string, 0, len(c.IncludePaths))
	for _, p := range c.IncludePaths {
		args = append(args, "-I"+p)
	}
	return args
}

// CompileArgs returns the arguments of the compiler driver that compile src
// into obj. Assembler sources (.S, .s) get ASFlags in addition to CCFlags.
func (c *Config) CompileArgs(src, obj string) []string {
	var asFlags []string
	switch filepath.Ext(src) {
	case ".S", ".s":
		asFlags = c.ASFlags
	}
	return slices.Concat(
		[]string{"-o", obj, "-c"},
		c.CCFlags,
		asFlags,
		c.includeArgs(),
		[]string{src},
	)
}

// Compiler returns the driver used for src.
func (c *Config) Compiler(src string) string {
	switch filepath.Ext(src) {
	case ".cpp", ".cc", ".cxx":
		return c.Tools.CXX
	}
	return c.Tools.CC
}

// ArchiveArgs returns the arguments of ar that create lib from objs.
func (c *Config) ArchiveArgs(lib string, objs []string) []string {
	return slices.Concat([]string{"rcs", lib}, objs)
}

// LinkArgs returns the arguments of the compiler driver that link objs and
// the configured libraries into out. The libraries are placed in a group so
// their order doesn't matter for symbol resolution.
func (c *Config) LinkArgs(out string, objs []string) []string {
	args := slices.Concat(
		[]string{"-o", out},
		c.LinkFlags,
		[]string{"-T", c.LinkerScript},
		objs,
	)
	for _, p := range c.LibPaths {
		if p != "" {
			args = append(args, "-L"+p)
		}
	}
	args = append(args, "-Wl,--start-group")
	for _, l := range c.Libs {
		args = append(args, "-l"+l)
	}
	return append(args, "-Wl,--end-group")
}

// ObjcopyArgs returns the arguments of objcopy that extract the raw binary.
func (c *Config) ObjcopyArgs(elf, bin string) []string {
	return []string{"-O", "binary", elf, bin}
}

// SizeArgs returns the arguments of the size tool (Berkeley format, decimal).
func (c *Config) SizeArgs(elf string) []string {
	return []string{"-B", "-d", elf}
}
