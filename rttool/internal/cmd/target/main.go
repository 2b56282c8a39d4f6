// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package target implements the build targets of rttool.
package target

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/project"
	"github.com/embeddedgo/tizenrt/rttool/internal/runner"
	"github.com/embeddedgo/tizenrt/rttool/internal/util"
)

// Descr describes the target names as rttool commands.
func Descr(n Name) string { return Names[n] }

// parseInterleaved parses flags placed anywhere between the target names.
func parseInterleaved(fs *flag.FlagSet, args []string) []string {
	var words []string
	for {
		fs.Parse(args)
		if fs.NArg() == 0 {
			return words
		}
		words = append(words, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// Main runs the targets given on the command line. cmd is the first target
// or the program name if the command line contains no target.
func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  rttool [OPTIONS] [TARGET...]\nTargets:\n")
		for _, n := range slices.Sorted(maps.Keys(Names)) {
			fmt.Fprintf(os.Stderr, "  %-9s  %s\n", n, Names[n])
		}
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	verbose := fs.Bool("v", false, "print debug messages")
	file := fs.String("f", "", "project `file` (default: "+project.FileName+" found in the current directory or its parents)")
	show := fs.Bool("show", false, "print the resolved configuration and exit")
	words := parseInterleaved(fs, args)
	if _, ok := Names[Name(cmd)]; ok {
		words = append([]string{cmd}, words...)
	}
	targets, err := ParseTargets(words)
	util.FatalErr("", err)

	if *file == "" {
		*file, err = project.Locate(".")
		util.FatalErr("", err)
	}
	cfg, err := project.Load(*file)
	util.FatalErr("", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, util.NewLogger(*verbose))

	s, err := Prepare(ctx, cfg, Options{Runner: &runner.Exec{}, Probe: probeUSB})
	util.FatalErr("", err)
	if *show {
		os.Stdout.WriteString(s.String())
		return
	}
	util.FatalErr("", s.Run(ctx, targets))
}

func probeUSB() ([]string, error) {
	devs, err := util.FindUSB(util.DebugAdapters)
	names := make([]string, len(devs))
	for i, d := range devs {
		names[i] = d.String()
	}
	return names, err
}
