// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Rttool builds TizenRT programs against a pre-built SDK and uploads them to
// ARTIK 05x boards.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/embeddedgo/tizenrt/rttool/internal/cmd/adapters"
	"github.com/embeddedgo/tizenrt/rttool/internal/cmd/bin"
	"github.com/embeddedgo/tizenrt/rttool/internal/cmd/hex"
	"github.com/embeddedgo/tizenrt/rttool/internal/cmd/target"
	"github.com/embeddedgo/tizenrt/rttool/internal/cmd/variants"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"adapters": {adapters.Descr, adapters.Main},
	"bin":      {bin.Descr, bin.Main},
	"hex":      {hex.Descr, hex.Main},
	"variants": {variants.Descr, variants.Main},

	string(target.Buildprog): {target.Descr(target.Buildprog), target.Main},
	string(target.Nobuild):   {target.Descr(target.Nobuild), target.Main},
	string(target.Size):      {target.Descr(target.Size), target.Main},
	string(target.Upload):    {target.Descr(target.Upload), target.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  rttool [OPTIONS] [TARGET...]\n  rttool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Without a target rttool runs: buildprog size\n\n")
	uw.WriteString("Available targets and commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "-help") {
		printToolList()
		return
	}
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		target.Main("rttool", os.Args[1:])
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
