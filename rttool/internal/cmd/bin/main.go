// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bin

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/tizenrt/rttool/internal/project"
	"github.com/embeddedgo/tizenrt/rttool/internal/util"
)

const Descr = "convert an ELF file to a raw binary image (no NS2 header)"

// Convert writes the loadable sections of elf and the included binaries (see
// util.ReadBins) to out as a flat image. Gaps are filled with pad.
func Convert(elf, out, inc string, pad byte) error {
	sections, err := util.ReadELF(elf, util.Warn)
	if err != nil {
		return fmt.Errorf("readelf: %w", err)
	}
	if inc != "" {
		isec, err := util.ReadBins(inc)
		if err != nil {
			return fmt.Errorf("readbins: %w", err)
		}
		sections = append(sections, isec...)
	}
	of, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err = sections.Flatten(of, pad); err != nil {
		of.Close()
		return fmt.Errorf("flatten: %w", err)
	}
	return of.Close()
}

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [ELF [BIN]]\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	inc := fs.String(
		"inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	pad := fs.Uint(
		"pad", 0xff,
		"pad `byte` used to fill gaps between sections",
	)
	fs.Parse(args)
	if fs.NArg() > 2 || *pad > 0xff {
		fs.Usage()
		os.Exit(1)
	}
	elf := fs.Arg(0)
	if elf == "" {
		var err error
		elf, err = project.DefaultELF(".")
		util.FatalErr("", err)
	}
	util.FatalErr("", Convert(elf, util.OutFile(elf, fs.Arg(1), ".bin"), *inc, byte(*pad)))
}
