// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hex

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/tizenrt/rttool/internal/project"
	"github.com/embeddedgo/tizenrt/rttool/internal/util"
	"github.com/marcinbor85/gohex"
)

const Descr = "convert an ELF file to the Intel HEX format"

const lineLen = 16

// Write writes sections to w in the Intel HEX format.
func Write(w io.Writer, sections util.Sections) error {
	sections.SortByPaddr()
	mem := gohex.NewMemory()
	for _, s := range sections {
		if s.Paddr > 0xffff_ffff {
			return fmt.Errorf("%s: address %#x doesn't fit in 32 bits", s.Name, s.Paddr)
		}
		if err := mem.AddBinary(uint32(s.Paddr), s.Data); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return mem.DumpIntelHex(w, lineLen)
}

// Convert writes the loadable sections of elf and the included binaries (see
// util.ReadBins) to out in the Intel HEX format.
func Convert(elf, out, inc string) error {
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
	if err = Write(of, sections); err != nil {
		of.Close()
		return fmt.Errorf("dumpintelhex: %w", err)
	}
	return of.Close()
}

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [ELF [HEX]]\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	inc := fs.String(
		"inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	fs.Parse(args)
	if fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	elf := fs.Arg(0)
	if elf == "" {
		var err error
		elf, err = project.DefaultELF(".")
		util.FatalErr("", err)
	}
	util.FatalErr("", Convert(elf, util.OutFile(elf, fs.Arg(1), ".hex"), *inc))
}
