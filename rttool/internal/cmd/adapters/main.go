// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapters

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/tizenrt/rttool/internal/util"
)

const Descr = "list the USB debug adapters that can flash the board"

// Print writes one line per device to w. It reports if there are none.
func Print(w io.Writer, devs []util.USBDevice) {
	if len(devs) == 0 {
		fmt.Fprintln(w, "no debug adapter found")
		return
	}
	for _, d := range devs {
		fmt.Fprintln(w, d)
	}
}

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS]\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	known := fs.Bool("known", false, "print the known adapter IDs instead of probing the bus")
	fs.Parse(args)
	if fs.NArg() != 0 {
		fs.Usage()
		os.Exit(1)
	}
	if *known {
		for _, id := range util.DebugAdapters {
			fmt.Printf("%s:%s %s\n", id.Vendor, id.Product, id.Name)
		}
		return
	}
	devs, err := util.FindUSB(util.DebugAdapters)
	util.FatalErr("usb", err)
	Print(os.Stdout, devs)
}
