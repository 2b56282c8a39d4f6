// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package variants

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/embeddedgo/tizenrt/rttool/internal/project"
	"github.com/embeddedgo/tizenrt/rttool/internal/sdk"
	"github.com/embeddedgo/tizenrt/rttool/internal/util"
)

const Descr = "list the pre-built SDK configurations"

// List prints the variants described by the SDK metadata. Variants without
// a directory are marked as missing, they cannot be built. Variants whose
// library directory cannot be read are marked as nolibs.
func List(w io.Writer, sdkRoot string) error {
	md, err := sdk.ReadMetadata(filepath.Join(sdkRoot, sdk.MetadataFile))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, id := range md.Variants() {
		var flags []string
		if id == sdk.DefaultVariant {
			flags = append(flags, "default")
		}
		v := sdk.Variant{ID: id, Dir: sdk.VariantDir(sdkRoot, id)}
		fi, err := os.Stat(v.Dir)
		missing := err != nil || !fi.IsDir()
		if missing {
			flags = append(flags, "missing")
		}
		libs, err := sdk.DiscoverLibraries(v.LibDir())
		if err != nil && !missing {
			flags = append(flags, "nolibs")
		}
		fmt.Fprintf(tw, "%s\t%d libs\t%s\n", id, len(libs), strings.Join(flags, ","))
	}
	return tw.Flush()
}

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS]\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	root := fs.String("sdk", "", "SDK root `directory` (default: sdk_root of the project)")
	fs.Parse(args)
	if fs.NArg() != 0 {
		fs.Usage()
		os.Exit(1)
	}
	if *root == "" {
		file, err := project.Locate(".")
		util.FatalErr("", err)
		cfg, err := project.Load(file)
		util.FatalErr("", err)
		*root = cfg.Path(cfg.SDKRoot)
	}
	util.FatalErr("", List(os.Stdout, *root))
}
