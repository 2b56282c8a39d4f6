// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sdk reads the layout of the TizenRT SDK: pre-built configuration
// variants, their include paths and their precompiled libraries.
package sdk

import (
	"context"
	"os"
	"path/filepath"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
)

// DefaultVariant is used if no variant is requested or the requested one
// doesn't exist.
const DefaultVariant = "typical"

// Paths relative to the SDK root.
const (
	libsdkDir      = "libsdk"
	MetadataFile   = ".metadata/configs.json"
	LinkerScript   = "common/scripts/flash.ld"
	HeaderTool     = "common/tools/s5jchksum.py"
	EntrySource    = "examples/hello/._main.c"
	VectorTableObj = "arm_vectortab.o"
)

// Variant is a resolved pre-built configuration.
type Variant struct {
	ID  string
	Dir string // <sdk>/libsdk/<ID>
}

// LibDir returns the directory of the precompiled variant libraries.
func (v Variant) LibDir() string {
	return filepath.Join(v.Dir, "libs")
}

func (v Variant) VectorTable() string {
	return filepath.Join(v.LibDir(), VectorTableObj)
}

// VariantDir returns the directory of the variant id.
func VariantDir(sdkRoot, id string) string {
	return filepath.Join(sdkRoot, libsdkDir, id)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Resolve determines the configuration variant used by the build. An empty
// requested selects DefaultVariant. A requested variant without a directory
// under sdkRoot is replaced by DefaultVariant and a single warning is logged.
// If the resulting directory doesn't exist Resolve returns an
// rterr.Configuration error.
func Resolve(ctx context.Context, sdkRoot, requested string) (Variant, error) {
	id := requested
	if id == "" {
		id = DefaultVariant
	}
	dir := VariantDir(sdkRoot, id)
	if id != DefaultVariant && !isDir(dir) {
		ctxlog.FromContext(ctx).Warn(
			"wrong pre-built configuration, using the default one",
			"requested", requested, "default", DefaultVariant,
		)
		id = DefaultVariant
		dir = VariantDir(sdkRoot, id)
	}
	if !isDir(dir) {
		return Variant{}, rterr.Errorf(
			rterr.Configuration, "resolve variant",
			"%s: configuration directory does not exist", dir,
		)
	}
	return Variant{ID: id, Dir: dir}, nil
}
