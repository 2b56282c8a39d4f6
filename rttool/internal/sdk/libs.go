// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdk

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
)

const (
	libPrefixLen = len("lib")
	libSuffix    = ".a"
)

// DiscoverLibraries returns the names of the static libraries in libDir, that
// is the names of the regular *.a files with the 3-byte prefix and the .a
// suffix stripped. The returned names are sorted.
func DiscoverLibraries(libDir string) ([]string, error) {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		return nil, rterr.New(rterr.IO, "discover libraries", err)
	}
	var libs []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, libSuffix) || !isRegular(libDir, e) {
			continue
		}
		if len(name) <= libPrefixLen+len(libSuffix) {
			continue
		}
		libs = append(libs, name[libPrefixLen:len(name)-len(libSuffix)])
	}
	slices.Sort(libs)
	return libs, nil
}

func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}
