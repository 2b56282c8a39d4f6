// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sdktest creates minimal SDK trees for tests.
package sdktest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Variant describes one pre-built configuration of a test SDK.
type Variant struct {
	ID           string
	IncludePaths []string
	Libs         []string // file names under libs/, e.g. "libfoo.a"
	NoDir        bool     // only the metadata entry exists
	NoMetadata   bool     // only the directory exists
}

// Make creates an SDK tree in a temporary directory and returns its root.
func Make(t *testing.T, variants ...Variant) string {
	t.Helper()
	root := t.TempDir()
	type entry struct {
		ID           string   `json:"id"`
		IncludePaths []string `json:"includePaths"`
	}
	doc := struct {
		PreBuildConfigs []entry `json:"preBuildConfigs"`
	}{PreBuildConfigs: []entry{}}
	for _, v := range variants {
		if !v.NoMetadata {
			inc := v.IncludePaths
			if inc == nil {
				inc = []string{}
			}
			doc.PreBuildConfigs = append(doc.PreBuildConfigs, entry{v.ID, inc})
		}
		if v.NoDir {
			continue
		}
		libs := filepath.Join(root, "libsdk", v.ID, "libs")
		require.NoError(t, os.MkdirAll(libs, 0o755))
		WriteFile(t, filepath.Join(libs, "arm_vectortab.o"), "vectors")
		for _, l := range v.Libs {
			WriteFile(t, filepath.Join(libs, l), "!<arch>\n")
		}
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	WriteFile(t, filepath.Join(root, ".metadata", "configs.json"), string(data))
	WriteFile(t, filepath.Join(root, "common", "scripts", "flash.ld"), "/* ld */\n")
	WriteFile(t, filepath.Join(root, "common", "tools", "s5jchksum.py"), "#!/usr/bin/env python\n")
	WriteFile(t, filepath.Join(root, "examples", "hello", "._main.c"), "int main(void) { return 0; }\n")
	return root
}

// WriteFile writes content to name creating the parent directories.
func WriteFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}
