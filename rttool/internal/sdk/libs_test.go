// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdk

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/sdk/sdktest"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverLibraries(t *testing.T) {
	dir := t.TempDir()
	sdktest.WriteFile(t, filepath.Join(dir, "libfoo.a"), "")
	sdktest.WriteFile(t, filepath.Join(dir, "libbar.a"), "")
	sdktest.WriteFile(t, filepath.Join(dir, "readme.txt"), "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "libdir.a"), 0o755))

	libs, err := DiscoverLibraries(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "foo"}, libs)
}

func TestDiscoverLibrariesSymlink(t *testing.T) {
	dir := t.TempDir()
	sdktest.WriteFile(t, filepath.Join(dir, "real", "libreal.a"), "")
	if err := os.Symlink(filepath.Join(dir, "real", "libreal.a"), filepath.Join(dir, "liblink.a")); err != nil {
		t.Skip("symlinks not supported:", err)
	}
	libs, err := DiscoverLibraries(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"link"}, libs)
}

func TestDiscoverLibrariesMissingDir(t *testing.T) {
	_, err := DiscoverLibraries(filepath.Join(t.TempDir(), "libs"))
	assert.ErrorIs(t, err, rterr.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscoverLibrariesSorted(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("result is the sorted set of archive names", prop.ForAll(
		func(names []string) bool {
			dir := t.TempDir()
			want := make([]string, 0, len(names))
			for _, n := range names {
				sdktest.WriteFile(t, filepath.Join(dir, "lib"+n+".a"), "")
				sdktest.WriteFile(t, filepath.Join(dir, n+".o"), "")
				want = append(want, n)
			}
			slices.Sort(want)
			want = slices.Compact(want)
			libs, err := DiscoverLibraries(dir)
			return err == nil && slices.Equal(libs, want)
		},
		gen.SliceOf(gen.Identifier()),
	))
	properties.TestingRun(t)
}
