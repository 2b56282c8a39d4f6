// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdk

import (
	"path/filepath"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/sdk/sdktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDefault(t *testing.T) {
	root := sdktest.Make(t, sdktest.Variant{
		ID:           "typical",
		IncludePaths: []string{"inc"},
		Libs:         []string{"libos.a", "libarch.a"},
	})
	ctx, logs := logCtx()

	s, err := Open(ctx, root, "")
	require.NoError(t, err)
	assert.Equal(t, "typical", s.Variant.ID)
	assert.Equal(t, []string{filepath.Join(root, "libsdk", "typical", "inc")}, s.IncludePaths)
	assert.Equal(t, []string{"arch", "os"}, s.Libs)
	assert.Equal(t, filepath.Join(root, "common", "scripts", "flash.ld"), s.LinkerScript())
	assert.Equal(t, filepath.Join(root, "common", "tools", "s5jchksum.py"), s.HeaderTool())
	assert.Equal(t, filepath.Join(root, "examples", "hello", "._main.c"), s.EntrySource())
	assert.Zero(t, warnings(logs))
}

func TestOpenCustomFallsBackToTypical(t *testing.T) {
	root := sdktest.Make(t, sdktest.Variant{
		ID:           "typical",
		IncludePaths: []string{"inc"},
		Libs:         []string{"libos.a"},
	})
	ctx, logs := logCtx()

	s, err := Open(ctx, root, "custom")
	require.NoError(t, err)
	assert.Equal(t, "typical", s.Variant.ID)
	assert.Equal(t, []string{filepath.Join(root, "libsdk", "typical", "inc")}, s.IncludePaths)
	assert.Equal(t, []string{"os"}, s.Libs)
	assert.Equal(t, 1, warnings(logs))
}

func TestOpenVariantWithoutMetadata(t *testing.T) {
	root := sdktest.Make(t,
		sdktest.Variant{ID: "typical"},
		sdktest.Variant{ID: "extra", NoMetadata: true},
	)
	ctx, _ := logCtx()

	_, err := Open(ctx, root, "extra")
	assert.ErrorIs(t, err, rterr.ErrMetadata)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestOpenMetadataWithoutDirectory(t *testing.T) {
	root := sdktest.Make(t,
		sdktest.Variant{ID: "typical"},
		sdktest.Variant{ID: "ghost", NoDir: true},
	)
	ctx, logs := logCtx()

	s, err := Open(ctx, root, "ghost")
	require.NoError(t, err)
	assert.Equal(t, "typical", s.Variant.ID)
	assert.Equal(t, 1, warnings(logs))
}

func TestOpenMissingRoot(t *testing.T) {
	ctx, _ := logCtx()
	_, err := Open(ctx, filepath.Join(t.TempDir(), "nope"), "")
	assert.ErrorIs(t, err, rterr.ErrConfiguration)
}
