// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/sdk/sdktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	elf := filepath.Join(dir, "program.elf")
	sdktest.WriteELF(t, elf, 0x0402_0000, 0x0402_0000, []byte{1, 2, 3, 4})
	inc := filepath.Join(dir, "cfg.bin")
	require.NoError(t, os.WriteFile(inc, []byte{9}, 0o644))
	out := filepath.Join(dir, "program.bin")

	require.NoError(t, Convert(elf, out, inc+":0x04020006", 0xee))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0xee, 0xee, 9}, data)
}

func TestConvertNotELF(t *testing.T) {
	dir := t.TempDir()
	elf := filepath.Join(dir, "program.elf")
	require.NoError(t, os.WriteFile(elf, []byte("text"), 0o644))
	err := Convert(elf, filepath.Join(dir, "program.bin"), "", 0xff)
	assert.ErrorContains(t, err, "readelf")
	assert.NoFileExists(t, filepath.Join(dir, "program.bin"))
}
