// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/sdk/sdktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	ss := Sections{
		{Paddr: 0x1008, Data: []byte{5, 6}},
		{Paddr: 0x1000, Data: []byte{1, 2, 3, 4}},
		{Paddr: 0x100a, Data: []byte{7}},
	}
	assert.Equal(t, 7, ss.Size())
	var buf bytes.Buffer
	n, err := ss.Flatten(&buf, 0xff)
	require.NoError(t, err)
	want := []byte{1, 2, 3, 4, 0xff, 0xff, 0xff, 0xff, 5, 6, 7}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, len(want), n)
}

func TestFlattenOverlap(t *testing.T) {
	ss := Sections{
		{Paddr: 0x1000, Data: []byte{1, 2, 3, 4}},
		{Paddr: 0x1002, Data: []byte{5}},
	}
	_, err := ss.Flatten(new(bytes.Buffer), 0)
	assert.Error(t, err)
}

func TestFlattenEmpty(t *testing.T) {
	n, err := Sections(nil).Flatten(new(bytes.Buffer), 0)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestPadBytes(t *testing.T) {
	var cache []byte
	assert.Equal(t, []byte{0xaa, 0xaa}, PadBytes(&cache, 2, 0xaa))
	assert.Equal(t, []byte{0xaa}, PadBytes(&cache, 1, 0xaa))
	assert.Len(t, PadBytes(&cache, 8, 0xaa), 8)
}

func TestReadELFNotAnELF(t *testing.T) {
	name := filepath.Join(t.TempDir(), "program.elf")
	require.NoError(t, os.WriteFile(name, []byte("not an elf"), 0o644))
	_, err := ReadELF(name, nil)
	assert.Error(t, err)
}

func TestReadELF(t *testing.T) {
	name := filepath.Join(t.TempDir(), "program.elf")
	text := []byte{0x00, 0x00, 0xa0, 0xe3, 0x1e, 0xff, 0x2f, 0xe1}
	sdktest.WriteELF(t, name, 0x0400_0000, 0x0402_0000, text)

	ss, err := ReadELF(name, nil)
	require.NoError(t, err)
	require.Len(t, ss, 1)
	assert.Equal(t, ".text", ss[0].Name)
	assert.Equal(t, uint64(0x0400_0000), ss[0].Vaddr)
	assert.Equal(t, uint64(0x0402_0000), ss[0].Paddr)
	assert.Equal(t, text, ss[0].Data)
}

func TestFindFile(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "rtproject.yaml"), nil, 0o644))

	path, err := FindFile(deep, "rtproject.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "rtproject.yaml"), path)

	path, err = FindFile(deep, "no-such-file.yaml")
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, os.Mkdir(filepath.Join(deep, "dir.yaml"), 0o755))
	_, err = FindFile(deep, "dir.yaml")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	old := Stderr
	Stderr = &buf
	defer func() { Stderr = old }()

	NewLogger(false).Debug("hidden")
	NewLogger(true).Debug("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
	assert.NotContains(t, buf.String(), "time=")
}

func TestReadBins(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(a, []byte{1, 2}, 0o644))
	require.NoError(t, os.WriteFile(b, []byte{3}, 0o644))

	ss, err := ReadBins(a + ":0x100," + b + ":512")
	require.NoError(t, err)
	require.Len(t, ss, 2)
	assert.Equal(t, uint64(0x100), ss[0].Paddr)
	assert.Equal(t, []byte{1, 2}, ss[0].Data)
	assert.Equal(t, uint64(512), ss[1].Paddr)

	for _, bad := range []string{a, ":0x100", a + ":x", filepath.Join(dir, "none") + ":0"} {
		_, err = ReadBins(bad)
		assert.Error(t, err, bad)
	}
}

func TestOutFile(t *testing.T) {
	assert.Equal(t, "build/program.hex", OutFile("build/program.elf", "", ".hex"))
	assert.Equal(t, "x.bin", OutFile("build/program.elf", "x.bin", ".bin"))
}
