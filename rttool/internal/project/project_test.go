// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
board:
  id: artik053
pre_config: minimal
sdk_root: /opt/framework-tizenrt
openocd_dir: /opt/tool-artik-openocd
debug: true
`

func noenv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseAndDefaults(t *testing.T) {
	cfg, err := Parse("/prj", []byte(sample))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(noenv))
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "artik053", cfg.Board.ID)
	assert.Equal(t, "cortex-r4", cfg.Board.CPU)
	assert.Equal(t, "vfpv3", cfg.Board.FPU)
	assert.Equal(t, "minimal", cfg.PreConfig)
	assert.True(t, cfg.Debug)
	assert.Equal(t, filepath.Join(".build", "artik053"), cfg.BuildDir)
	assert.Equal(t, filepath.Join("/prj", ".build", "artik053"), cfg.Path(cfg.BuildDir))
	assert.Equal(t, "/opt/framework-tizenrt", cfg.Path(cfg.SDKRoot))
	assert.Equal(t, "python3", cfg.Python)
	assert.Equal(t, ConverterObjcopy, cfg.Converter)
	assert.Equal(t, "arm-none-eabi-", cfg.ToolchainPrefix)
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse("/prj", []byte("board: {id: artik053}\nsdk: /x\n"))
	assert.ErrorIs(t, err, rterr.ErrConfiguration)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse("/prj", nil)
	require.NoError(t, err)
	cfg.SetDefaults()
	assert.ErrorIs(t, cfg.Validate(), rterr.ErrConfiguration)
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Parse("/prj", []byte(sample))
	require.NoError(t, err)
	err = cfg.ApplyEnv(envMap(map[string]string{
		"RTTOOL_SDK_ROOT":   "/sdk",
		"RTTOOL_BUILD_DIR":  "/tmp/out",
		"RTTOOL_JOBS":       "3",
		"CUSTOM_PRE_CONFIG": base64.StdEncoding.EncodeToString([]byte("custom")),
	}))
	require.NoError(t, err)
	assert.Equal(t, "/sdk", cfg.SDKRoot)
	assert.Equal(t, "/tmp/out", cfg.BuildDir)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "custom", cfg.PreConfig)
}

func TestApplyEnvBadValues(t *testing.T) {
	cfg := &Config{}
	err := cfg.ApplyEnv(envMap(map[string]string{"CUSTOM_PRE_CONFIG": "!!!"}))
	assert.ErrorIs(t, err, rterr.ErrConfiguration)
	err = cfg.ApplyEnv(envMap(map[string]string{"RTTOOL_JOBS": "many"}))
	assert.ErrorIs(t, err, rterr.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown board without cpu": "board: {id: custom}\nsdk_root: /sdk\n",
		"no sdk root":               "board: {id: artik053}\n",
		"bad converter":             "board: {id: artik053}\nsdk_root: /sdk\nconverter: srec\n",
		"negative jobs":             "board: {id: artik053}\nsdk_root: /sdk\njobs: -1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse("/prj", []byte(doc))
			require.NoError(t, err)
			cfg.SetDefaults()
			assert.ErrorIs(t, cfg.Validate(), rterr.ErrConfiguration)
		})
	}
}

func TestUnknownBoardWithCPU(t *testing.T) {
	cfg, err := Parse("/prj", []byte("board: {id: myboard, cpu: cortex-r4f}\nsdk_root: /sdk\n"))
	require.NoError(t, err)
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "vfpv3", cfg.ToolchainBoard().FPU)
	assert.Equal(t, "cortex-r4f", cfg.ToolchainBoard().CPU)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(file, []byte(sample), 0o644))
	t.Setenv("RTTOOL_SDK_ROOT", "")
	t.Setenv("CUSTOM_PRE_CONFIG", "")
	t.Setenv("RTTOOL_PRE_CONFIG", "")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Contains(t, cfg.String(), "id: artik053")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, rterr.ErrConfiguration)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src", "drv")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	_, err := Locate(sub)
	assert.ErrorIs(t, err, rterr.ErrConfiguration)

	file := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(file, []byte(sample), 0o644))
	got, err := Locate(sub)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	cfg, err := Parse(dir, []byte(sample))
	require.NoError(t, err)
	cfg.SetDefaults()
	assert.Equal(t, filepath.Join(dir, ".build", "artik053", "program.elf"), cfg.ELF())
}
