// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project loads the project settings from the rtproject.yaml file and
// the environment.
package project

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/embeddedgo/tizenrt/rttool/internal/pipeline"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/embeddedgo/tizenrt/rttool/internal/toolchain"
	"github.com/embeddedgo/tizenrt/rttool/internal/util"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project file.
const FileName = "rtproject.yaml"

// Converter selects the raw binary extractor.
type Converter string

const (
	ConverterObjcopy Converter = "objcopy"
	ConverterBuiltin Converter = "builtin"
)

type Board struct {
	ID  string `yaml:"id"`
	CPU string `yaml:"cpu,omitempty"`
	FPU string `yaml:"fpu,omitempty"`
}

// Config holds the project settings. Relative paths are relative to Dir.
type Config struct {
	Dir string `yaml:"-"`

	Board Board `yaml:"board"`
	// PreConfig names the pre-built SDK configuration (custom_pre_config).
	PreConfig string `yaml:"pre_config,omitempty"`

	SDKRoot    string `yaml:"sdk_root"`
	OpenOCDDir string `yaml:"openocd_dir,omitempty"`
	BuildDir   string `yaml:"build_dir,omitempty"`
	SrcDir     string `yaml:"src_dir,omitempty"`

	Python          string    `yaml:"python,omitempty"`
	ToolchainPrefix string    `yaml:"toolchain_prefix,omitempty"`
	Converter       Converter `yaml:"converter,omitempty"`
	Debug           bool      `yaml:"debug,omitempty"`
	Jobs            int       `yaml:"jobs,omitempty"`
}

// KnownBoards holds the CPU and FPU of the supported boards.
var KnownBoards = map[string]toolchain.Board{
	"artik053":  {ID: "artik053", CPU: "cortex-r4", FPU: "vfpv3"},
	"artik053s": {ID: "artik053s", CPU: "cortex-r4", FPU: "vfpv3"},
	"artik055s": {ID: "artik055s", CPU: "cortex-r4", FPU: "vfpv3"},
}

func configErr(format string, args ...any) error {
	return rterr.Errorf(rterr.Configuration, "project", format, args...)
}

// Parse parses the project file content. dir is the project directory.
func Parse(dir string, data []byte) (*Config, error) {
	cfg := &Config{Dir: dir}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, configErr("%s: %v", filepath.Join(dir, FileName), err)
	}
	return cfg, nil
}

// Locate finds the project file in dir or its parents.
func Locate(dir string) (string, error) {
	file, err := util.FindFile(dir, FileName)
	if err != nil {
		return "", rterr.New(rterr.IO, "project", err)
	}
	if file == "" {
		return "", configErr("cannot find %s in %s or its parents", FileName, dir)
	}
	return file, nil
}

// ELF returns the path of the program linked by the last build.
func (c *Config) ELF() string {
	return filepath.Join(c.Path(c.BuildDir), pipeline.ELFName)
}

// DefaultELF returns the ELF file of the project found in dir or its parents.
func DefaultELF(dir string) (string, error) {
	file, err := Locate(dir)
	if err != nil {
		return "", err
	}
	cfg, err := Load(file)
	if err != nil {
		return "", err
	}
	return cfg.ELF(), nil
}

// Load reads the project file, applies the environment overrides and the
// defaults and validates the result.
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, rterr.New(rterr.Configuration, "project", err)
	}
	cfg, err := Parse(filepath.Dir(file), data)
	if err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the settings with the environment variables:
//
//	RTTOOL_SDK_ROOT, RTTOOL_OPENOCD_DIR, RTTOOL_BUILD_DIR, RTTOOL_PYTHON,
//	RTTOOL_JOBS, RTTOOL_PRE_CONFIG, CUSTOM_PRE_CONFIG (base64 encoded).
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.SDKRoot, "RTTOOL_SDK_ROOT")
	set(&c.OpenOCDDir, "RTTOOL_OPENOCD_DIR")
	set(&c.BuildDir, "RTTOOL_BUILD_DIR")
	set(&c.Python, "RTTOOL_PYTHON")
	set(&c.PreConfig, "RTTOOL_PRE_CONFIG")
	if v := getenv("CUSTOM_PRE_CONFIG"); v != "" {
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return configErr("CUSTOM_PRE_CONFIG: %v", err)
		}
		c.PreConfig = string(b)
	}
	if v := getenv("RTTOOL_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return configErr("RTTOOL_JOBS: %v", err)
		}
		c.Jobs = n
	}
	return nil
}

// SetDefaults fills the unset optional settings.
func (c *Config) SetDefaults() {
	if c.BuildDir == "" {
		c.BuildDir = filepath.Join(".build", c.Board.ID)
	}
	if c.SrcDir == "" {
		c.SrcDir = "src"
	}
	if c.Python == "" {
		c.Python = "python3"
	}
	if c.ToolchainPrefix == "" {
		c.ToolchainPrefix = toolchain.Prefix
	}
	if c.Converter == "" {
		c.Converter = ConverterObjcopy
	}
	if kb, ok := KnownBoards[c.Board.ID]; ok {
		if c.Board.CPU == "" {
			c.Board.CPU = kb.CPU
		}
		if c.Board.FPU == "" {
			c.Board.FPU = kb.FPU
		}
	}
	if c.Board.FPU == "" {
		c.Board.FPU = toolchain.DefaultFPU
	}
}

// Validate checks that the required settings are present.
func (c *Config) Validate() error {
	if c.Board.ID == "" {
		return configErr("board.id is required")
	}
	if c.Board.CPU == "" {
		return configErr("board %q is unknown, board.cpu is required", c.Board.ID)
	}
	if c.SDKRoot == "" {
		return configErr("sdk_root is required (or RTTOOL_SDK_ROOT)")
	}
	switch c.Converter {
	case ConverterObjcopy, ConverterBuiltin:
	default:
		return configErr("unknown converter: %q", c.Converter)
	}
	if c.Jobs < 0 {
		return configErr("jobs must not be negative")
	}
	return nil
}

// Path resolves p relative to the project directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func (c *Config) ToolchainBoard() toolchain.Board {
	return toolchain.Board{ID: c.Board.ID, CPU: c.Board.CPU, FPU: c.Board.FPU}
}

func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(out)
}
