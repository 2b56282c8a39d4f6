// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
)

var (
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrMalformedMetadata = errors.New("malformed document")
)

type preBuildConfig struct {
	ID           *string  `json:"id"`
	IncludePaths []string `json:"includePaths"`
}

// Metadata is the content of the SDK metadata document. It isn't modified
// after ReadMetadata returns.
type Metadata struct {
	ids      []string
	includes map[string][]string
}

func malformed(file, format string, args ...any) error {
	return rterr.New(rterr.Metadata, "read metadata", fmt.Errorf(
		"%s: %w: %s", file, ErrMalformedMetadata, fmt.Sprintf(format, args...),
	))
}

// ParseMetadata parses the metadata document. The name is used only in error
// messages.
func ParseMetadata(name string, data []byte) (*Metadata, error) {
	var doc struct {
		PreBuildConfigs *[]json.RawMessage `json:"preBuildConfigs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed(name, "%v", err)
	}
	if doc.PreBuildConfigs == nil {
		return nil, malformed(name, "no preBuildConfigs array")
	}
	md := &Metadata{includes: make(map[string][]string)}
	for i, raw := range *doc.PreBuildConfigs {
		var pc preBuildConfig
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&pc); err != nil {
			return nil, malformed(name, "preBuildConfigs[%d]: %v", i, err)
		}
		if pc.ID == nil {
			return nil, malformed(name, "preBuildConfigs[%d]: no id", i)
		}
		if pc.IncludePaths == nil {
			return nil, malformed(name, "preBuildConfigs[%d]: no includePaths", i)
		}
		if _, ok := md.includes[*pc.ID]; !ok {
			md.ids = append(md.ids, *pc.ID)
		}
		md.includes[*pc.ID] = pc.IncludePaths
	}
	return md, nil
}

// ReadMetadata reads and parses the metadata document.
func ReadMetadata(file string) (*Metadata, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, rterr.New(rterr.Metadata, "read metadata", err)
	}
	return ParseMetadata(file, data)
}

// Variants returns the ids of all variants in the document order.
func (md *Metadata) Variants() []string {
	return append([]string(nil), md.ids...)
}

func (md *Metadata) Has(id string) bool {
	_, ok := md.includes[id]
	return ok
}

// IncludePaths returns the include paths of the variant id joined to baseDir.
// The existence of the returned paths isn't checked.
func (md *Metadata) IncludePaths(baseDir, id string) ([]string, error) {
	frags, ok := md.includes[id]
	if !ok {
		return nil, rterr.New(rterr.Metadata, "include paths",
			fmt.Errorf("%w: %q", ErrUnknownVariant, id))
	}
	paths := make([]string, len(frags))
	for i, f := range frags {
		paths[i] = filepath.Join(baseDir, f)
	}
	return paths, nil
}

// LoadIncludePaths reads the metadata file and returns the include paths of
// the variant id resolved against baseDir.
func LoadIncludePaths(metadataFile, baseDir, id string) ([]string, error) {
	md, err := ReadMetadata(metadataFile)
	if err != nil {
		return nil, err
	}
	return md.IncludePaths(baseDir, id)
}
