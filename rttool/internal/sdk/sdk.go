// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdk

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/embeddedgo/tizenrt/rttool/internal/ctxlog"
	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
)

// SDK is the SDK root together with the resolved variant and everything
// derived from it that is needed to compile and link against the variant.
type SDK struct {
	Root         string
	Variant      Variant
	IncludePaths []string
	Libs         []string
}

func (s *SDK) MetadataFile() string { return filepath.Join(s.Root, MetadataFile) }
func (s *SDK) LinkerScript() string { return filepath.Join(s.Root, LinkerScript) }
func (s *SDK) HeaderTool() string   { return filepath.Join(s.Root, HeaderTool) }
func (s *SDK) EntrySource() string  { return filepath.Join(s.Root, EntrySource) }

// Open resolves the requested variant and reads its include paths and
// libraries. All configuration, metadata and I/O problems are reported here,
// before any external tool is run.
//
// A variant that has a directory but no entry in the metadata document is an
// rterr.Metadata error wrapping ErrUnknownVariant.
func Open(ctx context.Context, root, requested string) (*SDK, error) {
	if !isDir(root) {
		return nil, rterr.Errorf(
			rterr.Configuration, "open sdk", "%s: SDK directory does not exist", root,
		)
	}
	v, err := Resolve(ctx, root, requested)
	if err != nil {
		return nil, err
	}
	s := &SDK{Root: root, Variant: v}
	md, err := ReadMetadata(s.MetadataFile())
	if err != nil {
		return nil, err
	}
	if !md.Has(v.ID) {
		return nil, rterr.New(rterr.Metadata, "open sdk", fmt.Errorf(
			"%w: %q has a directory but no entry in %s",
			ErrUnknownVariant, v.ID, s.MetadataFile(),
		))
	}
	if s.IncludePaths, err = md.IncludePaths(v.Dir, v.ID); err != nil {
		return nil, err
	}
	if s.Libs, err = DiscoverLibraries(v.LibDir()); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug(
		"sdk", "variant", v.ID, "includes", len(s.IncludePaths), "libs", s.Libs,
	)
	return s, nil
}
