// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rterr defines the error kinds reported by the build-and-flash
// pipeline.
package rterr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind uint8

const (
	_ Kind = iota
	Configuration
	Metadata
	IO
	ExternalTool
	MissingArtifact
	DriverSwitch
)

var kindNames = [...]string{
	Configuration:   "configuration error",
	Metadata:        "metadata error",
	IO:              "I/O error",
	ExternalTool:    "external tool error",
	MissingArtifact: "missing artifact",
	DriverSwitch:    "driver switch warning",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Fatal reports whether the errors of this kind stop the pipeline.
func (k Kind) Fatal() bool {
	return k != DriverSwitch
}

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrConfiguration   = &Error{Kind: Configuration}
	ErrMetadata        = &Error{Kind: Metadata}
	ErrIO              = &Error{Kind: IO}
	ErrExternalTool    = &Error{Kind: ExternalTool}
	ErrMissingArtifact = &Error{Kind: MissingArtifact}
	ErrDriverSwitch    = &Error{Kind: DriverSwitch}
)

// Error describes a failure of the pipeline stage Op.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{kind, op, err}
}

func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{kind, op, fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(e.Kind.String())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in the err chain or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ToolError is the result of an external tool invocation that didn't succeed.
// ExitCode is -1 if the tool could not be started at all or was terminated by
// a signal. Err describes the reason in that case.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		if e.Err == nil {
			return e.Tool + ": abnormal termination"
		}
		return e.Tool + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: exit status %d", e.Tool, e.ExitCode)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
