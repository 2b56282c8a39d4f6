// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/embeddedgo/tizenrt/rttool/internal/rterr"
	"github.com/gookit/color"
)

// Stderr is where the diagnostic messages go.
var Stderr io.Writer = os.Stderr

func Warn(f string, args ...any) {
	fmt.Fprintln(Stderr, color.Yellow.Sprintf(f, args...))
}

func Fatal(f string, args ...any) {
	fmt.Fprintln(Stderr, color.Red.Sprintf(f, args...))
	os.Exit(1)
}

// FatalErr prints an error description and exits the program if the
// err != nil. The output of a failed external tool has already been shown so
// only the failed stage and the exit status are printed.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error()
	if what != "" {
		s = what + ": " + s
	}
	var te *rterr.ToolError
	if k := rterr.KindOf(err); k != 0 && !errors.As(err, &te) {
		s += " (" + k.String() + ")"
	}
	Fatal("%s", s)
}

// NewLogger returns the logger used by the internal packages. It writes text
// records to Stderr.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
