// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapters

import (
	"bytes"
	"testing"

	"github.com/embeddedgo/tizenrt/rttool/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, nil)
	assert.Equal(t, "no debug adapter found\n", buf.String())

	buf.Reset()
	Print(&buf, []util.USBDevice{
		{Bus: 1, Address: 4, USBID: util.DebugAdapters[0]},
	})
	assert.Equal(t, "001:004 0403:6010 FTDI FT2232 (ARTIK 05x on-board JTAG)\n", buf.String())
}
