// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"

	usb "github.com/google/gousb"
)

// USBID identifies a USB device model.
type USBID struct {
	Vendor  usb.ID
	Product usb.ID
	Name    string
}

// DebugAdapters lists the JTAG adapters used to flash ARTIK 05x boards.
var DebugAdapters = []USBID{
	{0x0403, 0x6010, "FTDI FT2232 (ARTIK 05x on-board JTAG)"},
	{0x0403, 0x6011, "FTDI FT4232"},
	{0x0403, 0x6014, "FTDI FT232H"},
}

// USBDevice describes a device found on the bus.
type USBDevice struct {
	Bus     int
	Address int
	USBID
}

func (d USBDevice) String() string {
	return fmt.Sprintf(
		"%03d:%03d %s:%s %s", d.Bus, d.Address, d.Vendor, d.Product, d.Name,
	)
}

// FindUSB returns the devices present on the bus that match one of ids. The
// devices are only enumerated, not opened.
func FindUSB(ids []USBID) (found []USBDevice, err error) {
	ctx := usb.NewContext()
	defer ctx.Close()
	_, err = ctx.OpenDevices(func(desc *usb.DeviceDesc) bool {
		for _, id := range ids {
			if desc.Vendor == id.Vendor && desc.Product == id.Product {
				found = append(found, USBDevice{desc.Bus, desc.Address, id})
				break
			}
		}
		return false
	})
	return
}
