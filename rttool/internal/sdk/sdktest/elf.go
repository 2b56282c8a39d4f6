// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sdktest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteELF writes a minimal 32-bit ARM executable with a single .text
// section containing text, linked at vaddr and loaded at paddr.
func WriteELF(t *testing.T, name string, vaddr, paddr uint32, text []byte) {
	t.Helper()
	const (
		ehsize = 52
		phsize = 32
		shsize = 40
	)
	shstrtab := []byte("\x00.text\x00.shstrtab\x00")
	textOff := uint32(ehsize + phsize)
	strOff := textOff + uint32(len(text))
	shOff := (strOff + uint32(len(shstrtab)) + 3) &^ 3

	hdr := elf.Header32{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_ARM),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     vaddr,
		Phoff:     ehsize,
		Shoff:     shOff,
		Ehsize:    ehsize,
		Phentsize: phsize,
		Phnum:     1,
		Shentsize: shsize,
		Shnum:     3,
		Shstrndx:  2,
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	prog := elf.Prog32{
		Type:   uint32(elf.PT_LOAD),
		Off:    textOff,
		Vaddr:  vaddr,
		Paddr:  paddr,
		Filesz: uint32(len(text)),
		Memsz:  uint32(len(text)),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Align:  4,
	}
	sections := []elf.Section32{
		{},
		{
			Name:      1,
			Type:      uint32(elf.SHT_PROGBITS),
			Flags:     uint32(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addr:      vaddr,
			Off:       textOff,
			Size:      uint32(len(text)),
			Addralign: 4,
		},
		{
			Name:      7,
			Type:      uint32(elf.SHT_STRTAB),
			Off:       strOff,
			Size:      uint32(len(shstrtab)),
			Addralign: 1,
		},
	}

	var buf bytes.Buffer
	le := binary.LittleEndian
	require.NoError(t, binary.Write(&buf, le, &hdr))
	require.NoError(t, binary.Write(&buf, le, &prog))
	buf.Write(text)
	buf.Write(shstrtab)
	for uint32(buf.Len()) < shOff {
		buf.WriteByte(0)
	}
	require.NoError(t, binary.Write(&buf, le, sections))
	require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o644))
}
