// Package bios implements the minimal BIOS device: INT 10h video, INT 13h
// disk, INT 15h wait, and INT 16h keyboard services, attached to the
// machine's device bus exactly like any other device.
package bios

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/zotley/ie8086/pkg/bus"
	"github.com/zotley/ie8086/pkg/memory"
)

// VideoBase and the 80x25 text-mode geometry are bit-exact per the VGA
// text-mode memory layout this BIOS exposes: page 0 at 0xB8000, each cell
// a (char, attribute) pair, attribute = (blink<<7)|(bg<<4)|fg.
const (
	VideoBase = 0xB8000
	TextCols  = 80
	TextRows  = 25
	pageSize  = TextCols * TextRows * 2
)

// DefaultFloppyGeometry is the standard 3.5" 1.44 MB CHS geometry used when
// no explicit geometry accompanies a disk image.
const (
	DefaultCylinders     = 80
	DefaultHeads         = 2
	DefaultSectorsPerTrk = 18
)

// BIOS is the single device fronting all four services. It owns the text
// cursor and video mode, a floppy image, and the keyboard/wait suspension
// state driven by the host scheduler.
type BIOS struct {
	id  uuid.UUID
	mem *memory.Memory

	videoMode            byte
	cursorCol, cursorRow byte
	activePage           byte

	disk      []byte
	diskCyls  int
	diskHeads int
	diskSPT   int

	keyQueue []uint16

	waitActive bool
	waitMicros int64

	silent bool
}

// New builds a BIOS device backed by mem, with an optional floppy image
// (nil is fine — an INT 13h AH=2 read that reaches past the end of the
// image, or any read with no image, fails with CF=1 and AH=0xBB).
func New(mem *memory.Memory, disk []byte, silent bool) *BIOS {
	return &BIOS{
		id:        uuid.New(),
		mem:       mem,
		videoMode: 0x03,
		disk:      disk,
		diskCyls:  DefaultCylinders,
		diskHeads: DefaultHeads,
		diskSPT:   DefaultSectorsPerTrk,
		silent:    silent,
	}
}

func (b *BIOS) ID() uuid.UUID { return b.id }
func (b *BIOS) Name() string  { return "bios" }

func (b *BIOS) MemRange() (bus.MemRange, bool) {
	return bus.MemRange{Start: VideoBase, End: VideoBase + pageSize - 1}, true
}

// ReadMem/WriteMem pass straight through to the backing memory array: the
// text buffer has no side effects on a raw guest write beyond the write
// itself, so routing it through the bus exists to honour the device
// attachment contract, not to add behaviour on top of plain memory.
func (b *BIOS) ReadMem(addr uint32) byte     { return b.mem.Read8(addr) }
func (b *BIOS) WriteMem(addr uint32, v byte) { b.mem.Write8(addr, v) }

func (b *BIOS) InterruptHandlers() map[byte]map[byte]bus.Handler {
	return map[byte]map[byte]bus.Handler{
		0x10: {
			0x00: b.intVideoSetMode,
			0x01: b.intVideoCursorShape,
			0x02: b.intVideoSetCursor,
			0x03: b.intVideoGetCursor,
			0x05: b.intVideoSetActivePage,
			0x06: b.intVideoScroll,
			0x08: b.intVideoReadChar,
			0x09: b.intVideoWriteCharAttr,
			0x0A: b.intVideoWriteChar,
			0x0E: b.intVideoTeletype,
			0x0F: b.intVideoGetMode,
			0x11: b.intVideoExtendedText,
			0x13: b.intVideoWriteString,
		},
		0x13: {
			0x00: b.intDiskReset,
			0x02: b.intDiskReadSectors,
		},
		0x15: {
			0x86: b.intWait,
		},
		0x16: {
			0x00: b.intKeyRead,
			0x10: b.intKeyRead,
			0x01: b.intKeyStatus,
			0x02: b.intKeyShiftState,
		},
	}
}

func (b *BIOS) logf(format string, args ...any) {
	if b.silent {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
