package bios

import (
	"testing"

	"github.com/zotley/ie8086/pkg/bus"
	"github.com/zotley/ie8086/pkg/cpu"
	"github.com/zotley/ie8086/pkg/memory"
)

func newTestMachine(disk []byte) (*cpu.CPU, *bus.Bus, *BIOS) {
	mem := memory.New()
	b := bus.New(mem, true)
	bi := New(mem, disk, true)
	if err := b.Attach(bi); err != nil {
		panic(err)
	}
	c := cpu.NewCPU(b)
	return c, b, bi
}

func TestVideoTeletypeWritesCellAndAdvancesCursor(t *testing.T) {
	c, _, bi := newTestMachine(nil)
	c.Regs.SetAH(0x0E)
	c.Regs.SetAL('A')
	bi.intVideoTeletype(c)

	ch, attr := bi.readCell(0, 0)
	if ch != 'A' {
		t.Fatalf("cell char = %q, want 'A'", ch)
	}
	if attr != defaultAttr {
		t.Fatalf("cell attr = %#x, want default %#x", attr, defaultAttr)
	}
	if bi.cursorCol != 1 || bi.cursorRow != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,1)", bi.cursorRow, bi.cursorCol)
	}
}

func TestVideoTeletypeNewlineScrollsAtBottomRow(t *testing.T) {
	c, _, bi := newTestMachine(nil)
	bi.cursorRow = TextRows - 1
	c.Regs.SetAH(0x0E)
	c.Regs.SetAL(0x0A)
	bi.intVideoTeletype(c)
	if bi.cursorRow != TextRows-1 {
		t.Fatalf("cursorRow after LF at bottom = %d, want clamped to %d", bi.cursorRow, TextRows-1)
	}
}

func TestVideoWriteStringSingleAttrAdvancesCursor(t *testing.T) {
	c, b, bi := newTestMachine(nil)
	c.Regs.ES = 0x2000
	c.Regs.BP = 0x0000
	for i, ch := range []byte("HI") {
		b.Write8((uint32(0x2000)<<4)+uint32(i), ch)
	}
	c.Regs.SetAL(0x00) // mode 0: single attribute from BL
	c.Regs.SetBL(0x07)
	c.Regs.CX = 2
	c.Regs.SetDH(1)
	c.Regs.SetDL(3)

	bi.intVideoWriteString(c)

	ch0, attr0 := bi.readCell(1, 3)
	ch1, attr1 := bi.readCell(1, 4)
	if ch0 != 'H' || attr0 != 0x07 {
		t.Fatalf("cell(1,3) = %q/%#x, want 'H'/0x07", ch0, attr0)
	}
	if ch1 != 'I' || attr1 != 0x07 {
		t.Fatalf("cell(1,4) = %q/%#x, want 'I'/0x07", ch1, attr1)
	}
	if bi.cursorRow != 1 || bi.cursorCol != 5 {
		t.Fatalf("cursor = (%d,%d), want (1,5)", bi.cursorRow, bi.cursorCol)
	}
}

func TestVideoWriteStringPerCharAttr(t *testing.T) {
	c, b, bi := newTestMachine(nil)
	c.Regs.ES = 0x2000
	c.Regs.BP = 0x0000
	// interleaved (char, attr) pairs: 'A',0x1F
	b.Write8(uint32(0x2000)<<4, 'A')
	b.Write8((uint32(0x2000)<<4)+1, 0x1F)
	c.Regs.SetAL(0x01) // mode 1: per-character attribute
	c.Regs.CX = 1
	c.Regs.SetDH(0)
	c.Regs.SetDL(0)

	bi.intVideoWriteString(c)

	ch, attr := bi.readCell(0, 0)
	if ch != 'A' || attr != 0x1F {
		t.Fatalf("cell(0,0) = %q/%#x, want 'A'/0x1F", ch, attr)
	}
}

func TestDiskReadSectorsHonoursCHSAndWritesViaBus(t *testing.T) {
	disk := make([]byte, DefaultCylinders*DefaultHeads*DefaultSectorsPerTrk*sectorSize)
	for i := range disk[:sectorSize] {
		disk[i] = byte(i)
	}
	c, b, bi := newTestMachine(disk)
	c.Regs.SetCH(0)
	c.Regs.SetCL(1) // sector 1, cylinder high bits 0
	c.Regs.SetDH(0) // head 0
	c.Regs.SetAL(1) // 1 sector
	c.Regs.ES = 0x1000
	c.Regs.BX = 0x0000

	bi.intDiskReadSectors(c)

	if c.Regs.Flag(cpu.FlagCF) {
		t.Fatalf("CF set on a valid read, AH=%#x", c.Regs.AH())
	}
	if c.Regs.AL() != 1 {
		t.Fatalf("AL (sectors read) = %d, want 1", c.Regs.AL())
	}
	for i := 0; i < sectorSize; i++ {
		want := byte(i)
		got := b.Read8((uint32(0x1000) << 4) + uint32(i))
		if got != want {
			t.Fatalf("dest byte %d = %#x, want %#x", i, got, want)
		}
	}
}

func TestDiskReadSectorsOverflowReportsBB(t *testing.T) {
	c, _, bi := newTestMachine(nil) // empty disk
	c.Regs.SetCH(0)
	c.Regs.SetCL(1)
	c.Regs.SetDH(0)
	c.Regs.SetAL(1)

	bi.intDiskReadSectors(c)

	if !c.Regs.Flag(cpu.FlagCF) {
		t.Fatal("expected CF set on out-of-range read")
	}
	if c.Regs.AH() != statusOverflow {
		t.Fatalf("AH = %#x, want %#x", c.Regs.AH(), statusOverflow)
	}
}

func TestKeyboardBlockingReadPausesWhenEmpty(t *testing.T) {
	c, _, bi := newTestMachine(nil)
	c.LastInstrIP = 0x7C00
	c.Regs.IP = 0x7C02

	bi.intKeyRead(c)

	if !c.Paused {
		t.Fatal("expected CPU paused on empty keyboard queue")
	}
	if c.Regs.IP != 0x7C00 {
		t.Fatalf("IP = %#x, want rewound to %#x", c.Regs.IP, 0x7C00)
	}

	bi.PushKey(0x1E, 'a')
	c.Paused = false
	bi.intKeyRead(c)
	if c.Paused {
		t.Fatal("expected read to succeed once a key is queued")
	}
	if c.Regs.AX != (uint16(0x1E)<<8 | uint16('a')) {
		t.Fatalf("AX = %#x, want scan/ascii pair", c.Regs.AX)
	}
}
