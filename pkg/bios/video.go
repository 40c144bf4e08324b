package bios

import "github.com/zotley/ie8086/pkg/cpu"

const defaultAttr = 0x07

func cellAddr(row, col byte) uint32 {
	return VideoBase + uint32(int(row)*TextCols+int(col))*2
}

func (b *BIOS) writeCell(row, col byte, ch, attr byte) {
	addr := cellAddr(row, col)
	b.mem.Write8(addr, ch)
	b.mem.Write8(addr+1, attr)
}

func (b *BIOS) readCell(row, col byte) (ch, attr byte) {
	addr := cellAddr(row, col)
	return b.mem.Read8(addr), b.mem.Read8(addr + 1)
}

// scrollUp moves rows 1..TextRows-1 into 0..TextRows-2 and clears the
// bottom row, the BIOS's answer to the cursor running off the bottom of
// the page.
func (b *BIOS) scrollUp(attr byte) {
	for row := 0; row < TextRows-1; row++ {
		for col := 0; col < TextCols; col++ {
			ch, a := b.readCell(byte(row+1), byte(col))
			b.writeCell(byte(row), byte(col), ch, a)
		}
	}
	for col := 0; col < TextCols; col++ {
		b.writeCell(TextRows-1, byte(col), ' ', attr)
	}
}

func (b *BIOS) advanceCursor() {
	b.cursorCol++
	if b.cursorCol >= TextCols {
		b.cursorCol = 0
		b.cursorRow++
	}
	if b.cursorRow >= TextRows {
		b.scrollUp(defaultAttr)
		b.cursorRow = TextRows - 1
	}
}

// intVideoSetMode: AH=0, AL holds the requested mode. Only the text/
// graphics modes named in the service contract are accepted; anything else
// is ignored (no CF/AH convention is specified for an unsupported mode, so
// this is silently a no-op, matching real BIOS tolerance of odd mode
// numbers on read-only display adapters).
func (b *BIOS) intVideoSetMode(c *cpu.CPU) {
	mode := c.Regs.AL()
	switch mode {
	case 0, 1, 2, 3, 4, 0x11, 0x12, 0x13:
		b.videoMode = mode
		b.cursorCol, b.cursorRow = 0, 0
	}
}

func (b *BIOS) intVideoGetMode(c *cpu.CPU) {
	c.Regs.SetAL(b.videoMode)
	c.Regs.SetAH(TextCols)
	c.Regs.SetBH(b.activePage)
}

// intVideoCursorShape: AH=1, CX holds start/end scanlines. This core has no
// scanline-accurate cursor rendering (no real-time VGA rendering pipeline),
// so the shape is accepted and ignored.
func (b *BIOS) intVideoCursorShape(c *cpu.CPU) {}

func (b *BIOS) intVideoSetCursor(c *cpu.CPU) {
	b.cursorRow = c.Regs.DH()
	b.cursorCol = c.Regs.DL()
}

func (b *BIOS) intVideoGetCursor(c *cpu.CPU) {
	c.Regs.SetDH(b.cursorRow)
	c.Regs.SetDL(b.cursorCol)
	c.Regs.SetCH(0)
	c.Regs.SetCL(0)
}

func (b *BIOS) intVideoSetActivePage(c *cpu.CPU) {
	b.activePage = c.Regs.AL()
}

// intVideoScroll: AH=6, AL=lines to scroll (0 clears the window), BH=fill
// attribute, CH/CL=upper-left row/col, DH/DL=lower-right row/col. This
// implementation scrolls/clears the full page regardless of the requested
// window, a reasonable reduction given the BIOS never draws partial-window
// scrolls in the scenarios this core services.
func (b *BIOS) intVideoScroll(c *cpu.CPU) {
	attr := c.Regs.BH()
	lines := c.Regs.AL()
	if lines == 0 {
		for row := 0; row < TextRows; row++ {
			for col := 0; col < TextCols; col++ {
				b.writeCell(byte(row), byte(col), ' ', attr)
			}
		}
		return
	}
	for i := byte(0); i < lines; i++ {
		b.scrollUp(attr)
	}
}

func (b *BIOS) intVideoReadChar(c *cpu.CPU) {
	ch, attr := b.readCell(b.cursorRow, b.cursorCol)
	c.Regs.SetAL(ch)
	c.Regs.SetAH(attr)
}

// intVideoWriteCharAttr (AH=9) and intVideoWriteChar (AH=0xA) write CX
// copies of AL at the cursor without moving it; 9 uses BL as the
// attribute, 0xA reuses whatever attribute is already on the cell.
func (b *BIOS) intVideoWriteCharAttr(c *cpu.CPU) {
	ch := c.Regs.AL()
	attr := c.Regs.BL()
	count := c.Regs.CX
	col := b.cursorCol
	for i := uint16(0); i < count && int(col) < TextCols; i++ {
		b.writeCell(b.cursorRow, col, ch, attr)
		col++
	}
}

func (b *BIOS) intVideoWriteChar(c *cpu.CPU) {
	ch := c.Regs.AL()
	count := c.Regs.CX
	col := b.cursorCol
	for i := uint16(0); i < count && int(col) < TextCols; i++ {
		_, attr := b.readCell(b.cursorRow, col)
		b.writeCell(b.cursorRow, col, ch, attr)
		col++
	}
}

// intVideoTeletype (AH=0xE) is the "print character and move the cursor"
// service: BL/BH are ignored, the written attribute is always the BIOS
// default, and control characters (CR/LF/BS) act like a dumb terminal.
func (b *BIOS) intVideoTeletype(c *cpu.CPU) {
	ch := c.Regs.AL()
	switch ch {
	case 0x0D:
		b.cursorCol = 0
	case 0x0A:
		b.cursorRow++
		if b.cursorRow >= TextRows {
			b.scrollUp(defaultAttr)
			b.cursorRow = TextRows - 1
		}
	case 0x08:
		if b.cursorCol > 0 {
			b.cursorCol--
		}
	default:
		b.writeCell(b.cursorRow, b.cursorCol, ch, defaultAttr)
		b.advanceCursor()
	}
}

// intVideoWriteString (AH=0x13): CX characters starting at ES:BP, written
// at DH,DL and advancing the cursor as each one is printed. AL bit 0
// selects the attribute source — 0 takes a single attribute from BL for
// the whole string, 1 means the string itself interleaves a (char, attr)
// byte pair per cell, so BP walks two bytes per character in that mode.
func (b *BIOS) intVideoWriteString(c *cpu.CPU) {
	mode := c.Regs.AL()
	attr := c.Regs.BL()
	count := c.Regs.CX
	seg, off := c.Regs.ES, c.Regs.BP

	b.cursorRow = c.Regs.DH()
	b.cursorCol = c.Regs.DL()

	for i := uint16(0); i < count; i++ {
		ch := c.Bus.Read8((uint32(seg)<<4 + uint32(off)) & 0xFFFFF)
		off++
		cellAttr := attr
		if mode&0x01 != 0 {
			cellAttr = c.Bus.Read8((uint32(seg)<<4 + uint32(off)) & 0xFFFFF)
			off++
		}
		b.writeCell(b.cursorRow, b.cursorCol, ch, cellAttr)
		b.advanceCursor()
	}
}

// intVideoExtendedText (AH=0x11) covers the extended text-mode font/
// character-set sub-services; this core has no VGA font ROM to switch, so
// it accepts the call and reports success via AL, matching the documented
// contract for adapters without loadable fonts.
func (b *BIOS) intVideoExtendedText(c *cpu.CPU) {
	c.Regs.SetAL(0x00)
}
