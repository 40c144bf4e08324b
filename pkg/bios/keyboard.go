package bios

import "github.com/zotley/ie8086/pkg/cpu"

// PushKey feeds one host keystroke into the BIOS keyboard queue. AX packs
// the scan code in AH and the ASCII value in AL, the same layout AH=0
// delivers to the guest.
func (b *BIOS) PushKey(scan, ascii byte) {
	b.keyQueue = append(b.keyQueue, uint16(scan)<<8|uint16(ascii))
}

// intKeyRead (AH=0 and its AH=0x10 alias): blocking read. If a key is
// already queued it is delivered immediately; otherwise the CPU is paused
// and the read is retried — by the executor re-dispatching this same INT
// 16h — once the host delivers a key and the scheduler clears Paused.
func (b *BIOS) intKeyRead(c *cpu.CPU) {
	if len(b.keyQueue) == 0 {
		c.Paused = true
		c.Regs.IP = c.LastInstrIP
		return
	}
	c.Regs.AX = b.keyQueue[0]
	b.keyQueue = b.keyQueue[1:]
}

// intKeyStatus (AH=1): non-blocking poll. ZF=0 (a key is available) pairs
// with AX holding that key without consuming it; ZF=1 means nothing
// waiting.
func (b *BIOS) intKeyStatus(c *cpu.CPU) {
	if len(b.keyQueue) == 0 {
		c.Regs.SetFlag(cpu.FlagZF, true)
		return
	}
	c.Regs.AX = b.keyQueue[0]
	c.Regs.SetFlag(cpu.FlagZF, false)
}

// intKeyShiftState (AH=2): this core has no host shift-key transport wired
// to anything beyond PushKey's scan/ascii pair, so it reports no modifiers
// held.
func (b *BIOS) intKeyShiftState(c *cpu.CPU) {
	c.Regs.SetAL(0)
}

// HasPendingKeyRead reports whether the keyboard queue is empty, i.e.
// whether a blocking read would pause the CPU right now. It does not look
// at the CPU's Paused state; the synchronous scheduler consults it only
// while the CPU is paused, to decide whether anything can resume it.
func (b *BIOS) HasPendingKeyRead() bool {
	return len(b.keyQueue) == 0
}
