package bios

import "github.com/zotley/ie8086/pkg/cpu"

// intWait (INT 15h, AH=86h): wait (CX<<16)|DX microseconds. Real timing is
// out of scope for this core, so the contract is honoured structurally —
// CF=1 and Paused=true are set exactly as the service promises — while the
// actual elapsed-time wait is the host scheduler's job: it reads
// PendingWait after the step that left the CPU paused and decides
// how (or whether) to honour it before calling ResumeWait.
func (b *BIOS) intWait(c *cpu.CPU) {
	micros := int64(c.Regs.CX)<<16 | int64(c.Regs.DX)
	b.waitMicros = micros
	b.waitActive = true
	c.Regs.SetFlag(cpu.FlagCF, true)
	c.Paused = true
}

// PendingWait reports an outstanding INT 15h/86h wait and clears it,
// handing the duration to the host scheduler.
func (b *BIOS) PendingWait() (micros int64, ok bool) {
	if !b.waitActive {
		return 0, false
	}
	b.waitActive = false
	return b.waitMicros, true
}

// ResumeWait clears the CPU's paused state and CF, signalling the wait is
// over. The host scheduler calls this once the requested duration has
// elapsed (or immediately, in synchronous test mode).
func (b *BIOS) ResumeWait(c *cpu.CPU) {
	c.Regs.SetFlag(cpu.FlagCF, false)
	c.Paused = false
}
