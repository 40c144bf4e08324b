// Package cpu implements the 8086 register file, ALU, instruction decoder,
// and executor: the fetch-decode-execute core that the rest of this module
// wires memory and devices around.
package cpu

import "fmt"

// Bus is everything the CPU needs from the outside world: linear memory
// access (which may be intercepted by a memory-mapped device) and interrupt
// dispatch (which may be intercepted by a registered handler before falling
// back to the in-memory IVT). pkg/bus.Bus implements this.
type Bus interface {
	Read8(addr uint32) byte
	Write8(addr uint32, v byte)
	Read16(addr uint32) uint16
	Write16(addr uint32, v uint16)

	// Dispatch looks up a device interrupt handler for intNo using the
	// CPU's current selector register (AH), runs it if found, and reports
	// whether one was found. The CPU clears IF/TF before calling Dispatch
	// but pushes nothing on this path; only when Dispatch returns false
	// does it fall back to the IVT itself and push FLAGS/CS/IP.
	Dispatch(c *CPU, intNo byte) bool
}

// CPU is the 8086 instruction-execution engine. It owns the register file
// and borrows a Bus for all memory and interrupt traffic.
type CPU struct {
	Regs Registers
	Bus  Bus

	Halted bool
	Paused bool

	// ClocksBudget is decremented once per retired instruction by Run, and
	// once per iteration by a REP-prefixed string instruction; a negative
	// value means "run until halted or paused".
	ClocksBudget int64

	// LastInstrIP is the IP of the most recently fetched instruction,
	// restored by REP prefixes that rewind on pause.
	LastInstrIP uint16

	// Silent suppresses the informational/warning lines written for
	// undefined opcodes and similar non-fatal conditions.
	Silent bool

	prefix prefixState
}

// NewCPU builds a CPU wired to bus, in its power-on state.
func NewCPU(bus Bus) *CPU {
	c := &CPU{Bus: bus}
	c.Reset()
	return c
}

// Reset restores power-on register state and clears scheduler flags.
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.Halted = false
	c.Paused = false
	c.LastInstrIP = c.Regs.IP
}

func (c *CPU) logf(format string, args ...any) {
	if c.Silent {
		return
	}
	fmt.Printf(format, args...)
}

// fetch8 reads the byte at CS:IP and advances IP.
func (c *CPU) fetch8() byte {
	v := c.Bus.Read8(memLinear(c.Regs.CS, c.Regs.IP))
	c.Regs.IP++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

// push16/pop16 implement the stack contract: PUSH decrements SP by 2 then
// writes SS:SP; POP reads SS:SP then increments by 2.
func (c *CPU) push16(v uint16) {
	c.Regs.SP -= 2
	c.Bus.Write16(memLinear(c.Regs.SS, c.Regs.SP), v)
}

func (c *CPU) pop16() uint16 {
	v := c.Bus.Read16(memLinear(c.Regs.SS, c.Regs.SP))
	c.Regs.SP += 2
	return v
}

func memLinear(seg, off uint16) uint32 {
	return (uint32(seg)<<4 + uint32(off)) & 0xFFFFF
}

// Raise is the single interrupt entry point: clear IF/TF, then give the
// device bus first refusal before falling back to the in-memory IVT. A
// zero IVT entry with no device handler leaves CS:IP and the stack alone,
// setting only CF=1 by convention.
//
// A device handler is host-native code standing in for guest handler code
// that would otherwise end in IRET; since control returns straight to the
// instruction after INT rather than through a real far jump, this path
// pushes nothing and leaves SP untouched — the net effect is the same as
// "push, run handler, IRET" with no guest code ever seeing the stack
// motion. The IVT fallback path, by contrast, really does transfer control
// to guest code, so it pushes FLAGS/CS/IP for that code's own IRET to
// consume — except when the vector is zero, which this core treats as "no
// handler at all": logged and reported back to the caller with CF=1, by
// convention, rather than a push nothing would ever pop.
func (c *CPU) Raise(n byte) {
	flags := c.Regs.Flags
	c.Regs.SetFlag(FlagIF, false)
	c.Regs.SetFlag(FlagTF, false)

	if c.Bus != nil && c.Bus.Dispatch(c, n) {
		return
	}

	vector := uint32(n) * 4
	newIP := c.Bus.Read16(vector)
	newCS := c.Bus.Read16(vector + 2)
	if newIP == 0 && newCS == 0 {
		c.logf("cpu: unhandled interrupt %#x (no device, empty IVT entry)\n", n)
		c.Regs.SetFlag(FlagCF, true)
		return
	}
	c.push16(flags)
	c.push16(c.Regs.CS)
	c.push16(c.Regs.IP)
	c.Regs.CS = newCS
	c.Regs.IP = newIP
}

// Iret pops IP, CS, and FLAGS in that order, restoring exactly the state
// Raise saved.
func (c *CPU) Iret() {
	c.Regs.IP = c.pop16()
	c.Regs.CS = c.pop16()
	c.Regs.Flags = c.pop16() | reservedFlagBits
}

// Step executes exactly one instruction: fetch prefixes, decode, execute,
// advancing IP past every byte consumed before any side effect that reads
// the post-advance IP (Jcc/CALL use it as their branch base).
func (c *CPU) Step() {
	if c.Halted || c.Paused {
		return
	}
	c.LastInstrIP = c.Regs.IP
	c.prefix = prefixState{segOverride: -1}
	c.consumePrefixes()
	op := c.fetch8()
	c.execute(op)
}

// Run executes instructions until halted, paused, or the clock budget (if
// non-negative) is exhausted.
func (c *CPU) Run() {
	for !c.Halted && !c.Paused {
		if c.ClocksBudget == 0 {
			return
		}
		c.Step()
		if c.ClocksBudget > 0 {
			c.ClocksBudget--
		}
	}
}
