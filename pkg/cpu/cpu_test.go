package cpu

import (
	"testing"

	"github.com/zotley/ie8086/pkg/memory"
)

// testBus adapts pkg/memory.Memory to the cpu.Bus interface with an
// optional injectable interrupt handler, standing in for pkg/bus in tests
// that don't need a full device registry.
type testBus struct {
	mem     *memory.Memory
	onIntr  func(c *CPU, n byte) bool
}

func newTestBus() *testBus {
	return &testBus{mem: memory.New()}
}

func (b *testBus) Read8(addr uint32) byte        { return b.mem.Read8(addr) }
func (b *testBus) Write8(addr uint32, v byte)    { b.mem.Write8(addr, v) }
func (b *testBus) Read16(addr uint32) uint16     { return b.mem.Read16(addr) }
func (b *testBus) Write16(addr uint32, v uint16) { b.mem.Write16(addr, v) }
func (b *testBus) Dispatch(c *CPU, n byte) bool {
	if b.onIntr != nil {
		return b.onIntr(c, n)
	}
	return false
}

func newTestCPU() (*CPU, *testBus) {
	bus := newTestBus()
	c := NewCPU(bus)
	return c, bus
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.Regs.SS = 0x1000
	c.Regs.SP = 0x0100
	c.push16(0xBEEF)
	if c.Regs.SP != 0x00FE {
		t.Fatalf("SP after push = %#x, want 0x00FE", c.Regs.SP)
	}
	v := c.pop16()
	if v != 0xBEEF {
		t.Fatalf("popped %#x, want 0xBEEF", v)
	}
	if c.Regs.SP != 0x0100 {
		t.Fatalf("SP after pop = %#x, want 0x0100 (restored)", c.Regs.SP)
	}
}

// TestInterruptTraceDeterminism walks a raw INT n / IRET sequence through
// the IVT fallback path (no device handler installed) and checks the stack
// and CS:IP end up exactly where they started, the way a correctly nested
// INT/IRET pair always does.
func TestInterruptTraceDeterminism(t *testing.T) {
	c, bus := newTestCPU()
	c.Regs.CS = 0
	c.Regs.IP = 0x0500
	c.Regs.SS = 0x2000
	c.Regs.SP = 0x0100

	// IVT entry for INT 0x21: far pointer to a handler that immediately
	// executes IRET.
	handlerSeg, handlerOff := uint16(0x3000), uint16(0x0010)
	bus.Write16(0x21*4, handlerOff)
	bus.Write16(0x21*4+2, handlerSeg)
	bus.Write8(memLinear(handlerSeg, handlerOff), 0xCF) // IRET

	startSP := c.Regs.SP
	startFlags := c.Regs.Flags
	c.Raise(0x21)

	if c.Regs.CS != handlerSeg || c.Regs.IP != handlerOff {
		t.Fatalf("after Raise: CS:IP = %04X:%04X, want %04X:%04X", c.Regs.CS, c.Regs.IP, handlerSeg, handlerOff)
	}
	if c.Regs.SP != startSP-6 {
		t.Fatalf("SP after Raise = %#x, want %#x (3 words pushed)", c.Regs.SP, startSP-6)
	}
	if c.Regs.Flag(FlagIF) || c.Regs.Flag(FlagTF) {
		t.Error("Raise must clear IF and TF")
	}

	// Step over the injected IRET.
	c.Step()

	if c.Regs.CS != 0 || c.Regs.IP != 0x0500 {
		t.Fatalf("after IRET: CS:IP = %04X:%04X, want 0000:0500", c.Regs.CS, c.Regs.IP)
	}
	if c.Regs.SP != startSP {
		t.Fatalf("SP after IRET = %#x, want %#x (fully unwound)", c.Regs.SP, startSP)
	}
	if c.Regs.Flags != startFlags {
		t.Fatalf("FLAGS after IRET = %#x, want %#x (restored)", c.Regs.Flags, startFlags)
	}
}

// TestDeviceHandledInterruptLeavesStackUntouched verifies the device-bus
// dispatch path never pushes: a handler found there stands in for guest
// code that would otherwise end in an immediate IRET, so the net stack
// effect must be zero.
func TestDeviceHandledInterruptLeavesStackUntouched(t *testing.T) {
	c, bus := newTestCPU()
	c.Regs.SS = 0x1000
	c.Regs.SP = 0x0100
	startSP := c.Regs.SP

	bus.onIntr = func(c *CPU, n byte) bool {
		return n == 0x10
	}

	c.Raise(0x10)

	if c.Regs.SP != startSP {
		t.Fatalf("SP after device-handled Raise = %#x, want unchanged %#x", c.Regs.SP, startSP)
	}
}

// TestZeroVectorNoHandlerIsNoOp checks that an interrupt with neither a
// device handler nor a populated IVT entry touches nothing.
func TestZeroVectorNoHandlerIsNoOp(t *testing.T) {
	c, _ := newTestCPU()
	c.Regs.SS = 0x1000
	c.Regs.SP = 0x0100
	c.Regs.CS = 0x0050
	c.Regs.IP = 0x0060
	startSP := c.Regs.SP

	c.Raise(0x99) // nothing registered, IVT entry reads as zero

	if c.Regs.SP != startSP {
		t.Fatalf("SP after no-op Raise = %#x, want unchanged %#x", c.Regs.SP, startSP)
	}
	if c.Regs.CS != 0x0050 || c.Regs.IP != 0x0060 {
		t.Fatalf("CS:IP moved on a no-op interrupt: %04X:%04X", c.Regs.CS, c.Regs.IP)
	}
	if !c.Regs.Flag(FlagCF) {
		t.Error("expected CF=1 on an unhandled device service, by convention")
	}
}

func TestKeyboardPauseRetryDoesNotDriftStack(t *testing.T) {
	c, bus := newTestCPU()
	c.Regs.SS = 0x1000
	c.Regs.SP = 0x0100
	c.Regs.CS = 0
	c.Regs.IP = 0x7C00
	startSP := c.Regs.SP

	tries := 0
	bus.onIntr = func(c *CPU, n byte) bool {
		tries++
		if tries < 3 {
			c.Paused = true
			c.Regs.IP = c.LastInstrIP
			return true
		}
		return true
	}

	// INT 0x16 at 0x7C00
	bus.Write8(memLinear(0, 0x7C00), 0xCD)
	bus.Write8(memLinear(0, 0x7C01), 0x16)

	c.Step()
	for c.Paused {
		c.Paused = false
		c.Step()
	}

	if c.Regs.SP != startSP {
		t.Fatalf("SP after retried INT = %#x, want unchanged %#x", c.Regs.SP, startSP)
	}
	if tries != 3 {
		t.Fatalf("handler invoked %d times, want 3", tries)
	}
}

func TestRunHonoursClockBudget(t *testing.T) {
	c, bus := newTestCPU()
	c.Regs.CS = 0
	c.Regs.IP = 0
	// Three NOPs in a row.
	bus.Write8(0, 0x90)
	bus.Write8(1, 0x90)
	bus.Write8(2, 0x90)
	c.ClocksBudget = 2
	c.Run()
	if c.Regs.IP != 2 {
		t.Fatalf("IP after budget-limited Run = %#x, want 2 (2 NOPs retired)", c.Regs.IP)
	}
}
