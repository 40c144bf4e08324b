// Package bus implements the device registry sitting between the CPU and
// flat memory: devices advertise an optional memory-mapped region and an
// interrupt sub-dispatch table, and the bus routes reads/writes and
// interrupts to the first matching registration before falling back to
// plain memory or the in-memory interrupt vector table.
package bus

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zotley/ie8086/pkg/cpu"
	"github.com/zotley/ie8086/pkg/memory"
)

// ErrDeviceRegistrationConflict is returned by Attach when a device's
// memory range overlaps an already-registered device, or when it claims an
// (intNo, selector) pair another device already owns.
var ErrDeviceRegistrationConflict = errors.New("bus: device registration conflict")

// Handler services one (interrupt number, selector value) pair. It runs
// with full access to CPU state — registers, flags, and (through c.Bus)
// memory — for the duration of the call; there is no re-entrancy.
type Handler func(c *cpu.CPU)

// MemRange is a closed interval [Start, End] of linear addresses a device
// owns for memory-mapped reads and writes.
type MemRange struct {
	Start, End uint32
}

func (m MemRange) contains(addr uint32) bool {
	return addr >= m.Start && addr <= m.End
}

func (m MemRange) overlaps(o MemRange) bool {
	return m.Start <= o.End && o.Start <= m.End
}

// Device is anything attachable to the bus: the BIOS, VGA text buffer,
// floppy controller, etc. A device with no memory-mapped region returns
// ok=false from MemRange.
type Device interface {
	ID() uuid.UUID
	Name() string
	MemRange() (r MemRange, ok bool)
	ReadMem(addr uint32) byte
	WriteMem(addr uint32, v byte)

	// InterruptHandlers returns this device's (int_no -> selector_value ->
	// Handler) sub-dispatch table; the selector register is always AH, per
	// the BIOS services this bus was built to carry.
	InterruptHandlers() map[byte]map[byte]Handler
}

// Bus composes flat memory with an ordered set of attached devices.
type Bus struct {
	mem     *memory.Memory
	devices []Device
	byID    map[uuid.UUID]Device
	intTbl  map[byte]map[byte]Handler

	silent bool
}

// New wires a Bus to the given memory array.
func New(mem *memory.Memory, silent bool) *Bus {
	return &Bus{
		mem:    mem,
		byID:   make(map[uuid.UUID]Device),
		intTbl: make(map[byte]map[byte]Handler),
		silent: silent,
	}
}

// Attach registers a device: its memory range (if any) must be disjoint
// from every currently-attached device, and none of its (int_no, selector)
// pairs may already be claimed.
func (b *Bus) Attach(d Device) error {
	if r, ok := d.MemRange(); ok {
		for _, other := range b.devices {
			if or, ook := other.MemRange(); ook && r.overlaps(or) {
				return fmt.Errorf("%w: %s memory range overlaps %s", ErrDeviceRegistrationConflict, d.Name(), other.Name())
			}
		}
	}
	for intNo, subs := range d.InterruptHandlers() {
		for sel := range subs {
			if existing, ok := b.intTbl[intNo][sel]; ok {
				_ = existing
				return fmt.Errorf("%w: %s claims int %#x selector %#x already owned", ErrDeviceRegistrationConflict, d.Name(), intNo, sel)
			}
		}
	}

	b.devices = append(b.devices, d)
	b.byID[d.ID()] = d
	for intNo, subs := range d.InterruptHandlers() {
		if b.intTbl[intNo] == nil {
			b.intTbl[intNo] = make(map[byte]Handler)
		}
		for sel, h := range subs {
			b.intTbl[intNo][sel] = h
		}
	}
	return nil
}

// Detach removes a device's memory range and every interrupt handler it
// registered.
func (b *Bus) Detach(id uuid.UUID) {
	d, ok := b.byID[id]
	if !ok {
		return
	}
	delete(b.byID, id)
	for i, dev := range b.devices {
		if dev.ID() == id {
			b.devices = append(b.devices[:i], b.devices[i+1:]...)
			break
		}
	}
	for intNo, subs := range d.InterruptHandlers() {
		for sel := range subs {
			if b.intTbl[intNo] != nil {
				delete(b.intTbl[intNo], sel)
			}
		}
	}
}

func (b *Bus) findDevice(addr uint32) Device {
	for _, d := range b.devices {
		if r, ok := d.MemRange(); ok && r.contains(addr) {
			return d
		}
	}
	return nil
}

func (b *Bus) Read8(addr uint32) byte {
	if d := b.findDevice(addr); d != nil {
		return d.ReadMem(addr)
	}
	return b.mem.Read8(addr)
}

func (b *Bus) Write8(addr uint32, v byte) {
	if d := b.findDevice(addr); d != nil {
		d.WriteMem(addr, v)
		return
	}
	b.mem.Write8(addr, v)
}

// Read16/Write16 compose the byte-wise accessors above so MMIO routing is
// still honoured one byte at a time across a region boundary, mirroring how
// Memory itself handles a read/write that straddles the 1 MiB wrap point.
func (b *Bus) Read16(addr uint32) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (b *Bus) Write16(addr uint32, v uint16) {
	b.Write8(addr, byte(v))
	b.Write8(addr+1, byte(v>>8))
}

// Dispatch is cpu.Bus's interrupt hook: look up a handler keyed by (intNo,
// AH), run it if present, and report whether one was found. Dispatch runs
// before the CPU ever touches the stack for this interrupt — a handler
// found here stands in for guest code that would end in an immediate
// IRET, so Raise leaves CS:IP and the stack untouched on this path.
func (b *Bus) Dispatch(c *cpu.CPU, intNo byte) bool {
	selector := c.Regs.AH()
	if subs, ok := b.intTbl[intNo]; ok {
		if h, ok := subs[selector]; ok {
			h(c)
			return true
		}
	}
	if !b.silent {
		fmt.Printf("ie8086: unhandled interrupt %#x selector %#x\n", intNo, selector)
	}
	return false
}
