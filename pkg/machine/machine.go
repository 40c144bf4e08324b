// Package machine wires memory, the device bus, the CPU, and the BIOS
// device into a bootable whole, and runs the fetch-decode-execute
// scheduler either synchronously (for tests) or against real host timers.
package machine

import (
	"fmt"
	"sync"
	"time"

	"github.com/zotley/ie8086/pkg/bios"
	"github.com/zotley/ie8086/pkg/bus"
	"github.com/zotley/ie8086/pkg/cpu"
	"github.com/zotley/ie8086/pkg/memory"
)

// Config holds the exhaustive set of boot/run options this core exposes.
type Config struct {
	IgnoreMagic   bool  // skip the 0x55AA boot signature check
	Silent        bool  // suppress informational logs
	Sync          bool  // run the scheduler synchronously (test mode)
	ClocksPerTick int64 // instructions per scheduler tick when async
}

// Machine owns every component the CPU needs: memory, the device bus, the
// CPU itself, and the BIOS device attached to that bus.
type Machine struct {
	cfg Config

	Mem  *memory.Memory
	Bus  *bus.Bus
	CPU  *cpu.CPU
	BIOS *bios.BIOS

	mu sync.Mutex // guards CPU/BIOS state a host timer callback may touch
}

// New builds an unbooted Machine from cfg.
func New(cfg Config) *Machine {
	mem := memory.New()
	b := bus.New(mem, cfg.Silent)
	c := cpu.NewCPU(b)
	c.Silent = cfg.Silent
	return &Machine{cfg: cfg, Mem: mem, Bus: b, CPU: c}
}

// Boot loads a boot image's first 512 bytes to 0000:7C00, checks the
// 0x55AA signature (unless IgnoreMagic), attaches the BIOS device, and
// resets the CPU to begin execution at CS:IP = 0000:7C00.
func (m *Machine) Boot(image []byte, disk []byte) error {
	sector := make([]byte, 512)
	copy(sector, image)

	if !m.cfg.IgnoreMagic {
		if sector[510] != 0x55 || sector[511] != 0xAA {
			return fmt.Errorf("%w", ErrBootSignatureMismatch)
		}
	}

	m.Mem.Load(0x7C00, sector)

	m.BIOS = bios.New(m.Mem, disk, m.cfg.Silent)
	if err := m.Bus.Attach(m.BIOS); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceRegistrationConflict, err)
	}

	m.CPU.Reset()
	m.logf("ie8086: booted, entry %04X:%04X\n", m.CPU.Regs.CS, m.CPU.Regs.IP)
	return nil
}

// ReadMemory returns a read-only view of a linear address range for host
// inspection (the observable test surface spec.md's boot/run contract
// promises a caller). Unlike Memory.Read8/Write8, which wrap per-byte for
// the CPU's own addressing, an explicit out-of-range request from a host
// caller is a programming error, not real-mode wraparound, so it's
// reported rather than silently clamped.
func (m *Machine) ReadMemory(start, length uint32) ([]byte, error) {
	if uint64(start)+uint64(length) > memory.Size {
		return nil, fmt.Errorf("%w: [%#x, %#x)", ErrMemoryOutOfRange, start, start+length)
	}
	return m.Mem.Slice(start, length), nil
}

// PushKey feeds one host keystroke to the BIOS keyboard queue and wakes
// the CPU if it was paused waiting for one.
func (m *Machine) PushKey(scan, ascii byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BIOS.PushKey(scan, ascii)
	m.CPU.Paused = false
}

// Run executes until the CPU halts, honouring Config.Sync: synchronous
// mode resolves INT 15h waits immediately (there is no real elapsed time
// in a test harness) and gives up rather than block forever on an empty
// keyboard queue; asynchronous mode schedules a real host timer via
// time.AfterFunc and lets the caller drive PushKey from its own input
// loop.
func (m *Machine) Run() {
	if m.cfg.Sync {
		m.runSync()
		return
	}
	m.runAsync()
}

func (m *Machine) runSync() {
	for !m.CPU.Halted {
		if m.CPU.Paused {
			if _, ok := m.BIOS.PendingWait(); ok {
				m.BIOS.ResumeWait(m.CPU)
				continue
			}
			if m.BIOS.HasPendingKeyRead() {
				return // nothing left to drive this machine forward
			}
			m.CPU.Paused = false
			continue
		}
		m.CPU.Step()
	}
}

func (m *Machine) runAsync() {
	ticksPerTick := m.cfg.ClocksPerTick
	if ticksPerTick <= 0 {
		ticksPerTick = 1000
	}
	for {
		m.mu.Lock()
		halted := m.CPU.Halted
		m.mu.Unlock()
		if halted {
			return
		}

		m.mu.Lock()
		paused := m.CPU.Paused
		if paused {
			if micros, ok := m.BIOS.PendingWait(); ok {
				cpuRef := m.CPU
				biosRef := m.BIOS
				time.AfterFunc(time.Duration(micros)*time.Microsecond, func() {
					m.mu.Lock()
					defer m.mu.Unlock()
					biosRef.ResumeWait(cpuRef)
				})
			}
		} else {
			for i := int64(0); i < ticksPerTick && !m.CPU.Halted && !m.CPU.Paused; i++ {
				m.CPU.Step()
			}
		}
		m.mu.Unlock()

		if paused {
			time.Sleep(time.Millisecond)
		}
	}
}
