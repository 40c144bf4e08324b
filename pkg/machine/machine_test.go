package machine

import (
	"errors"
	"testing"
)

func bootSector(code []byte) []byte {
	sector := make([]byte, 512)
	copy(sector, code)
	sector[510] = 0x55
	sector[511] = 0xAA
	return sector
}

func TestBootRejectsMissingSignature(t *testing.T) {
	m := New(Config{Sync: true})
	image := make([]byte, 512) // all zero, no 0x55AA
	err := m.Boot(image, nil)
	if !errors.Is(err, ErrBootSignatureMismatch) {
		t.Fatalf("Boot error = %v, want ErrBootSignatureMismatch", err)
	}
}

func TestBootIgnoreMagicAcceptsAnyImage(t *testing.T) {
	m := New(Config{Sync: true, IgnoreMagic: true})
	image := make([]byte, 512)
	image[0] = 0xF4 // HLT
	if err := m.Boot(image, nil); err != nil {
		t.Fatalf("Boot with IgnoreMagic: %v", err)
	}
	if m.CPU.Regs.CS != 0 || m.CPU.Regs.IP != 0x7C00 {
		t.Fatalf("entry CS:IP = %04X:%04X, want 0000:7C00", m.CPU.Regs.CS, m.CPU.Regs.IP)
	}
}

func TestSyncRunHaltsOnHLT(t *testing.T) {
	m := New(Config{Sync: true})
	code := []byte{
		0xB0, 0x2A, // MOV AL, 0x2A
		0xF4, // HLT
	}
	if err := m.Boot(bootSector(code), nil); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	m.Run()

	if !m.CPU.Halted {
		t.Fatal("expected CPU halted after running to HLT")
	}
	if m.CPU.Regs.AL() != 0x2A {
		t.Fatalf("AL = %#x, want 0x2A", m.CPU.Regs.AL())
	}
}

func TestReadMemoryRejectsExplicitOutOfRange(t *testing.T) {
	m := New(Config{Sync: true, IgnoreMagic: true})
	if err := m.Boot(make([]byte, 512), nil); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if _, err := m.ReadMemory(0x7C00, 512); err != nil {
		t.Fatalf("in-range ReadMemory: %v", err)
	}
	_, err := m.ReadMemory(0xFFFF0, 0x100)
	if !errors.Is(err, ErrMemoryOutOfRange) {
		t.Fatalf("out-of-range ReadMemory err = %v, want ErrMemoryOutOfRange", err)
	}
}
