package machine

import "errors"

// Host-surfaced faults: setup and boot problems returned to the caller of
// Boot or of a host-facing accessor like ReadMemory. Architectural faults
// (invalid opcode, divide error, an interrupt with no device handler and a
// zero IVT entry) never reach here — they resolve inside the CPU itself
// (an INT dispatch, or CF=1 by convention) and are never returned as Go
// errors.
var (
	ErrBootSignatureMismatch      = errors.New("machine: boot sector missing 0x55AA signature")
	ErrDeviceRegistrationConflict = errors.New("machine: device registration conflict")
	ErrMemoryOutOfRange           = errors.New("machine: memory access out of range")
)
