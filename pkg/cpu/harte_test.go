package cpu

// Tom Harte-style single-step fixture runner, scaled down from the base
// repo's SingleStepTests/8088 harness: the full corpus isn't vendored here,
// just a handful of hand-built per-opcode fixtures under testdata/ covering
// ADD, SUB, MOV, JMP, and INT. Fixtures are plain (uncompressed) JSON rather
// than the base repo's gzip files, since there's no corpus-scale file here
// to compress.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type harteRegs struct {
	AX    uint16 `json:"ax"`
	BX    uint16 `json:"bx"`
	CX    uint16 `json:"cx"`
	DX    uint16 `json:"dx"`
	SI    uint16 `json:"si"`
	DI    uint16 `json:"di"`
	BP    uint16 `json:"bp"`
	SP    uint16 `json:"sp"`
	IP    uint16 `json:"ip"`
	CS    uint16 `json:"cs"`
	DS    uint16 `json:"ds"`
	ES    uint16 `json:"es"`
	SS    uint16 `json:"ss"`
	Flags uint16 `json:"flags"`
}

type harteState struct {
	Regs harteRegs  `json:"regs"`
	RAM  [][]uint32 `json:"ram"`
}

type harteCase struct {
	Name    string     `json:"name"`
	Initial harteState `json:"initial"`
	Final   harteState `json:"final"`
}

func loadHarteFixtures(t *testing.T, path string) []harteCase {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var cases []harteCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return cases
}

func setHarteState(c *CPU, bus *testBus, s harteState) {
	c.Regs = Registers{
		AX: s.Regs.AX, BX: s.Regs.BX, CX: s.Regs.CX, DX: s.Regs.DX,
		SI: s.Regs.SI, DI: s.Regs.DI, BP: s.Regs.BP, SP: s.Regs.SP,
		CS: s.Regs.CS, DS: s.Regs.DS, ES: s.Regs.ES, SS: s.Regs.SS,
		IP: s.Regs.IP, Flags: s.Regs.Flags,
	}
	c.Halted = false
	c.Paused = false
	for _, entry := range s.RAM {
		bus.Write8(entry[0], byte(entry[1]))
	}
}

// harteFlagMask covers only the nine defined 8086 flag bits (CF,PF,AF,ZF,
// SF,TF,IF,DF,OF), the same mask the base repo's own Harte harness uses —
// borrowed verbatim since the reserved bit isn't part of the contract
// either runner is checking.
const harteFlagMask = 0x0FD5

func verifyHarteState(t *testing.T, c *CPU, bus *testBus, name string, want harteState) {
	t.Helper()
	got := c.Regs
	check := func(field string, got, want uint16) {
		if got != want {
			t.Errorf("%s: %s = %#04x, want %#04x", name, field, got, want)
		}
	}
	check("AX", got.AX, want.Regs.AX)
	check("BX", got.BX, want.Regs.BX)
	check("CX", got.CX, want.Regs.CX)
	check("DX", got.DX, want.Regs.DX)
	check("SI", got.SI, want.Regs.SI)
	check("DI", got.DI, want.Regs.DI)
	check("BP", got.BP, want.Regs.BP)
	check("SP", got.SP, want.Regs.SP)
	check("IP", got.IP, want.Regs.IP)
	check("CS", got.CS, want.Regs.CS)
	check("DS", got.DS, want.Regs.DS)
	check("ES", got.ES, want.Regs.ES)
	check("SS", got.SS, want.Regs.SS)
	check("FLAGS", got.Flags&harteFlagMask, want.Regs.Flags&harteFlagMask)

	for _, entry := range want.RAM {
		addr, wantVal := entry[0], byte(entry[1])
		if gotVal := bus.Read8(addr); gotVal != wantVal {
			t.Errorf("%s: RAM[%#05x] = %#02x, want %#02x", name, addr, gotVal, wantVal)
		}
	}
}

func TestHarteFixtures(t *testing.T) {
	files, err := filepath.Glob("testdata/*.json")
	if err != nil {
		t.Fatalf("globbing testdata: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no fixture files found under testdata/")
	}
	for _, file := range files {
		for _, tc := range loadHarteFixtures(t, file) {
			t.Run(tc.Name, func(t *testing.T) {
				c, bus := newTestCPU()
				setHarteState(c, bus, tc.Initial)
				c.Step()
				verifyHarteState(t, c, bus, tc.Name, tc.Final)
			})
		}
	}
}
