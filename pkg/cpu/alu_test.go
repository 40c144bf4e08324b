package cpu

import "testing"

func TestAddFlags(t *testing.T) {
	var r Registers
	res := r.Add(8, 0x7F, 0x01, false)
	if res != 0x80 {
		t.Fatalf("0x7F+0x01 = %#x, want 0x80", res)
	}
	if !r.Flag(FlagOF) {
		t.Error("expected OF set on signed overflow 0x7F+1")
	}
	if r.Flag(FlagCF) {
		t.Error("expected CF clear, no unsigned carry")
	}
	if !r.Flag(FlagSF) {
		t.Error("expected SF set, result is negative as int8")
	}
}

func TestAddCarry(t *testing.T) {
	var r Registers
	res := r.Add(8, 0xFF, 0x01, false)
	if res != 0x00 {
		t.Fatalf("0xFF+0x01 = %#x, want 0x00", res)
	}
	if !r.Flag(FlagCF) {
		t.Error("expected CF set on unsigned carry")
	}
	if !r.Flag(FlagZF) {
		t.Error("expected ZF set, result is zero")
	}
	if r.Flag(FlagOF) {
		t.Error("expected OF clear, no signed overflow")
	}
}

func TestSubBorrow(t *testing.T) {
	var r Registers
	res := r.Sub(8, 0x00, 0x01, false)
	if res != 0xFF {
		t.Fatalf("0x00-0x01 = %#x, want 0xFF", res)
	}
	if !r.Flag(FlagCF) {
		t.Error("expected CF set (borrow) on 0-1")
	}
	if !r.Flag(FlagSF) {
		t.Error("expected SF set, 0xFF is negative as int8")
	}
}

func TestIncDecPreserveCarry(t *testing.T) {
	var r Registers
	r.SetFlag(FlagCF, true)
	r.Inc(8, 0x00)
	if !r.Flag(FlagCF) {
		t.Error("INC must not clear a pre-existing CF")
	}
	r.SetFlag(FlagCF, false)
	r.Dec(8, 0x01)
	if r.Flag(FlagCF) {
		t.Error("DEC must not set CF when none was present")
	}
}

func TestLogicClearsCarryAndOverflow(t *testing.T) {
	var r Registers
	r.SetFlag(FlagCF, true)
	r.SetFlag(FlagOF, true)
	res := r.And(8, 0xFF, 0x0F)
	if res != 0x0F {
		t.Fatalf("0xFF&0x0F = %#x, want 0x0F", res)
	}
	if r.Flag(FlagCF) || r.Flag(FlagOF) {
		t.Error("AND must clear CF and OF")
	}
}

func TestMulUnsignedCarryOnSignificantUpperHalf(t *testing.T) {
	var r Registers
	lo, hi := r.Mul(8, 0x10, 0x10)
	if lo != 0x0100 || hi != 0 {
		t.Fatalf("0x10*0x10 = lo=%#x hi=%#x, want lo=0x100", lo, hi)
	}
	if !r.Flag(FlagCF) || !r.Flag(FlagOF) {
		t.Error("expected CF=OF=1, AH is nonzero")
	}
}

func TestDivByZeroFaults(t *testing.T) {
	_, _, err := Div(8, 0x00FF, 0)
	if err != DivideFault {
		t.Fatalf("Div by zero: err = %v, want DivideFault", err)
	}
}

func TestDivQuotientOverflowFaults(t *testing.T) {
	_, _, err := Div(8, 0xFFFF, 1)
	if err != DivideFault {
		t.Fatalf("Div quotient overflow: err = %v, want DivideFault", err)
	}
}

func TestDivExact(t *testing.T) {
	q, rem, err := Div(16, 100, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != 11 || rem != 1 {
		t.Fatalf("100/9 = q=%d rem=%d, want q=11 rem=1", q, rem)
	}
}

func TestShiftCountMaskedTo5Bits(t *testing.T) {
	var r Registers
	res := r.Shift(8, ShiftSHL, 0x01, 33) // 33 & 0x1F == 1
	if res != 0x02 {
		t.Fatalf("SHL by 33 (masked to 1) = %#x, want 0x02", res)
	}
}

func TestShiftByZeroLeavesFlagsUntouched(t *testing.T) {
	var r Registers
	r.SetFlag(FlagCF, true)
	res := r.Shift(8, ShiftSHL, 0x01, 0)
	if res != 0x01 {
		t.Fatalf("SHL by 0 = %#x, want unchanged 0x01", res)
	}
	if !r.Flag(FlagCF) {
		t.Error("SHL by 0 must not touch CF")
	}
}
