package cpu

// try32BitLogical implements the one carved-out exception to this core's
// 16-bit-only model: AND/OR/XOR on EAX/ECX/EDX under a 0x66 operand-size
// prefix. Only register-direct operands naming AX/CX/DX (which alias
// EAX/ECX/EDX) are supported; anything else — a 32-bit memory operand, or a
// register outside that set — is InvalidOpcode, matching the scope this
// core fixes for 32-bit logical ops.
func (c *CPU) try32BitLogical(op byte) bool {
	var opIdx int
	switch {
	case op >= 0x08 && op <= 0x0D:
		opIdx = 1 // OR
	case op >= 0x20 && op <= 0x25:
		opIdx = 4 // AND
	case op >= 0x30 && op <= 0x35:
		opIdx = 6 // XOR
	default:
		return false
	}
	base := opIdx * 8
	form := int(op) - base

	get32 := func(i int) (uint32, bool) {
		switch i {
		case 0:
			return c.Regs.EAX(), true
		case 1:
			return c.Regs.ECX(), true
		case 2:
			return c.Regs.EDX(), true
		default:
			return 0, false
		}
	}
	set32 := func(i int, v uint32) bool {
		switch i {
		case 0:
			c.Regs.SetEAX(v)
		case 1:
			c.Regs.SetECX(v)
		case 2:
			c.Regs.SetEDX(v)
		default:
			return false
		}
		return true
	}

	entry := aluTable[opIdx]
	switch form {
	case 1: // Ev, Gv
		m := c.decodeModRM()
		if !m.isReg {
			return false
		}
		a, ok1 := get32(m.regVal)
		b, ok2 := get32(m.reg)
		if !ok1 || !ok2 {
			return false
		}
		res := entry.fn(&c.Regs, 32, a, b)
		set32(m.regVal, res)
	case 3: // Gv, Ev
		m := c.decodeModRM()
		if !m.isReg {
			return false
		}
		a, ok1 := get32(m.reg)
		b, ok2 := get32(m.regVal)
		if !ok1 || !ok2 {
			return false
		}
		res := entry.fn(&c.Regs, 32, a, b)
		set32(m.reg, res)
	case 5: // EAX, Iz (32-bit immediate)
		imm := uint32(c.fetch16()) | uint32(c.fetch16())<<16
		a := c.Regs.EAX()
		res := entry.fn(&c.Regs, 32, a, imm)
		c.Regs.SetEAX(res)
	default:
		return false
	}
	return true
}
