package cpu

// Data movement: MOV in its many encodings, XCHG, LEA, PUSH/POP (general,
// segment, and all-register forms), XLAT, LAHF/SAHF, CBW/CWD.

func (c *CPU) opMOV_Eb_Gb() {
	m := c.decodeModRM()
	c.setRM8(m, c.Regs.Reg8(m.reg))
}

func (c *CPU) opMOV_Ev_Gv() {
	m := c.decodeModRM()
	c.setRM16(m, c.Regs.Reg16(m.reg))
}

func (c *CPU) opMOV_Gb_Eb() {
	m := c.decodeModRM()
	c.Regs.SetReg8(m.reg, c.rm8(m))
}

func (c *CPU) opMOV_Gv_Ev() {
	m := c.decodeModRM()
	c.Regs.SetReg16(m.reg, c.rm16(m))
}

// opMOV_Ev_Sw and opMOV_Sw_Ev implement 0x8C/0x8E: MOV to/from a segment
// register, selected by ModR/M.reg as a segment index rather than a GPR.
func (c *CPU) opMOV_Ev_Sw() {
	m := c.decodeModRM()
	c.setRM16(m, c.Regs.Seg(m.reg))
}

func (c *CPU) opMOV_Sw_Ev() {
	m := c.decodeModRM()
	c.Regs.SetSeg(m.reg, c.rm16(m))
}

func (c *CPU) opLEA() {
	m := c.decodeModRM()
	if m.isReg {
		c.raiseInvalidOpcode()
		return
	}
	// LEA loads the offset component of the effective address, never the
	// segment it would resolve against.
	c.Regs.SetReg16(m.reg, m.off)
}

func (c *CPU) opMOV_AL_Ib() { c.Regs.SetAL(c.fetch8()) }
func (c *CPU) opMOV_AX_Iv() { c.Regs.AX = c.fetch16() }

func (c *CPU) opMOV_r8_Ib(reg int) func() {
	return func() { c.Regs.SetReg8(reg, c.fetch8()) }
}

func (c *CPU) opMOV_r16_Iv(reg int) func() {
	return func() { c.Regs.SetReg16(reg, c.fetch16()) }
}

func (c *CPU) opMOV_Eb_Ib() {
	m := c.decodeModRM()
	c.setRM8(m, c.fetch8())
}

func (c *CPU) opMOV_Ev_Iv() {
	m := c.decodeModRM()
	c.setRM16(m, c.fetch16())
}

// opMOV_AL_Ob / opMOV_Ob_AL / 16-bit counterparts: the direct-address forms
// (0xA0-0xA3) with a 16-bit offset immediate into the current DS.
func (c *CPU) opMOV_AL_Ob() {
	off := c.fetch16()
	c.Regs.SetAL(c.Bus.Read8(memLinear(c.segForDirect(), off)))
}

func (c *CPU) opMOV_Ob_AL() {
	off := c.fetch16()
	c.Bus.Write8(memLinear(c.segForDirect(), off), c.Regs.AL())
}

func (c *CPU) opMOV_AX_Ov() {
	off := c.fetch16()
	c.Regs.AX = c.Bus.Read16(memLinear(c.segForDirect(), off))
}

func (c *CPU) opMOV_Ov_AX() {
	off := c.fetch16()
	c.Bus.Write16(memLinear(c.segForDirect(), off), c.Regs.AX)
}

func (c *CPU) segForDirect() uint16 {
	if c.prefix.segOverride >= 0 {
		return c.Regs.Seg(c.prefix.segOverride)
	}
	return c.Regs.DS
}

func (c *CPU) opXCHG_Eb_Gb() {
	m := c.decodeModRM()
	a, b := c.rm8(m), c.Regs.Reg8(m.reg)
	c.setRM8(m, b)
	c.Regs.SetReg8(m.reg, a)
}

func (c *CPU) opXCHG_Ev_Gv() {
	m := c.decodeModRM()
	a, b := c.rm16(m), c.Regs.Reg16(m.reg)
	c.setRM16(m, b)
	c.Regs.SetReg16(m.reg, a)
}

func (c *CPU) opXCHG_AX_r16(reg int) func() {
	return func() {
		a, b := c.Regs.AX, c.Regs.Reg16(reg)
		c.Regs.AX = b
		c.Regs.SetReg16(reg, a)
	}
}

// PUSH/POP of general registers (0x50-0x5F).
func (c *CPU) opPUSH_r16(reg int) func() {
	return func() { c.push16(c.Regs.Reg16(reg)) }
}

func (c *CPU) opPOP_r16(reg int) func() {
	return func() { c.Regs.SetReg16(reg, c.pop16()) }
}

func (c *CPU) opPUSH_Sreg(seg int) func() {
	return func() { c.push16(c.Regs.Seg(seg)) }
}

func (c *CPU) opPOP_Sreg(seg int) func() {
	return func() { c.Regs.SetSeg(seg, c.pop16()) }
}

func (c *CPU) opPOP_Ev() {
	m := c.decodeModRM()
	c.setRM16(m, c.pop16())
}

// opPUSHA/opPOPA implement the canonical ordering AX,CX,DX,BX,SP(orig),BP,
// SI,DI — POPA restores in reverse and discards the pushed SP value.
func (c *CPU) opPUSHA() {
	sp := c.Regs.SP
	c.push16(c.Regs.AX)
	c.push16(c.Regs.CX)
	c.push16(c.Regs.DX)
	c.push16(c.Regs.BX)
	c.push16(sp)
	c.push16(c.Regs.BP)
	c.push16(c.Regs.SI)
	c.push16(c.Regs.DI)
}

func (c *CPU) opPOPA() {
	c.Regs.DI = c.pop16()
	c.Regs.SI = c.pop16()
	c.Regs.BP = c.pop16()
	c.pop16() // discard saved SP
	c.Regs.BX = c.pop16()
	c.Regs.DX = c.pop16()
	c.Regs.CX = c.pop16()
	c.Regs.AX = c.pop16()
}

func (c *CPU) opPUSHF() { c.push16(c.Regs.Flags) }
func (c *CPU) opPOPF()  { c.Regs.Flags = c.pop16() | reservedFlagBits }

func (c *CPU) opLAHF() { c.Regs.SetAH(byte(c.Regs.Flags)) }
func (c *CPU) opSAHF() {
	c.Regs.Flags = c.Regs.Flags&0xFF00 | uint16(c.Regs.AH()) | reservedFlagBits
}

func (c *CPU) opCBW() {
	if c.Regs.AL()&0x80 != 0 {
		c.Regs.SetAH(0xFF)
	} else {
		c.Regs.SetAH(0)
	}
}

func (c *CPU) opCWD() {
	if c.Regs.AX&0x8000 != 0 {
		c.Regs.DX = 0xFFFF
	} else {
		c.Regs.DX = 0
	}
}

func (c *CPU) opXLAT() {
	off := c.Regs.BX + uint16(c.Regs.AL())
	c.Regs.SetAL(c.Bus.Read8(memLinear(c.segForDirect(), off)))
}

func (c *CPU) opNOP() {}
