package cpu

// condTrue evaluates a Jcc/SETcc condition code (the low nibble of the
// 0x70-0x7F / 0x0F80-0x0F8F / 0x0F90-0x0F9F opcodes) against current flags.
func (r *Registers) condTrue(cc int) bool {
	switch cc & 0xF {
	case 0x0: // JO
		return r.Flag(FlagOF)
	case 0x1: // JNO
		return !r.Flag(FlagOF)
	case 0x2: // JB/JC/JNAE
		return r.Flag(FlagCF)
	case 0x3: // JAE/JNB/JNC
		return !r.Flag(FlagCF)
	case 0x4: // JE/JZ
		return r.Flag(FlagZF)
	case 0x5: // JNE/JNZ
		return !r.Flag(FlagZF)
	case 0x6: // JBE/JNA
		return r.Flag(FlagCF) || r.Flag(FlagZF)
	case 0x7: // JA/JNBE
		return !r.Flag(FlagCF) && !r.Flag(FlagZF)
	case 0x8: // JS
		return r.Flag(FlagSF)
	case 0x9: // JNS
		return !r.Flag(FlagSF)
	case 0xA: // JP/JPE
		return r.Flag(FlagPF)
	case 0xB: // JNP/JPO
		return !r.Flag(FlagPF)
	case 0xC: // JL/JNGE
		return r.Flag(FlagSF) != r.Flag(FlagOF)
	case 0xD: // JGE/JNL
		return r.Flag(FlagSF) == r.Flag(FlagOF)
	case 0xE: // JLE/JNG
		return r.Flag(FlagZF) || r.Flag(FlagSF) != r.Flag(FlagOF)
	default: // JG/JNLE
		return !r.Flag(FlagZF) && r.Flag(FlagSF) == r.Flag(FlagOF)
	}
}

// opJcc implements the 0x70-0x7F short conditional jumps: an 8-bit signed
// displacement relative to the address of the *next* instruction.
func (c *CPU) opJcc(cc int) func() {
	return func() {
		disp := int8(c.fetch8())
		if c.Regs.condTrue(cc) {
			c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
		}
	}
}

// opJccNear implements the two-byte-escape 0x0F 0x80-0x8F near conditional
// jumps: a 16-bit signed displacement.
func (c *CPU) opJccNear(cc int) func() {
	return func() {
		disp := int16(c.fetch16())
		if c.Regs.condTrue(cc) {
			c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
		}
	}
}

// opSETcc implements the two-byte-escape 0x0F 0x90-0x9F byte-set-on-
// condition instructions.
func (c *CPU) opSETcc(cc int) func() {
	return func() {
		m := c.decodeModRM()
		var v byte
		if c.Regs.condTrue(cc) {
			v = 1
		}
		c.setRM8(m, v)
	}
}

func (c *CPU) opJMP_short() {
	disp := int8(c.fetch8())
	c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
}

func (c *CPU) opJMP_near() {
	disp := int16(c.fetch16())
	c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
}

// opJMP_far reads an absolute CS:IP pair from the instruction stream.
func (c *CPU) opJMP_far() {
	newIP := c.fetch16()
	newCS := c.fetch16()
	c.Regs.CS = newCS
	c.Regs.IP = newIP
}

func (c *CPU) opCALL_near() {
	disp := int16(c.fetch16())
	retIP := c.Regs.IP
	c.push16(retIP)
	c.Regs.IP = uint16(int32(retIP) + int32(disp))
}

func (c *CPU) opCALL_far() {
	newIP := c.fetch16()
	newCS := c.fetch16()
	c.push16(c.Regs.CS)
	c.push16(c.Regs.IP)
	c.Regs.CS = newCS
	c.Regs.IP = newIP
}

func (c *CPU) opRET_near() {
	c.Regs.IP = c.pop16()
}

func (c *CPU) opRET_near_imm() {
	imm := c.fetch16()
	c.Regs.IP = c.pop16()
	c.Regs.SP += imm
}

func (c *CPU) opRETF() {
	c.Regs.IP = c.pop16()
	c.Regs.CS = c.pop16()
}

func (c *CPU) opRETF_imm() {
	imm := c.fetch16()
	c.Regs.IP = c.pop16()
	c.Regs.CS = c.pop16()
	c.Regs.SP += imm
}

func (c *CPU) opINT3() { c.Raise(3) }

func (c *CPU) opINTn() {
	n := c.fetch8()
	c.Raise(n)
}

func (c *CPU) opINTO() {
	if c.Regs.Flag(FlagOF) {
		c.Raise(4)
	}
}

func (c *CPU) opIRET() { c.Iret() }

func (c *CPU) opHLT() {
	c.Halted = true
}

func (c *CPU) raiseInvalidOpcode() {
	c.logf("ie8086: undefined opcode at %04X:%04X\n", c.Regs.CS, c.LastInstrIP)
	c.Raise(6)
}

// LOOP/LOOPE/LOOPNE/JCXZ (0xE0-0xE3): decrement CX first (LOOP family),
// then branch on the family's condition plus ZF where applicable.
func (c *CPU) opLOOPNE() {
	disp := int8(c.fetch8())
	c.Regs.CX--
	if c.Regs.CX != 0 && !c.Regs.Flag(FlagZF) {
		c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
	}
}

func (c *CPU) opLOOPE() {
	disp := int8(c.fetch8())
	c.Regs.CX--
	if c.Regs.CX != 0 && c.Regs.Flag(FlagZF) {
		c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
	}
}

func (c *CPU) opLOOP() {
	disp := int8(c.fetch8())
	c.Regs.CX--
	if c.Regs.CX != 0 {
		c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
	}
}

func (c *CPU) opJCXZ() {
	disp := int8(c.fetch8())
	if c.Regs.CX == 0 {
		c.Regs.IP = uint16(int32(c.Regs.IP) + int32(disp))
	}
}

func (c *CPU) opCLC() { c.Regs.SetFlag(FlagCF, false) }
func (c *CPU) opSTC() { c.Regs.SetFlag(FlagCF, true) }
func (c *CPU) opCMC() { c.Regs.SetFlag(FlagCF, !c.Regs.Flag(FlagCF)) }
func (c *CPU) opCLI() { c.Regs.SetFlag(FlagIF, false) }
func (c *CPU) opSTI() { c.Regs.SetFlag(FlagIF, true) }
func (c *CPU) opCLD() { c.Regs.SetFlag(FlagDF, false) }
func (c *CPU) opSTD() { c.Regs.SetFlag(FlagDF, true) }
