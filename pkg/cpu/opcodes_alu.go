package cpu

// The eight arithmetic/logic op families share one opcode layout: base,
// base+1, base+2, base+3, base+4, base+5 are Eb/Gb, Ev/Gv, Gb/Eb, Gv/Ev,
// AL/Ib, AX/Iv respectively, with base = opIndex*8 for opIndex in
// {ADD,OR,ADC,SBB,AND,SUB,XOR,CMP}. The two slots at base+6/base+7 are
// taken by segment PUSH/POP (or DAA/DAS/AAA/AAS for AND/SUB/XOR/CMP) and
// handled outside this table.

type aluFn func(r *Registers, width int, a, b uint32) uint32

func aluADD(r *Registers, width int, a, b uint32) uint32 { return r.Add(width, a, b, false) }
func aluOR(r *Registers, width int, a, b uint32) uint32  { return r.Or(width, a, b) }
func aluADC(r *Registers, width int, a, b uint32) uint32 {
	return r.Add(width, a, b, r.Flag(FlagCF))
}
func aluSBB(r *Registers, width int, a, b uint32) uint32 {
	return r.Sub(width, a, b, r.Flag(FlagCF))
}
func aluAND(r *Registers, width int, a, b uint32) uint32 { return r.And(width, a, b) }
func aluSUB(r *Registers, width int, a, b uint32) uint32 { return r.Sub(width, a, b, false) }
func aluXOR(r *Registers, width int, a, b uint32) uint32 { return r.Xor(width, a, b) }
func aluCMP(r *Registers, width int, a, b uint32) uint32 {
	r.Sub(width, a, b, false)
	return a
}

var aluTable = [8]struct {
	fn    aluFn
	isCmp bool
}{
	{aluADD, false},
	{aluOR, false},
	{aluADC, false},
	{aluSBB, false},
	{aluAND, false},
	{aluSUB, false},
	{aluXOR, false},
	{aluCMP, true},
}

// execALUFamily runs one of the six standard forms of ALU op opIdx.
func (c *CPU) execALUFamily(opIdx, form int) {
	entry := aluTable[opIdx]
	switch form {
	case 0: // Eb, Gb
		m := c.decodeModRM()
		a := uint32(c.rm8(m))
		b := uint32(c.Regs.Reg8(m.reg))
		res := entry.fn(&c.Regs, 8, a, b)
		if !entry.isCmp {
			c.setRM8(m, byte(res))
		}
	case 1: // Ev, Gv
		m := c.decodeModRM()
		a := uint32(c.rm16(m))
		b := uint32(c.Regs.Reg16(m.reg))
		res := entry.fn(&c.Regs, 16, a, b)
		if !entry.isCmp {
			c.setRM16(m, uint16(res))
		}
	case 2: // Gb, Eb
		m := c.decodeModRM()
		a := uint32(c.Regs.Reg8(m.reg))
		b := uint32(c.rm8(m))
		res := entry.fn(&c.Regs, 8, a, b)
		if !entry.isCmp {
			c.Regs.SetReg8(m.reg, byte(res))
		}
	case 3: // Gv, Ev
		m := c.decodeModRM()
		a := uint32(c.Regs.Reg16(m.reg))
		b := uint32(c.rm16(m))
		res := entry.fn(&c.Regs, 16, a, b)
		if !entry.isCmp {
			c.Regs.SetReg16(m.reg, uint16(res))
		}
	case 4: // AL, Ib
		a := uint32(c.Regs.AL())
		b := uint32(c.fetch8())
		res := entry.fn(&c.Regs, 8, a, b)
		if !entry.isCmp {
			c.Regs.SetAL(byte(res))
		}
	case 5: // AX, Iv
		a := uint32(c.Regs.AX)
		b := uint32(c.fetch16())
		res := entry.fn(&c.Regs, 16, a, b)
		if !entry.isCmp {
			c.Regs.AX = uint16(res)
		}
	}
}

// BCD adjust opcodes: DAA, DAS, AAA, AAS operate on AL after an
// add/subtract; AAM/AAD operate around a multiply/divide by 10.

func (c *CPU) opDAA() {
	al := c.Regs.AL()
	cf := c.Regs.Flag(FlagCF)
	af := c.Regs.Flag(FlagAF)
	if al&0x0F > 9 || af {
		carry := al > 0xF9
		al += 6
		c.Regs.SetFlag(FlagAF, true)
		cf = cf || carry
	}
	if al&0xF0 > 0x90 || cf {
		al += 0x60
		cf = true
	}
	c.Regs.SetAL(al)
	c.Regs.SetFlag(FlagCF, cf)
	c.Regs.SetFlag(FlagZF, al == 0)
	c.Regs.SetFlag(FlagSF, al&0x80 != 0)
	c.Regs.SetFlag(FlagPF, parity(al))
}

func (c *CPU) opDAS() {
	al := c.Regs.AL()
	cf := c.Regs.Flag(FlagCF)
	af := c.Regs.Flag(FlagAF)
	origAL := al
	if al&0x0F > 9 || af {
		carry := al < 6
		al -= 6
		c.Regs.SetFlag(FlagAF, true)
		cf = cf || carry
	}
	if origAL > 0x99 || cf {
		al -= 0x60
		cf = true
	}
	c.Regs.SetAL(al)
	c.Regs.SetFlag(FlagCF, cf)
	c.Regs.SetFlag(FlagZF, al == 0)
	c.Regs.SetFlag(FlagSF, al&0x80 != 0)
	c.Regs.SetFlag(FlagPF, parity(al))
}

func (c *CPU) opAAA() {
	al := c.Regs.AL()
	if al&0x0F > 9 || c.Regs.Flag(FlagAF) {
		c.Regs.SetAL(al + 6)
		c.Regs.SetAH(c.Regs.AH() + 1)
		c.Regs.SetFlag(FlagAF, true)
		c.Regs.SetFlag(FlagCF, true)
	} else {
		c.Regs.SetFlag(FlagAF, false)
		c.Regs.SetFlag(FlagCF, false)
	}
	c.Regs.SetAL(c.Regs.AL() & 0x0F)
}

func (c *CPU) opAAS() {
	al := c.Regs.AL()
	if al&0x0F > 9 || c.Regs.Flag(FlagAF) {
		c.Regs.SetAL(al - 6)
		c.Regs.SetAH(c.Regs.AH() - 1)
		c.Regs.SetFlag(FlagAF, true)
		c.Regs.SetFlag(FlagCF, true)
	} else {
		c.Regs.SetFlag(FlagAF, false)
		c.Regs.SetFlag(FlagCF, false)
	}
	c.Regs.SetAL(c.Regs.AL() & 0x0F)
}

func (c *CPU) opAAM() {
	base := c.fetch8()
	if base == 0 {
		c.Raise(0)
		return
	}
	al := c.Regs.AL()
	ah := al / base
	al = al % base
	c.Regs.SetAH(ah)
	c.Regs.SetAL(al)
	c.Regs.SetFlag(FlagZF, al == 0)
	c.Regs.SetFlag(FlagSF, al&0x80 != 0)
	c.Regs.SetFlag(FlagPF, parity(al))
}

func (c *CPU) opAAD() {
	base := c.fetch8()
	al := c.Regs.AH()*base + c.Regs.AL()
	c.Regs.SetAL(al)
	c.Regs.SetAH(0)
	c.Regs.SetFlag(FlagZF, al == 0)
	c.Regs.SetFlag(FlagSF, al&0x80 != 0)
	c.Regs.SetFlag(FlagPF, parity(al))
}
