package cpu

// String instructions (MOVS/STOS/LODS/CMPS/SCAS) optionally repeat under a
// REP/REPE/REPNE prefix. The repeat loop runs to completion inside one
// Step() call but re-checks Paused and the clock budget between
// iterations, rewinding IP to the prefix byte on suspension so resumption
// re-enters the same "rep xxx" instruction with CX already reflecting the
// iterations already retired.
//
// zfTermination selects the REPE/REPNE early-exit rule: 0 means none
// (MOVS/STOS/LODS always run all CX iterations), 1 means stop when ZF
// becomes 0 (REPE/REP, used by CMPS/SCAS), 2 means stop when ZF becomes 1
// (REPNE).
func (c *CPU) repLoop(body func(), zfTermination int) {
	if !c.prefix.repPresent {
		body()
		return
	}
	for c.Regs.CX != 0 {
		if c.Paused {
			c.Regs.IP = c.LastInstrIP
			return
		}
		body()
		c.Regs.CX--
		if c.ClocksBudget > 0 {
			c.ClocksBudget--
			if c.ClocksBudget == 0 {
				if c.Regs.CX != 0 {
					c.Regs.IP = c.LastInstrIP
				}
				return
			}
		}
		switch zfTermination {
		case 1:
			if !c.Regs.Flag(FlagZF) {
				return
			}
		case 2:
			if c.Regs.Flag(FlagZF) {
				return
			}
		}
	}
}

func (c *CPU) stringStep(width int32) int32 {
	if c.Regs.Flag(FlagDF) {
		return -width
	}
	return width
}

func (c *CPU) repZF() int {
	if !c.prefix.repPresent {
		return 0
	}
	if c.prefix.rep == repREPE {
		return 1
	}
	return 2
}

func (c *CPU) opMOVSB() {
	c.repLoop(func() {
		v := c.Bus.Read8(memLinear(c.segForDirect(), c.Regs.SI))
		c.Bus.Write8(memLinear(c.Regs.ES, c.Regs.DI), v)
		step := c.stringStep(1)
		c.Regs.SI = uint16(int32(c.Regs.SI) + step)
		c.Regs.DI = uint16(int32(c.Regs.DI) + step)
	}, 0)
}

func (c *CPU) opMOVSW() {
	c.repLoop(func() {
		v := c.Bus.Read16(memLinear(c.segForDirect(), c.Regs.SI))
		c.Bus.Write16(memLinear(c.Regs.ES, c.Regs.DI), v)
		step := c.stringStep(2)
		c.Regs.SI = uint16(int32(c.Regs.SI) + step)
		c.Regs.DI = uint16(int32(c.Regs.DI) + step)
	}, 0)
}

func (c *CPU) opSTOSB() {
	c.repLoop(func() {
		c.Bus.Write8(memLinear(c.Regs.ES, c.Regs.DI), c.Regs.AL())
		c.Regs.DI = uint16(int32(c.Regs.DI) + c.stringStep(1))
	}, 0)
}

func (c *CPU) opSTOSW() {
	c.repLoop(func() {
		c.Bus.Write16(memLinear(c.Regs.ES, c.Regs.DI), c.Regs.AX)
		c.Regs.DI = uint16(int32(c.Regs.DI) + c.stringStep(2))
	}, 0)
}

func (c *CPU) opLODSB() {
	c.repLoop(func() {
		c.Regs.SetAL(c.Bus.Read8(memLinear(c.segForDirect(), c.Regs.SI)))
		c.Regs.SI = uint16(int32(c.Regs.SI) + c.stringStep(1))
	}, 0)
}

func (c *CPU) opLODSW() {
	c.repLoop(func() {
		c.Regs.AX = c.Bus.Read16(memLinear(c.segForDirect(), c.Regs.SI))
		c.Regs.SI = uint16(int32(c.Regs.SI) + c.stringStep(2))
	}, 0)
}

func (c *CPU) opCMPSB() {
	c.repLoop(func() {
		a := c.Bus.Read8(memLinear(c.segForDirect(), c.Regs.SI))
		b := c.Bus.Read8(memLinear(c.Regs.ES, c.Regs.DI))
		c.Regs.Sub(8, uint32(a), uint32(b), false)
		step := c.stringStep(1)
		c.Regs.SI = uint16(int32(c.Regs.SI) + step)
		c.Regs.DI = uint16(int32(c.Regs.DI) + step)
	}, c.repZF())
}

func (c *CPU) opCMPSW() {
	c.repLoop(func() {
		a := c.Bus.Read16(memLinear(c.segForDirect(), c.Regs.SI))
		b := c.Bus.Read16(memLinear(c.Regs.ES, c.Regs.DI))
		c.Regs.Sub(16, uint32(a), uint32(b), false)
		step := c.stringStep(2)
		c.Regs.SI = uint16(int32(c.Regs.SI) + step)
		c.Regs.DI = uint16(int32(c.Regs.DI) + step)
	}, c.repZF())
}

func (c *CPU) opSCASB() {
	c.repLoop(func() {
		b := c.Bus.Read8(memLinear(c.Regs.ES, c.Regs.DI))
		c.Regs.Sub(8, uint32(c.Regs.AL()), uint32(b), false)
		c.Regs.DI = uint16(int32(c.Regs.DI) + c.stringStep(1))
	}, c.repZF())
}

func (c *CPU) opSCASW() {
	c.repLoop(func() {
		b := c.Bus.Read16(memLinear(c.Regs.ES, c.Regs.DI))
		c.Regs.Sub(16, uint32(c.Regs.AX), uint32(b), false)
		c.Regs.DI = uint16(int32(c.Regs.DI) + c.stringStep(2))
	}, c.repZF())
}

func (c *CPU) opTEST_AL_Ib() {
	imm := uint32(c.fetch8())
	c.Regs.And(8, uint32(c.Regs.AL()), imm)
}

func (c *CPU) opTEST_AX_Iv() {
	imm := uint32(c.fetch16())
	c.Regs.And(16, uint32(c.Regs.AX), imm)
}

func (c *CPU) opTEST_Eb_Gb() {
	m := c.decodeModRM()
	c.Regs.And(8, uint32(c.rm8(m)), uint32(c.Regs.Reg8(m.reg)))
}

func (c *CPU) opTEST_Ev_Gv() {
	m := c.decodeModRM()
	c.Regs.And(16, uint32(c.rm16(m)), uint32(c.Regs.Reg16(m.reg)))
}
