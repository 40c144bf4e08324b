package cpu

// table is the dense 256-entry primary opcode dispatch table; table2 is the
// secondary table reached through the 0x0F two-byte escape. Both are
// function-identifier arrays built once in init(), per the dispatch-table
// design this core follows throughout: decoding is a lookup, never a long
// if/else chain.
var table [256]func(*CPU)
var table2 [256]func(*CPU)

func init() {
	for i := range table {
		table[i] = (*CPU).raiseInvalidOpcode
	}
	for i := range table2 {
		table2[i] = (*CPU).raiseInvalidOpcode
	}

	// The eight ALU families (ADD,OR,ADC,SBB,AND,SUB,XOR,CMP) each occupy
	// base..base+5 with base = opIdx*8; base+6/base+7 are reused below for
	// segment PUSH/POP or the BCD adjust opcodes.
	for opIdx := 0; opIdx < 8; opIdx++ {
		base := opIdx * 8
		for form := 0; form < 6; form++ {
			table[base+form] = aluHandler(opIdx, form)
		}
	}

	table[0x06] = func(c *CPU) { c.opPUSH_Sreg(0)() }
	table[0x07] = func(c *CPU) { c.opPOP_Sreg(0)() }
	table[0x0E] = func(c *CPU) { c.opPUSH_Sreg(1)() }
	table[0x0F] = (*CPU).execute0F
	table[0x16] = func(c *CPU) { c.opPUSH_Sreg(2)() }
	table[0x17] = func(c *CPU) { c.opPOP_Sreg(2)() }
	table[0x1E] = func(c *CPU) { c.opPUSH_Sreg(3)() }
	table[0x1F] = func(c *CPU) { c.opPOP_Sreg(3)() }
	table[0x27] = (*CPU).opDAA
	table[0x2F] = (*CPU).opDAS
	table[0x37] = (*CPU).opAAA
	table[0x3F] = (*CPU).opAAS

	for r := 0; r < 8; r++ {
		reg := r
		table[0x40+r] = func(c *CPU) { c.Regs.SetReg16(reg, uint16(c.Regs.Inc(16, uint32(c.Regs.Reg16(reg))))) }
		table[0x48+r] = func(c *CPU) { c.Regs.SetReg16(reg, uint16(c.Regs.Dec(16, uint32(c.Regs.Reg16(reg))))) }
		table[0x50+r] = func(c *CPU) { c.opPUSH_r16(reg)() }
		table[0x58+r] = func(c *CPU) { c.opPOP_r16(reg)() }
		table[0xB0+r] = func(c *CPU) { c.opMOV_r8_Ib(reg)() }
		table[0xB8+r] = func(c *CPU) { c.opMOV_r16_Iv(reg)() }
	}

	table[0x60] = (*CPU).opPUSHA
	table[0x61] = (*CPU).opPOPA

	for cc := 0; cc < 16; cc++ {
		cond := cc
		table[0x70+cc] = func(c *CPU) { c.opJcc(cond)() }
		table2[0x80+cc] = func(c *CPU) { c.opJccNear(cond)() }
		table2[0x90+cc] = func(c *CPU) { c.opSETcc(cond)() }
	}

	table[0x80] = func(c *CPU) { c.execGrp1(0x80) }
	table[0x81] = func(c *CPU) { c.execGrp1(0x81) }
	table[0x82] = func(c *CPU) { c.execGrp1(0x82) }
	table[0x83] = func(c *CPU) { c.execGrp1(0x83) }
	table[0x84] = (*CPU).opTEST_Eb_Gb
	table[0x85] = (*CPU).opTEST_Ev_Gv
	table[0x86] = (*CPU).opXCHG_Eb_Gb
	table[0x87] = (*CPU).opXCHG_Ev_Gv
	table[0x88] = (*CPU).opMOV_Eb_Gb
	table[0x89] = (*CPU).opMOV_Ev_Gv
	table[0x8A] = (*CPU).opMOV_Gb_Eb
	table[0x8B] = (*CPU).opMOV_Gv_Ev
	table[0x8C] = (*CPU).opMOV_Ev_Sw
	table[0x8D] = (*CPU).opLEA
	table[0x8E] = (*CPU).opMOV_Sw_Ev
	table[0x8F] = (*CPU).opPOP_Ev

	table[0x90] = (*CPU).opNOP
	for r := 1; r < 8; r++ {
		reg := r
		table[0x90+r] = func(c *CPU) { c.opXCHG_AX_r16(reg)() }
	}
	table[0x98] = (*CPU).opCBW
	table[0x99] = (*CPU).opCWD
	table[0x9A] = (*CPU).opCALL_far
	table[0x9B] = (*CPU).opNOP // WAIT: no FPU in scope, treated as a no-op
	table[0x9C] = (*CPU).opPUSHF
	table[0x9D] = (*CPU).opPOPF
	table[0x9E] = (*CPU).opSAHF
	table[0x9F] = (*CPU).opLAHF

	table[0xA0] = (*CPU).opMOV_AL_Ob
	table[0xA1] = (*CPU).opMOV_AX_Ov
	table[0xA2] = (*CPU).opMOV_Ob_AL
	table[0xA3] = (*CPU).opMOV_Ov_AX
	table[0xA4] = (*CPU).opMOVSB
	table[0xA5] = (*CPU).opMOVSW
	table[0xA6] = (*CPU).opCMPSB
	table[0xA7] = (*CPU).opCMPSW
	table[0xA8] = (*CPU).opTEST_AL_Ib
	table[0xA9] = (*CPU).opTEST_AX_Iv
	table[0xAA] = (*CPU).opSTOSB
	table[0xAB] = (*CPU).opSTOSW
	table[0xAC] = (*CPU).opLODSB
	table[0xAD] = (*CPU).opLODSW
	table[0xAE] = (*CPU).opSCASB
	table[0xAF] = (*CPU).opSCASW

	table[0xC0] = func(c *CPU) { c.execGrp2(true, 2) }
	table[0xC1] = func(c *CPU) { c.execGrp2(false, 2) }
	table[0xC2] = (*CPU).opRET_near_imm
	table[0xC3] = (*CPU).opRET_near
	table[0xC4] = (*CPU).opLES
	table[0xC5] = (*CPU).opLDS
	table[0xC6] = (*CPU).opMOV_Eb_Ib
	table[0xC7] = (*CPU).opMOV_Ev_Iv
	table[0xC8] = (*CPU).opENTER
	table[0xC9] = (*CPU).opLEAVE
	table[0xCA] = (*CPU).opRETF_imm
	table[0xCB] = (*CPU).opRETF
	table[0xCC] = (*CPU).opINT3
	table[0xCD] = (*CPU).opINTn
	table[0xCE] = (*CPU).opINTO
	table[0xCF] = (*CPU).opIRET

	table[0xD0] = func(c *CPU) { c.execGrp2(true, 0) }
	table[0xD1] = func(c *CPU) { c.execGrp2(false, 0) }
	table[0xD2] = func(c *CPU) { c.execGrp2(true, 1) }
	table[0xD3] = func(c *CPU) { c.execGrp2(false, 1) }
	table[0xD4] = (*CPU).opAAM
	table[0xD5] = (*CPU).opAAD
	table[0xD7] = (*CPU).opXLAT

	table[0xE0] = (*CPU).opLOOPNE
	table[0xE1] = (*CPU).opLOOPE
	table[0xE2] = (*CPU).opLOOP
	table[0xE3] = (*CPU).opJCXZ

	table[0xE8] = (*CPU).opCALL_near
	table[0xE9] = (*CPU).opJMP_near
	table[0xEA] = (*CPU).opJMP_far
	table[0xEB] = (*CPU).opJMP_short

	table[0xF4] = (*CPU).opHLT
	table[0xF5] = (*CPU).opCMC
	table[0xF6] = func(c *CPU) { c.execGrp3(true) }
	table[0xF7] = func(c *CPU) { c.execGrp3(false) }
	table[0xF8] = (*CPU).opCLC
	table[0xF9] = (*CPU).opSTC
	table[0xFA] = (*CPU).opCLI
	table[0xFB] = (*CPU).opSTI
	table[0xFC] = (*CPU).opCLD
	table[0xFD] = (*CPU).opSTD
	table[0xFE] = (*CPU).execGrp4
	table[0xFF] = (*CPU).execGrp5
}

func aluHandler(opIdx, form int) func(*CPU) {
	return func(c *CPU) { c.execALUFamily(opIdx, form) }
}

// execute runs the primary opcode just fetched, applying the 0x66 logical-
// op exception when an operand-size prefix was seen.
func (c *CPU) execute(op byte) {
	if c.prefix.opSize32 {
		if handled := c.try32BitLogical(op); handled {
			return
		}
		c.raiseInvalidOpcode()
		return
	}
	table[op](c)
}

func (c *CPU) execute0F() {
	op := c.fetch8()
	table2[op](c)
}

// opLES/opLDS load a 32-bit far pointer from memory: the word at addr into
// the named 16-bit register, the word at addr+2 into ES/DS.
func (c *CPU) opLES() {
	m := c.decodeModRM()
	if m.isReg {
		c.raiseInvalidOpcode()
		return
	}
	c.Regs.SetReg16(m.reg, c.Bus.Read16(m.addr))
	c.Regs.ES = c.Bus.Read16(m.addr + 2)
}

func (c *CPU) opLDS() {
	m := c.decodeModRM()
	if m.isReg {
		c.raiseInvalidOpcode()
		return
	}
	c.Regs.SetReg16(m.reg, c.Bus.Read16(m.addr))
	c.Regs.DS = c.Bus.Read16(m.addr + 2)
}

// opENTER supports only nesting level 0 (the overwhelming common case for a
// boot-sector-scale program); a nonzero level is treated as 0 with no
// copied display frame.
func (c *CPU) opENTER() {
	frameSize := c.fetch16()
	_ = c.fetch8() // nesting level: unsupported beyond 0, see above
	c.push16(c.Regs.BP)
	c.Regs.BP = c.Regs.SP
	c.Regs.SP -= frameSize
}

func (c *CPU) opLEAVE() {
	c.Regs.SP = c.Regs.BP
	c.Regs.BP = c.pop16()
}
