package cpu

// prefixState accumulates the prefix bytes consumed ahead of the primary
// opcode: segment override, REP family, operand/address-size toggles. LOCK
// is consumed but otherwise ignored — it has no observable effect in a
// single-threaded core.
type prefixState struct {
	segOverride int // -1 none, else 0=ES 1=CS 2=SS 3=DS
	rep         byte
	repPresent  bool
	opSize32    bool
	addrSize32  bool
}

const (
	repNone = iota
	repREPE
	repREPNE
)

// consumePrefixes reads prefix bytes in any order until a non-prefix byte
// is seen, leaving IP pointing at the primary opcode.
func (c *CPU) consumePrefixes() {
	for {
		b := c.Bus.Read8(memLinear(c.Regs.CS, c.Regs.IP))
		switch b {
		case 0x26:
			c.prefix.segOverride = 0 // ES
		case 0x2E:
			c.prefix.segOverride = 1 // CS
		case 0x36:
			c.prefix.segOverride = 2 // SS
		case 0x3E:
			c.prefix.segOverride = 3 // DS
		case 0xF0: // LOCK
		case 0xF2:
			c.prefix.rep = repREPNE
			c.prefix.repPresent = true
		case 0xF3:
			c.prefix.rep = repREPE
			c.prefix.repPresent = true
		case 0x66:
			c.prefix.opSize32 = true
		case 0x67:
			c.prefix.addrSize32 = true
		default:
			return
		}
		c.Regs.IP++
	}
}

// modrm holds a decoded ModR/M byte plus its resolved operand.
type modrm struct {
	mod, reg, rm int
	isReg        bool   // rm names a register directly (mod==11)
	regVal       int    // register number when isReg
	off          uint16 // 16-bit offset component, before segment linearisation
	addr         uint32 // linear effective address when !isReg
}

// eaBase16 is the canonical 8086 16-bit effective-address table, keyed by
// rm for mod in {00,01,10}. Each entry is the pair of base registers summed
// (either may be -1 meaning "absent").
var eaBase16 = [8][2]int{
	{3, 6}, // BX+SI
	{3, 7}, // BX+DI
	{5, 6}, // BP+SI
	{5, 7}, // BP+DI
	{6, -1}, // SI
	{7, -1}, // DI
	{5, -1}, // BP (disp-only when mod==00)
	{3, -1}, // BX
}

// reg16ByIndex maps the eaBase16 indices above (3,5,6,7) to Registers.Reg16
// encodings; BX=3, BP=5, SI=6, DI=7 already line up with Reg16's own
// encoding so this is the identity, kept named for clarity at call sites.
func (r *Registers) gpr16(i int) uint16 { return r.Reg16(i) }

// decodeModRM reads the ModR/M byte (and any displacement) and resolves the
// rm operand to either a register number or a linear address, applying the
// default-segment rule (SS for any EA using BP, else DS) and any active
// segment-override prefix.
func (c *CPU) decodeModRM() modrm {
	b := c.fetch8()
	m := modrm{
		mod: int(b>>6) & 3,
		reg: int(b>>3) & 7,
		rm:  int(b) & 7,
	}
	if m.mod == 3 {
		m.isReg = true
		m.regVal = m.rm
		return m
	}

	var base uint16
	usesBP := false
	if m.mod == 0 && m.rm == 6 {
		disp := c.fetch16()
		base = disp
	} else {
		pair := eaBase16[m.rm]
		if pair[0] >= 0 {
			base += c.Regs.gpr16(pair[0])
		}
		if pair[1] >= 0 {
			base += c.Regs.gpr16(pair[1])
		}
		usesBP = m.rm == 2 || m.rm == 3 || m.rm == 6
		switch m.mod {
		case 1:
			d := int8(c.fetch8())
			base += uint16(int16(d))
		case 2:
			base += c.fetch16()
		}
	}

	seg := c.Regs.DS
	if usesBP {
		seg = c.Regs.SS
	}
	if c.prefix.segOverride >= 0 {
		seg = c.Regs.Seg(c.prefix.segOverride)
	}
	m.off = base
	m.addr = memLinear(seg, base)
	return m
}

// rm8/rm16 read the ModR/M operand as a byte/word, from register or memory.
func (c *CPU) rm8(m modrm) byte {
	if m.isReg {
		return c.Regs.Reg8(m.regVal)
	}
	return c.Bus.Read8(m.addr)
}

func (c *CPU) setRM8(m modrm, v byte) {
	if m.isReg {
		c.Regs.SetReg8(m.regVal, v)
		return
	}
	c.Bus.Write8(m.addr, v)
}

func (c *CPU) rm16(m modrm) uint16 {
	if m.isReg {
		return c.Regs.Reg16(m.regVal)
	}
	return c.Bus.Read16(m.addr)
}

func (c *CPU) setRM16(m modrm, v uint16) {
	if m.isReg {
		c.Regs.SetReg16(m.regVal, v)
		return
	}
	c.Bus.Write16(m.addr, v)
}
