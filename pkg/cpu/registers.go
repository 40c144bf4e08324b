package cpu

// Registers is the 8086 register file: eight 16-bit general registers, four
// segment registers, IP, and FLAGS. Byte aliases (AL/AH, ...) are offset
// views into the parent word, not separate storage, so a write to one byte
// never disturbs its sibling.
//
// EAX/ECX/EDX exist only as the upper-16-bit shadow a 0x66-prefixed 32-bit
// logical op writes into; this core is 16-bit otherwise, per the AND/OR/XOR
// logical-op exception called out for the decoder.
type Registers struct {
	AX, BX, CX, DX uint16
	SP, BP, SI, DI uint16
	ES, CS, SS, DS uint16
	IP             uint16
	Flags          uint16

	eaxHi, ecxHi, edxHi uint16
}

// Reset restores power-on state: all GPRs zero, segments zero, IP at the
// boot-sector entry point, FLAGS with IF clear (and the reserved bit set).
func (r *Registers) Reset() {
	*r = Registers{}
	r.IP = 0x7C00
	r.Flags = reservedFlagBits
}

func (r *Registers) AL() byte     { return byte(r.AX) }
func (r *Registers) AH() byte     { return byte(r.AX >> 8) }
func (r *Registers) SetAL(v byte) { r.AX = r.AX&0xFF00 | uint16(v) }
func (r *Registers) SetAH(v byte) { r.AX = r.AX&0x00FF | uint16(v)<<8 }

func (r *Registers) BL() byte     { return byte(r.BX) }
func (r *Registers) BH() byte     { return byte(r.BX >> 8) }
func (r *Registers) SetBL(v byte) { r.BX = r.BX&0xFF00 | uint16(v) }
func (r *Registers) SetBH(v byte) { r.BX = r.BX&0x00FF | uint16(v)<<8 }

func (r *Registers) CL() byte     { return byte(r.CX) }
func (r *Registers) CH() byte     { return byte(r.CX >> 8) }
func (r *Registers) SetCL(v byte) { r.CX = r.CX&0xFF00 | uint16(v) }
func (r *Registers) SetCH(v byte) { r.CX = r.CX&0x00FF | uint16(v)<<8 }

func (r *Registers) DL() byte     { return byte(r.DX) }
func (r *Registers) DH() byte     { return byte(r.DX >> 8) }
func (r *Registers) SetDL(v byte) { r.DX = r.DX&0xFF00 | uint16(v) }
func (r *Registers) SetDH(v byte) { r.DX = r.DX&0x00FF | uint16(v)<<8 }

// Reg8 and SetReg8 index the eight byte-register encodings used by ModR/M
// and the Ib opcode forms: 0=AL 1=CL 2=DL 3=BL 4=AH 5=CH 6=DH 7=BH.
func (r *Registers) Reg8(i int) byte {
	switch i & 7 {
	case 0:
		return r.AL()
	case 1:
		return r.CL()
	case 2:
		return r.DL()
	case 3:
		return r.BL()
	case 4:
		return r.AH()
	case 5:
		return r.CH()
	case 6:
		return r.DH()
	default:
		return r.BH()
	}
}

func (r *Registers) SetReg8(i int, v byte) {
	switch i & 7 {
	case 0:
		r.SetAL(v)
	case 1:
		r.SetCL(v)
	case 2:
		r.SetDL(v)
	case 3:
		r.SetBL(v)
	case 4:
		r.SetAH(v)
	case 5:
		r.SetCH(v)
	case 6:
		r.SetDH(v)
	default:
		r.SetBH(v)
	}
}

// Reg16 and SetReg16 index the eight word-register encodings:
// 0=AX 1=CX 2=DX 3=BX 4=SP 5=BP 6=SI 7=DI.
func (r *Registers) Reg16(i int) uint16 {
	switch i & 7 {
	case 0:
		return r.AX
	case 1:
		return r.CX
	case 2:
		return r.DX
	case 3:
		return r.BX
	case 4:
		return r.SP
	case 5:
		return r.BP
	case 6:
		return r.SI
	default:
		return r.DI
	}
}

func (r *Registers) SetReg16(i int, v uint16) {
	switch i & 7 {
	case 0:
		r.AX = v
	case 1:
		r.CX = v
	case 2:
		r.DX = v
	case 3:
		r.BX = v
	case 4:
		r.SP = v
	case 5:
		r.BP = v
	case 6:
		r.SI = v
	default:
		r.DI = v
	}
}

// Seg indexes the four segment-register encodings used by segment-override
// prefixes and MOV Sreg forms: 0=ES 1=CS 2=SS 3=DS.
func (r *Registers) Seg(i int) uint16 {
	switch i & 3 {
	case 0:
		return r.ES
	case 1:
		return r.CS
	case 2:
		return r.SS
	default:
		return r.DS
	}
}

func (r *Registers) SetSeg(i int, v uint16) {
	switch i & 3 {
	case 0:
		r.ES = v
	case 1:
		r.CS = v
	case 2:
		r.SS = v
	default:
		r.DS = v
	}
}

// EAX/ECX/EDX: 32-bit logical-op aliases. Reads compose the shadow upper
// half with the live 16-bit register; writes (from a 0x66-prefixed AND/OR/
// XOR only) split back into the two halves.
func (r *Registers) EAX() uint32 { return uint32(r.eaxHi)<<16 | uint32(r.AX) }
func (r *Registers) ECX() uint32 { return uint32(r.ecxHi)<<16 | uint32(r.CX) }
func (r *Registers) EDX() uint32 { return uint32(r.edxHi)<<16 | uint32(r.DX) }

func (r *Registers) SetEAX(v uint32) {
	r.AX = uint16(v)
	r.eaxHi = uint16(v >> 16)
}

func (r *Registers) SetECX(v uint32) {
	r.CX = uint16(v)
	r.ecxHi = uint16(v >> 16)
}

func (r *Registers) SetEDX(v uint32) {
	r.DX = uint16(v)
	r.edxHi = uint16(v >> 16)
}
