package bios

import "github.com/zotley/ie8086/pkg/cpu"

const sectorSize = 512

// statusOverflow is the AH value BIOS disk services report on a bad
// request (bad seek / sector not found / geometry overflow), matching the
// service contract's CF=1, AH=0xBB convention.
const statusOverflow = 0xBB

func (b *BIOS) intDiskReset(c *cpu.CPU) {
	c.Regs.SetFlag(cpu.FlagCF, false)
	c.Regs.SetAH(0)
}

// chsToLBA converts a CHS triple to a zero-based logical sector number
// using this BIOS's configured floppy geometry.
func (b *BIOS) chsToLBA(cylinder uint16, head, sector byte) int {
	if sector == 0 {
		return -1
	}
	return (int(cylinder)*b.diskHeads+int(head))*b.diskSPT + int(sector-1)
}

// intDiskReadSectors: AH=2. CH holds the low 8 bits of the cylinder, CL
// bits 7:6 the high 2 bits and bits 5:0 the 1-based sector, DH the head,
// DL the drive, AL the sector count, ES:BX the destination.
func (b *BIOS) intDiskReadSectors(c *cpu.CPU) {
	cylinder := uint16(c.Regs.CH()) | uint16(c.Regs.CL()&0xC0)<<2
	sector := c.Regs.CL() & 0x3F
	head := c.Regs.DH()
	count := int(c.Regs.AL())

	lba := b.chsToLBA(cylinder, head, sector)
	if lba < 0 || count == 0 || (lba+count)*sectorSize > len(b.disk) {
		c.Regs.SetFlag(cpu.FlagCF, true)
		c.Regs.SetAH(statusOverflow)
		return
	}

	destSeg, destOff := c.Regs.ES, c.Regs.BX
	src := lba * sectorSize
	for i := 0; i < count*sectorSize; i++ {
		addr := (uint32(destSeg)<<4 + uint32(destOff) + uint32(i)) & 0xFFFFF
		c.Bus.Write8(addr, b.disk[src+i])
	}

	c.Regs.SetFlag(cpu.FlagCF, false)
	c.Regs.SetAH(0)
	c.Regs.SetAL(byte(count))
}
