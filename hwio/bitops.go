package hwio

import "fmt"

// 32-bit operations
func GetBit32(v uint32, n uint) bool {
	return GetBiti32(v, n) != 0
}

func GetBiti32(v uint32, n uint) uint32 {
	return v >> (n) & 0x01
}

func SetBit32(v *uint32, n uint) {
	*v |= (1 << n)
}

func ClearBit32(v *uint32, n uint) {
	*v &= ^(uint32(1) << n)
}

func ClearBits32(v *uint32, mask uint32) {
	*v &= ^mask
}

// A Field names a contiguous bit range inside a 32-bit register word.
// Field layouts are compile-time constants, so out-of-range definitions
// are programmer errors and panic rather than returning an error.
type Field struct {
	Name   string
	Start  uint // lowest bit, 0-based
	Width  uint
	Signed bool
}

// Extract reads the field value from v, sign-extending if the field is
// declared signed.
func (f Field) Extract(v uint32) int64 {
	if f.Width == 0 || f.Start+f.Width > 32 {
		panic(fmt.Sprintf("hwio: invalid field %s [%d:%d]", f.Name, f.Start, f.Width))
	}
	raw := uint64(v>>f.Start) & (1<<f.Width - 1)
	if f.Signed && raw&(1<<(f.Width-1)) != 0 {
		return int64(raw) - int64(1)<<f.Width
	}
	return int64(raw)
}

// ExtractU is Extract for fields known to be unsigned.
func (f Field) ExtractU(v uint32) uint32 {
	if f.Width == 0 || f.Start+f.Width > 32 {
		panic(fmt.Sprintf("hwio: invalid field %s [%d:%d]", f.Name, f.Start, f.Width))
	}
	return v >> f.Start & (1<<f.Width - 1)
}

// Bit reads a single-bit field as a bool.
func (f Field) Bit(v uint32) bool {
	return f.ExtractU(v) != 0
}
