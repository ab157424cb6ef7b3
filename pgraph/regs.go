// package pgraph recognizes combiner related register writes in a PGRAPH
// method trace and accumulates them into decodable programs.
package pgraph

import "fmt"

// Kelvin (class 0x97) methods of interest. The arrayed registers hold one
// word per combiner stage, 4 bytes apart.
const (
	ClassKelvin = 0x97

	AddrAlphaICW   = 0x0260 // 8 words
	AddrSpecFogCW0 = 0x0288
	AddrSpecFogCW1 = 0x028C
	AddrFogEnable  = 0x02A4
	AddrSpecEnable = 0x03B8
	AddrFactor0    = 0x0A60 // 8 words
	AddrFactor1    = 0x0A80 // 8 words
	AddrAlphaOCW   = 0x0AA0 // 8 words
	AddrColorICW   = 0x0AC0 // 8 words
	AddrColorOCW   = 0x1E40 // 8 words
	AddrControl    = 0x1E60

	regStride = 4
	regCount  = 8
)

// arrayed register bases, in burst order.
var arrayBases = []struct {
	base  uint32
	label string
}{
	{AddrAlphaICW, "CombinerAlphaICW"},
	{AddrFactor0, "CombinerFactor0"},
	{AddrFactor1, "CombinerFactor1"},
	{AddrAlphaOCW, "CombinerAlphaOCW"},
	{AddrColorICW, "CombinerColorICW"},
	{AddrColorOCW, "CombinerColorOCW"},
}

var scalarLabels = map[uint32]string{
	AddrSpecFogCW0: "CombinerSpecFogCW0",
	AddrSpecFogCW1: "CombinerSpecFogCW1",
	AddrControl:    "CombinerControl",
	AddrFogEnable:  "FogEnable",
	AddrSpecEnable: "SpecularEnable",
}

// registerLabel resolves a method address to a symbolic name, with the
// stage index spelled out for arrayed registers.
func registerLabel(addr uint32) (string, bool) {
	if label, ok := scalarLabels[addr]; ok {
		return label, true
	}
	for _, a := range arrayBases {
		if addr >= a.base && addr < a.base+regCount*regStride && (addr-a.base)%regStride == 0 {
			return fmt.Sprintf("%s[%d]", a.label, (addr-a.base)/regStride), true
		}
	}
	return "", false
}

// isCombinerAddr reports whether addr belongs to the combiner program
// burst (factor registers excluded: they are optional in a burst).
func isCombinerAddr(addr uint32) bool {
	switch addr {
	case AddrFogEnable, AddrSpecEnable:
		return false
	}
	_, ok := registerLabel(addr)
	return ok
}

// isFactorAddr reports whether addr is one of the constant color factors.
func isFactorAddr(addr uint32) (which, index int, ok bool) {
	if addr >= AddrFactor0 && addr < AddrFactor0+regCount*regStride && (addr-AddrFactor0)%regStride == 0 {
		return 0, int(addr-AddrFactor0) / regStride, true
	}
	if addr >= AddrFactor1 && addr < AddrFactor1+regCount*regStride && (addr-AddrFactor1)%regStride == 0 {
		return 1, int(addr-AddrFactor1) / regStride, true
	}
	return 0, 0, false
}

// combinerSequence is the canonical order a driver writes a combiner
// program in: one burst per register block, ascending addresses, control
// word last. The factor registers may appear anywhere inside the burst and
// are not part of the strict sequence.
var combinerSequence = buildSequence()

func buildSequence() []uint32 {
	var seq []uint32
	for i := uint32(0); i < regCount; i++ {
		seq = append(seq, AddrAlphaICW+i*regStride)
	}
	seq = append(seq, AddrSpecFogCW0, AddrSpecFogCW1)
	for i := uint32(0); i < regCount; i++ {
		seq = append(seq, AddrAlphaOCW+i*regStride)
	}
	for i := uint32(0); i < regCount; i++ {
		seq = append(seq, AddrColorICW+i*regStride)
	}
	for i := uint32(0); i < regCount; i++ {
		seq = append(seq, AddrColorOCW+i*regStride)
	}
	return append(seq, AddrControl)
}
