package combiner

import (
	"nv2apretty/hwio"
)

// Layout selects the final combiner word layout of the target hardware
// revision. Both variants are structurally valid bit patterns, so the
// variant is always threaded in explicitly by the caller and never
// inferred from the data.
type Layout uint8

const (
	// LayoutXDK is the layout produced by the XDK toolchain: CW1 carries
	// the E, F and G slots plus a settings byte.
	LayoutXDK Layout = iota

	// LayoutLegacy is the older layout without the G slot; the final alpha
	// is taken from spare0.
	LayoutLegacy
)

func (l Layout) String() string {
	switch l {
	case LayoutXDK:
		return "xdk"
	case LayoutLegacy:
		return "legacy"
	}
	return "unknown"
}

// ParseLayout resolves a layout variant name from the command surface.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "xdk":
		return LayoutXDK, nil
	case "legacy":
		return LayoutLegacy, nil
	}
	return 0, &UnsupportedLayoutVariant{Variant: s}
}

// Final combiner word layout. CW0 carries the A..D slots like a stage ICW.
// CW1 carries E, F (and G for LayoutXDK) in its upper bytes and the
// settings flags in its low byte.
var (
	fcSlotE = hwio.Field{Name: "input E", Start: 24, Width: 8}
	fcSlotF = hwio.Field{Name: "input F", Start: 16, Width: 8}
	fcSlotG = hwio.Field{Name: "input G", Start: 8, Width: 8}

	fcClampSum     = hwio.Field{Name: "clamp sum", Start: 7, Width: 1}
	fcComplementV1 = hwio.Field{Name: "complement v1", Start: 6, Width: 1}
	fcComplementR0 = hwio.Field{Name: "complement r0", Start: 5, Width: 1}
)

// FinalCombiner is the decoded configuration of the dedicated last stage.
// The rgb result is A*B + (1-A)*C + D; the alpha result is the alpha
// channel of G (or of spare0 for LayoutLegacy, which has no G slot).
type FinalCombiner struct {
	Layout Layout

	A, B, C, D Input
	E, F       Input
	G          Input // meaningless for LayoutLegacy

	// Settings byte of CW1.
	ClampSum     bool // clamp v1+r0 to [0,1] instead of [-1,1]
	ComplementV1 bool // use 1-v1 in the v1+r0 sum
	ComplementR0 bool // use 1-r0 in the v1+r0 sum

	// Context threaded in by the caller: from the fog/specular enable
	// registers in a live trace, or derived from input usage for a
	// standalone shader definition.
	SpecularAdd bool
	FogEnable   bool
}

func decodeFinalSlot(raw uint32, field string) (Input, error) {
	src, err := finalSource(slotSource.ExtractU(raw), field)
	if err != nil {
		return Input{}, err
	}
	m, err := inputMap(slotMap.ExtractU(raw), field+" mapping", StageFinal, ChannelRGB)
	if err != nil {
		return Input{}, err
	}
	return Input{Source: src, Map: m, Alpha: slotChannel.Bit(raw)}, nil
}

// DecodeFinal builds a FinalCombiner from the two SPECULAR_FOG control
// words, using the explicitly selected layout variant.
func DecodeFinal(cw0, cw1 uint32, layout Layout) (FinalCombiner, error) {
	fc := FinalCombiner{Layout: layout}
	if layout != LayoutXDK && layout != LayoutLegacy {
		return fc, &UnsupportedLayoutVariant{Variant: layout.String()}
	}

	type fcSlot struct {
		in    *Input
		field hwio.Field
		word  uint32
	}
	slots := []fcSlot{
		{&fc.A, icwSlots[0], cw0},
		{&fc.B, icwSlots[1], cw0},
		{&fc.C, icwSlots[2], cw0},
		{&fc.D, icwSlots[3], cw0},
		{&fc.E, fcSlotE, cw1},
		{&fc.F, fcSlotF, cw1},
	}
	if layout == LayoutXDK {
		slots = append(slots, fcSlot{&fc.G, fcSlotG, cw1})
	}

	var err error
	for _, s := range slots {
		if *s.in, err = decodeFinalSlot(s.field.ExtractU(s.word), s.field.Name); err != nil {
			return fc, err
		}
	}

	fc.ClampSum = fcClampSum.Bit(cw1)
	fc.ComplementV1 = fcComplementV1.Bit(cw1)
	fc.ComplementR0 = fcComplementR0.Bit(cw1)
	return fc, nil
}

// inputs returns the populated slots of the final combiner.
func (fc *FinalCombiner) inputs() []Input {
	in := []Input{fc.A, fc.B, fc.C, fc.D, fc.E, fc.F}
	if fc.Layout == LayoutXDK {
		in = append(in, fc.G)
	}
	return in
}

// DeriveContext sets the fog and specular annotations from input usage.
// Used when decoding a standalone shader definition, where the enable
// registers of a live trace are not available.
func (fc *FinalCombiner) DeriveContext() {
	for _, in := range fc.inputs() {
		switch in.Source {
		case RegFog:
			fc.FogEnable = true
		case RegSpare0PlusSecondary:
			fc.SpecularAdd = true
		}
	}
}
