package combiner

import (
	"nv2apretty/hwio"
)

// Input control word layout. Four 8-bit slots, slot D in the low byte:
//
//	31       24 23       16 15        8 7         0
//	[ slot A  ] [ slot B  ] [ slot C  ] [ slot D  ]
//
// and within a slot: mapping bits 7..5, channel select bit 4, source
// register bits 3..0.
var (
	icwSlots = [4]hwio.Field{
		{Name: "input A", Start: 24, Width: 8},
		{Name: "input B", Start: 16, Width: 8},
		{Name: "input C", Start: 8, Width: 8},
		{Name: "input D", Start: 0, Width: 8},
	}

	slotSource  = hwio.Field{Name: "source", Start: 0, Width: 4}
	slotChannel = hwio.Field{Name: "channel", Start: 4, Width: 1}
	slotMap     = hwio.Field{Name: "mapping", Start: 5, Width: 3}
)

// Output control word layout.
var (
	ocwDstCD     = hwio.Field{Name: "cd dst", Start: 0, Width: 4}
	ocwDstAB     = hwio.Field{Name: "ab dst", Start: 4, Width: 4}
	ocwDstSum    = hwio.Field{Name: "sum dst", Start: 8, Width: 4}
	ocwCDDot     = hwio.Field{Name: "cd dot", Start: 12, Width: 1}
	ocwABDot     = hwio.Field{Name: "ab dot", Start: 13, Width: 1}
	ocwMux       = hwio.Field{Name: "mux", Start: 14, Width: 1}
	ocwOp        = hwio.Field{Name: "op", Start: 15, Width: 3}
	ocwCDBlue2A  = hwio.Field{Name: "cd blue to alpha", Start: 18, Width: 1}
	ocwABBlue2A  = hwio.Field{Name: "ab blue to alpha", Start: 19, Width: 1}
)

// Input is one of the four per-channel stage inputs: a source register, the
// mapping applied to it, and which channel of the source is read.
type Input struct {
	Source Register
	Map    InputMap

	// Alpha selects the alpha channel of the source. In the rgb half the
	// alternative is the rgb vector, in the alpha half it is the blue
	// channel.
	Alpha bool
}

// Output describes where one channel of a stage writes its results and how
// they are combined and scaled on the way out.
type Output struct {
	AB  Register // destination of the a*b product
	CD  Register // destination of the c*d product
	Sum Register // destination of a*b + c*d (or the mux result)

	ABDot bool // a*b is a dot product
	CDDot bool // c*d is a dot product
	Mux   bool // sum output is mux(a*b, c*d) on spare0 alpha

	Op ScaleOp

	// Color channel only. When set the blue channel of the corresponding
	// product is replicated into the alpha channel of the destination.
	ABBlueToAlpha bool
	CDBlueToAlpha bool
}

// writesNothing reports whether every destination is discard.
func (o Output) writesNothing() bool {
	return o.AB == RegZero && o.CD == RegZero && o.Sum == RegZero
}

// ChannelOp is the complete configuration of one channel of one stage: the
// four inputs a, b, c, d and the output control.
type ChannelOp struct {
	Inputs [4]Input // a, b, c, d
	Out    Output
}

// Stage is one decoded combiner stage. Both halves are decoded from
// separate, structurally identical word pairs.
type Stage struct {
	Index int
	RGB   ChannelOp
	Alpha ChannelOp
}

// decodeICW unpacks the four input slots of an input control word.
func decodeICW(icw uint32, stage int, ch Channel) ([4]Input, error) {
	var inputs [4]Input
	for i, slot := range icwSlots {
		raw := slot.ExtractU(icw)
		src, err := stageSource(slotSource.ExtractU(raw), slot.Name, stage, ch)
		if err != nil {
			return inputs, err
		}
		m, err := inputMap(slotMap.ExtractU(raw), slot.Name+" mapping", stage, ch)
		if err != nil {
			return inputs, err
		}
		inputs[i] = Input{
			Source: src,
			Map:    m,
			Alpha:  slotChannel.Bit(raw),
		}
	}
	return inputs, nil
}

// decodeOCW unpacks an output control word. The blue-to-alpha bits only
// exist in the color OCW and are left clear for the alpha half.
func decodeOCW(ocw uint32, stage int, ch Channel) (Output, error) {
	var out Output
	var err error

	if out.CD, err = stageDest(ocwDstCD.ExtractU(ocw), ocwDstCD.Name, stage, ch); err != nil {
		return out, err
	}
	if out.AB, err = stageDest(ocwDstAB.ExtractU(ocw), ocwDstAB.Name, stage, ch); err != nil {
		return out, err
	}
	if out.Sum, err = stageDest(ocwDstSum.ExtractU(ocw), ocwDstSum.Name, stage, ch); err != nil {
		return out, err
	}
	if out.Op, err = scaleOp(ocwOp.ExtractU(ocw), stage, ch); err != nil {
		return out, err
	}

	out.CDDot = ocwCDDot.Bit(ocw)
	out.ABDot = ocwABDot.Bit(ocw)
	out.Mux = ocwMux.Bit(ocw)
	if ch == ChannelRGB {
		out.CDBlueToAlpha = ocwCDBlue2A.Bit(ocw)
		out.ABBlueToAlpha = ocwABBlue2A.Bit(ocw)
	}
	return out, nil
}

// DecodeStage builds one Stage from its four control words. It is a pure
// function of its inputs: any unresolved code is returned as an
// *UnknownFieldCode tagged with the stage index and channel, never
// defaulted.
func DecodeStage(index int, colorICW, colorOCW, alphaICW, alphaOCW uint32) (Stage, error) {
	st := Stage{Index: index}
	var err error

	if st.RGB.Inputs, err = decodeICW(colorICW, index, ChannelRGB); err != nil {
		return st, err
	}
	if st.RGB.Out, err = decodeOCW(colorOCW, index, ChannelRGB); err != nil {
		return st, err
	}
	if st.Alpha.Inputs, err = decodeICW(alphaICW, index, ChannelAlpha); err != nil {
		return st, err
	}
	if st.Alpha.Out, err = decodeOCW(alphaOCW, index, ChannelAlpha); err != nil {
		return st, err
	}
	return st, nil
}
