package combiner

// test-side encoders: build control words from meaning, so the decoders
// can be checked against the exact tuples that produced them.

func slot(in Input) uint32 {
	v := uint32(in.Source) | uint32(in.Map)<<5
	if in.Alpha {
		v |= 1 << 4
	}
	return v
}

func icw(a, b, c, d Input) uint32 {
	return slot(a)<<24 | slot(b)<<16 | slot(c)<<8 | slot(d)
}

func ocw(out Output) uint32 {
	v := uint32(out.CD) | uint32(out.AB)<<4 | uint32(out.Sum)<<8 | uint32(out.Op)<<15
	if out.CDDot {
		v |= 1 << 12
	}
	if out.ABDot {
		v |= 1 << 13
	}
	if out.Mux {
		v |= 1 << 14
	}
	if out.CDBlueToAlpha {
		v |= 1 << 18
	}
	if out.ABBlueToAlpha {
		v |= 1 << 19
	}
	return v
}

func ctrl(count int, muxMSB, unique0, unique1 bool) uint32 {
	v := uint32(count)
	if muxMSB {
		v |= 1 << 8
	}
	if unique0 {
		v |= 1 << 12
	}
	if unique1 {
		v |= 1 << 16
	}
	return v
}

func finalCW0(a, b, c, d Input) uint32 {
	return slot(a)<<24 | slot(b)<<16 | slot(c)<<8 | slot(d)
}

func finalCW1(e, f, g Input, clampSum, complV1, complR0 bool) uint32 {
	v := slot(e)<<24 | slot(f)<<16 | slot(g)<<8
	if clampSum {
		v |= 1 << 7
	}
	if complV1 {
		v |= 1 << 6
	}
	if complR0 {
		v |= 1 << 5
	}
	return v
}

// in is shorthand for a plain rgb-channel input.
func in(src Register, m InputMap) Input {
	return Input{Source: src, Map: m}
}

// one is the canonical constant 1 input: unsigned invert of zero.
func one() Input {
	return Input{Source: RegZero, Map: MapUnsignedInvert}
}

// nilIn is the canonical constant 0 input.
func nilIn() Input {
	return Input{Source: RegZero, Map: MapUnsignedIdentity}
}

// passthroughStage builds word pairs for a stage computing
// sum = x * 1 + 0 * 0 on both channels, written to dst.
func passthroughStage(x Input, dst Register) (colorICW, colorOCW, alphaICW, alphaOCW uint32) {
	ci := icw(x, one(), nilIn(), nilIn())
	co := ocw(Output{AB: RegZero, CD: RegZero, Sum: dst})
	ax := x
	ax.Alpha = true
	ai := icw(ax, Input{Source: RegZero, Map: MapUnsignedInvert, Alpha: true}, nilIn(), nilIn())
	ao := ocw(Output{AB: RegZero, CD: RegZero, Sum: dst})
	return ci, co, ai, ao
}
