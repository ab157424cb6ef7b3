package combiner

import (
	"fmt"
	"strings"
)

// The rendering below is deterministic: the same Program always renders to
// byte-identical text, so output can be diffed and golden-tested.

// operand renders one stage input with its mapping applied. The rgb/alpha
// channel of the enclosing half decides how the source channel select bit
// reads: in the rgb half the alternative to the vector is the source
// alpha, in the alpha half it is the source blue.
func (in Input) operand(ch Channel) string {
	base := in.Source.String()
	if ch == ChannelRGB && in.Alpha {
		base += ".a"
	}
	if ch == ChannelAlpha && !in.Alpha {
		base += ".b"
	}

	// Zero with the two plain unsigned mappings folds to a literal, which
	// lets the product simplifier below elide identity terms.
	if in.Source == RegZero {
		switch in.Map {
		case MapUnsignedIdentity:
			return "0"
		case MapUnsignedInvert:
			return "1"
		}
	}

	switch in.Map {
	case MapUnsignedIdentity:
		return base
	case MapUnsignedInvert:
		return "(1 - " + base + ")"
	case MapExpandNormal:
		return "expand(" + base + ")"
	case MapExpandNegate:
		return "-expand(" + base + ")"
	case MapHalfbiasNormal:
		return "halfbias(" + base + ")"
	case MapHalfbiasNegate:
		return "-halfbias(" + base + ")"
	case MapSignedIdentity:
		return "signed(" + base + ")"
	case MapSignedNegate:
		return "-" + base
	}
	return base
}

// product renders x*y, simplifying multiplications by the 0 and 1
// literals.
func product(x, y Input, dot bool, ch Channel) string {
	sx, sy := x.operand(ch), y.operand(ch)
	if dot {
		return "dot(" + sx + ", " + sy + ")"
	}
	switch {
	case sx == "0" || sy == "0":
		return "0"
	case sx == "1":
		return sy
	case sy == "1":
		return sx
	}
	return sx + " * " + sy
}

// apply wraps an expression in the stage scale and bias.
func (op ScaleOp) apply(expr string) string {
	switch op {
	case OpBias:
		return "(" + expr + ") - 0.5"
	case OpShiftLeft1:
		return "(" + expr + ") * 2"
	case OpShiftLeft1Bias:
		return "((" + expr + ") - 0.5) * 2"
	case OpShiftLeft2:
		return "(" + expr + ") * 4"
	case OpShiftRight1:
		return "(" + expr + ") / 2"
	}
	return expr
}

// channelSuffix is the destination suffix of a half.
func channelSuffix(ch Channel) string {
	if ch == ChannelAlpha {
		return ".a"
	}
	return ".rgb"
}

// renderChannel emits the assignments of one half of a stage, one line per
// written destination. A half whose output control word writes nothing is
// surfaced as a warning line, not an error: captured traces legitimately
// contain disabled stages.
func renderChannel(sb *strings.Builder, op ChannelOp, ch Channel) {
	a, b, c, d := op.Inputs[0], op.Inputs[1], op.Inputs[2], op.Inputs[3]
	suffix := channelSuffix(ch)

	if op.Out.writesNothing() {
		fmt.Fprintf(sb, "  !! %s: no outputs written (disabled stage?)\n", ch)
		return
	}

	ab := product(a, b, op.Out.ABDot, ch)
	cd := product(c, d, op.Out.CDDot, ch)

	if op.Out.AB != RegZero {
		note := ""
		if op.Out.ABBlueToAlpha {
			note = "  [blue -> alpha]"
		}
		fmt.Fprintf(sb, "  %s%s = %s%s\n", op.Out.AB, suffix, op.Out.Op.apply(ab), note)
	}
	if op.Out.CD != RegZero {
		note := ""
		if op.Out.CDBlueToAlpha {
			note = "  [blue -> alpha]"
		}
		fmt.Fprintf(sb, "  %s%s = %s%s\n", op.Out.CD, suffix, op.Out.Op.apply(cd), note)
	}
	if op.Out.Sum != RegZero {
		var sum string
		switch {
		case op.Out.Mux:
			sum = "mux(" + ab + ", " + cd + ")"
		case ab == "0":
			sum = cd
		case cd == "0":
			sum = ab
		default:
			sum = ab + " + " + cd
		}
		fmt.Fprintf(sb, "  %s%s = %s\n", op.Out.Sum, suffix, op.Out.Op.apply(sum))
	}
}

// finalAlphaOperand renders a final combiner slot read as a scalar, with
// the source channel spelled out.
func finalAlphaOperand(in Input) string {
	suffix := ".b"
	if in.Alpha {
		suffix = ".a"
	}
	scalar := Input{Source: in.Source, Map: in.Map, Alpha: false}
	s := scalar.operand(ChannelRGB)
	if in.Source == RegZero && (in.Map == MapUnsignedIdentity || in.Map == MapUnsignedInvert) {
		return s // literal 0 or 1
	}
	// Splice the channel suffix onto the register name inside the mapping.
	return strings.Replace(s, in.Source.String(), in.Source.String()+suffix, 1)
}

// renderFinal emits the final combiner block: the canonical
// A*B + (1-A)*C + D rgb expression with identity terms elided, the alpha
// source, and the enabled behavioral flags.
func renderFinal(sb *strings.Builder, fc FinalCombiner) {
	sb.WriteString("final combiner:\n")

	opA := fc.A.operand(ChannelRGB)
	opC := fc.C.operand(ChannelRGB)
	opD := fc.D.operand(ChannelRGB)

	var terms []string
	if t := product(fc.A, fc.B, false, ChannelRGB); t != "0" {
		terms = append(terms, t)
	}
	switch {
	case opC == "0" || opA == "1":
		// (1-A)*C vanishes
	case opA == "0":
		terms = append(terms, opC)
	default:
		terms = append(terms, "(1 - "+opA+") * "+opC)
	}
	if opD != "0" {
		terms = append(terms, opD)
	}
	expr := "0"
	if len(terms) > 0 {
		expr = strings.Join(terms, " + ")
	}
	fmt.Fprintf(sb, "  out.rgb = %s\n", expr)

	if fc.Layout == LayoutLegacy {
		sb.WriteString("  out.a = spare0.a\n")
	} else {
		fmt.Fprintf(sb, "  out.a = %s\n", finalAlphaOperand(fc.G))
	}

	if ef := product(fc.E, fc.F, false, ChannelRGB); ef != "0" {
		fmt.Fprintf(sb, "  ef_product = %s\n", ef)
	}

	var flags []string
	if fc.SpecularAdd {
		flags = append(flags, "specular add")
	}
	if fc.FogEnable {
		flags = append(flags, "fog")
	}
	if fc.ClampSum {
		flags = append(flags, "clamp sum")
	}
	if fc.ComplementV1 {
		flags = append(flags, "complement v1")
	}
	if fc.ComplementR0 {
		flags = append(flags, "complement r0")
	}
	if len(flags) > 0 {
		fmt.Fprintf(sb, "  flags: %s\n", strings.Join(flags, ", "))
	}
}

// Render produces the annotated text form of a decoded program: one block
// per stage in pipeline order, then the final combiner, then the captured
// constant colors.
func (p *Program) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "pixel shader program: %d stage(s)\n", p.Control.StageCount)
	if p.Control.MuxMSB {
		sb.WriteString("  mux predicate: spare0.a msb\n")
	}

	for _, st := range p.Stages {
		fmt.Fprintf(&sb, "stage %d:\n", st.Index)
		renderChannel(&sb, st.RGB, ChannelRGB)
		renderChannel(&sb, st.Alpha, ChannelAlpha)
	}
	renderFinal(&sb, p.Final)

	if p.HasConstants {
		sb.WriteString("constants:\n")
		renderConstants(&sb, "constant0", p.Constant0, p.Control.UniqueFactor0, p.Control.StageCount)
		renderConstants(&sb, "constant1", p.Constant1, p.Control.UniqueFactor1, p.Control.StageCount)
	}
	return sb.String()
}

func renderConstants(sb *strings.Builder, name string, vals [MaxStages]uint32, unique bool, count int) {
	if !unique {
		fmt.Fprintf(sb, "  %s = #%08X\n", name, vals[0])
		return
	}
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  %s[%d] = #%08X\n", name, i, vals[i])
	}
}

// RenderPassthrough marks a log line that is not a combiner register write
// so it stays visually separable from decoded blocks.
func RenderPassthrough(line string) string {
	return "  | " + line
}

// RenderLabeled marks a recognized but non-combiner register write with
// its register label.
func RenderLabeled(line, label string) string {
	return "  | " + line + "   # " + label
}

// RenderDiagnostic renders a decode error inline, preserving the
// surrounding successfully decoded output.
func RenderDiagnostic(err error) string {
	return "!! " + err.Error()
}
