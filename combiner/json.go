package combiner

import (
	"fmt"

	"github.com/go-faster/jx"
)

// JSON renders the program as a structured JSON document, for consumers
// that post-process decoded programs instead of reading the text form.
func (p *Program) JSON() []byte {
	var e jx.Encoder
	e.SetIdent(2)

	e.ObjStart()

	e.FieldStart("control")
	e.ObjStart()
	e.FieldStart("stage_count")
	e.Int(p.Control.StageCount)
	e.FieldStart("mux_msb")
	e.Bool(p.Control.MuxMSB)
	e.FieldStart("unique_factor0")
	e.Bool(p.Control.UniqueFactor0)
	e.FieldStart("unique_factor1")
	e.Bool(p.Control.UniqueFactor1)
	e.ObjEnd()

	e.FieldStart("stages")
	e.ArrStart()
	for _, st := range p.Stages {
		e.ObjStart()
		e.FieldStart("index")
		e.Int(st.Index)
		e.FieldStart("rgb")
		encodeChannel(&e, st.RGB)
		e.FieldStart("alpha")
		encodeChannel(&e, st.Alpha)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("final")
	encodeFinal(&e, p.Final)

	if p.HasConstants {
		e.FieldStart("constant0")
		encodeConstants(&e, p.Constant0, p.Control.UniqueFactor0, p.Control.StageCount)
		e.FieldStart("constant1")
		encodeConstants(&e, p.Constant1, p.Control.UniqueFactor1, p.Control.StageCount)
	}

	e.ObjEnd()
	return e.Bytes()
}

func encodeInput(e *jx.Encoder, in Input) {
	e.ObjStart()
	e.FieldStart("source")
	e.Str(in.Source.String())
	e.FieldStart("map")
	e.Str(in.Map.String())
	e.FieldStart("alpha")
	e.Bool(in.Alpha)
	e.ObjEnd()
}

func encodeChannel(e *jx.Encoder, op ChannelOp) {
	e.ObjStart()
	e.FieldStart("inputs")
	e.ArrStart()
	for _, in := range op.Inputs {
		encodeInput(e, in)
	}
	e.ArrEnd()

	e.FieldStart("ab_dst")
	e.Str(destName(op.Out.AB))
	e.FieldStart("cd_dst")
	e.Str(destName(op.Out.CD))
	e.FieldStart("sum_dst")
	e.Str(destName(op.Out.Sum))
	e.FieldStart("ab_dot")
	e.Bool(op.Out.ABDot)
	e.FieldStart("cd_dot")
	e.Bool(op.Out.CDDot)
	e.FieldStart("mux")
	e.Bool(op.Out.Mux)
	e.FieldStart("op")
	e.Str(op.Out.Op.String())
	if op.Out.ABBlueToAlpha || op.Out.CDBlueToAlpha {
		e.FieldStart("ab_blue_to_alpha")
		e.Bool(op.Out.ABBlueToAlpha)
		e.FieldStart("cd_blue_to_alpha")
		e.Bool(op.Out.CDBlueToAlpha)
	}
	e.ObjEnd()
}

func encodeFinal(e *jx.Encoder, fc FinalCombiner) {
	e.ObjStart()
	e.FieldStart("layout")
	e.Str(fc.Layout.String())

	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, in := range fc.inputs() {
		e.FieldStart(names[i])
		encodeInput(e, in)
	}

	e.FieldStart("clamp_sum")
	e.Bool(fc.ClampSum)
	e.FieldStart("complement_v1")
	e.Bool(fc.ComplementV1)
	e.FieldStart("complement_r0")
	e.Bool(fc.ComplementR0)
	e.FieldStart("specular_add")
	e.Bool(fc.SpecularAdd)
	e.FieldStart("fog")
	e.Bool(fc.FogEnable)
	e.ObjEnd()
}

func encodeConstants(e *jx.Encoder, vals [MaxStages]uint32, unique bool, count int) {
	e.ArrStart()
	n := 1
	if unique {
		n = count
	}
	for i := 0; i < n; i++ {
		e.Str(fmt.Sprintf("#%08X", vals[i]))
	}
	e.ArrEnd()
}

// destName renders a destination register; code 0 means discard on the
// write side.
func destName(r Register) string {
	if r == RegZero {
		return "discard"
	}
	return r.String()
}
