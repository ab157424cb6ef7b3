package combiner

import (
	"nv2apretty/hwio"
)

// MaxStages is the hardware ceiling on the number of combiner stages.
const MaxStages = 8

// Combiner control word layout (SET_COMBINER_CONTROL / PSCombinerCount).
var (
	ctrlCount   = hwio.Field{Name: "iteration count", Start: 0, Width: 8}
	ctrlMuxMSB  = hwio.Field{Name: "mux select", Start: 8, Width: 1}
	ctrlFactor0 = hwio.Field{Name: "factor0 mode", Start: 12, Width: 1}
	ctrlFactor1 = hwio.Field{Name: "factor1 mode", Start: 16, Width: 1}
)

// Control is the decoded combiner control word: the number of active
// stages and the global mux/constant flags.
type Control struct {
	StageCount int

	// MuxMSB selects the most significant bit of spare0 alpha as the mux
	// predicate instead of the least significant one.
	MuxMSB bool

	// UniqueFactor0/1 indicate a per-stage constant color rather than one
	// shared by all stages.
	UniqueFactor0 bool
	UniqueFactor1 bool
}

// DecodeControl validates and unpacks the combiner control word. A stage
// count of zero or above MaxStages is invalid even when the remaining bits
// would decode, and is reported as an *UnknownFieldCode on the count
// field.
func DecodeControl(word uint32) (Control, error) {
	count := ctrlCount.ExtractU(word)
	if count < 1 || count > MaxStages {
		return Control{}, &UnknownFieldCode{Field: ctrlCount.Name, Stage: StageFinal, Value: count}
	}
	return Control{
		StageCount:    int(count),
		MuxMSB:        ctrlMuxMSB.Bit(word),
		UniqueFactor0: ctrlFactor0.Bit(word),
		UniqueFactor1: ctrlFactor1.Bit(word),
	}, nil
}

// Program is a fully decoded combiner program: the active stages in
// pipeline order, the final combiner, and the captured constant colors.
// It is built bottom-up by the log stream or shader definition parsers and
// immutable afterwards.
type Program struct {
	Control Control
	Stages  []Stage // len == Control.StageCount
	Final   FinalCombiner

	// Constant colors (0xAARRGGBB), captured from the factor registers in
	// a live trace or from the PSConstant arrays of a shader definition.
	Constant0    [MaxStages]uint32
	Constant1    [MaxStages]uint32
	HasConstants bool
}

// RegisterWords is the raw word set a combiner program is decoded from,
// independent of whether it was accumulated from a register trace or read
// out of a shader definition blob.
type RegisterWords struct {
	ColorICW [MaxStages]uint32
	ColorOCW [MaxStages]uint32
	AlphaICW [MaxStages]uint32
	AlphaOCW [MaxStages]uint32

	FinalCW0 uint32
	FinalCW1 uint32

	Control uint32
}

// Decode assembles a Program from a raw word set. Only the stages covered
// by the control word's count are decoded; the first unresolved field code
// aborts the decode.
func (w *RegisterWords) Decode(layout Layout) (*Program, error) {
	ctrl, err := DecodeControl(w.Control)
	if err != nil {
		return nil, err
	}

	prog := &Program{Control: ctrl}
	for i := 0; i < ctrl.StageCount; i++ {
		st, err := DecodeStage(i, w.ColorICW[i], w.ColorOCW[i], w.AlphaICW[i], w.AlphaOCW[i])
		if err != nil {
			return nil, err
		}
		prog.Stages = append(prog.Stages, st)
	}

	if prog.Final, err = DecodeFinal(w.FinalCW0, w.FinalCW1, layout); err != nil {
		return nil, err
	}
	return prog, nil
}
