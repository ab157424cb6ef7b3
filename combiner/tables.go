// package combiner decodes the nv2a register combiner configuration (the
// fixed function pixel shader pipeline) from raw 32-bit register words and
// renders it as annotated pseudocode.
//
// Each of the 8 combiner stages computes, for rgb and alpha independently,
// the classic two product sum `(a*b) + (c*d)` from four inputs selected out
// of the combiner register file, then writes the products and/or the sum to
// writable registers. A dedicated final combiner merges the intermediate
// results into the fragment color.
package combiner

// Register is a combiner register file selector, as encoded in the 4-bit
// source and destination fields of the input/output control words.
type Register uint8

const (
	RegZero           Register = 0x0 // reads as 0, writes are discarded
	RegConstant0      Register = 0x1
	RegConstant1      Register = 0x2
	RegFog            Register = 0x3
	RegPrimaryColor   Register = 0x4 // interpolated diffuse (v0)
	RegSecondaryColor Register = 0x5 // interpolated specular (v1)
	RegTexture0       Register = 0x8
	RegTexture1       Register = 0x9
	RegTexture2       Register = 0xA
	RegTexture3       Register = 0xB
	RegSpare0         Register = 0xC // r0, holds the shaded pixel at the end
	RegSpare1         Register = 0xD // r1

	// Final combiner only.
	RegSpare0PlusSecondary Register = 0xE // v1 + r0, the specular add path
	RegEFProduct           Register = 0xF // product of the E and F slots
)

var registerNames = map[Register]string{
	RegZero:                "zero",
	RegConstant0:           "constant0",
	RegConstant1:           "constant1",
	RegFog:                 "fog",
	RegPrimaryColor:        "primary_color",
	RegSecondaryColor:      "secondary_color",
	RegTexture0:            "texture0",
	RegTexture1:            "texture1",
	RegTexture2:            "texture2",
	RegTexture3:            "texture3",
	RegSpare0:              "spare0",
	RegSpare1:              "spare1",
	RegSpare0PlusSecondary: "spare0_plus_secondary",
	RegEFProduct:           "ef_product",
}

func (r Register) String() string {
	if s, ok := registerNames[r]; ok {
		return s
	}
	return "reserved"
}

// stage input sources. Codes 0x6/0x7 are reserved, 0xE/0xF only exist in
// the final combiner.
func stageSource(code uint32, field string, stage int, ch Channel) (Register, error) {
	r := Register(code)
	switch r {
	case RegZero, RegConstant0, RegConstant1, RegFog,
		RegPrimaryColor, RegSecondaryColor,
		RegTexture0, RegTexture1, RegTexture2, RegTexture3,
		RegSpare0, RegSpare1:
		return r, nil
	}
	return 0, &UnknownFieldCode{Field: field, Stage: stage, Chan: ch, Value: code}
}

// final combiner input sources. Only 0x6/0x7 are reserved here.
func finalSource(code uint32, field string) (Register, error) {
	r := Register(code)
	if _, ok := registerNames[r]; !ok {
		return 0, &UnknownFieldCode{Field: field, Stage: StageFinal, Value: code}
	}
	return r, nil
}

// stage output destinations. The constant registers, fog and the two final
// combiner pseudo registers are read only.
func stageDest(code uint32, field string, stage int, ch Channel) (Register, error) {
	r := Register(code)
	switch r {
	case RegZero, // discard
		RegPrimaryColor, RegSecondaryColor,
		RegTexture0, RegTexture1, RegTexture2, RegTexture3,
		RegSpare0, RegSpare1:
		return r, nil
	}
	return 0, &UnknownFieldCode{Field: field, Stage: stage, Chan: ch, Value: code}
}

// InputMap is the per-input mapping applied to a source register before it
// enters the stage math, encoded in the 3-bit mapping field.
type InputMap uint8

const (
	MapUnsignedIdentity InputMap = 0 // max(x, 0)
	MapUnsignedInvert   InputMap = 1 // 1 - max(x, 0)
	MapExpandNormal     InputMap = 2 // 2*max(x, 0) - 1
	MapExpandNegate     InputMap = 3 // -(2*max(x, 0) - 1)
	MapHalfbiasNormal   InputMap = 4 // max(x, 0) - 0.5
	MapHalfbiasNegate   InputMap = 5 // -(max(x, 0) - 0.5)
	MapSignedIdentity   InputMap = 6 // x
	MapSignedNegate     InputMap = 7 // -x
)

var inputMapNames = [8]string{
	"unsigned_identity",
	"unsigned_invert",
	"expand_normal",
	"expand_negate",
	"halfbias_normal",
	"halfbias_negate",
	"signed_identity",
	"signed_negate",
}

func (m InputMap) String() string {
	if int(m) < len(inputMapNames) {
		return inputMapNames[m]
	}
	return "reserved"
}

func inputMap(code uint32, field string, stage int, ch Channel) (InputMap, error) {
	if code >= 8 {
		return 0, &UnknownFieldCode{Field: field, Stage: stage, Chan: ch, Value: code}
	}
	return InputMap(code), nil
}

// ScaleOp is the output mapping of a stage: the scale and bias applied to
// the stage results before they are written, encoded in OCW bits 15..17.
type ScaleOp uint8

const (
	OpIdentity       ScaleOp = 0 // x
	OpBias           ScaleOp = 1 // x - 0.5
	OpShiftLeft1     ScaleOp = 2 // x * 2
	OpShiftLeft1Bias ScaleOp = 3 // (x - 0.5) * 2
	OpShiftLeft2     ScaleOp = 4 // x * 4
	OpShiftRight1    ScaleOp = 6 // x / 2
)

var scaleOpNames = map[ScaleOp]string{
	OpIdentity:       "identity",
	OpBias:           "bias",
	OpShiftLeft1:     "shift_left_1",
	OpShiftLeft1Bias: "shift_left_1_bias",
	OpShiftLeft2:     "shift_left_2",
	OpShiftRight1:    "shift_right_1",
}

func (op ScaleOp) String() string {
	if s, ok := scaleOpNames[op]; ok {
		return s
	}
	return "reserved"
}

func scaleOp(code uint32, stage int, ch Channel) (ScaleOp, error) {
	op := ScaleOp(code)
	if _, ok := scaleOpNames[op]; !ok {
		return 0, &UnknownFieldCode{Field: "scale op", Stage: stage, Chan: ch, Value: code}
	}
	return op, nil
}

// Channel distinguishes the rgb and alpha halves of a stage. Both halves
// are configured by structurally identical word pairs but are otherwise
// fully independent.
type Channel uint8

const (
	ChannelRGB Channel = iota
	ChannelAlpha
)

func (ch Channel) String() string {
	if ch == ChannelAlpha {
		return "alpha"
	}
	return "rgb"
}
