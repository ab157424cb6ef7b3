package combiner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeStageRoundTrip(t *testing.T) {
	// Encode a known tuple set and check the decode reproduces it
	// exactly: no aliasing of distinct codes.
	rgbIn := [4]Input{
		{Source: RegTexture0, Map: MapUnsignedIdentity},
		{Source: RegConstant0, Map: MapUnsignedInvert},
		{Source: RegPrimaryColor, Map: MapExpandNormal},
		{Source: RegSecondaryColor, Map: MapSignedNegate, Alpha: true},
	}
	rgbOut := Output{
		AB:            RegSpare0,
		CD:            RegSpare1,
		Sum:           RegTexture2,
		ABDot:         true,
		Op:            OpShiftLeft1,
		CDBlueToAlpha: true,
	}
	alphaIn := [4]Input{
		{Source: RegTexture1, Map: MapHalfbiasNormal, Alpha: true},
		{Source: RegZero, Map: MapUnsignedInvert, Alpha: true},
		{Source: RegFog, Map: MapSignedIdentity},
		{Source: RegSpare0, Map: MapExpandNegate, Alpha: true},
	}
	alphaOut := Output{
		AB:  RegZero,
		CD:  RegZero,
		Sum: RegSpare0,
		Mux: true,
		Op:  OpShiftRight1,
	}

	st, err := DecodeStage(3,
		icw(rgbIn[0], rgbIn[1], rgbIn[2], rgbIn[3]), ocw(rgbOut),
		icw(alphaIn[0], alphaIn[1], alphaIn[2], alphaIn[3]), ocw(alphaOut))
	if err != nil {
		t.Fatal(err)
	}

	want := Stage{
		Index: 3,
		RGB:   ChannelOp{Inputs: rgbIn, Out: rgbOut},
		Alpha: ChannelOp{Inputs: alphaIn, Out: alphaOut},
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("stage mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStageBlueToAlphaIgnoredOnAlpha(t *testing.T) {
	// Bits 18/19 only exist in the color OCW.
	word := ocw(Output{Sum: RegSpare0, ABBlueToAlpha: true, CDBlueToAlpha: true})
	st, err := DecodeStage(0, 0, 0x00000C00, 0, word)
	if err != nil {
		t.Fatal(err)
	}
	if st.Alpha.Out.ABBlueToAlpha || st.Alpha.Out.CDBlueToAlpha {
		t.Error("blue-to-alpha flags must be ignored in the alpha OCW")
	}
}

func TestDecodeStageUnknownSource(t *testing.T) {
	// 0x6 is a reserved source code.
	bad := icw(Input{Source: Register(0x6)}, one(), nilIn(), nilIn())
	_, err := DecodeStage(2, bad, 0x00000C00, 0, 0x00000C00)

	var ufc *UnknownFieldCode
	if !errors.As(err, &ufc) {
		t.Fatalf("got %v, want *UnknownFieldCode", err)
	}
	if ufc.Stage != 2 || ufc.Chan != ChannelRGB || ufc.Value != 0x6 {
		t.Errorf("error context = %+v", ufc)
	}
	if ufc.Field != "input A" {
		t.Errorf("field = %q, want %q", ufc.Field, "input A")
	}
}

func TestDecodeStageFinalOnlySourcesRejected(t *testing.T) {
	// The two final combiner pseudo registers are not valid stage inputs.
	for _, src := range []Register{RegSpare0PlusSecondary, RegEFProduct} {
		bad := icw(in(src, MapUnsignedIdentity), one(), nilIn(), nilIn())
		_, err := DecodeStage(0, bad, 0x00000C00, 0, 0x00000C00)
		var ufc *UnknownFieldCode
		if !errors.As(err, &ufc) {
			t.Errorf("source %#x: got %v, want *UnknownFieldCode", uint8(src), err)
		}
	}
}

func TestDecodeStageReservedScaleOp(t *testing.T) {
	for _, code := range []uint32{5, 7} {
		word := uint32(RegSpare0)<<8 | code<<15
		_, err := DecodeStage(1, 0, word, 0, 0x00000C00)
		var ufc *UnknownFieldCode
		if !errors.As(err, &ufc) {
			t.Fatalf("op %d: got %v, want *UnknownFieldCode", code, err)
		}
		if ufc.Field != "scale op" || ufc.Value != code {
			t.Errorf("op %d: error context = %+v", code, ufc)
		}
	}
}

func TestDecodeStageBadDestination(t *testing.T) {
	// Constant registers are read only.
	word := uint32(RegConstant0) << 8
	_, err := DecodeStage(0, 0, word, 0, 0x00000C00)
	var ufc *UnknownFieldCode
	if !errors.As(err, &ufc) {
		t.Fatalf("got %v, want *UnknownFieldCode", err)
	}
	if ufc.Field != "sum dst" {
		t.Errorf("field = %q, want %q", ufc.Field, "sum dst")
	}
}
