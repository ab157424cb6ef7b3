package combiner

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderPassthroughProgram(t *testing.T) {
	w := testWords(1)
	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}

	want := `pixel shader program: 1 stage(s)
stage 0:
  spare0.rgb = texture0
  spare0.a = texture0
final combiner:
  out.rgb = spare0
  out.a = spare0.a
`
	if diff := cmp.Diff(want, prog.Render()); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSpecScenario(t *testing.T) {
	// Stage 0 reads (texture0, unsigned) and (primary color, expand),
	// sums them into spare0: the canonical two-term example.
	var w RegisterWords
	w.ColorICW[0] = icw(
		in(RegTexture0, MapUnsignedIdentity), one(),
		in(RegPrimaryColor, MapExpandNormal), one())
	w.ColorOCW[0] = ocw(Output{Sum: RegSpare0})
	w.AlphaICW[0] = icw(
		Input{Source: RegTexture0, Map: MapUnsignedIdentity, Alpha: true},
		Input{Source: RegZero, Map: MapUnsignedInvert, Alpha: true},
		nilIn(), nilIn())
	w.AlphaOCW[0] = ocw(Output{Sum: RegSpare0})

	ci2, co2, ai2, ao2 := passthroughStage(in(RegSpare0, MapUnsignedIdentity), RegSpare1)
	w.ColorICW[1], w.ColorOCW[1], w.AlphaICW[1], w.AlphaOCW[1] = ci2, co2, ai2, ao2

	w.FinalCW0 = finalCW0(nilIn(), nilIn(), nilIn(), in(RegSpare0, MapUnsignedIdentity))
	w.FinalCW1 = finalCW1(nilIn(), nilIn(),
		Input{Source: RegSpare0, Map: MapUnsignedIdentity, Alpha: true}, false, false, false)
	w.Control = ctrl(2, false, false, false)

	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}

	text := prog.Render()
	if !strings.Contains(text, "spare0.rgb = texture0 + expand(primary_color)") {
		t.Errorf("missing canonical stage 0 color line in:\n%s", text)
	}
	if got := strings.Count(text, "stage "); got != 2 {
		t.Errorf("found %d stage blocks, want 2:\n%s", got, text)
	}
}

func TestRenderIdempotent(t *testing.T) {
	w := testWords(3)
	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Render() != prog.Render() {
		t.Error("two renders of the same program differ")
	}
}

func TestRenderBlockCounts(t *testing.T) {
	for count := 1; count <= MaxStages; count++ {
		w := testWords(count)
		prog, err := w.Decode(LayoutXDK)
		if err != nil {
			t.Fatalf("count %d: %v", count, err)
		}
		text := prog.Render()
		if got := strings.Count(text, "stage "); got != count {
			t.Errorf("count %d: %d stage blocks", count, got)
		}
		if got := strings.Count(text, "final combiner:"); got != 1 {
			t.Errorf("count %d: %d final combiner blocks", count, got)
		}
	}
}

func TestRenderDisabledStageWarning(t *testing.T) {
	w := testWords(1)
	w.ColorOCW[0] = 0 // everything discarded

	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}
	text := prog.Render()
	if !strings.Contains(text, "!! rgb: no outputs written") {
		t.Errorf("missing disabled-stage warning in:\n%s", text)
	}
}

func TestRenderModifiersSpelledOut(t *testing.T) {
	tests := []struct {
		m    InputMap
		want string
	}{
		{MapUnsignedInvert, "(1 - texture1)"},
		{MapExpandNormal, "expand(texture1)"},
		{MapExpandNegate, "-expand(texture1)"},
		{MapHalfbiasNormal, "halfbias(texture1)"},
		{MapHalfbiasNegate, "-halfbias(texture1)"},
		{MapSignedIdentity, "signed(texture1)"},
		{MapSignedNegate, "-texture1"},
	}
	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			got := in(RegTexture1, tt.m).operand(ChannelRGB)
			if got != tt.want {
				t.Errorf("operand = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderScaleAndBias(t *testing.T) {
	w := testWords(1)
	w.ColorOCW[0] = ocw(Output{Sum: RegSpare0, Op: OpShiftLeft1Bias})

	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prog.Render(), "spare0.rgb = ((texture0) - 0.5) * 2") {
		t.Errorf("missing scaled expression in:\n%s", prog.Render())
	}
}

func TestRenderFinalFlags(t *testing.T) {
	w := testWords(1)
	w.FinalCW1 |= 1<<7 | 1<<5 // clamp sum, complement r0

	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}
	prog.Final.FogEnable = true

	text := prog.Render()
	if !strings.Contains(text, "flags: fog, clamp sum, complement r0") {
		t.Errorf("missing flags line in:\n%s", text)
	}
}

func TestRenderFinalBlend(t *testing.T) {
	w := testWords(1)
	// A*B + (1-A)*C + D with all three terms live.
	w.FinalCW0 = finalCW0(
		in(RegFog, MapUnsignedIdentity),
		in(RegSpare0, MapUnsignedIdentity),
		in(RegPrimaryColor, MapUnsignedIdentity),
		in(RegSecondaryColor, MapUnsignedIdentity))

	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}
	want := "out.rgb = fog * spare0 + (1 - fog) * primary_color + secondary_color"
	if text := prog.Render(); !strings.Contains(text, want) {
		t.Errorf("missing %q in:\n%s", want, text)
	}
}

func TestRenderConstants(t *testing.T) {
	w := testWords(2)
	w.Control = ctrl(2, false, true, false)
	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}
	prog.HasConstants = true
	prog.Constant0 = [MaxStages]uint32{0x11223344, 0x55667788}
	prog.Constant1 = [MaxStages]uint32{0xDEADBEEF}

	text := prog.Render()
	for _, want := range []string{
		"constant0[0] = #11223344",
		"constant0[1] = #55667788",
		"constant1 = #DEADBEEF",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestRenderMarkers(t *testing.T) {
	if got := RenderPassthrough("hello"); got != "  | hello" {
		t.Errorf("passthrough = %q", got)
	}
	if got := RenderLabeled("line", "FogEnable"); got != "  | line   # FogEnable" {
		t.Errorf("labeled = %q", got)
	}
}

func TestJSONAndTreeViews(t *testing.T) {
	w := testWords(2)
	prog, err := w.Decode(LayoutXDK)
	if err != nil {
		t.Fatal(err)
	}

	js := string(prog.JSON())
	for _, want := range []string{`"stage_count"`, `"texture0"`, `"final"`} {
		if !strings.Contains(js, want) {
			t.Errorf("JSON missing %s:\n%s", want, js)
		}
	}

	tree := prog.Tree()
	if !strings.Contains(tree, "stage 1") || !strings.Contains(tree, "final combiner") {
		t.Errorf("tree missing nodes:\n%s", tree)
	}
}
