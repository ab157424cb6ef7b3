// package shaderdef parses the D3DPIXELSHADERDEF structure: the fixed 240
// byte blob describing an entire combiner program outside of any live
// register trace. The blob carries the same register words a trace would,
// so decoding defers to the combiner package.
package shaderdef

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"nv2apretty/combiner"
)

// Size is the byte size of a D3DPIXELSHADERDEF.
const Size = 0xF0

// Field offsets, all little-endian uint32.
const (
	offAlphaInputs  = 0x00 // 8 words
	offFinalABCD    = 0x20
	offFinalEFG     = 0x24
	offConstant0    = 0x28 // 8 words
	offConstant1    = 0x48 // 8 words
	offAlphaOutputs = 0x68 // 8 words
	offRGBInputs    = 0x88 // 8 words
	offRGBOutputs   = 0xB4 // 8 words
	offCombinerCnt  = 0xD4
)

// TruncatedBlob reports a blob that cannot be decoded at all: too short,
// or declaring an impossible stage count. Fatal for that blob, no partial
// program is produced.
type TruncatedBlob struct {
	Size   int
	Need   int
	Reason string
}

func (e *TruncatedBlob) Error() string {
	if e.Reason != "" {
		return "bad shader definition: " + e.Reason
	}
	return fmt.Sprintf("shader definition too short: %d bytes, need %d", e.Size, e.Need)
}

// Parse decodes a raw D3DPIXELSHADERDEF blob into a combiner program.
// Any unresolved field is fatal for the blob.
func Parse(data []byte, layout combiner.Layout) (*combiner.Program, error) {
	if len(data) < Size {
		return nil, &TruncatedBlob{Size: len(data), Need: Size}
	}
	u32 := func(off int) uint32 {
		return binary.LittleEndian.Uint32(data[off:])
	}

	countWord := u32(offCombinerCnt)
	if count := countWord & 0xFF; count < 1 || count > combiner.MaxStages {
		return nil, &TruncatedBlob{
			Size:   len(data),
			Need:   Size,
			Reason: fmt.Sprintf("combiner count %d out of range 1..%d", count, combiner.MaxStages),
		}
	}

	var w combiner.RegisterWords
	for i := 0; i < combiner.MaxStages; i++ {
		w.AlphaICW[i] = u32(offAlphaInputs + 4*i)
		w.AlphaOCW[i] = u32(offAlphaOutputs + 4*i)
		w.ColorICW[i] = u32(offRGBInputs + 4*i)
		w.ColorOCW[i] = u32(offRGBOutputs + 4*i)
	}
	w.FinalCW0 = u32(offFinalABCD)
	w.FinalCW1 = u32(offFinalEFG)

	// PSCombinerCount uses the SET_COMBINER_CONTROL encoding, it is
	// written to the register untouched.
	w.Control = countWord

	prog, err := w.Decode(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode shader definition: %w", err)
	}

	for i := 0; i < combiner.MaxStages; i++ {
		prog.Constant0[i] = u32(offConstant0 + 4*i)
		prog.Constant1[i] = u32(offConstant1 + 4*i)
	}
	prog.HasConstants = true

	// No enable registers outside a live trace: derive the fog/specular
	// annotations from what the final combiner actually reads.
	prog.Final.DeriveContext()
	return prog, nil
}

// Open reads a shader definition from file. The file holds either the raw
// 240 bytes or a textual byte-string literal (`b"\x00\x01..."`), which is
// unescaped first.
func Open(path string, layout combiner.Layout) (*combiner.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte(`b"`)) || bytes.HasPrefix(trimmed, []byte("b'")) {
		if data, err = Unescape(trimmed); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	prog, err := Parse(data, layout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
