package hwio

import "testing"

func TestFieldExtract(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		word uint32
		want int64
	}{
		{"low nibble", Field{Name: "lo", Start: 0, Width: 4}, 0xDEADBEEF, 0xF},
		{"mid byte", Field{Name: "mid", Start: 8, Width: 8}, 0xDEADBEEF, 0xBE},
		{"top byte", Field{Name: "top", Start: 24, Width: 8}, 0xDEADBEEF, 0xDE},
		{"full word", Field{Name: "all", Start: 0, Width: 32}, 0xFFFFFFFF, 0xFFFFFFFF},
		{"signed negative", Field{Name: "s", Start: 4, Width: 4, Signed: true}, 0x000000F0, -1},
		{"signed positive", Field{Name: "s", Start: 4, Width: 4, Signed: true}, 0x00000070, 7},
		{"signed min", Field{Name: "s", Start: 0, Width: 3, Signed: true}, 0x00000004, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Extract(tt.word); got != tt.want {
				t.Errorf("Extract() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFieldExtractPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range field")
		}
	}()
	Field{Name: "bad", Start: 30, Width: 4}.Extract(0)
}

func TestBitHelpers(t *testing.T) {
	var v uint32
	SetBit32(&v, 14)
	if !GetBit32(v, 14) {
		t.Error("bit 14 should be set")
	}
	if GetBiti32(v, 14) != 1 {
		t.Error("GetBiti32 should return 1")
	}
	ClearBit32(&v, 14)
	if v != 0 {
		t.Errorf("v = %#x, want 0", v)
	}
	v = 0xFF00FF00
	ClearBits32(&v, 0xFF000000)
	if v != 0x0000FF00 {
		t.Errorf("v = %#x, want 0x0000FF00", v)
	}
}
