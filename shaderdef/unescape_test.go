package shaderdef

import (
	"bytes"
	"testing"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"hex escapes", `b"\x00\x01\xab\xFF"`, []byte{0x00, 0x01, 0xAB, 0xFF}},
		{"plain chars", `b"NES"`, []byte("NES")},
		{"mixed", `b"a\x00b"`, []byte{'a', 0, 'b'}},
		{"single quotes", `b'\x42'`, []byte{0x42}},
		{"char escapes", `b"\n\r\t\0\\\""`, []byte{'\n', '\r', '\t', 0, '\\', '"'}},
		{"adjacent literals", "b\"\\x01\"\nb\"\\x02\"", []byte{1, 2}},
		{"empty", `b""`, []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unescape([]byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestUnescapeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated", `b"\x00`},
		{"truncated hex", `b"\x0"`},
		{"bad hex", `b"\xzz"`},
		{"unknown escape", `b"\q"`},
		{"stray char", `x"00"`},
		{"trailing backslash", `b"\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unescape([]byte(tt.src)); err == nil {
				t.Errorf("no error for %q", tt.src)
			}
		})
	}
}
