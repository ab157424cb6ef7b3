package log

import (
	"errors"
	"testing"
)

func TestZFieldValue(t *testing.T) {
	tests := []struct {
		f    ZField
		want string
	}{
		{ZField{Type: FieldTypeString, String: "trace.log"}, "trace.log"},
		{ZField{Type: FieldTypeInt, Integer: 42}, "42"},
		{ZField{Type: FieldTypeHex32, Integer: 0x1E60}, "00001e60"},
		{ZField{Type: FieldTypeError, Error: errors.New("short read")}, "short read"},
		{ZField{Type: FieldTypeError}, "<nil>"},
	}
	for _, tt := range tests {
		if got := tt.f.Value(); got != tt.want {
			t.Errorf("Value() = %q, want %q", got, tt.want)
		}
	}
}
