package colorutil

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#0099ff", color.RGBA{0, 0x99, 0xff, 0xff}, true},
		{"0099FF80", color.RGBA{0, 0x99, 0xff, 0x80}, true},
		{"#fff", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHex(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{Selection, HandleBorder, {1, 2, 3, 4}} {
		got, err := ParseHex(Hex(c))
		if err != nil {
			t.Fatalf("ParseHex(Hex(%v)): %v", c, err)
		}
		if got != c {
			t.Errorf("round trip %v -> %v", c, got)
		}
	}
}
