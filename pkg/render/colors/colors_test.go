package colors

import (
	"image/color"
	"testing"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, false},
		{"#FFF", color.NRGBA{255, 255, 255, 255}, false},
		{"#abc", color.NRGBA{0xaa, 0xbb, 0xcc, 255}, false},
		{"336699", color.NRGBA{0x33, 0x66, 0x99, 255}, false},
		{"#12", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
		{"#1234567", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidColor) {
			t.Errorf("Parse(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeInvalidColor)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Every 6-digit color survives Parse(Hex(c)), and every 3-digit form
	// equals its doubled 6-digit form.
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 51 {
			for b := 0; b < 256; b += 85 {
				c := color.NRGBA{uint8(r), uint8(g), uint8(b), 255}
				got, err := Parse(Hex(c))
				if err != nil || got != c {
					t.Fatalf("Parse(Hex(%v)) = %v, %v", c, got, err)
				}
			}
		}
	}

	const digits = "0123456789abcdef"
	for i := 0; i < 16; i++ {
		d := string(digits[i])
		short, err1 := Parse("#" + d + "0" + d)
		long, err2 := Parse("#" + d + d + "00" + d + d)
		if err1 != nil || err2 != nil || short != long {
			t.Errorf("#%s0%s = %v, want %v", d, d, short, long)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		in      *asset.Color
		want    color.NRGBA
		wantErr bool
	}{
		{"nil is transparent", nil, color.NRGBA{}, false},
		{"empty is transparent", &asset.Color{}, color.NRGBA{}, false},
		{"hex", asset.Hex("#ff0000"), color.NRGBA{255, 0, 0, 255}, false},
		{"rgba", &asset.Color{RGBA: &asset.RGBA{R: 1, G: 2, B: 3, Alpha: 0.5}}, color.NRGBA{1, 2, 3, 128}, false},
		{"rgba opaque", &asset.Color{RGBA: &asset.RGBA{R: 9, Alpha: 1}}, color.NRGBA{9, 0, 0, 255}, false},
		{"rgba bad alpha", &asset.Color{RGBA: &asset.RGBA{Alpha: 2}}, color.NRGBA{}, true},
		{"bad hex", asset.Hex("red"), color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsWhiteIsBlack(t *testing.T) {
	for _, s := range []string{"#fff", "#FFFFFF", " #ffffff "} {
		if !IsWhite(s) {
			t.Errorf("IsWhite(%q) = false", s)
		}
	}
	for _, s := range []string{"#000", "#000000"} {
		if !IsBlack(s) {
			t.Errorf("IsBlack(%q) = false", s)
		}
	}
	if IsWhite("#fefefe") || IsBlack("#010101") {
		t.Error("near colors must not match")
	}
}
