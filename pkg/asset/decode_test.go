package asset

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{"12", Length{Value: 12}, false},
		{" 12.5 ", Length{Value: 12.5}, false},
		{"10%", Length{Value: 10, Percent: true}, false},
		{"7.5 %", Length{Value: 7.5, Percent: true}, false},
		{"", Length{}, true},
		{"abc", Length{}, true},
		{"-4", Length{}, true},
		{"%", Length{}, true},
	}

	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLength(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLength(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestVariantYAML(t *testing.T) {
	src := `
name: logo-dark
width: 256
format: png
background: "#fff"
margin:
  all: 10%
  left: 4
monochrome: "#ffffff"
sizes: [16, 32]
`
	var v Variant
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}

	if v.Name != "logo-dark" || v.Width != 256 || v.Format != FormatPNG {
		t.Errorf("basic fields = %q %d %q", v.Name, v.Width, v.Format)
	}
	if v.Background.Hex != "#fff" {
		t.Errorf("Background = %+v, want #fff", v.Background)
	}
	if *v.Margin.All != (Length{Value: 10, Percent: true}) {
		t.Errorf("Margin.All = %+v", *v.Margin.All)
	}
	if *v.Margin.Left != (Length{Value: 4}) {
		t.Errorf("Margin.Left = %+v", *v.Margin.Left)
	}
	if v.Margin.Top != nil {
		t.Error("Margin.Top should be unset")
	}
	if v.Monochrome.Color != "#ffffff" || v.Monochrome.Threshold != 0 {
		t.Errorf("Monochrome = %+v", *v.Monochrome)
	}
	if len(v.Sizes) != 2 {
		t.Errorf("Sizes = %v", v.Sizes)
	}
}

func TestVariantYAMLStructured(t *testing.T) {
	src := `
name: tinted
format: png
background: {r: 10, g: 20, b: 30}
monochrome: {color: "#336699", threshold: 90}
`
	var v Variant
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if v.Background.RGBA == nil || v.Background.RGBA.B != 30 || v.Background.RGBA.Alpha != 1 {
		t.Errorf("Background = %+v", v.Background.RGBA)
	}
	if v.Monochrome.Color != "#336699" || v.Monochrome.Threshold != 90 {
		t.Errorf("Monochrome = %+v", *v.Monochrome)
	}
}

func TestVariantJSON(t *testing.T) {
	src := `{"name":"a","format":"webp","margin":{"horizontal":"5%","top":3},` +
		`"background":{"r":255,"g":0,"b":0,"alpha":0.5},"monochrome":{"color":"#fff"}}`

	var v Variant
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if *v.Margin.Horizontal != (Length{Value: 5, Percent: true}) {
		t.Errorf("Margin.Horizontal = %+v", *v.Margin.Horizontal)
	}
	if *v.Margin.Top != (Length{Value: 3}) {
		t.Errorf("Margin.Top = %+v", *v.Margin.Top)
	}
	if v.Background.RGBA.Alpha != 0.5 {
		t.Errorf("Background alpha = %v, want 0.5", v.Background.RGBA.Alpha)
	}
	if v.Monochrome.Color != "#fff" {
		t.Errorf("Monochrome.Color = %q", v.Monochrome.Color)
	}

	// Re-encoding keeps the config notation.
	out, err := json.Marshal(v.Margin)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(out) != `{"top":3,"horizontal":"5%"}` {
		t.Errorf("json.Marshal(margin) = %s", out)
	}
}

func TestVariantTOML(t *testing.T) {
	src := `
name = "og"
format = "jpeg"
width = 1200
height = 630
background = "#112233"
monochrome = { color = "#000", threshold = 100 }

[margin]
all = "8%"
bottom = 12
`
	var v Variant
	if _, err := toml.Decode(src, &v); err != nil {
		t.Fatalf("toml.Decode: %v", err)
	}
	if v.Background.Hex != "#112233" {
		t.Errorf("Background = %+v", v.Background)
	}
	if *v.Margin.All != (Length{Value: 8, Percent: true}) || *v.Margin.Bottom != (Length{Value: 12}) {
		t.Errorf("Margin = %+v %+v", *v.Margin.All, *v.Margin.Bottom)
	}
	if v.Monochrome.Threshold != 100 {
		t.Errorf("Monochrome = %+v", *v.Monochrome)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"logo.svg":        FormatSVG,
		"/a/b/Photo.JPG":  FormatJPG,
		"icon.png":        FormatPNG,
		"noext":           "",
		"archive.tar.ico": FormatICO,
	}
	for in, want := range tests {
		if got := FormatFromPath(in); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarginIsZero(t *testing.T) {
	var nilMargin *Margin
	if !nilMargin.IsZero() {
		t.Error("nil margin should be zero")
	}
	if !(&Margin{}).IsZero() {
		t.Error("empty margin should be zero")
	}
	if (&Margin{Vertical: Px(0)}).IsZero() {
		t.Error("margin with an explicit 0 is still set")
	}
}
