package theme

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/assetforge/pkg/asset"
)

// gradient builds a w x h image with varied hues and a transparent corner.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 127 / (w + h)),
				A: 255,
			})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 90})
	return img
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		v    asset.Variant
		opts asset.Options
		want Kind
	}{
		{"none", asset.Variant{}, asset.Options{}, None},
		{"light is none", asset.Variant{Theme: asset.ThemeLight}, asset.Options{}, None},
		{"variant dark", asset.Variant{Theme: asset.ThemeDark}, asset.Options{}, Dark},
		{"option dark", asset.Variant{}, asset.Options{Theme: asset.ThemeDark}, Dark},
		{"dark beats monochrome value", asset.Variant{Theme: asset.ThemeDark, Monochrome: &asset.Monochrome{}}, asset.Options{}, Dark},
		{"option monochrome", asset.Variant{}, asset.Options{Theme: asset.ThemeMonochrome}, Monochrome},
		{"monochrome value", asset.Variant{Monochrome: &asset.Monochrome{Color: "#fff"}}, asset.Options{}, Monochrome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.v, tt.opts); got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveMonochrome(t *testing.T) {
	tests := []struct {
		name    string
		variant *asset.Monochrome
		global  *asset.Monochrome
		want    asset.Monochrome
	}{
		{"defaults", nil, nil, asset.Monochrome{Color: "#000000", Threshold: 128}},
		{"string shorthand", &asset.Monochrome{Color: "#fff"}, nil, asset.Monochrome{Color: "#fff", Threshold: 128}},
		{"object", &asset.Monochrome{Color: "#123456", Threshold: 90}, nil, asset.Monochrome{Color: "#123456", Threshold: 90}},
		{"object without color", &asset.Monochrome{Threshold: 50}, nil, asset.Monochrome{Color: "#000000", Threshold: 50}},
		{"global", nil, &asset.Monochrome{Color: "#ff0000", Threshold: 40}, asset.Monochrome{Color: "#ff0000", Threshold: 40}},
		{"variant beats global", &asset.Monochrome{Color: "#fff"}, &asset.Monochrome{Color: "#ff0000", Threshold: 40}, asset.Monochrome{Color: "#fff", Threshold: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMonochrome(tt.variant, tt.global); got != tt.want {
				t.Errorf("ResolveMonochrome() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEffectiveThreshold(t *testing.T) {
	tests := []struct {
		color     string
		threshold int
		want      int
	}{
		{"#000000", 128, 128},
		{"#000", 200, 200},
		{"#000", 50, 50},
		{"#ffffff", 128, 64},
		{"#fff", 99, 99},
		{"#fff", 100, 64},
		{"#336699", 128, 64},
		{"#336699", 30, 30},
	}

	for _, tt := range tests {
		got := EffectiveThreshold(asset.Monochrome{Color: tt.color, Threshold: tt.threshold})
		if got != tt.want {
			t.Errorf("EffectiveThreshold(%s, %d) = %d, want %d", tt.color, tt.threshold, got, tt.want)
		}
	}
}

func TestApplyDark(t *testing.T) {
	img := gradient(16, 16)
	orig := image.NewNRGBA(img.Rect)
	copy(orig.Pix, img.Pix)

	ApplyDark(img)

	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			if img.Pix[i+c] != 255-orig.Pix[i+c] {
				t.Fatalf("pixel %d channel %d = %d, want %d", i/4, c, img.Pix[i+c], 255-orig.Pix[i+c])
			}
		}
		if img.Pix[i+3] != orig.Pix[i+3] {
			t.Fatalf("pixel %d alpha changed: %d -> %d", i/4, orig.Pix[i+3], img.Pix[i+3])
		}
	}
}

func TestApplyMonochromeIsGreyscale(t *testing.T) {
	for _, paint := range []string{"#000000", "#ffffff", "#fff"} {
		img := gradient(32, 32)
		if err := ApplyMonochrome(img, asset.Monochrome{Color: paint, Threshold: 128}); err != nil {
			t.Fatalf("ApplyMonochrome(%s): %v", paint, err)
		}

		var sawBlack, sawWhite bool
		for i := 0; i < len(img.Pix); i += 4 {
			r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
			if a == 0 {
				continue
			}
			if r != g || g != b {
				t.Fatalf("%s: pixel %d = (%d,%d,%d) is not grey", paint, i/4, r, g, b)
			}
			if r != 0 && r != 255 {
				t.Fatalf("%s: pixel %d = %d is not binarized", paint, i/4, r)
			}
			sawBlack = sawBlack || r == 0
			sawWhite = sawWhite || r == 255
		}
		if !sawBlack || !sawWhite {
			t.Errorf("%s: expected both levels, black=%v white=%v", paint, sawBlack, sawWhite)
		}
	}
}

func TestApplyMonochromeTint(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		// Light orange, luma 145: above the 64 cutoff.
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0xff, 0x6b, 0x35, 255
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, G: 0x6b, B: 0x35, A: 100})
	img.SetNRGBA(1, 0, color.NRGBA{})

	if err := ApplyMonochrome(img, asset.Monochrome{Color: "#336699", Threshold: 128}); err != nil {
		t.Fatalf("ApplyMonochrome: %v", err)
	}

	want := color.NRGBA{0x33, 0x66, 0x99, 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			got := img.NRGBAAt(x, y)
			switch {
			case x == 0 && y == 0:
				if got != (color.NRGBA{0x33, 0x66, 0x99, 100}) {
					t.Errorf("semi-transparent pixel = %v", got)
				}
			case x == 1 && y == 0:
				if got.A != 0 {
					t.Errorf("transparent pixel became %v", got)
				}
			default:
				if got != want {
					t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
				}
			}
		}
	}
}

func TestApplyMonochromeBadColor(t *testing.T) {
	img := gradient(4, 4)
	if err := ApplyMonochrome(img, asset.Monochrome{Color: "blue", Threshold: 128}); err == nil {
		t.Error("expected error for invalid paint color")
	}
}

func TestToNRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 8))
	src.Set(5, 5, color.RGBA{255, 0, 0, 255})

	got := ToNRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if got.NRGBAAt(0, 0) != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel = %v", got.NRGBAAt(0, 0))
	}

	n := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if ToNRGBA(n) != n {
		t.Error("ToNRGBA should not copy a zero-origin NRGBA")
	}
}
