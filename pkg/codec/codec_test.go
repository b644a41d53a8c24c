package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/render/icon"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="72" height="36" viewBox="0 0 72 36">` +
	`<rect x="0" y="0" width="36" height="36" fill="#ff0000"/></svg>`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestNativePNGRoundTrip(t *testing.T) {
	ctx := context.Background()
	n := NewNative()

	data, err := n.Encode(ctx, checker(8, 4), asset.FormatPNG, 90)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := writeFile(t, "c.png", data)

	img, err := n.Decode(ctx, path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := img.(*image.NRGBA); !ok {
		t.Errorf("Decode() returned %T, want *image.NRGBA", img)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}
	if got := img.(*image.NRGBA).NRGBAAt(1, 0); got.A != 0 {
		t.Errorf("transparent pixel = %v", got)
	}

	info, err := n.Metadata(ctx, path, "")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if info.Width != 8 || info.Height != 4 || info.Size != int64(len(data)) || info.Format != asset.FormatPNG {
		t.Errorf("Metadata() = %+v", info)
	}
}

func TestNativeJPEG(t *testing.T) {
	ctx := context.Background()
	n := NewNative()

	low, err := n.Encode(ctx, checker(64, 64), asset.FormatJPEG, 10)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	high, err := n.Encode(ctx, checker(64, 64), asset.FormatJPG, 95)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 10 (%d bytes) should be smaller than quality 95 (%d bytes)", len(low), len(high))
	}

	info, err := Probe(high, asset.FormatJPEG)
	if err != nil || info.Width != 64 || info.Height != 64 {
		t.Errorf("Probe() = %+v, %v", info, err)
	}
}

func TestNativeRasterizesSVGAtDensity(t *testing.T) {
	path := writeFile(t, "logo.svg", []byte(square))

	img, err := NewNative().Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// 72x36 user units at 300 DPI.
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 150 {
		t.Fatalf("bounds = %v, want 300x150", b)
	}

	n := img.(*image.NRGBA)
	if got := n.NRGBAAt(50, 75); got.R != 255 || got.A != 255 {
		t.Errorf("inside rect = %v, want opaque red", got)
	}
	if got := n.NRGBAAt(250, 75); got.A != 0 {
		t.Errorf("outside rect = %v, want transparent", got)
	}
}

func TestRasterSizeCap(t *testing.T) {
	n := &Native{Density: 300, MaxSide: 1000}
	w, h := n.rasterSize(720, 360)
	if w != 1000 || h != 500 {
		t.Errorf("rasterSize() = %dx%d, want 1000x500", w, h)
	}

	w, h = (&Native{}).rasterSize(0.01, 0.01)
	if w != 1 || h != 1 {
		t.Errorf("rasterSize() = %dx%d, want 1x1", w, h)
	}
}

func TestNativeEncodeErrors(t *testing.T) {
	ctx := context.Background()
	n := NewNative()

	_, err := n.Encode(ctx, checker(2, 2), asset.FormatSVG, 100)
	if !errors.Is(err, errors.ErrCodeUnsupportedConversion) {
		t.Errorf("svg encode error = %v", err)
	}
	_, err = n.Encode(ctx, checker(2, 2), asset.Format("tga"), 100)
	if !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
		t.Errorf("tga encode error = %v", err)
	}

	missing := &Native{External: &ExternalEncoder{CWebP: "definitely-not-cwebp", AVIFEnc: "definitely-not-avifenc"}}
	_, err = missing.Encode(ctx, checker(2, 2), asset.FormatWebP, 80)
	if !errors.Is(err, errors.ErrCodeCodec) {
		t.Errorf("missing tool error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := n.Encode(cancelled, checker(2, 2), asset.FormatPNG, 90); err == nil {
		t.Error("Encode() on cancelled context should fail")
	}
}

func TestNativeDecodeMissing(t *testing.T) {
	_, err := NewNative().Decode(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Decode() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExternalEncoders(t *testing.T) {
	ext := NewExternalEncoder()
	for _, f := range []asset.Format{asset.FormatWebP, asset.FormatAVIF} {
		t.Run(string(f), func(t *testing.T) {
			if !ext.Available(f) {
				t.Skipf("encoder for %s not installed", f)
			}
			data, err := ext.Encode(context.Background(), checker(20, 10), f, 80)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			info, err := Probe(data, f)
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if info.Width != 20 || info.Height != 10 {
				t.Errorf("Probe() = %+v", info)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	ico, err := icon.Build([]icon.Image{{Size: 16, Data: []byte{1}}, {Size: 48, Data: []byte{2}}})
	if err != nil {
		t.Fatal(err)
	}

	avif := make([]byte, 0, 64)
	avif = append(avif, 0, 0, 0, 20)
	avif = append(avif, "ispe"...)
	avif = append(avif, 0, 0, 0, 0)
	avif = binary.BigEndian.AppendUint32(avif, 640)
	avif = binary.BigEndian.AppendUint32(avif, 480)

	tests := []struct {
		name    string
		data    []byte
		format  asset.Format
		w, h    int
		wantErr bool
	}{
		{"svg", []byte(square), asset.FormatSVG, 72, 36, false},
		{"svg viewBox only", []byte(`<svg viewBox="0 0 10.4 20"/>`), asset.FormatSVG, 10, 20, false},
		{"svg without size", []byte(`<svg/>`), asset.FormatSVG, 0, 0, true},
		{"ico", ico, asset.FormatICO, 48, 48, false},
		{"avif", avif, asset.FormatAVIF, 640, 480, false},
		{"avif truncated", avif[:10], asset.FormatAVIF, 0, 0, true},
		{"garbage png", []byte("nope"), asset.FormatPNG, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Probe(tt.data, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if info.Width != tt.w || info.Height != tt.h {
				t.Errorf("Probe() = %dx%d, want %dx%d", info.Width, info.Height, tt.w, tt.h)
			}
			if info.Size != int64(len(tt.data)) {
				t.Errorf("Size = %d", info.Size)
			}
		})
	}
}

func TestProbeFileNormalizesJPG(t *testing.T) {
	data, err := NewNative().Encode(context.Background(), checker(3, 5), asset.FormatJPEG, 80)
	if err != nil {
		t.Fatal(err)
	}
	info, err := ProbeFile(writeFile(t, "photo.JPG", data))
	if err != nil {
		t.Fatalf("ProbeFile: %v", err)
	}
	if info.Format != asset.FormatJPEG || info.Width != 3 || info.Height != 5 {
		t.Errorf("ProbeFile() = %+v", info)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		t.Error("not a jpeg stream")
	}
}

func TestMetadataUsesGivenFormat(t *testing.T) {
	ico, err := icon.Build([]icon.Image{{Size: 16, Data: []byte{1}}, {Size: 32, Data: []byte{2}}})
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "favicon.bin", ico)
	ctx := context.Background()

	info, err := NewNative().Metadata(ctx, path, asset.FormatICO)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if info.Format != asset.FormatICO || info.Width != 32 || info.Height != 32 {
		t.Errorf("Metadata() = %+v", info)
	}

	if _, err := NewNative().Metadata(ctx, path, ""); !errors.Is(err, errors.ErrCodeCodec) {
		t.Errorf("Metadata() by extension error = %v, want CODEC_FAILURE", err)
	}
}
