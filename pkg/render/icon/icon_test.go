package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"slices"
	"testing"

	ico "github.com/sergeymakinen/go-ico"

	"github.com/matzehuels/assetforge/pkg/errors"
)

func TestResolveSizes(t *testing.T) {
	tests := []struct {
		name     string
		explicit []int
		w, h     int
		want     []int
	}{
		{"default fallback", nil, 0, 0, []int{16, 32}},
		{"width", nil, 64, 0, []int{16, 32, 64}},
		{"height only", nil, 0, 48, []int{16, 32, 48}},
		{"requested duplicates default", nil, 16, 16, []int{16, 32}},
		{"explicit sorted", []int{64, 16, 48, 32}, 0, 0, []int{16, 32, 48, 64}},
		{"explicit dedup", []int{32, 16, 32}, 128, 0, []int{16, 32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := slices.Clone(tt.explicit)
			got := ResolveSizes(tt.explicit, tt.w, tt.h)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ResolveSizes() = %v, want %v", got, tt.want)
			}
			if !slices.Equal(in, tt.explicit) {
				t.Error("ResolveSizes() modified its input")
			}
		})
	}
}

func TestValidateSizes(t *testing.T) {
	tests := []struct {
		sizes   []int
		wantErr bool
	}{
		{[]int{16}, false},
		{[]int{1, 255, 256}, false},
		{[]int{257}, true},
		{[]int{0}, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := ValidateSizes(tt.sizes)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSizes(%v) error = %v, wantErr %v", tt.sizes, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidIconSize) {
			t.Errorf("ValidateSizes(%v) code = %v", tt.sizes, errors.GetCode(err))
		}
	}
}

func TestBuildLayout(t *testing.T) {
	images := []Image{
		{Size: 16, Data: bytes.Repeat([]byte{1}, 10)},
		{Size: 32, Data: bytes.Repeat([]byte{2}, 25)},
		{Size: 256, Data: bytes.Repeat([]byte{3}, 7)},
	}

	data, err := Build(images)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got, want := len(data), 6+16*3+10+25+7; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}
	if h := data[:6]; !bytes.Equal(h, []byte{0, 0, 1, 0, 3, 0}) {
		t.Errorf("header = %v", h)
	}

	entries, err := ReadDirectory(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}
	wantOffsets := []uint32{54, 64, 89}
	for i, e := range entries {
		if e.Offset != wantOffsets[i] {
			t.Errorf("entry %d offset = %d, want %d", i, e.Offset, wantOffsets[i])
		}
		if e.Size != uint32(len(images[i].Data)) {
			t.Errorf("entry %d size = %d", i, e.Size)
		}
		if e.Width != images[i].Size || e.Height != images[i].Size {
			t.Errorf("entry %d dims = %dx%d", i, e.Width, e.Height)
		}
		if e.Planes != 1 || e.BitCount != 32 {
			t.Errorf("entry %d planes/bpp = %d/%d", i, e.Planes, e.BitCount)
		}
		payload := data[e.Offset : e.Offset+e.Size]
		if !bytes.Equal(payload, images[i].Data) {
			t.Errorf("entry %d payload mismatch", i)
		}
	}

	// 256 is stored as a zero byte.
	third := data[6+32:]
	if third[0] != 0 || third[1] != 0 {
		t.Errorf("256 entry dims = %d,%d, want 0,0", third[0], third[1])
	}
	if got := binary.LittleEndian.Uint32(third[12:]); got != 89 {
		t.Errorf("raw offset = %d", got)
	}
}

func TestBuildRejectsOversize(t *testing.T) {
	_, err := Build([]Image{{Size: 512, Data: []byte{0}}})
	if !errors.Is(err, errors.ErrCodeInvalidIconSize) {
		t.Errorf("Build() error = %v, want INVALID_ICON_SIZE", err)
	}
}

func TestBuildDecodesWithGoIco(t *testing.T) {
	var images []Image
	for _, s := range []int{16, 32, 48} {
		img := image.NewNRGBA(image.Rect(0, 0, s, s))
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}
		img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		images = append(images, Image{Size: s, Data: buf.Bytes()})
	}

	data, err := Build(images)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	decoded, err := ico.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ico.Decode: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != b.Dy() || !slices.Contains([]int{16, 32, 48}, b.Dx()) {
		t.Errorf("decoded bounds = %v, want one of the embedded sizes", b)
	}
}

func TestReadDirectoryRejectsGarbage(t *testing.T) {
	if _, err := ReadDirectory(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := ReadDirectory(bytes.NewReader([]byte{0, 0, 2, 0, 0, 0})); err == nil {
		t.Error("expected error for cursor container")
	}
}
