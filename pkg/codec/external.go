package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/errors"
)

// ExternalEncoder produces WebP and AVIF files by shelling out to cwebp and
// avifenc. The canvas is handed over as a lossless PNG in a scratch
// directory.
type ExternalEncoder struct {
	CWebP   string // path or name of cwebp
	AVIFEnc string // path or name of avifenc
	TempDir string // scratch directory; empty means os.TempDir
}

// NewExternalEncoder returns an encoder that finds the tools on PATH.
func NewExternalEncoder() *ExternalEncoder {
	return &ExternalEncoder{CWebP: "cwebp", AVIFEnc: "avifenc"}
}

var installHints = map[asset.Format]string{
	asset.FormatWebP: "webp export requires cwebp. Install with:\n  macOS:  brew install webp\n  Linux:  apt install webp",
	asset.FormatAVIF: "avif export requires avifenc. Install with:\n  macOS:  brew install libavif\n  Linux:  apt install libavif-bin",
}

// Available reports whether the tool for format can be found.
func (e *ExternalEncoder) Available(format asset.Format) bool {
	_, err := exec.LookPath(e.tool(format))
	return err == nil
}

func (e *ExternalEncoder) tool(format asset.Format) string {
	if format == asset.FormatAVIF {
		return e.AVIFEnc
	}
	return e.CWebP
}

// Encode writes img through the external tool for format.
func (e *ExternalEncoder) Encode(ctx context.Context, img image.Image, format asset.Format, quality int) ([]byte, error) {
	if format != asset.FormatWebP && format != asset.FormatAVIF {
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "external encoder cannot produce %s", format)
	}
	tool := e.tool(format)
	if _, err := exec.LookPath(tool); err != nil {
		return nil, errors.New(errors.ErrCodeCodec, "%s", installHints[format])
	}

	dir, err := os.MkdirTemp(e.TempDir, "assetforge-enc-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "create scratch dir")
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out."+string(format))

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "encode intermediate png")
	}
	if err := os.WriteFile(in, pngBuf.Bytes(), 0o600); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "write intermediate png")
	}

	q := strconv.Itoa(quality)
	var args []string
	if format == asset.FormatWebP {
		args = []string{"-quiet", "-q", q, "-alpha_q", "100", in, "-o", out}
	} else {
		args = []string{"-q", q, in, out}
	}

	cmd := exec.CommandContext(ctx, tool, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, fmt.Errorf("%v: %s", err, errBuf.String()), "%s", tool)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "read %s output", tool)
	}
	return data, nil
}
