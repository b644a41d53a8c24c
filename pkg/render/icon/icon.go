// Package icon writes and reads legacy multi-resolution icon containers.
//
// The container is a 6-byte header, one 16-byte directory entry per image
// and the image payloads concatenated in directory order. Payloads are PNG
// streams; the writer does not inspect them.
package icon

import (
	"bytes"
	"encoding/binary"
	"io"
	"slices"

	"github.com/matzehuels/assetforge/pkg/errors"
)

const (
	headerSize = 6
	entrySize  = 16

	// MaxSize is the largest edge a directory entry can describe.
	MaxSize = 256
)

// DefaultSizes are always included when no explicit size list is given.
var DefaultSizes = []int{16, 32}

// ResolveSizes returns the sizes to embed. An explicit list is sorted and
// de-duplicated; otherwise the defaults are combined with the requested
// size, falling back to 32 when neither width nor height is set.
func ResolveSizes(explicit []int, width, height int) []int {
	var sizes []int
	if len(explicit) > 0 {
		sizes = slices.Clone(explicit)
	} else {
		requested := width
		if requested == 0 {
			requested = height
		}
		if requested == 0 {
			requested = 32
		}
		sizes = append(slices.Clone(DefaultSizes), requested)
	}
	slices.Sort(sizes)
	return slices.Compact(sizes)
}

// ValidateSizes rejects sizes the directory cannot describe.
func ValidateSizes(sizes []int) error {
	if len(sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidIconSize, "icon needs at least one size")
	}
	for _, s := range sizes {
		if s < 1 || s > MaxSize {
			return errors.New(errors.ErrCodeInvalidIconSize, "icon size %d out of range 1..%d", s, MaxSize)
		}
	}
	return nil
}

// Image is one square payload of the container.
type Image struct {
	Size int
	Data []byte
}

// Entry is a decoded directory entry.
type Entry struct {
	Width, Height int
	Planes        int
	BitCount      int
	Size          uint32
	Offset        uint32
}

// Build assembles the container. Sizes of 256 are stored as 0 in the
// directory, the conventional encoding for the largest icon size.
func Build(images []Image) ([]byte, error) {
	sizes := make([]int, len(images))
	for i, img := range images {
		sizes[i] = img.Size
	}
	if err := ValidateSizes(sizes); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	n := len(images)
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	w(uint16(0)) // reserved
	w(uint16(1)) // type: icon
	w(uint16(n))

	offset := uint32(headerSize + entrySize*n)
	for _, img := range images {
		dim := uint8(img.Size % MaxSize)
		buf.WriteByte(dim)
		buf.WriteByte(dim)
		buf.WriteByte(0) // palette
		buf.WriteByte(0) // reserved
		w(uint16(1))     // planes
		w(uint16(32))    // bits per pixel
		w(uint32(len(img.Data)))
		w(offset)
		offset += uint32(len(img.Data))
	}
	for _, img := range images {
		buf.Write(img.Data)
	}
	return buf.Bytes(), nil
}

// ReadDirectory decodes the header and directory of a container. A stored
// dimension of 0 is reported as 256.
func ReadDirectory(r io.Reader) ([]Entry, error) {
	var hdr struct {
		Reserved, Type, Count uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "read icon header")
	}
	if hdr.Reserved != 0 || hdr.Type != 1 {
		return nil, errors.New(errors.ErrCodeCodec, "not an icon container")
	}

	entries := make([]Entry, 0, hdr.Count)
	for i := 0; i < int(hdr.Count); i++ {
		var raw struct {
			Width, Height, Colors, Reserved uint8
			Planes, BitCount                uint16
			Size, Offset                    uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCodec, err, "read icon entry %d", i)
		}
		entries = append(entries, Entry{
			Width:    dimension(raw.Width),
			Height:   dimension(raw.Height),
			Planes:   int(raw.Planes),
			BitCount: int(raw.BitCount),
			Size:     raw.Size,
			Offset:   raw.Offset,
		})
	}
	return entries, nil
}

func dimension(b uint8) int {
	if b == 0 {
		return MaxSize
	}
	return int(b)
}
