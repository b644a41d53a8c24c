package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/matzehuels/assetforge/pkg/errors"
)

var ispeTag = []byte("ispe")

// avifDimensions reads the first image spatial extents property of an AVIF
// file. The property is a full box: 4 bytes of version and flags followed
// by big-endian width and height.
func avifDimensions(data []byte) (int, int, error) {
	i := bytes.Index(data, ispeTag)
	if i < 4 || len(data) < i+4+12 {
		return 0, 0, errors.New(errors.ErrCodeCodec, "avif: no ispe property")
	}
	body := data[i+4+4:]
	w := binary.BigEndian.Uint32(body[0:4])
	h := binary.BigEndian.Uint32(body[4:8])
	if w == 0 || h == 0 {
		return 0, 0, errors.New(errors.ErrCodeCodec, "avif: zero image extents")
	}
	return int(w), int(h), nil
}
