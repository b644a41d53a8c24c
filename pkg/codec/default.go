//go:build !vips

package codec

// Default returns the codec used when none is configured.
func Default() Codec { return NewNative() }
