package cache

import (
	"github.com/matzehuels/assetforge/pkg/asset"
)

// keyVersion is bumped whenever the rendering of an unchanged input may
// produce different bytes.
const keyVersion = "v1"

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies the encoded bytes of one variant of one source.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs that change the encoded bytes of a
// variant besides the source itself.
type ArtifactKeyOpts struct {
	Variant    asset.Variant
	Quality    int               // effective quality after precedence
	Background *asset.Color      // option-level fallback
	Margin     *asset.Margin     // option-level fallback
	Theme      asset.Theme       // option-level theme
	Monochrome *asset.Monochrome // pipeline default
}

// DefaultKeyer hashes the JSON form of its inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:v1:<sha256>". The overwrite mode is left
// out since it never affects the bytes.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	v := opts.Variant
	v.Overwrite = ""
	return hashKey("artifact:"+keyVersion, sourceHash, v, opts.Quality, opts.Background, opts.Margin, opts.Theme, opts.Monochrome)
}
