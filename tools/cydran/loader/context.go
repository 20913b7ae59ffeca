package loader

import (
	"github.com/MrLanzelord/cydran/tools/cydran/assetpath"
)

// ExtraAssetProvider is implemented by page contexts that declare assets
// beyond those found by folder convention, such as shared styles or
// external libraries.
type ExtraAssetProvider interface {
	ExtraAssets() []string
}

// AssetProvider is implemented by page contexts that declare their
// stylesheets and scripts explicitly.
type AssetProvider interface {
	CSS() []string
	JS() []string
}

// StaticAssets is a page context with a fixed set of declared assets.
type StaticAssets struct {
	Extra   []string
	Styles  []string
	Scripts []string
}

func (s StaticAssets) ExtraAssets() []string { return s.Extra }
func (s StaticAssets) CSS() []string         { return s.Styles }
func (s StaticAssets) JS() []string          { return s.Scripts }

// contextAssets returns the keys declared by ctx: extra assets first, then
// explicit styles, then explicit scripts. Contexts implementing neither
// interface declare nothing.
func contextAssets(ctx any) []string {
	var paths []string
	if p, ok := ctx.(ExtraAssetProvider); ok {
		paths = append(paths, p.ExtraAssets()...)
	}
	if p, ok := ctx.(AssetProvider); ok {
		paths = append(paths, p.CSS()...)
		paths = append(paths, p.JS()...)
	}

	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		if k := assetpath.Key(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
