// Package resolver finds the assets a page provides by folder convention:
// a file dropped at <Category>/<Key>/UI/<key>.ts (or .css, or main.ts,
// main.css) is picked up without any declaration.
package resolver

import (
	"io/fs"
	"strings"

	"github.com/MrLanzelord/cydran/tools/cydran/assetpath"
)

// Resolver checks convention candidates against the source filesystem.
type Resolver struct {
	fsys fs.FS
}

// New returns a Resolver over the theme's source root.
func New(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// Candidates returns every path the convention allows for a page, in
// resolution order, whether or not it exists.
func Candidates(category, key string) []string {
	baseDir := category + "/" + key + "/UI"
	lower := strings.ToLower(key)
	return []string{
		baseDir + "/" + lower + ".ts",
		baseDir + "/" + lower + ".css",
		baseDir + "/main.ts",
		baseDir + "/main.css",
	}
}

// Resolve returns the candidates for the page that exist, in candidate order.
func (r *Resolver) Resolve(category, key string) []string {
	var assets []string
	for _, relativePath := range Candidates(category, key) {
		if assetpath.FileExists(r.fsys, relativePath) {
			assets = append(assets, relativePath)
		}
	}
	return assets
}
