// Package assetpath normalizes theme asset paths and derives the handles
// used to register their tags.
package assetpath

import (
	"io/fs"
	"strings"
)

// Prefix is the directory under the source root that holds shared UI assets.
const Prefix = "UI/"

// HandlePrefix namespaces every handle produced by Sanitize.
const HandlePrefix = "asset-loader--"

// Normalize converts a relative asset path to its key under the UI root.
// 'Shared/pico.css' → 'UI/Shared/pico.css'
func Normalize(relativePath string) string {
	p := Key(relativePath)
	if strings.HasPrefix(p, Prefix) {
		return p
	}
	return Prefix + p
}

// Key converts a source-relative path to a key without adding the UI prefix.
// Paths declared by page contexts and resolved by convention use this form.
func Key(relativePath string) string {
	return strings.TrimLeft(strings.ReplaceAll(relativePath, `\`, "/"), "/")
}

// FullPath returns the filesystem path of a normalized asset.
func FullPath(themeRoot, normalized string) string {
	return strings.TrimRight(themeRoot, "/") + "/src/" + normalized
}

// Exists reports whether the asset named by relativePath exists in the
// source filesystem after normalization.
func Exists(fsys fs.FS, relativePath string) bool {
	return FileExists(fsys, Normalize(relativePath))
}

// FileExists reports whether key names a regular file in fsys. Invalid
// names, directories and stat errors all report false.
func FileExists(fsys fs.FS, key string) bool {
	if fsys == nil || !fs.ValidPath(key) {
		return false
	}
	info, err := fs.Stat(fsys, key)
	return err == nil && !info.IsDir()
}

const hexDigits = "0123456789abcdef"

// Sanitize turns a normalized asset key into a tag handle.
// 'UI/Shared/pico.css' → 'asset-loader--UI-Shared-pico_css'
//
// Letters and digits are kept as is, '/' becomes '-', '.' becomes '_'
// and any other byte is written as '~' followed by two hex digits. No code
// is a prefix of another, so distinct keys never share a handle.
func Sanitize(normalized string) string {
	var b strings.Builder
	b.Grow(len(HandlePrefix) + len(normalized))
	b.WriteString(HandlePrefix)
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '/':
			b.WriteByte('-')
		case c == '.':
			b.WriteByte('_')
		default:
			b.WriteByte('~')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}
	return b.String()
}
