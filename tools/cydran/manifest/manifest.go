// Package manifest reads the build manifest written by the bundler
// (Vite's .vite/manifest.json) and maps source asset keys to their hashed
// output files.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// DefaultPath is where the bundler writes the manifest, relative to the theme root.
const DefaultPath = "public/dist/.vite/manifest.json"

// ErrMalformed is returned by Load and Parse when the manifest is not a JSON
// object of entries.
var ErrMalformed = errors.New("malformed manifest")

// Entry is the output record the bundler wrote for one source asset.
type Entry struct {
	File    string   `json:"file"`
	Src     string   `json:"src,omitempty"`
	Name    string   `json:"name,omitempty"`
	IsEntry bool     `json:"isEntry,omitempty"`
	CSS     []string `json:"css,omitempty"`
	Imports []string `json:"imports,omitempty"`
}

// Manifest maps normalized source keys to their entries. It is never
// modified after Load or Parse, so it can be shared between goroutines.
// A nil *Manifest behaves as an empty one.
type Manifest struct {
	entries map[string]Entry
}

// Empty returns a manifest with no entries.
func Empty() *Manifest {
	return &Manifest{entries: map[string]Entry{}}
}

// Load reads the manifest at path. A missing file is not an error and
// yields an empty manifest, as does a file that cannot be read or parsed;
// in those two cases the error is returned alongside it.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return m, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest JSON.
func Parse(data []byte) (*Manifest, error) {
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if entries == nil {
		// "null" decodes without error.
		entries = map[string]Entry{}
	}
	return &Manifest{entries: entries}, nil
}

// Lookup returns the entry for key.
func (m *Manifest) Lookup(key string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[key]
	return e, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the source keys in sorted order.
func (m *Manifest) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
