// Package check verifies that every asset a page provides by convention has
// a manifest entry, so production pages do not silently lose their styles
// or scripts after a build.
package check

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrLanzelord/cydran/tools/cydran/manifest"
	"github.com/MrLanzelord/cydran/tools/cydran/resolver"
)

// Args holds the arguments for the check subcommand.
type Args struct {
	Source      fs.FS              // theme source root
	Manifest    *manifest.Manifest // shared, read-only
	Pages       []string           // "Category/Key"; discovered when empty
	Concurrency int                // defaults to runtime.NumCPU()
}

// PageReport is the result for one page.
type PageReport struct {
	Category string
	Key      string
	Assets   []string // convention assets found in the source tree
	Missing  []string // assets without a manifest entry
}

// Report is the result of a check run, sorted by page.
type Report struct {
	Pages []PageReport
}

// Missing returns the number of assets without a manifest entry.
func (r Report) Missing() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Missing)
	}
	return n
}

// WriteTo writes one line per page and one indented line per missing asset.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, p := range r.Pages {
		status := "ok"
		if len(p.Missing) > 0 {
			status = fmt.Sprintf("%d missing", len(p.Missing))
		}
		fmt.Fprintf(&b, "%s/%s: %d assets, %s\n", p.Category, p.Key, len(p.Assets), status)
		for _, m := range p.Missing {
			fmt.Fprintf(&b, "  missing %s\n", m)
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// DiscoverPages returns "Category/Key" for every <Category>/<Key>/UI
// directory in fsys, sorted. The shared UI directory at the root is not a page.
func DiscoverPages(fsys fs.FS) ([]string, error) {
	dirs, err := fs.Glob(fsys, "*/*/UI")
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	var pages []string
	for _, d := range dirs {
		info, err := fs.Stat(fsys, d)
		if err != nil || !info.IsDir() {
			continue
		}
		page := path.Dir(d)
		if strings.HasPrefix(page, "UI/") {
			continue
		}
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages, nil
}

// Run checks each page concurrently against the manifest.
func Run(ctx context.Context, args Args) (Report, error) {
	pages := args.Pages
	if len(pages) == 0 {
		discovered, err := DiscoverPages(args.Source)
		if err != nil {
			return Report{}, err
		}
		pages = discovered
	}

	type page struct{ category, key string }
	parsed := make([]page, 0, len(pages))
	for _, p := range pages {
		category, key, ok := strings.Cut(strings.Trim(p, "/"), "/")
		if !ok || category == "" || key == "" || strings.Contains(key, "/") {
			return Report{}, fmt.Errorf("invalid page %q (expected Category/Key)", p)
		}
		parsed = append(parsed, page{category, key})
	}

	limit := args.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	r := resolver.New(args.Source)
	results := make([]PageReport, len(parsed))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range parsed {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report := PageReport{Category: p.category, Key: p.key}
			report.Assets = r.Resolve(p.category, p.key)
			for _, asset := range report.Assets {
				if _, ok := args.Manifest.Lookup(asset); !ok {
					report.Missing = append(report.Missing, asset)
				}
			}
			// Each goroutine owns its slot.
			results[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Category != results[j].Category {
			return results[i].Category < results[j].Category
		}
		return results[i].Key < results[j].Key
	})
	return Report{Pages: results}, nil
}
