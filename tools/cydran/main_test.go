package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrLanzelord/cydran/tools/cydran/scriptconfig"
)

func writeTheme(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestParseScriptFlag(t *testing.T) {
	tests := []struct {
		arg     string
		path    string
		cfg     scriptconfig.Config
		wantErr bool
	}{
		{"assets/js/swiper.js=legacy", "assets/js/swiper.js", scriptconfig.Legacy(), false},
		{"Shared/app.ts", "Shared/app.ts", scriptconfig.Module(), false},
		{"a.js=defer", "a.js", scriptconfig.DeferOnly(), false},
		{"a.js=sometimes", "", scriptconfig.Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			path, cfg, err := parseScriptFlag(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseScriptFlag(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if path != tt.path || cfg != tt.cfg {
				t.Errorf("parseScriptFlag(%q) = %q, %v, want %q, %v", tt.arg, path, cfg, tt.path, tt.cfg)
			}
		})
	}
}

func TestRunTagsProduction(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".env":                          "ENVIRONMENT=production\n",
		"src/Page/Inicio/UI/inicio.ts":  "export {}",
		"src/Page/Inicio/UI/inicio.css": "main{}",
		"src/UI/Shared/variables.css":   ":root{}",
		"src/UI/Shared/legacy.js":       "var x",
		"public/dist/.vite/manifest.json": `{
			"Page/Inicio/UI/inicio.ts": {"file": "theme/inicio.ts.aaaa.js"},
			"Page/Inicio/UI/inicio.css": {"file": "theme/inicio.bbbb.css"},
			"UI/Shared/variables.css": {"file": "theme/variables.cccc.css"},
			"UI/Shared/legacy.js": {"file": "theme/legacy.dddd.js"}
		}`,
	})
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("VITE_DEV_HOST", "")

	opts.Tags.Root = root
	opts.Tags.Category = "Page"
	opts.Tags.Key = "Inicio"
	opts.Tags.Mode = ""
	opts.Tags.DistURL = "/dist/"
	opts.Tags.Global = []string{"Shared/variables.css", "Shared/typography.css"}
	opts.Tags.Script = []string{"Shared/legacy.js=legacy"}
	t.Cleanup(func() { opts.Tags.Global, opts.Tags.Script = nil, nil })

	var buf bytes.Buffer
	if err := runTags(&buf); err != nil {
		t.Fatalf("runTags: %v", err)
	}
	want := strings.Join([]string{
		`<link rel="stylesheet" id="asset-loader--Page-Inicio-UI-inicio_css-css" href="/dist/theme/inicio.bbbb.css">`,
		`<link rel="stylesheet" id="asset-loader--UI-Shared-variables_css-css" href="/dist/theme/variables.cccc.css">`,
		`<script type="module" src="/dist/theme/inicio.ts.aaaa.js" id="asset-loader--Page-Inicio-UI-inicio_ts-js"></script>`,
		`<script defer async src="/dist/theme/legacy.dddd.js" id="asset-loader--UI-Shared-legacy_js-js"></script>`,
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("runTags output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRunTagsDevelopmentFromEnvFile(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".env":                      "ENVIRONMENT=development\n",
		".env.development":          "VITE_DEV_HOST=http://theme.test:5173\n",
		"src/Page/Blog/UI/main.css": "main{}",
		"page.html":                 "<html><head></head><body></body></html>",
	})
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("VITE_DEV_HOST", "")

	opts.Tags.Root = root
	opts.Tags.Category = "Page"
	opts.Tags.Key = "Blog"
	opts.Tags.Mode = ""
	opts.Tags.HTML = filepath.Join(root, "page.html")
	t.Cleanup(func() { opts.Tags.HTML = "" })

	var buf bytes.Buffer
	if err := runTags(&buf); err != nil {
		t.Fatalf("runTags: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `src="http://theme.test:5173/@vite/client"`) {
		t.Errorf("expected the dev client from the mode-specific .env, got:\n%s", out)
	}
	if !strings.Contains(out, "href=\"http://theme.test:5173/Page/Blog/UI/main.css\">\n</head>") {
		t.Errorf("expected the style injected before </head>, got:\n%s", out)
	}
}

func TestRunTagsModeFlagOverrides(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".env":                      "ENVIRONMENT=production\n",
		"src/Page/Blog/UI/main.css": "main{}",
	})
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("VITE_DEV_HOST", "")

	opts.Tags.Root = root
	opts.Tags.Category = "Page"
	opts.Tags.Key = "Blog"
	opts.Tags.Mode = "development"
	opts.Tags.DevHost = "http://flag:1234"
	t.Cleanup(func() { opts.Tags.Mode, opts.Tags.DevHost = "", "" })

	var buf bytes.Buffer
	if err := runTags(&buf); err != nil {
		t.Fatalf("runTags: %v", err)
	}
	if !strings.Contains(buf.String(), "http://flag:1234/Page/Blog/UI/main.css") {
		t.Errorf("expected flags to override .env, got:\n%s", buf.String())
	}
}

func TestRunCheck(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"src/Page/Inicio/UI/inicio.ts": "export {}",
		"src/Page/Blog/UI/blog.css":    "main{}",
		"public/dist/.vite/manifest.json": `{
			"Page/Inicio/UI/inicio.ts": {"file": "theme/inicio.ts.aaaa.js"}
		}`,
	})
	opts.Check.Root = root

	var buf bytes.Buffer
	missing, err := runCheck(&buf)
	if err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}
	if !strings.Contains(buf.String(), "missing Page/Blog/UI/blog.css") {
		t.Errorf("expected the unmapped asset to be reported, got:\n%s", buf.String())
	}
}

func TestRunCheckNoSource(t *testing.T) {
	opts.Check.Root = t.TempDir()
	if _, err := runCheck(&bytes.Buffer{}); err == nil {
		t.Error("expected an error without a src directory")
	}
}
