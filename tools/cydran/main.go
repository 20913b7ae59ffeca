package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thought-machine/go-flags"

	"github.com/MrLanzelord/cydran/tools/cydran/check"
	"github.com/MrLanzelord/cydran/tools/cydran/common"
	"github.com/MrLanzelord/cydran/tools/cydran/loader"
	"github.com/MrLanzelord/cydran/tools/cydran/manifest"
	"github.com/MrLanzelord/cydran/tools/cydran/scriptconfig"
	"github.com/MrLanzelord/cydran/tools/cydran/tags"
)

var opts = struct {
	Usage string

	Tags struct {
		Root     string   `short:"r" long:"root" default:"." description:"Theme root (contains src/ and public/dist/)"`
		Category string   `short:"c" long:"category" required:"true" description:"Page category, e.g. Page or Single"`
		Key      string   `short:"k" long:"key" required:"true" description:"Page key, e.g. Inicio"`
		Mode     string   `long:"mode" description:"Override ENVIRONMENT (development, production, staging)"`
		EnvFile  string   `long:"env-file" description:"Base .env file, defaults to <root>/.env"`
		DevHost  string   `long:"dev-host" description:"Override VITE_DEV_HOST"`
		DistURL  string   `long:"dist-url" default:"/wp-content/themes/cydran/public/dist" description:"Base URL of the built files"`
		Manifest string   `long:"manifest" description:"Path to manifest.json, defaults to <root>/public/dist/.vite/manifest.json"`
		Global   []string `short:"g" long:"global" description:"Global asset under src/UI (repeatable)"`
		Script   []string `short:"s" long:"script" description:"Global script with delivery preset, path=preset (repeatable)"`
		Extra    []string `long:"extra" description:"Extra page asset, relative to src/ (repeatable)"`
		CSS      []string `long:"css" description:"Explicit page stylesheet, relative to src/ (repeatable)"`
		JS       []string `long:"js" description:"Explicit page script, relative to src/ (repeatable)"`
		HTML     string   `long:"html" description:"HTML document to inject the tags into"`
		Verbose  bool     `short:"v" long:"verbose" description:"Log skipped assets"`
	} `command:"tags" alias:"t" description:"Resolve a page's assets and print their tags"`

	Check struct {
		Root        string   `short:"r" long:"root" default:"." description:"Theme root (contains src/ and public/dist/)"`
		Manifest    string   `long:"manifest" description:"Path to manifest.json, defaults to <root>/public/dist/.vite/manifest.json"`
		Page        []string `short:"p" long:"page" description:"Page to check as Category/Key (repeatable, default: all)"`
		Concurrency int      `short:"j" long:"jobs" description:"Pages checked in parallel (default: number of CPUs)"`
		Verbose     bool     `short:"v" long:"verbose" description:"Verbose logging"`
	} `command:"check" alias:"c" description:"Verify that every convention asset has a manifest entry"`
}{
	Usage: `
cydran resolves the stylesheets and scripts of a theme page.

It provides two operations:
  - tags:  Print the tags a page gets in the current environment mode
  - check: Verify the build manifest covers every page's convention assets
`,
}

var subCommands = map[string]func() int{
	"tags": func() int {
		if err := runTags(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return 0
	},
	"check": func() int {
		missing, err := runCheck(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		if missing > 0 {
			return 1
		}
		return 0
	},
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func manifestPath(root, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(root, filepath.FromSlash(manifest.DefaultPath))
}

// loadManifest treats an unreadable or malformed manifest as absent.
func loadManifest(path string, logger *slog.Logger) *manifest.Manifest {
	m, err := manifest.Load(path)
	if err != nil {
		logger.Warn("ignoring manifest", "path", path, "error", err)
	}
	return m
}

func environment(root string) (*common.Environment, error) {
	a := opts.Tags
	envFile := a.EnvFile
	if envFile == "" {
		envFile = filepath.Join(root, ".env")
	}

	// The mode decides which .env variants apply, so read it first.
	base := common.FromOS()
	mode := a.Mode
	if mode == "" {
		fileValues, err := common.LoadEnvFiles(envFile, "")
		if err != nil {
			return nil, err
		}
		mode = base.Get(common.ModeKey, "")
		if mode == "" {
			mode = fileValues[common.ModeKey]
		}
	}

	fileValues, err := common.LoadEnvFiles(envFile, mode)
	if err != nil {
		return nil, err
	}
	// Process environment wins over .env files, flags win over both.
	env := common.NewEnvironment(fileValues).Merge(osValues(base))
	overrides := map[string]string{}
	if a.Mode != "" {
		overrides[common.ModeKey] = a.Mode
	}
	if a.DevHost != "" {
		overrides[common.DevHostKey] = a.DevHost
	}
	return env.Merge(overrides), nil
}

func osValues(env *common.Environment) map[string]string {
	values := map[string]string{}
	for _, k := range []string{common.ModeKey, common.DevHostKey} {
		if v := env.Get(k, ""); v != "" {
			values[k] = v
		}
	}
	return values
}

func parseScriptFlag(arg string) (string, scriptconfig.Config, error) {
	path, preset, ok := strings.Cut(arg, "=")
	if !ok {
		return arg, scriptconfig.Module(), nil
	}
	cfg, err := scriptconfig.Parse(preset)
	if err != nil {
		return "", scriptconfig.Config{}, fmt.Errorf("invalid --script %q: %w", arg, err)
	}
	return path, cfg, nil
}

func runTags(w io.Writer) error {
	a := opts.Tags
	logger := newLogger(a.Verbose)

	env, err := environment(a.Root)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	page := tags.NewSet()
	l := loader.New(loader.Config{
		Env:      env,
		Source:   os.DirFS(filepath.Join(a.Root, "src")),
		Manifest: loadManifest(manifestPath(a.Root, a.Manifest), logger),
		DistURL:  a.DistURL,
		Output:   page,
		Logger:   logger,
	})

	l.EnqueueGlobals(a.Global)
	for _, arg := range a.Script {
		path, cfg, err := parseScriptFlag(arg)
		if err != nil {
			return err
		}
		l.EnqueueScript(path, cfg)
	}
	l.Enqueue(a.Category, a.Key, loader.StaticAssets{Extra: a.Extra, Styles: a.CSS, Scripts: a.JS})

	if a.HTML != "" {
		doc, err := os.ReadFile(a.HTML)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", a.HTML, err)
		}
		_, err = io.WriteString(w, page.Inject(string(doc)))
		return err
	}
	_, err = io.WriteString(w, page.Head()+page.Footer())
	return err
}

func runCheck(w io.Writer) (int, error) {
	a := opts.Check
	logger := newLogger(a.Verbose)

	src := filepath.Join(a.Root, "src")
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return 0, fmt.Errorf("no source directory at %s", src)
	}

	report, err := check.Run(context.Background(), check.Args{
		Source:      os.DirFS(src),
		Manifest:    loadManifest(manifestPath(a.Root, a.Manifest), logger),
		Pages:       a.Page,
		Concurrency: a.Concurrency,
	})
	if err != nil {
		return 0, err
	}
	if _, err := report.WriteTo(w); err != nil {
		return 0, err
	}
	logger.Debug("check finished", "pages", len(report.Pages), "missing", report.Missing())
	return report.Missing(), nil
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.LongDescription = opts.Usage
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if p.Active == nil {
		p.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	os.Exit(subCommands[p.Active.Name]())
}
