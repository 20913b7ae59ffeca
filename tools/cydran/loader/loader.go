// Package loader decides which stylesheets and scripts a page needs and
// emits their tags, either against the Vite dev server or against the
// hashed files listed in the build manifest.
//
// A Loader is request scoped: globals and script configurations declared on
// it apply to the Enqueue calls that follow, then the Loader is discarded.
// The manifest it reads is shared and never written after it is loaded.
//
//	l := loader.New(loader.Config{Env: env, Source: src, Manifest: m, DistURL: dist, Output: page})
//	l.EnqueueGlobal("Shared/variables.css").
//		EnqueueScript("assets/js/swiper.js", scriptconfig.DeferOnly()).
//		Enqueue("Page", "Home", ctx)
package loader

import (
	"io/fs"
	"log/slog"
	"strings"

	"github.com/MrLanzelord/cydran/tools/cydran/assetpath"
	"github.com/MrLanzelord/cydran/tools/cydran/common"
	"github.com/MrLanzelord/cydran/tools/cydran/manifest"
	"github.com/MrLanzelord/cydran/tools/cydran/resolver"
	"github.com/MrLanzelord/cydran/tools/cydran/scriptconfig"
	"github.com/MrLanzelord/cydran/tools/cydran/tags"
)

// ViteClientHandle is the handle of the dev client bootstrap script.
const ViteClientHandle = "vite-client"

// Env is the host configuration the loader reads.
type Env interface {
	IsDev() bool
	Get(key, fallback string) string
}

// Config holds the collaborators of a Loader.
type Config struct {
	Env      Env
	Source   fs.FS // theme source root (<theme>/src)
	Manifest *manifest.Manifest
	Resolver *resolver.Resolver // defaults to resolver.New(Source)
	DistURL  string             // base URL of the built files
	Output   tags.Emitter
	Logger   *slog.Logger
}

// Loader registers convention, global and page-declared assets for a page.
type Loader struct {
	env      Env
	source   fs.FS
	manifest *manifest.Manifest
	resolver *resolver.Resolver
	distURL  string
	out      tags.Emitter
	logger   *slog.Logger

	globals       []string
	globalSet     map[string]bool
	scriptConfigs map[string]scriptconfig.Config
}

// New returns a Loader for one request.
func New(cfg Config) *Loader {
	r := cfg.Resolver
	if r == nil {
		r = resolver.New(cfg.Source)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := cfg.Output
	if out == nil {
		out = tags.NewSet()
	}
	return &Loader{
		env:           cfg.Env,
		source:        cfg.Source,
		manifest:      cfg.Manifest,
		resolver:      r,
		distURL:       strings.TrimRight(cfg.DistURL, "/"),
		out:           out,
		logger:        logger,
		globalSet:     make(map[string]bool),
		scriptConfigs: make(map[string]scriptconfig.Config),
	}
}

// EnqueueGlobal declares an asset for every page enqueued by l. The path is
// normalized under UI/; a file that does not exist is ignored.
func (l *Loader) EnqueueGlobal(relativePath string) *Loader {
	l.addGlobal(relativePath)
	return l
}

// EnqueueGlobals calls EnqueueGlobal for each path in order.
func (l *Loader) EnqueueGlobals(paths []string) *Loader {
	for _, p := range paths {
		l.addGlobal(p)
	}
	return l
}

// EnqueueScript declares a global script and how it is delivered. A later
// call for the same asset replaces the configuration.
func (l *Loader) EnqueueScript(relativePath string, cfg scriptconfig.Config) *Loader {
	if key, ok := l.addGlobal(relativePath); ok {
		l.scriptConfigs[key] = cfg
	}
	return l
}

func (l *Loader) addGlobal(relativePath string) (string, bool) {
	key := assetpath.Normalize(relativePath)
	if !assetpath.FileExists(l.source, key) {
		l.logger.Debug("skipping global asset", "asset", key, "reason", "missing source file")
		return key, false
	}
	if !l.globalSet[key] {
		l.globalSet[key] = true
		l.globals = append(l.globals, key)
	}
	return key, true
}

// Globals returns the declared global assets in declaration order.
func (l *Loader) Globals() []string {
	return append([]string(nil), l.globals...)
}

// ScriptConfig returns the delivery configuration used for key.
func (l *Loader) ScriptConfig(key string) scriptconfig.Config {
	if cfg, ok := l.scriptConfigs[key]; ok {
		return cfg
	}
	return scriptconfig.Module()
}

// Resolve returns the assets a page needs: convention assets, then globals,
// then the context's extra assets, then its explicit styles and scripts.
// Duplicates are dropped, keeping the first occurrence.
func (l *Loader) Resolve(category, key string, ctx any) []string {
	assets := l.resolver.Resolve(category, key)
	assets = append(assets, l.globals...)
	assets = append(assets, contextAssets(ctx)...)
	return dedup(assets)
}

// Enqueue resolves the page's assets and emits their tags.
func (l *Loader) Enqueue(category, key string, ctx any) {
	assets := l.Resolve(category, key, ctx)
	if l.env != nil && l.env.IsDev() {
		l.enqueueDevAssets(assets)
		return
	}
	l.enqueueManifestAssets(assets)
}

func (l *Loader) enqueueDevAssets(assets []string) {
	host := common.DefaultDevHost
	if l.env != nil {
		host = l.env.Get(common.DevHostKey, common.DefaultDevHost)
	}
	host = strings.TrimRight(host, "/")

	client := tags.ModuleScript(ViteClientHandle, host+"/@vite/client")
	client.Position = tags.Head
	l.out.Emit(client)

	for _, key := range assets {
		handle := assetpath.Sanitize(key)
		url := host + "/" + key

		if strings.HasSuffix(key, ".css") {
			l.out.Emit(tags.Style(handle, url))
		}
		if strings.HasSuffix(key, ".ts") || strings.HasSuffix(key, ".js") {
			l.emitScript(handle, url, l.ScriptConfig(key))
		}
	}
}

func (l *Loader) enqueueManifestAssets(assets []string) {
	for _, key := range assets {
		entry, ok := l.manifest.Lookup(key)
		if !ok {
			l.logger.Debug("skipping asset", "asset", key, "reason", "not in manifest")
			continue
		}

		handle := assetpath.Sanitize(key)
		url := l.distURL + "/" + entry.File

		if strings.HasSuffix(url, ".css") {
			l.out.Emit(tags.Style(handle, url))
		}
		if strings.HasSuffix(url, ".js") {
			l.emitScript(handle, url, l.ScriptConfig(key))
		}
	}
}

func (l *Loader) emitScript(handle, url string, cfg scriptconfig.Config) {
	if cfg.IsModule() {
		l.out.Emit(tags.ModuleScript(handle, url))
		return
	}
	tag := tags.ClassicScript(handle, url)
	if cfg.Async() {
		tag = tags.AddAttr(tag, "async")
	}
	if cfg.Defer() {
		tag = tags.AddAttr(tag, "defer")
	}
	l.out.Emit(tag)
}

func dedup(assets []string) []string {
	seen := make(map[string]bool, len(assets))
	var out []string
	for _, a := range assets {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
