// Package scriptconfig describes how a script tag is emitted: as an ES
// module or as a classic script, optionally async and/or deferred.
//
// A Config is a value. WithAsync and WithDefer return modified copies, so a
// Config handed to the loader can never be changed behind its back.
package scriptconfig

import (
	"fmt"
	"strings"
)

// Mode selects between module and classic script emission.
type Mode int

const (
	// ModeModule emits <script type="module">.
	ModeModule Mode = iota
	// ModeClassic emits a plain <script>.
	ModeClassic
)

func (m Mode) String() string {
	if m == ModeClassic {
		return "classic"
	}
	return "module"
}

// Config is the delivery configuration of one script. The zero value is
// equal to Module().
type Config struct {
	mode     Mode
	async    bool
	deferred bool
}

// Module returns the configuration for ES module scripts.
func Module() Config { return Config{mode: ModeModule} }

// Classic returns the configuration for classic scripts.
func Classic() Config { return Config{mode: ModeClassic} }

// WithAsync returns a copy of c with async set.
func (c Config) WithAsync() Config {
	c.async = true
	return c
}

// WithDefer returns a copy of c with defer set.
func (c Config) WithDefer() Config {
	c.deferred = true
	return c
}

// Legacy is a classic script loaded with both async and defer.
func Legacy() Config { return Classic().WithAsync().WithDefer() }

// Modern is an ES module.
func Modern() Config { return Module() }

// DeferOnly is a deferred classic script.
func DeferOnly() Config { return Classic().WithDefer() }

// AsyncOnly is an async classic script.
func AsyncOnly() Config { return Classic().WithAsync() }

// Mode reports how the script is emitted.
func (c Config) Mode() Mode { return c.mode }

// Async reports whether a classic script gets the async attribute.
func (c Config) Async() bool { return c.async }

// Defer reports whether a classic script gets the defer attribute.
func (c Config) Defer() bool { return c.deferred }

// IsModule reports whether the script is emitted as an ES module.
func (c Config) IsModule() bool { return c.mode == ModeModule }

func (c Config) String() string {
	s := c.mode.String()
	if c.async {
		s += "+async"
	}
	if c.deferred {
		s += "+defer"
	}
	return s
}

// Parse returns the preset with the given name: module, modern, classic,
// legacy, defer or async.
func Parse(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "module", "modern", "":
		return Module(), nil
	case "classic":
		return Classic(), nil
	case "legacy":
		return Legacy(), nil
	case "defer", "deferonly", "defer-only":
		return DeferOnly(), nil
	case "async", "asynconly", "async-only":
		return AsyncOnly(), nil
	}
	return Config{}, fmt.Errorf("unknown script config %q (expected module, modern, classic, legacy, defer or async)", name)
}
