// Package common holds host configuration shared by the asset loader
// subcommands.
package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys read by the asset loader.
const (
	ModeKey    = "ENVIRONMENT"
	DevHostKey = "VITE_DEV_HOST"
)

// Modes recognised in ENVIRONMENT.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeStaging     = "staging"
)

// DefaultDevHost is the Vite dev server used when VITE_DEV_HOST is unset.
const DefaultDevHost = "http://localhost:5173"

// LoadEnvFiles loads .env variants in Vite priority order and returns the
// merged values. Later files override earlier ones; missing files are skipped.
// Priority: .env < .env.local < .env.[mode] < .env.[mode].local
func LoadEnvFiles(basePath, mode string) (map[string]string, error) {
	variants := []string{
		basePath,
		basePath + ".local",
	}
	if mode != "" {
		variants = append(variants, basePath+"."+mode, basePath+"."+mode+".local")
	}

	result := make(map[string]string)
	for _, path := range variants {
		values, err := godotenv.Read(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for k, v := range values {
			result[k] = v
		}
	}
	return result, nil
}

// Environment is a read-only snapshot of host configuration.
type Environment struct {
	values map[string]string
}

// NewEnvironment returns an Environment over a copy of values.
func NewEnvironment(values map[string]string) *Environment {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Environment{values: copied}
}

// FromOS returns a snapshot of the process environment.
func FromOS() *Environment {
	values := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}
	return &Environment{values: values}
}

// Merge returns a new Environment where values override the receiver's.
func (e *Environment) Merge(values map[string]string) *Environment {
	var base map[string]string
	if e != nil {
		base = e.values
	}
	merged := NewEnvironment(base)
	for k, v := range values {
		merged.values[k] = v
	}
	return merged
}

// Get returns the value for key, or fallback when it is unset.
func (e *Environment) Get(key, fallback string) string {
	if e == nil {
		return fallback
	}
	if v, ok := e.values[key]; ok {
		return v
	}
	return fallback
}

// Mode returns ENVIRONMENT, defaulting to production.
func (e *Environment) Mode() string {
	return e.Get(ModeKey, ModeProduction)
}

func (e *Environment) IsDev() bool     { return e.Mode() == ModeDevelopment }
func (e *Environment) IsProd() bool    { return e.Mode() == ModeProduction }
func (e *Environment) IsStaging() bool { return e.Mode() == ModeStaging }
