package config

import (
	"fmt"

	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/pages"
)

// Settings holds the comparison parameters that a config file may set.
// A nil field is not set and leaves the current value untouched.
type Settings struct {
	Threshold   *int    `yaml:"threshold,omitempty"`
	Algorithm   *string `yaml:"algorithm,omitempty"`
	HashSize    *int    `yaml:"hashSize,omitempty"`
	Band        *int    `yaml:"band,omitempty"`
	Workers     *int    `yaml:"workers,omitempty"`
	DetectMoves *bool   `yaml:"detectMoves,omitempty"`
	Sort        *string `yaml:"sort,omitempty"`
	Cache       *bool   `yaml:"cache,omitempty"`
	CacheDir    *string `yaml:"cacheDir,omitempty"`
}

// File represents the structure of the .bookdiff configuration file.
type File struct {
	// Defaults apply to every comparison.
	Defaults Settings `yaml:"defaults,omitempty"`

	// Profiles are named sets of settings, e.g. one per scanner or per
	// collection, selected with --profile. A profile overrides Defaults.
	Profiles map[string]Settings `yaml:"profiles,omitempty"`
}

// merge returns s with every field set in o overriding it.
func (s Settings) merge(o Settings) Settings {
	if o.Threshold != nil {
		s.Threshold = o.Threshold
	}
	if o.Algorithm != nil {
		s.Algorithm = o.Algorithm
	}
	if o.HashSize != nil {
		s.HashSize = o.HashSize
	}
	if o.Band != nil {
		s.Band = o.Band
	}
	if o.Workers != nil {
		s.Workers = o.Workers
	}
	if o.DetectMoves != nil {
		s.DetectMoves = o.DetectMoves
	}
	if o.Sort != nil {
		s.Sort = o.Sort
	}
	if o.Cache != nil {
		s.Cache = o.Cache
	}
	if o.CacheDir != nil {
		s.CacheDir = o.CacheDir
	}
	return s
}

// GetProfile returns the settings of a profile merged over the defaults.
// An empty name returns the defaults.
func (cf *File) GetProfile(name string) (Settings, error) {
	if name == "" {
		return cf.Defaults, nil
	}
	profile, ok := cf.Profiles[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return cf.Defaults.merge(profile), nil
}

// Apply copies every set field of s into the config.
// Flags given explicitly on the command line are applied after it.
func (c *Config) Apply(s Settings) {
	if s.Threshold != nil {
		c.Threshold = *s.Threshold
	}
	if s.Algorithm != nil {
		c.Algorithm = fingerprint.Algorithm(*s.Algorithm)
	}
	if s.HashSize != nil {
		c.HashSize = *s.HashSize
	}
	if s.Band != nil {
		c.Band = *s.Band
	}
	if s.Workers != nil {
		c.Workers = *s.Workers
	}
	if s.DetectMoves != nil {
		c.DetectMoves = *s.DetectMoves
	}
	if s.Sort != nil {
		c.SortOrder = pages.SortOrder(*s.Sort)
	}
	if s.Cache != nil {
		c.UseCache = *s.Cache
	}
	if s.CacheDir != nil {
		c.CacheDir = *s.CacheDir
	}
}
