// Package config loads project-level settings from ptml.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// DefaultFilename is the config file looked up in the working directory when
// no explicit path is given.
const DefaultFilename = "ptml.toml"

// Config holds project settings for the compiler front end.
type Config struct {
	// GuardPolicy points at a YAML policy file replacing the built-in
	// host-statement keyword list. Empty means the built-in policy.
	GuardPolicy string `toml:"guard_policy"`

	// Color controls ANSI styling of diagnostics.
	Color bool `toml:"color"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{Color: true}
}

// Load reads the config file at path. An empty path means DefaultFilename in
// the working directory; in that case a missing file is not an error and the
// defaults are returned.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultFilename
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
