// Package config loads revup's layered ini-style configuration and
// exposes it as a [kong.Resolver] to fill in flag defaults, backed by
// .revupconfig files instead of git-config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"gopkg.in/ini.v1"
)

const configTag = "config"

// EnvVar is the environment variable naming an explicit user config
// file path, overriding the default "~/.revupconfig" location.
const EnvVar = "REVUP_CONFIG_PATH"

// Config is the resolved, layered configuration: built-in defaults,
// then the repo file, then the user file, each overriding keys from
// the one before. A flag's value is looked up under its `config:"..."`
// tag, used verbatim as the "section.option" key (a tag with no dot is
// an option outside any section): Resolve neither translates between
// "_" and "-" nor adds the command's name as a section.
type Config struct {
	items map[string]string // "section.option" -> last-value-wins
}

// Options controls where layered config files are read from.
type Options struct {
	// RepoRoot is the repository root; RepoRoot/.revupconfig is read
	// if present.
	RepoRoot string

	// UserConfigPath overrides the default "~/.revupconfig" location.
	// Ignored if empty, in which case $REVUP_CONFIG_PATH and then
	// "~/.revupconfig" are tried in turn.
	UserConfigPath string

	// Defaults seeds the configuration before any file is read, using
	// the same "section.option" keys as the ini files.
	Defaults map[string]string
}

// Load reads and layers the defaults, repo file, and user file.
// Missing files are not an error; a malformed ini file is.
func Load(opts Options) (*Config, error) {
	items := make(map[string]string, len(opts.Defaults))
	for k, v := range opts.Defaults {
		items[k] = v
	}

	if opts.RepoRoot != "" {
		if err := mergeFile(items, filepath.Join(opts.RepoRoot, ".revupconfig")); err != nil {
			return nil, err
		}
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = os.Getenv(EnvVar)
	}
	if userPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			userPath = filepath.Join(home, ".revupconfig")
		}
	}
	if userPath != "" {
		if err := mergeFile(items, userPath); err != nil {
			return nil, err
		}
	}

	return &Config{items: items}, nil
}

func mergeFile(into map[string]string, path string) error {
	f, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	for _, section := range f.Sections() {
		name := section.Name()
		if name == ini.DefaultSection {
			name = ""
		}
		for _, key := range section.Keys() {
			k := key.Name()
			qualified := k
			if name != "" {
				qualified = name + "." + k
			}
			into[qualified] = key.Value()
		}
	}
	return nil
}

// Validate implements kong.Validator; revup allows unknown
// configuration keys (a stale key from an older revup version should
// never break the CLI), so this is a no-op.
func (*Config) Validate(*kong.Application) error { return nil }

// Resolve implements kong.Resolver, looking up a flag's `config:"..."`
// tag in the layered configuration.
func (c *Config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	key := flag.Tag.Get(configTag)
	if key == "" {
		return nil, nil
	}

	v, ok := c.items[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}
