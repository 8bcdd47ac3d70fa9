package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/grit-scm/grit/pkg/object"
)

// Config stores repository-local settings: the committer identity embedded
// in commit bodies and core tunables handed to the object store.
type Config struct {
	User UserConfig `toml:"user"`
	Core CoreConfig `toml:"core"`
}

// UserConfig is the identity recorded in author/committer lines.
type UserConfig struct {
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Timezone string `toml:"timezone"`
}

// CoreConfig carries object-store tunables.
type CoreConfig struct {
	// MaxObjectSize is the declared-size ceiling applied while decoding.
	// Zero means the built-in default (1 GiB).
	MaxObjectSize int64 `toml:"max_object_size"`
}

// DefaultConfig is the identity used when config.toml is absent or leaves
// fields empty.
func DefaultConfig() *Config {
	return &Config{
		User: UserConfig{
			Name:     "test",
			Email:    "example@example.com",
			Timezone: "+0400",
		},
		Core: CoreConfig{
			MaxObjectSize: object.DefaultMaxObjectSize,
		},
	}
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GritDir, "config.toml")
}

// ReadConfig reads .grit/config.toml. A missing file returns the defaults;
// empty fields fall back to their default values.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var onDisk Config
	if err := toml.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if onDisk.User.Name != "" {
		cfg.User.Name = onDisk.User.Name
	}
	if onDisk.User.Email != "" {
		cfg.User.Email = onDisk.User.Email
	}
	if onDisk.User.Timezone != "" {
		cfg.User.Timezone = onDisk.User.Timezone
	}
	if onDisk.Core.MaxObjectSize > 0 {
		cfg.Core.MaxObjectSize = onDisk.Core.MaxObjectSize
	}
	return cfg, nil
}

// WriteConfig atomically writes .grit/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tmp, err := os.CreateTemp(r.GritDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
