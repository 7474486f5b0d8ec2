// Package config persists the ordered list of time zones the whence CLI
// renders. The parsing engine never touches this file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultZones is the zone list a fresh or reset config starts with.
var DefaultZones = []string{
	"UTC",
	"America/Vancouver",
	"America/New_York",
	"Europe/London",
}

// Config is the persisted CLI configuration.
type Config struct {
	Timezones []string

	path string
}

// Load reads the config from the user config directory, falling back to
// the defaults when no file exists yet.
func Load() (*Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "locating user config directory")
	}
	return LoadFrom(filepath.Join(dir, "whence", "config.yaml"))
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("timezones", DefaultZones)
	// With SetConfigFile viper skips its search path and its own
	// ConfigFileNotFoundError: a missing file surfaces as the raw
	// *fs.PathError, which os.IsNotExist detects.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return &Config{
		Timezones: v.GetStringSlice("timezones"),
		path:      path,
	}, nil
}

// Path returns where the config is (or will be) stored.
func (c *Config) Path() string {
	return c.path
}

// Add appends a zone to the list and persists it. The name must resolve
// in the IANA database.
func (c *Config) Add(zone string) error {
	if _, err := time.LoadLocation(zone); err != nil {
		return errors.Wrapf(err, "unknown time zone %q", zone)
	}
	c.Timezones = append(c.Timezones, zone)
	return c.save()
}

// Delete removes every occurrence of a zone from the list and persists
// the result. Deleting a zone that is not listed is not an error.
func (c *Config) Delete(zone string) error {
	kept := c.Timezones[:0]
	for _, tz := range c.Timezones {
		if tz != zone {
			kept = append(kept, tz)
		}
	}
	c.Timezones = kept
	return c.save()
}

// Reset restores the default zone list and persists it.
func (c *Config) Reset() error {
	c.Timezones = append([]string(nil), DefaultZones...)
	return c.save()
}

func (c *Config) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating config directory for %s", c.path)
	}
	v := viper.New()
	v.Set("timezones", c.Timezones)
	if err := v.WriteConfigAs(c.path); err != nil {
		return errors.Wrapf(err, "writing config %s", c.path)
	}
	return nil
}
