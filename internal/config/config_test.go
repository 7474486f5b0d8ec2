package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultZones, cfg.Timezones)
}

func TestAddAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.NoError(t, cfg.Add("Asia/Tokyo"))

	again, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.Equal(t, append(append([]string(nil), DefaultZones...), "Asia/Tokyo"), again.Timezones)
}

func TestAddUnknownZone(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	assert.NoError(t, err)
	assert.Error(t, cfg.Add("Neither/Here"))
	assert.Equal(t, DefaultZones, cfg.Timezones)
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.NoError(t, cfg.Delete("Europe/London"))
	assert.NotContains(t, cfg.Timezones, "Europe/London")

	again, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.NotContains(t, again.Timezones, "Europe/London")

	// deleting something that is not there is fine
	assert.NoError(t, cfg.Delete("Mars/Olympus_Mons"))
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.NoError(t, cfg.Add("Asia/Tokyo"))
	assert.NoError(t, cfg.Reset())
	assert.Equal(t, DefaultZones, cfg.Timezones)

	again, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.Equal(t, DefaultZones, again.Timezones)
}
