package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/flipbook/pkg/cache"
	"github.com/matzehuels/flipbook/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")

	lc, err := readConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if lc.Found {
		t.Error("no config file exists, Found should be false")
	}
	if lc.Frames != 24 || !lc.StrictCount {
		t.Errorf("options = %+v", lc.Options)
	}
	if !lc.Cache.Enabled || lc.Cache.TTL != cache.TTLAtlas {
		t.Errorf("cache = %+v", lc.Cache)
	}
	if lc.Server.Addr != ":8080" {
		t.Errorf("addr = %q", lc.Server.Addr)
	}
}

func TestReadConfigFile(t *testing.T) {
	t.Setenv(envRedisURL, "")
	path := writeConfig(t, `
frames = 60
filter = "lanczos"
manifest = true
strict_count = false
colour = "red"

[cache]
enabled = false
ttl = "72h"

[server]
addr = ":9000"
job_ttl = "10m"
`)

	lc, err := readConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !lc.Found || lc.Path != path {
		t.Errorf("path = %q found = %v", lc.Path, lc.Found)
	}
	if lc.Frames != 60 || lc.Filter != "lanczos" || !lc.Manifest || lc.StrictCount {
		t.Errorf("options = %+v", lc.Options)
	}
	if lc.Cache.Enabled || lc.Cache.TTL != 72*time.Hour {
		t.Errorf("cache = %+v", lc.Cache)
	}
	if lc.Server.Addr != ":9000" || lc.Server.JobTTL != 10*time.Minute {
		t.Errorf("server = %+v", lc.Server)
	}
	if len(lc.Unknown) != 1 || lc.Unknown[0] != "colour" {
		t.Errorf("unknown = %v", lc.Unknown)
	}
}

func TestReadConfigErrors(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit file: %v", err)
	}

	_, err = readConfig(writeConfig(t, "frames = ["))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed file: %v", err)
	}
}

func TestReadConfigRedisEnv(t *testing.T) {
	t.Setenv(envRedisURL, "redis://example:6379/2")
	lc, err := readConfig(writeConfig(t, "[cache]\nredis_url = \"redis://file:6379/0\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if lc.Cache.RedisURL != "redis://example:6379/2" {
		t.Errorf("redis url = %q, environment should win", lc.Cache.RedisURL)
	}
}

func TestConfigShow(t *testing.T) {
	t.Setenv(envRedisURL, "")
	path := writeConfig(t, "frames = 48\n")

	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"frames = 48", "[cache]", "[server]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "input") {
		t.Errorf("input should not be part of the config:\n%s", out)
	}
}
