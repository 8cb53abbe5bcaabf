package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/backtrail-dev/backtrail/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `{"name": "myapp"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Name != "myapp" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Host != DefaultHost || cfg.Server.Port != DefaultPort {
		t.Errorf("Server = %+v, want defaults", cfg.Server)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Bridge.UpdateRate != DefaultUpdateRate || cfg.Bridge.UpdateBurst != DefaultUpdateBurst {
		t.Errorf("Bridge = %+v, want defaults", cfg.Bridge)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := writeConfig(t, `{
		"server": {"host": "0.0.0.0", "port": 8080},
		"bridge": {"updateRate": 5, "updateBurst": 10}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address = %q", cfg.Address())
	}
	if cfg.Bridge.UpdateRate != 5 || cfg.Bridge.UpdateBurst != 10 {
		t.Errorf("Bridge = %+v", cfg.Bridge)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assertConfigError(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := writeConfig(t, `{not json`)
	_, err := Load(dir)
	assertConfigError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative rate", func(c *Config) { c.Bridge.UpdateRate = -1 }, true},
		{"negative burst", func(c *Config) { c.Bridge.UpdateBurst = -1 }, true},
		{"empty route pattern", func(c *Config) { c.Routes = []RouteDef{{}} }, true},
		{"empty group name", func(c *Config) { c.Groups = []GroupDef{{}} }, true},
		{"tabs index outside patterns", func(c *Config) {
			c.Tabs = TabsConfig{Patterns: []string{"/a"}, Index: "/b"}
		}, true},
		{"tabs index listed", func(c *Config) {
			c.Tabs = TabsConfig{Patterns: []string{"/a", "/b"}, Index: "/b"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRouteNamesDefaultToPattern(t *testing.T) {
	dir := writeConfig(t, `{
		"routes": [{"pattern": "/users/:id"}],
		"groups": [{"name": "g", "routes": [{"pattern": "/g/a"}]}]
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Routes[0].Name != "/users/:id" {
		t.Errorf("route name = %q", cfg.Routes[0].Name)
	}
	if cfg.Groups[0].Routes[0].Name != "/g/a" {
		t.Errorf("group route name = %q", cfg.Groups[0].Routes[0].Name)
	}
}

func TestTableBuildsGroupsBeforeRoutes(t *testing.T) {
	dir := writeConfig(t, `{
		"groups": [{"name": "settings", "routes": [
			{"pattern": "/settings", "exact": true},
			{"pattern": "/settings/:section", "exact": true}
		]}],
		"routes": [
			{"pattern": "/", "exact": true, "name": "home"},
			{"pattern": "*rest", "name": "not-found"}
		]
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	table := cfg.Table()

	res, ok := table.Resolve("/settings/profile")
	if !ok || res.Group != "settings" {
		t.Errorf("Resolve(/settings/profile) = %+v, %v", res, ok)
	}
	res, ok = table.Resolve("/")
	if !ok || res.Route.Name != "home" {
		t.Errorf("Resolve(/) = %+v, %v", res, ok)
	}
	res, ok = table.Resolve("/elsewhere")
	if !ok || res.Route.Name != "not-found" {
		t.Errorf("Resolve(/elsewhere) = %+v, %v", res, ok)
	}
}

func TestTabGroupConversion(t *testing.T) {
	cfg := New()
	if _, ok := cfg.TabGroup(); ok {
		t.Error("TabGroup reported true with no tabs configured")
	}

	cfg.Tabs = TabsConfig{Patterns: []string{"/feed", "/search"}, Index: "/feed"}
	g, ok := cfg.TabGroup()
	if !ok || g.Index != "/feed" || len(g.Patterns) != 2 {
		t.Errorf("TabGroup = %+v, %v", g, ok)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := New()
	cfg.Name = "roundtrip"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("Name = %q", loaded.Name)
	}
	if loaded.Path() != path {
		t.Errorf("Path = %q, want %q", loaded.Path(), path)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := writeConfig(t, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if found != root {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}
}

func TestExists(t *testing.T) {
	dir := writeConfig(t, `{}`)
	if !Exists(dir) {
		t.Error("Exists = false for a directory with a config")
	}
	if Exists(t.TempDir()) {
		t.Error("Exists = true for an empty directory")
	}
}

func assertConfigError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var ne *errors.NavError
	if !stderrors.As(err, &ne) {
		t.Fatalf("error type = %T, want *errors.NavError", err)
	}
	if ne.Code != errors.CodeConfigInvalid {
		t.Errorf("code = %s, want %s", ne.Code, errors.CodeConfigInvalid)
	}
}
