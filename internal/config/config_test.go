package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return tmpDir
}

func TestGetPaths(t *testing.T) {
	paths := GetPaths()

	if paths.ConfigDir == "" {
		t.Fatal("ConfigDir should not be empty")
	}
	if paths.DataDir == "" {
		t.Fatal("DataDir should not be empty")
	}
	if paths.ConfigFile == "" {
		t.Fatal("ConfigFile should not be empty")
	}
	if paths.DBFile == "" {
		t.Fatal("DBFile should not be empty")
	}
}

func TestGetPathsRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/testxdg/config")
	t.Setenv("XDG_DATA_HOME", "/tmp/testxdg/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/testxdg/state")

	paths := GetPaths()

	if paths.ConfigDir != "/tmp/testxdg/config/lifeos" {
		t.Fatalf("expected /tmp/testxdg/config/lifeos, got %s", paths.ConfigDir)
	}
	if paths.DBFile != "/tmp/testxdg/data/lifeos/lifeos.db" {
		t.Fatalf("expected /tmp/testxdg/data/lifeos/lifeos.db, got %s", paths.DBFile)
	}
	if paths.StateDir != "/tmp/testxdg/state/lifeos" {
		t.Fatalf("expected /tmp/testxdg/state/lifeos, got %s", paths.StateDir)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.AI.Provider != "claude" {
		t.Fatalf("expected provider 'claude', got %q", cfg.AI.Provider)
	}
	if cfg.Habits.RankingSize != 3 {
		t.Fatalf("expected ranking size 3, got %d", cfg.Habits.RankingSize)
	}
	if cfg.Habits.DefaultType != "build" {
		t.Fatalf("expected default type 'build', got %q", cfg.Habits.DefaultType)
	}
}

func TestEnsureDirs(t *testing.T) {
	setupTestXDG(t)

	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.CacheDir, paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("dir %s not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	setupTestXDG(t)

	if Initialized() {
		t.Fatal("expected Initialized() false before Save")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", cfg.AI.Model)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	setupTestXDG(t)
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte("[user]\nname = \"Ada\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.Name != "Ada" {
		t.Fatalf("expected name 'Ada', got %q", cfg.User.Name)
	}
	if cfg.Habits.HeatmapWeeks != 26 {
		t.Fatalf("expected default heatmap weeks to survive, got %d", cfg.Habits.HeatmapWeeks)
	}
	if !Initialized() {
		t.Fatal("expected Initialized() true once the file exists")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	setupTestXDG(t)
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte("[user\nname = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
