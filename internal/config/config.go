package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// AppName names the config, data and state directories.
const AppName = "lifeos"

// DefaultModel is the model used when the AI section leaves it blank.
const DefaultModel = "claude-sonnet-4-5-20250929"

// Config holds the top-level lifeos configuration.
type Config struct {
	User   UserConfig   `toml:"user"`
	AI     AIConfig     `toml:"ai"`
	Habits HabitsConfig `toml:"habits"`
	Log    LogConfig    `toml:"log"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

type AIConfig struct {
	Provider string `toml:"provider"` // claude, openai, groq, openrouter
	Model    string `toml:"model"`
	// SystemInstructions is appended to every insight prompt.
	SystemInstructions string `toml:"system_instructions"`
}

// HabitsConfig holds defaults for habit creation and display.
type HabitsConfig struct {
	// DefaultType is used by `habit add` when --type is omitted.
	DefaultType string `toml:"default_type"`
	// HeatmapWeeks caps how many trailing weeks `heatmap` prints. 0 shows all.
	HeatmapWeeks int `toml:"heatmap_weeks"`
	// RankingSize is how many habits the global leaderboard shows.
	RankingSize int `toml:"ranking_size"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	appConfig := filepath.Join(configDir, AppName)
	appData := filepath.Join(dataDir, AppName)

	return Paths{
		ConfigDir:  appConfig,
		DataDir:    appData,
		CacheDir:   filepath.Join(cacheDir, AppName),
		StateDir:   filepath.Join(stateDir, AppName),
		ConfigFile: filepath.Join(appConfig, "config.toml"),
		DBFile:     filepath.Join(appData, AppName+".db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found. Keys missing
// from the file keep their defaults.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if lifeos has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// Default returns a config populated with defaults.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider: "claude",
			Model:    DefaultModel,
		},
		Habits: HabitsConfig{
			DefaultType:  "build",
			HeatmapWeeks: 26,
			RankingSize:  3,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
