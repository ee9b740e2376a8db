package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/secrets"
)

// envKeys maps provider names to the environment variable holding their key.
var envKeys = map[string]string{
	"claude":     "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"groq":       "GROQ_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// EnvKeyFor returns the environment variable for a provider's API key.
func EnvKeyFor(provider string) string {
	return envKeys[provider]
}

// Key sources reported by ResolveKey.
const (
	SourceEnv      = "env"
	SourceKeyStore = "keys.json"
	SourceSecrets  = "secrets"
)

// KeyStore is a plain JSON map of provider to API key, readable only by the
// owner. Use the secrets file for encryption at rest.
type KeyStore struct {
	path string
	keys map[string]string
}

// NewKeyStore returns the keystore in the config directory.
func NewKeyStore() *KeyStore {
	return NewKeyStoreAt(filepath.Join(config.GetPaths().ConfigDir, "keys.json"))
}

// NewKeyStoreAt returns a keystore at an explicit path.
func NewKeyStoreAt(path string) *KeyStore {
	return &KeyStore{path: path, keys: make(map[string]string)}
}

// Load reads keys from disk. A missing file is an empty store.
func (ks *KeyStore) Load() error {
	data, err := os.ReadFile(ks.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading keys: %w", err)
	}
	if err := json.Unmarshal(data, &ks.keys); err != nil {
		return fmt.Errorf("parsing keys: %w", err)
	}
	return nil
}

// Save writes keys to disk with 0600 permissions.
func (ks *KeyStore) Save() error {
	if err := os.MkdirAll(filepath.Dir(ks.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(ks.keys, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding keys: %w", err)
	}
	if err := os.WriteFile(ks.path, data, 0o600); err != nil {
		return fmt.Errorf("writing keys: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(ks.path, 0o600); err != nil {
		return fmt.Errorf("setting key file permissions: %w", err)
	}
	return nil
}

// Get returns the stored key for a provider, or "".
func (ks *KeyStore) Get(provider string) string { return ks.keys[provider] }

// Set stores an API key for the given provider.
func (ks *KeyStore) Set(provider, key string) { ks.keys[provider] = key }

// Delete removes an API key for the given provider.
func (ks *KeyStore) Delete(provider string) { delete(ks.keys, provider) }

// Providers lists providers with a stored key.
func (ks *KeyStore) Providers() []string {
	names := make([]string, 0, len(ks.keys))
	for name, key := range ks.keys {
		if key != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ResolveKey finds a provider's API key. The environment wins, then the
// keystore, then the encrypted secrets file when its passphrase is set.
func ResolveKey(provider string) (key, source string, err error) {
	if env := EnvKeyFor(provider); env != "" {
		if v := os.Getenv(env); v != "" {
			return v, SourceEnv, nil
		}
	}

	ks := NewKeyStore()
	if err := ks.Load(); err != nil {
		return "", "", err
	}
	if v := ks.Get(provider); v != "" {
		return v, SourceKeyStore, nil
	}

	if f, ok := secrets.FromEnv(); ok {
		v, err := f.Get(provider)
		switch {
		case err == nil && v != "":
			return v, SourceSecrets, nil
		case err != nil && !errors.Is(err, secrets.ErrNoSecret):
			return "", "", fmt.Errorf("reading secrets file: %w", err)
		}
	}

	hint := "run `lifeos ai config`"
	if env := EnvKeyFor(provider); env != "" {
		hint = "set " + env + " or " + hint
	}
	return "", "", &ProviderError{Provider: provider, Message: "API key not found (" + hint + ")"}
}

// ModelFor picks the model to use for provider given the configured one. The
// stock Claude default is ignored for other providers.
func ModelFor(provider, configured string) string {
	if configured == "" || (configured == config.DefaultModel && provider != "claude") {
		return DefaultModel(provider)
	}
	return configured
}

// FromConfig builds the provider named in cfg with its resolved API key.
func FromConfig(cfg *config.Config) (Provider, error) {
	name := cfg.AI.Provider
	if name == "" {
		name = "claude"
	}
	if !IsRegistered(name) {
		return nil, fmt.Errorf("unknown provider: %s (available: %v)", name, ListProviders())
	}
	key, _, err := ResolveKey(name)
	if err != nil {
		return nil, err
	}
	return GetProvider(name, key, ModelFor(name, cfg.AI.Model))
}
