// Package secrets stores AI provider API keys in a passphrase-encrypted age
// file under the XDG data dir. Writes go to a temp file that is synced and
// renamed into place.
package secrets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/rnwolfe/lifeos/internal/config"
)

// PassphraseEnv names the environment variable holding the passphrase.
const PassphraseEnv = "LIFEOS_SECRETS_PASSPHRASE"

// FileName is the encrypted file inside the data dir.
const FileName = "secrets.age"

var (
	// ErrWrongPassphrase is returned when the file cannot be decrypted with
	// the given passphrase.
	ErrWrongPassphrase = errors.New("wrong passphrase")
	// ErrCorrupted is returned when the file decrypts but cannot be parsed,
	// or is not an age file at all.
	ErrCorrupted = errors.New("secrets file is corrupted")
	// ErrNoSecret is returned by Get for a missing key.
	ErrNoSecret = errors.New("secret not found")
)

type payload struct {
	Keys map[string]string `json:"keys"`
}

// File is an age-encrypted map of provider name to API key.
type File struct {
	mu         sync.Mutex
	path       string
	passphrase string
}

// Open returns the secrets file in the XDG data dir.
func Open(passphrase string) *File {
	return OpenAt(filepath.Join(config.GetPaths().DataDir, FileName), passphrase)
}

// OpenAt returns a secrets file at an explicit path.
func OpenAt(path, passphrase string) *File {
	return &File{path: path, passphrase: passphrase}
}

// FromEnv opens the default file when PassphraseEnv is set.
func FromEnv() (*File, bool) {
	pass := os.Getenv(PassphraseEnv)
	if pass == "" {
		return nil, false
	}
	return Open(pass), true
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Exists reports whether the file has been written.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Set stores a key, creating the file on first use.
func (f *File) Set(name, value string) error {
	if name == "" {
		return fmt.Errorf("secret name must not be empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		p = &payload{Keys: map[string]string{}}
	} else if err != nil {
		return err
	}
	p.Keys[name] = value
	return f.save(p)
}

// Get returns a stored key. A missing file or key yields ErrNoSecret.
func (f *File) Get(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoSecret, name)
	}
	if err != nil {
		return "", err
	}
	v, ok := p.Keys[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoSecret, name)
	}
	return v, nil
}

// Delete removes a key. Deleting from a missing file is a no-op.
func (f *File) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := p.Keys[name]; !ok {
		return nil
	}
	delete(p.Keys, name)
	return f.save(p)
}

// Names lists stored key names, sorted. Values are never returned.
func (f *File) Names() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(p.Keys))
	for k := range p.Keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func (f *File) load() (*payload, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return decrypt(raw, f.passphrase)
}

func (f *File) save(p *payload) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating secrets directory: %w", err)
	}
	raw, err := encrypt(p, f.passphrase)
	if err != nil {
		return err
	}
	return writeAtomic(f.path, raw)
}

func encrypt(p *payload, passphrase string) ([]byte, error) {
	plain, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding secrets: %w", err)
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, recipient)
	if err != nil {
		return nil, fmt.Errorf("encrypting secrets: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("encrypting secrets: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encrypting secrets: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("armoring secrets: %w", err)
	}
	return buf.Bytes(), nil
}

func decrypt(raw []byte, passphrase string) (*payload, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}
	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(raw)), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	var p payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if p.Keys == nil {
		p.Keys = map[string]string{}
	}
	return &p, nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".secrets-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing secrets: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing secrets: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing secrets file: %w", err)
	}
	return nil
}
