package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDir returns ~/.counselctl.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".counselctl"), nil
}

// FileStore persists the credential as JSON in a 0600 file, one file per
// profile, so it survives restarts.
type FileStore struct {
	path    string
	profile string
	now     func() time.Time
}

// NewFileStore creates a store under dir for the given profile.
func NewFileStore(dir, profile string) *FileStore {
	return &FileStore{
		path:    filepath.Join(dir, "credentials-"+profile+".json"),
		profile: profile,
		now:     time.Now,
	}
}

// Path returns the credential file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(_ context.Context) (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notStored(s.profile)
		}
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	if cred.Token == "" {
		return nil, notStored(s.profile)
	}
	return &cred, nil
}

func (s *FileStore) Set(_ context.Context, cred Credential) error {
	if cred.SavedAt.IsZero() {
		cred.SavedAt = s.now().UTC()
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	// Write to a sibling file and rename so readers never see a torn file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credential file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Token(ctx context.Context) (string, error) {
	return tokenOf(s.Get(ctx))
}
