package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// CredentialsStore persists the session token under the user's state dir.
type CredentialsStore struct {
	// Dir is the state directory (e.g. ~/.mooncookies).
	Dir string
}

type credentialsFile struct {
	Token string `json:"token,omitempty"`
}

func (s *CredentialsStore) path() string {
	return filepath.Join(s.Dir, "credentials.json")
}

func (s *CredentialsStore) Token() (string, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var f credentialsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", err
	}
	return f.Token, nil
}

func (s *CredentialsStore) Save(token string) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(credentialsFile{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	// Write-then-rename so a crash never leaves a torn file.
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

func (s *CredentialsStore) Clear() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
