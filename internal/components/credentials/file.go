package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every user in one JSON object {"username": "digest"}.
// The whole file is read on every lookup and rewritten on every create.
// The mutex only orders writers inside this process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	users := map[string]string{}
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", s.path, err)
	}
	return users, nil
}

// save writes to a temp file next to the store and renames it into place.
func (s *FileStore) save(users map[string]string) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp users file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Get(_ context.Context, username string) (*User, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}

	digest, ok := users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &User{Username: username, PasswordHash: digest}, nil
}

func (s *FileStore) Create(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := users[user.Username]; ok {
		return ErrUsernameTaken
	}

	users[user.Username] = user.PasswordHash
	return s.save(users)
}

// Ping checks the file is absent or parseable.
func (s *FileStore) Ping(_ context.Context) error {
	_, err := s.load()
	return err
}
