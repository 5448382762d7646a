package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store persiste la sesión entre corridas (el localStorage del CLI).
// Token() lo consume el httpclient en cada request autenticado.
type Store interface {
	Current() Identity
	Save(Identity) error
	Clear() error
	Token() string
}

type persisted struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// FileStore guarda la sesión como JSON en disco.
type FileStore struct {
	mu   sync.RWMutex
	path string
	cur  Identity
}

// NewFileStore carga la sesión persistida si existe; si no, arranca guest.
// Un archivo corrupto se trata como sesión ausente, no como error fatal.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &FileStore{path: path, cur: Guest()}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil || p.Token == "" {
		return s, nil
	}

	s.cur = Identity{
		Role:  ParseRole(p.Role),
		Name:  p.Name,
		Email: p.Email,
		Token: p.Token,
	}
	return s, nil
}

func (s *FileStore) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *FileStore) Save(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(persisted{
		Token: id.Token,
		Role:  string(id.Role),
		Email: id.Email,
		Name:  id.Name,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return err
	}
	s.cur = id
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = Guest()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// MemStore es un Store volátil para tests.
type MemStore struct {
	mu  sync.RWMutex
	cur Identity
}

func NewMemStore() *MemStore {
	return &MemStore{cur: Guest()}
}

func (s *MemStore) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *MemStore) Save(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = id
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Guest()
	return nil
}

func (s *MemStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}
