package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gestrack/gestrack-web/internal/domain"
)

// FileStore persiste las sesiones en un único archivo JSON, de modo que
// sobreviven reinicios del gateway. Cada mutación reescribe el archivo
// completo vía rename para que una caída a mitad de escritura no deje el
// archivo truncado.
type FileStore struct {
	path string
	mu   sync.Mutex
	recs map[string]Record
}

// NewFileStore abre (o crea) el archivo de sesiones. Un archivo corrupto no
// es error fatal: se parte de cero, equivalente a "todas las sesiones
// expiradas".
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, recs: make(map[string]Record)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageDegraded, err)
	}
	if err := json.Unmarshal(raw, &s.recs); err != nil {
		// Contenido corrupto: tratar como vacío
		s.recs = make(map[string]Record)
	}
	return s, nil
}

// Get devuelve el registro o (nil, nil) si no existe.
func (s *FileStore) Get(_ context.Context, sid string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[sid]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put guarda el registro y reescribe el archivo.
func (s *FileStore) Put(_ context.Context, sid string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[sid] = rec
	return s.flushLocked()
}

// Delete elimina la sesión y reescribe el archivo.
func (s *FileStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, sid)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	buf, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
