package sessionstore

import (
	"context"
	"sync"
)

// MemoryStore guarda las sesiones en un mapa del proceso. Es el backend por
// defecto en tests y el destino de degradación cuando otro backend falla.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

// NewMemoryStore construye el store en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

// Get devuelve el registro de la sesión o (nil, nil) si no existe.
func (s *MemoryStore) Get(_ context.Context, sid string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[sid]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put guarda el registro completo de la sesión.
func (s *MemoryStore) Put(_ context.Context, sid string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[sid] = rec
	return nil
}

// Delete elimina la sesión. Borrar una sesión inexistente no es error.
func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, sid)
	return nil
}
