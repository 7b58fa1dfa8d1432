package http

import (
	"sync"

	"github.com/gestrack/gestrack-web/internal/application/listview"
)

// ViewRegistry mantiene los modelos de listado montados, uno por sesión y
// vista. Montar de nuevo la misma vista desmonta el modelo anterior, y el
// logout desmonta todos los de la sesión.
type ViewRegistry struct {
	mu     sync.Mutex
	bySess map[string]map[string]*listview.Model
}

// NewViewRegistry construye el registro.
func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{bySess: make(map[string]map[string]*listview.Model)}
}

// Mount registra el modelo de una vista, cerrando el que hubiera montado
// antes para esa misma sesión y vista.
func (r *ViewRegistry) Mount(sid, view string, m *listview.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	views, ok := r.bySess[sid]
	if !ok {
		views = make(map[string]*listview.Model)
		r.bySess[sid] = views
	}
	if prev, ok := views[view]; ok {
		prev.Close()
	}
	views[view] = m
}

// Get devuelve el modelo montado o nil.
func (r *ViewRegistry) Get(sid, view string) *listview.Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySess[sid][view]
}

// CloseAll desmonta todas las vistas de una sesión.
func (r *ViewRegistry) CloseAll(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.bySess[sid] {
		m.Close()
	}
	delete(r.bySess, sid)
}
