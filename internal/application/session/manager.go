// Package session implementa el registro de sesión del navegador: el par
// (token, perfil) que prueba la autenticación ante el gateway.
//
// Reglas que este paquete garantiza:
//
//   - Atomicidad: token y usuario se guardan y se borran siempre juntos.
//   - Lectura segura: datos ausentes o corruptos nunca rompen la navegación.
//   - Degradación: si el backend de persistencia falla al escribir, la
//     sesión sigue viva en memoria durante la vida del proceso.
//   - Orden lógico: un logout siempre gana sobre una respuesta tardía de
//     login o actualización de perfil lanzada antes del logout.
package session

import (
	"context"
	"sync"

	"github.com/gestrack/gestrack-web/internal/domain/entity"
	"github.com/gestrack/gestrack-web/internal/infrastructure/sessionstore"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// Manager coordina todas las sesiones del gateway sobre un Store.
//
// El mutex cubre época, fallback y la escritura al store: las mutaciones de
// sesión son poco frecuentes (login, logout, perfil) y mantenerlas
// serializadas hace trivial el razonamiento sobre el orden lógico.
type Manager struct {
	store sessionstore.Store
	log   *logger.Logger

	mu       sync.Mutex
	epochs   map[string]uint64              // época por sesión; Clear la avanza
	fallback map[string]sessionstore.Record // sesiones degradadas a memoria
}

// NewManager construye el manager sobre el backend de persistencia dado.
func NewManager(store sessionstore.Store, log *logger.Logger) *Manager {
	return &Manager{
		store:    store,
		log:      log,
		epochs:   make(map[string]uint64),
		fallback: make(map[string]sessionstore.Record),
	}
}

// Session devuelve la vista de la sesión identificada por el cookie sid.
func (m *Manager) Session(sid string) *Session {
	return &Session{m: m, sid: sid}
}

// saveLocked escribe el registro. Requiere m.mu tomado.
func (m *Manager) saveLocked(ctx context.Context, sid string, rec sessionstore.Record) {
	delete(m.fallback, sid)
	if err := m.store.Put(ctx, sid, rec); err != nil {
		m.log.Warn().Err(err).Str("sid", sid).Msg("persistencia de sesión degradada a memoria")
		m.fallback[sid] = rec
	}
}

// Session es la vista de una sesión concreta. Es el único punto de
// escritura del registro; el resto del gateway solo lee a través de sus
// accesores.
type Session struct {
	m   *Manager
	sid string
}

// SID devuelve el identificador de la sesión.
func (s *Session) SID() string { return s.sid }

// Save persiste token y usuario como una unidad. Si el backend de
// persistencia falla, la sesión queda en memoria y la navegación continúa.
func (s *Session) Save(ctx context.Context, token string, user entity.User) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.saveLocked(ctx, s.sid, sessionstore.Record{Token: token, User: user})
}

// Clear elimina token y usuario como una unidad y avanza la época: cualquier
// operación asíncrona iniciada antes de este Clear quedará descartada al
// intentar confirmarse. Clear nunca falla desde el punto de vista del
// llamador.
func (s *Session) Clear(ctx context.Context) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.epochs[s.sid]++
	delete(s.m.fallback, s.sid)
	if err := s.m.store.Delete(ctx, s.sid); err != nil {
		s.m.log.Warn().Err(err).Str("sid", s.sid).Msg("no se pudo borrar la sesión persistida")
	}
}

// record lee el registro actual, consultando primero la copia degradada.
func (s *Session) record(ctx context.Context) *sessionstore.Record {
	s.m.mu.Lock()
	if rec, ok := s.m.fallback[s.sid]; ok {
		s.m.mu.Unlock()
		return &rec
	}
	s.m.mu.Unlock()

	rec, err := s.m.store.Get(ctx, s.sid)
	if err != nil {
		s.m.log.Warn().Err(err).Str("sid", s.sid).Msg("lectura de sesión falló; se trata como no autenticado")
		return nil
	}
	return rec
}

// CurrentUser devuelve el perfil guardado o nil si no hay sesión. Nunca
// lanza: datos corruptos cuentan como ausencia.
func (s *Session) CurrentUser(ctx context.Context) *entity.User {
	rec := s.record(ctx)
	if rec == nil || rec.Token == "" {
		return nil
	}
	u := rec.User
	return &u
}

// Token devuelve el token actual o cadena vacía.
func (s *Session) Token(ctx context.Context) string {
	rec := s.record(ctx)
	if rec == nil {
		return ""
	}
	return rec.Token
}

// IsAuthenticated indica presencia de token. No valida expiración ni firma:
// eso lo decide el backend en cada petición.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// Begin captura la época actual antes de lanzar una operación asíncrona que
// terminará escribiendo la sesión.
func (s *Session) Begin() uint64 {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.epochs[s.sid]
}

// CommitSave aplica el resultado de un login/registro solo si ningún Clear
// ocurrió desde Begin. Devuelve false si la respuesta llegó tarde y fue
// descartada.
func (s *Session) CommitSave(ctx context.Context, epoch uint64, token string, user entity.User) bool {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.epochs[s.sid] != epoch {
		s.m.log.Debug().Str("sid", s.sid).Msg("login tardío descartado: la sesión fue cerrada")
		return false
	}
	s.m.saveLocked(ctx, s.sid, sessionstore.Record{Token: token, User: user})
	return true
}

// CommitUser sobrescribe solo el perfil conservando el token, con la misma
// protección de época. Lo usa la actualización de perfil.
func (s *Session) CommitUser(ctx context.Context, epoch uint64, user entity.User) bool {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.epochs[s.sid] != epoch {
		s.m.log.Debug().Str("sid", s.sid).Msg("actualización de perfil tardía descartada")
		return false
	}

	var cur *sessionstore.Record
	if rec, ok := s.m.fallback[s.sid]; ok {
		cur = &rec
	} else if rec, err := s.m.store.Get(ctx, s.sid); err == nil {
		cur = rec
	}
	if cur == nil || cur.Token == "" {
		return false
	}
	s.m.saveLocked(ctx, s.sid, sessionstore.Record{Token: cur.Token, User: user})
	return true
}
