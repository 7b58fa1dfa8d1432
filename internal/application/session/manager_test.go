package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestrack/gestrack-web/internal/application/session"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
	"github.com/gestrack/gestrack-web/internal/infrastructure/sessionstore"
	"github.com/gestrack/gestrack-web/pkg/logger"
)

// failingStore simula un backend de persistencia caído en escritura.
type failingStore struct {
	inner   sessionstore.Store
	failPut bool
	failGet bool
}

func (f *failingStore) Get(ctx context.Context, sid string) (*sessionstore.Record, error) {
	if f.failGet {
		return nil, errors.New("store caído")
	}
	return f.inner.Get(ctx, sid)
}

func (f *failingStore) Put(ctx context.Context, sid string, rec sessionstore.Record) error {
	if f.failPut {
		return errors.New("store caído")
	}
	return f.inner.Put(ctx, sid, rec)
}

func (f *failingStore) Delete(ctx context.Context, sid string) error {
	return f.inner.Delete(ctx, sid)
}

func testUser(name string) entity.User {
	return entity.User{ID: "u1", FullName: name, Email: "ana@gestrack.com", Role: "Admin", IsActive: true}
}

func TestSessionSaveClear(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())
	sess := mgr.Session("sid-1")

	assert.False(t, sess.IsAuthenticated(ctx))
	assert.Nil(t, sess.CurrentUser(ctx))

	// Token y usuario viajan juntos.
	sess.Save(ctx, "tok-abc", testUser("Ana"))
	assert.True(t, sess.IsAuthenticated(ctx))
	assert.Equal(t, "tok-abc", sess.Token(ctx))
	require.NotNil(t, sess.CurrentUser(ctx))
	assert.Equal(t, "Ana", sess.CurrentUser(ctx).FullName)

	// Clear borra ambos de una vez.
	sess.Clear(ctx)
	assert.False(t, sess.IsAuthenticated(ctx))
	assert.Nil(t, sess.CurrentUser(ctx))
	assert.Equal(t, "", sess.Token(ctx))
}

func TestSessionAislamientoPorSID(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())

	a := mgr.Session("sid-a")
	b := mgr.Session("sid-b")
	a.Save(ctx, "tok-a", testUser("Ana"))

	assert.True(t, a.IsAuthenticated(ctx))
	assert.False(t, b.IsAuthenticated(ctx))
}

// Un logout siempre gana sobre la respuesta tardía de un login lanzado antes.
func TestLogoutGanaALoginTardio(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())
	sess := mgr.Session("sid-1")

	epoch := sess.Begin()
	// El usuario cierra sesión mientras el login sigue en vuelo.
	sess.Clear(ctx)

	ok := sess.CommitSave(ctx, epoch, "tok-tardio", testUser("Ana"))
	assert.False(t, ok, "la respuesta tardía debe descartarse")
	assert.False(t, sess.IsAuthenticated(ctx))
}

func TestCommitSaveEnOrden(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())
	sess := mgr.Session("sid-1")

	epoch := sess.Begin()
	ok := sess.CommitSave(ctx, epoch, "tok-abc", testUser("Ana"))
	assert.True(t, ok)
	assert.True(t, sess.IsAuthenticated(ctx))
}

func TestCommitUserConservaToken(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())
	sess := mgr.Session("sid-1")
	sess.Save(ctx, "tok-abc", testUser("Ana"))

	epoch := sess.Begin()
	ok := sess.CommitUser(ctx, epoch, testUser("Ana María"))
	assert.True(t, ok)
	assert.Equal(t, "tok-abc", sess.Token(ctx), "actualizar el perfil no toca el token")
	assert.Equal(t, "Ana María", sess.CurrentUser(ctx).FullName)
}

func TestCommitUserTardioDescartado(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(sessionstore.NewMemoryStore(), logger.Nop())
	sess := mgr.Session("sid-1")
	sess.Save(ctx, "tok-abc", testUser("Ana"))

	epoch := sess.Begin()
	sess.Clear(ctx)
	assert.False(t, sess.CommitUser(ctx, epoch, testUser("Ana María")))
	assert.False(t, sess.IsAuthenticated(ctx))
}

// Si la persistencia falla al escribir, la sesión sigue viva en memoria.
func TestDegradacionAMemoria(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{inner: sessionstore.NewMemoryStore(), failPut: true}
	mgr := session.NewManager(fs, logger.Nop())
	sess := mgr.Session("sid-1")

	sess.Save(ctx, "tok-abc", testUser("Ana"))
	assert.True(t, sess.IsAuthenticated(ctx), "el login no debe romperse por el store")
	assert.Equal(t, "Ana", sess.CurrentUser(ctx).FullName)

	// El logout de una sesión degradada también funciona.
	sess.Clear(ctx)
	assert.False(t, sess.IsAuthenticated(ctx))
}

// Una lectura fallida cuenta como no autenticado, nunca como error.
func TestLecturaFallidaEsAusencia(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{inner: sessionstore.NewMemoryStore(), failGet: true}
	mgr := session.NewManager(fs, logger.Nop())
	sess := mgr.Session("sid-1")

	assert.False(t, sess.IsAuthenticated(ctx))
	assert.Nil(t, sess.CurrentUser(ctx))
}
