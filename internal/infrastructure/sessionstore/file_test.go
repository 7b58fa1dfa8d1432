package sessionstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
	"github.com/gestrack/gestrack-web/internal/infrastructure/sessionstore"
)

func testRecord() sessionstore.Record {
	return sessionstore.Record{
		Token: "tok-abc",
		User:  entity.User{ID: "u1", FullName: "Ana", Email: "ana@gestrack.com", Role: "Admin"},
	}
}

func TestFileStorePersistencia(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")

	st, err := sessionstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, "sid-1", testRecord()))

	// Un store nuevo sobre el mismo archivo ve la sesión: sobrevive reinicios.
	st2, err := sessionstore.NewFileStore(path)
	require.NoError(t, err)
	rec, err := st2.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "tok-abc", rec.Token)
	assert.Equal(t, "Ana", rec.User.FullName)
}

func TestFileStoreAusencia(t *testing.T) {
	ctx := context.Background()
	st, err := sessionstore.NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	rec, err := st.Get(ctx, "no-existe")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")
	st, err := sessionstore.NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, st.Put(ctx, "sid-1", testRecord()))
	require.NoError(t, st.Delete(ctx, "sid-1"))

	rec, err := st.Get(ctx, "sid-1")
	assert.NoError(t, err)
	assert.Nil(t, rec)

	// El borrado también se persiste.
	st2, err := sessionstore.NewFileStore(path)
	require.NoError(t, err)
	rec, err = st2.Get(ctx, "sid-1")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

// Un archivo corrupto no rompe el arranque: equivale a sesiones expiradas.
func TestFileStoreArchivoCorrupto(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{esto no es json"), 0o600))

	st, err := sessionstore.NewFileStore(path)
	require.NoError(t, err)

	rec, err := st.Get(ctx, "sid-1")
	assert.NoError(t, err)
	assert.Nil(t, rec)

	// Y se puede volver a escribir encima.
	require.NoError(t, st.Put(ctx, "sid-1", testRecord()))
}

func TestFileStoreRutaIlegible(t *testing.T) {
	// Un directorio en lugar de archivo: el error de apertura se reporta
	// como almacenamiento degradado.
	_, err := sessionstore.NewFileStore(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageDegraded)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := sessionstore.NewMemoryStore()

	rec, err := st.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, st.Put(ctx, "sid-1", testRecord()))
	rec, err = st.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "tok-abc", rec.Token)

	require.NoError(t, st.Delete(ctx, "sid-1"))
	rec, err = st.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
