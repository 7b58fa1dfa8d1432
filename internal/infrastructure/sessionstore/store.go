// Package sessionstore implementa la persistencia del registro de sesión
// (token + perfil) detrás de una interfaz común. Backends disponibles:
// memoria (solo proceso), archivo JSON (sobrevive reinicios) y redis.
package sessionstore

import (
	"context"

	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// Record es el registro de sesión persistido. Invariante: token y usuario
// viajan siempre juntos; nunca se guarda uno sin el otro.
type Record struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// Store es el contrato de persistencia de sesiones.
//
// Get devuelve (nil, nil) si la sesión no existe; los datos corruptos se
// tratan como inexistentes, nunca como error. Los errores reales son fallos
// de infraestructura (disco, red) y el llamador decide degradar.
type Store interface {
	Get(ctx context.Context, sid string) (*Record, error)
	Put(ctx context.Context, sid string, rec Record) error
	Delete(ctx context.Context, sid string) error
}
