package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrSessionExpired   = errors.New("sesión expirada o inexistente")
	ErrStorageDegraded  = errors.New("almacenamiento de sesión no disponible")
	ErrViewNotMounted   = errors.New("la vista no está montada")
	ErrWeakPassword     = errors.New("la contraseña no cumple los requisitos mínimos")
	ErrPasswordMismatch = errors.New("las contraseñas no coinciden")
)
