// Package auth implementa los casos de uso de autenticación del gateway:
// envuelve los endpoints de auth del backend, normaliza sus resultados y
// mantiene el registro de sesión como efecto secundario de login, registro
// y actualización de perfil.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gestrack/gestrack-web/internal/application/session"
	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/domain/entity"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/pkg/logger"
	"github.com/gestrack/gestrack-web/pkg/password"
)

// Service casos de uso de autenticación.
type Service struct {
	api *api.Client
	log *logger.Logger
}

// New construye el servicio.
func New(apiClient *api.Client, log *logger.Logger) *Service {
	return &Service{api: apiClient, log: log}
}

// Login autentica contra el backend y persiste la sesión. remember es
// metadato consultivo para la duración del token; el gateway no implementa
// expiración propia.
func (s *Service) Login(ctx context.Context, sess *session.Session, email, pw string, remember bool) (*entity.User, error) {
	epoch := sess.Begin()
	creds, err := s.api.Login(ctx, email, pw, remember)
	if err != nil {
		return nil, err
	}
	if !sess.CommitSave(ctx, epoch, creds.Token, creds.User) {
		// Logout ocurrido mientras el login estaba en vuelo: el logout gana.
		return nil, domain.ErrSessionExpired
	}
	return &creds.User, nil
}

// Register da de alta el usuario y, como el backend emite token en el alta,
// deja la sesión iniciada (semántica de auto-login). La fortaleza de la
// contraseña se valida localmente antes de llamar al backend, con las
// mismas reglas que aplicará él.
func (s *Service) Register(ctx context.Context, sess *session.Session, in api.RegisterRequest) (*entity.User, error) {
	if errs := password.Validate(in.Password); len(errs) > 0 {
		return nil, &api.Error{
			Code:    "VALIDATION",
			Message: domain.ErrWeakPassword.Error(),
			Fields:  map[string][]string{"password": errs},
		}
	}
	if !domain.ParseRole(in.Role).Valid() {
		valid := make([]string, 0, len(domain.AllRoles()))
		for _, r := range domain.AllRoles() {
			valid = append(valid, r.String())
		}
		return nil, &api.Error{
			Code:    "VALIDATION",
			Message: domain.ErrInvalidInput.Error(),
			Fields:  map[string][]string{"role": {"Rol desconocido; roles válidos: " + strings.Join(valid, ", ")}},
		}
	}

	epoch := sess.Begin()
	creds, err := s.api.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if !sess.CommitSave(ctx, epoch, creds.Token, creds.User) {
		return nil, domain.ErrSessionExpired
	}
	return &creds.User, nil
}

// Logout cierra la sesión local de forma incondicional: nunca falla. El
// aviso al backend es best effort y no condiciona el resultado.
func (s *Service) Logout(ctx context.Context, sess *session.Session) {
	token := sess.Token(ctx)
	sess.Clear(ctx)
	if token == "" {
		return
	}
	if err := s.api.NotifyLogout(ctx, token); err != nil {
		s.log.Debug().Err(err).Msg("aviso de logout al backend falló; la sesión local ya está cerrada")
	}
}

// UpdateProfile actualiza nombre/email y sobrescribe el perfil de la sesión
// conservando el token. Si la sesión se cerró mientras la petición estaba
// en vuelo, el resultado se descarta.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, userID string, in api.ProfileUpdate) (*entity.User, error) {
	token := sess.Token(ctx)
	if token == "" {
		return nil, domain.ErrSessionExpired
	}
	epoch := sess.Begin()
	user, err := s.api.UpdateProfile(ctx, token, userID, in)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Code == "NOT_FOUND" {
			// La cuenta desapareció con la sesión viva (borrada por un admin).
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !sess.CommitUser(ctx, epoch, *user) {
		return nil, domain.ErrSessionExpired
	}
	return user, nil
}

// ChangePassword valida localmente y delega en el backend. No toca la
// sesión: el token vigente sigue siendo válido.
func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, current, newPW, confirm string) error {
	if newPW != confirm {
		return &api.Error{
			Code:    "VALIDATION",
			Message: domain.ErrPasswordMismatch.Error(),
			Fields:  map[string][]string{"confirm_password": {"Las contraseñas no coinciden"}},
		}
	}
	if errs := password.Validate(newPW); len(errs) > 0 {
		return &api.Error{
			Code:    "VALIDATION",
			Message: domain.ErrWeakPassword.Error(),
			Fields:  map[string][]string{"new_password": errs},
		}
	}
	token := sess.Token(ctx)
	if token == "" {
		return domain.ErrSessionExpired
	}
	return s.api.ChangePassword(ctx, token, current, newPW)
}

// RequestPasswordReset resuelve SIEMPRE como éxito para el llamador, exista
// o no el email e incluso si la llamada al backend falló. Es política
// anti-enumeración deliberada: el fallo real solo queda en el log de debug.
// No "arreglar" devolviendo el error.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) {
	if err := s.api.RequestPasswordReset(ctx, email); err != nil {
		s.log.Debug().Err(err).Msg("solicitud de recuperación falló; se reporta éxito igualmente")
	}
}

// ResetPassword consume el token de recuperación. Devuelve fallo
// estructurado (token inválido/expirado, contraseñas distintas, contraseña
// débil). No inicia sesión: el usuario vuelve al login.
func (s *Service) ResetPassword(ctx context.Context, token, newPW, confirm string) error {
	if newPW != confirm {
		return &api.Error{
			Code:    "VALIDATION",
			Message: domain.ErrPasswordMismatch.Error(),
			Fields:  map[string][]string{"confirm_password": {"Las contraseñas no coinciden"}},
		}
	}
	if errs := password.Validate(newPW); len(errs) > 0 {
		return &api.Error{
			Code:    "VALIDATION",
			Message: domain.ErrWeakPassword.Error(),
			Fields:  map[string][]string{"new_password": errs},
		}
	}
	return s.api.ResetPassword(ctx, token, newPW)
}
