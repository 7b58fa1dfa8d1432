package api

import (
	"context"
	"net/http"

	"github.com/gestrack/gestrack-web/internal/domain/entity"
)

// Credentials es el resultado de login y registro: token emitido por el
// backend más el perfil del usuario.
type Credentials struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// RegisterRequest datos del alta de usuario.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ProfileUpdate campos editables del perfil.
type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type resetRequest struct {
	Token       string `json:"token,omitempty"`
	Email       string `json:"email,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// Login autentica contra el backend. remember se reenvía tal cual: la
// duración extendida del token la decide el servidor.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (*Credentials, error) {
	var out Credentials
	_, err := c.do(ctx, http.MethodPost, "/auth/login", "", nil,
		loginRequest{Email: email, Password: password, RememberMe: remember}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register da de alta un usuario. El backend devuelve token + perfil
// (semántica de auto-login).
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*Credentials, error) {
	var out Credentials
	_, err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, in, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NotifyLogout avisa al backend del cierre de sesión. Best effort: el
// llamador ignora el error porque el logout local ya es efectivo.
func (c *Client) NotifyLogout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, nil)
	return err
}

// UpdateProfile actualiza nombre y/o email y devuelve el perfil resultante.
func (c *Client) UpdateProfile(ctx context.Context, token, userID string, in ProfileUpdate) (*entity.User, error) {
	var out entity.User
	_, err := c.do(ctx, http.MethodPut, "/auth/users/"+userID+"/profile", token, nil, in, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword cambia la contraseña del usuario autenticado.
func (c *Client) ChangePassword(ctx context.Context, token, current, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/change-password", token,
		nil, changePasswordRequest{CurrentPassword: current, NewPassword: newPassword}, nil)
	return err
}

// RequestPasswordReset solicita el envío del enlace de recuperación.
// Devuelve el error real del backend; la política anti-enumeración se
// aplica una capa más arriba.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/forgot-password", "",
		nil, resetRequest{Email: email}, nil)
	return err
}

// ResetPassword consume el token de recuperación y fija la nueva contraseña.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/reset-password", "",
		nil, resetRequest{Token: token, NewPassword: newPassword}, nil)
	return err
}

// Users devuelve la lista completa de usuarios (solo Admin en el backend).
func (c *Client) Users(ctx context.Context, token string) ([]entity.User, error) {
	var out []entity.User
	_, err := c.do(ctx, http.MethodGet, "/auth/users", token, nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
