package dto

import "github.com/gestrack/gestrack-web/internal/domain/entity"

// LoginForm formulario de inicio de sesión.
type LoginForm struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
	From       string `json:"from,omitempty"` // path de retorno tras el login
}

// RegisterForm formulario de alta de usuario.
type RegisterForm struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// ProfileForm edición de perfil.
type ProfileForm struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// ChangePasswordForm cambio de contraseña del usuario autenticado.
type ChangePasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ForgotPasswordForm solicitud de enlace de recuperación.
type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordForm consumo del enlace de recuperación.
type ResetPasswordForm struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// SessionResponse respuesta de login/registro: el perfil y a dónde navegar.
type SessionResponse struct {
	User       entity.User `json:"user"`
	RedirectTo string      `json:"redirect_to"`
	Message    string      `json:"message,omitempty"`
}

// PasswordStrengthResponse respuesta del indicador de fortaleza.
type PasswordStrengthResponse struct {
	Strength string   `json:"strength"`
	Label    string   `json:"label"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
}
