package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gestrack/gestrack-web/internal/application/auth"
	"github.com/gestrack/gestrack-web/internal/application/dto"
	"github.com/gestrack/gestrack-web/internal/application/nav"
	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
	"github.com/gestrack/gestrack-web/pkg/password"
)

// Mensajes de la vista de autenticación. Se mantienen los literales que
// mostraba la aplicación original.
const (
	msgResetRequested = "Si existe una cuenta con ese email, recibirás un enlace de recuperación en los próximos minutos."
	msgLoggedOut      = "Sesión cerrada correctamente"
)

// AuthHandler maneja login, registro, logout, perfil y recuperación de
// contraseña.
type AuthHandler struct {
	svc   *auth.Service
	views *ViewRegistry
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(svc *auth.Service, views *ViewRegistry) *AuthHandler {
	return &AuthHandler{svc: svc, views: views}
}

// LoginPage devuelve el view-model de la página de login: el aviso y el
// path de retorno que haya adjuntado la guardia de rutas.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": c.Query("message"),
		"from":    c.Query("from"),
	})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginForm  true  "email, password, remember_me"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateForm(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "revisa los campos del formulario", Fields: fields})
	}

	user, err := h.svc.Login(c.Context(), GetSession(c), in.Email, in.Password, in.RememberMe)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SessionResponse{
		User:       *user,
		RedirectTo: h.redirectAfterLogin(in.From, domain.ParseRole(user.Role)),
		Message:    "Inicio de sesión exitoso",
	})
}

// redirectAfterLogin honra el retorno adjuntado por la guardia si es un
// path interno; si no, despacha el dashboard del rol.
func (h *AuthHandler) redirectAfterLogin(from string, role domain.Role) string {
	if from != "" && strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
		return from
	}
	return nav.DashboardPath(role)
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterForm  true  "full_name, email, password, role"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateForm(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "revisa los campos del formulario", Fields: fields})
	}

	user, err := h.svc.Register(c.Context(), GetSession(c), api.RegisterRequest{
		FullName: in.FullName,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{
		User:       *user,
		RedirectTo: nav.DashboardPath(domain.ParseRole(user.Role)),
		Message:    "Usuario registrado correctamente",
	})
}

// Logout cierra la sesión local (nunca falla) y desmonta las vistas vivas
// de la sesión.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := GetSession(c)
	h.svc.Logout(c.Context(), sess)
	if h.views != nil {
		h.views.CloseAll(sess.SID())
	}
	return c.JSON(fiber.Map{
		"message":     msgLoggedOut,
		"redirect_to": "/login",
	})
}

// UpdateProfile actualiza nombre/email del usuario autenticado y refresca
// el perfil guardado en la sesión conservando el token.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	}
	var in dto.ProfileForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateForm(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "revisa los campos del formulario", Fields: fields})
	}

	updated, err := h.svc.UpdateProfile(c.Context(), GetSession(c), user.ID, api.ProfileUpdate{
		FullName: in.FullName,
		Email:    in.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// ChangePassword cambia la contraseña del usuario autenticado. No toca la
// sesión.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateForm(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "revisa los campos del formulario", Fields: fields})
	}
	if err := h.svc.ChangePassword(c.Context(), GetSession(c), in.CurrentPassword, in.NewPassword, in.ConfirmPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contraseña actualizada correctamente"})
}

// ForgotPassword solicita el enlace de recuperación. La respuesta es la
// misma exista o no la cuenta, e incluso si el backend falló: política
// anti-enumeración.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateForm(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "revisa los campos del formulario", Fields: fields})
	}
	h.svc.RequestPasswordReset(c.Context(), in.Email)
	return c.JSON(fiber.Map{"message": msgResetRequested})
}

// ResetPassword consume el token de recuperación. No inicia sesión.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateForm(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "revisa los campos del formulario", Fields: fields})
	}
	if err := h.svc.ResetPassword(c.Context(), in.Token, in.NewPassword, in.ConfirmPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Contraseña restablecida. Ya puedes iniciar sesión.",
		"redirect_to": "/login",
	})
}

// PasswordStrength evalúa la fortaleza de una contraseña para el indicador
// del formulario.
func (h *AuthHandler) PasswordStrength(c *fiber.Ctx) error {
	var in struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s := password.Score(in.Password)
	errs := password.Validate(in.Password)
	return c.JSON(dto.PasswordStrengthResponse{
		Strength: string(s),
		Label:    password.Label(s),
		Valid:    len(errs) == 0,
		Errors:   errs,
	})
}
