package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gestrack/gestrack-web/internal/application/dto"
	"github.com/gestrack/gestrack-web/internal/domain"
	"github.com/gestrack/gestrack-web/internal/infrastructure/api"
)

// validate es el validador compartido de formularios.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateForm corre el validador y devuelve los errores por campo en la
// misma forma que los del backend, para que la vista los enlace igual.
func validateForm(form any) map[string][]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"_form": {domain.ErrInvalidInput.Error()}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es requerido"
	case "email":
		return "Por favor, ingresa un email válido"
	case "max":
		return "El valor excede la longitud máxima"
	default:
		return "Valor inválido"
	}
}

// respondError traduce cualquier error de las capas de aplicación al cuerpo
// de error del gateway. Los fallos de transporte y los de validación del
// backend llegan ya con la misma forma (*api.Error); aquí solo se elige el
// status.
func respondError(c *fiber.Ctx, err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		status := fiber.StatusBadRequest
		switch {
		case apiErr.Transport:
			status = fiber.StatusBadGateway
		case apiErr.Code == "AUTH_ERROR" || apiErr.Code == "UNAUTHORIZED":
			status = fiber.StatusUnauthorized
		case apiErr.Code == "FORBIDDEN":
			status = fiber.StatusForbidden
		case apiErr.Code == "NOT_FOUND":
			status = fiber.StatusNotFound
		}
		code := apiErr.Code
		if code == "" {
			code = "CONNECTION_ERROR"
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:    code,
			Message: apiErr.Message,
			Fields:  apiErr.Fields,
		})
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "SESSION_EXPIRED", Message: err.Error(),
		})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "USER_NOT_FOUND", Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
}
