// Package password implementa la heurística de fortaleza de contraseñas que
// usan los formularios de registro y cambio de contraseña. Las reglas
// coinciden con las validaciones del backend para que el usuario vea el
// mismo veredicto antes y después de enviar el formulario.
package password

import "unicode"

// Strength nivel de fortaleza estimado.
type Strength string

// Niveles posibles, del más débil al más fuerte.
const (
	Debil     Strength = "debil"
	Media     Strength = "media"
	Fuerte    Strength = "fuerte"
	MuyFuerte Strength = "muy_fuerte"
)

// Validate aplica los requisitos mínimos: 8 caracteres, una mayúscula, una
// minúscula y un dígito. Devuelve la lista de requisitos incumplidos en
// mensajes listos para mostrar; vacía si la contraseña es válida.
func Validate(pw string) []string {
	var errs []string
	if len(pw) < 8 {
		errs = append(errs, "La contraseña debe tener mínimo 8 caracteres")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		errs = append(errs, "La contraseña debe contener al menos una mayúscula")
	}
	if !lower {
		errs = append(errs, "La contraseña debe contener al menos una minúscula")
	}
	if !digit {
		errs = append(errs, "La contraseña debe contener al menos un número")
	}
	return errs
}

// IsValid indica si la contraseña cumple los requisitos mínimos.
func IsValid(pw string) bool {
	return len(Validate(pw)) == 0
}

// Score calcula el nivel de fortaleza: puntúa longitud (8/12/16) y clases de
// caracteres (minúscula, mayúscula, dígito, símbolo).
func Score(pw string) Strength {
	score := 0

	if len(pw) >= 8 {
		score++
	}
	if len(pw) >= 12 {
		score++
	}
	if len(pw) >= 16 {
		score++
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return Debil
	case score <= 4:
		return Media
	case score <= 6:
		return Fuerte
	default:
		return MuyFuerte
	}
}

// Label devuelve el texto para mostrar junto al indicador de fortaleza.
func Label(s Strength) string {
	switch s {
	case Debil:
		return "Débil"
	case Media:
		return "Media"
	case Fuerte:
		return "Fuerte"
	case MuyFuerte:
		return "Muy Fuerte"
	default:
		return ""
	}
}
