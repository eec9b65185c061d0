package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator"
	"golang.org/x/text/cases"
)

var validate = validator.New()

// emailRe validación sintáctica mínima; la unicidad real la garantiza la DB.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// commonPasswords blocklist de passwords triviales rechazados en el registro.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"admin123":    {},
	"letmein123":  {},
	"welcome123":  {},
}

var foldCaser = cases.Fold()

// NormalizeEmail recorta espacios y aplica case folding Unicode: toda
// comparación y almacenamiento de emails pasa por aquí.
func NormalizeEmail(email string) string {
	return foldCaser.String(strings.TrimSpace(email))
}

// ValidEmail valida la forma sintáctica de un email.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePassword aplica la política de fuerza y devuelve la lista itemizada
// de reglas incumplidas, en orden fijo (determinista para la UI y los tests).
func ValidatePassword(password string) []string {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain a digit")
	}
	if _, found := commonPasswords[strings.ToLower(password)]; found {
		errs = append(errs, "password is too common")
	}
	return errs
}

// ValidationError agrupa errores de validación itemizados. Son errores
// locales no sensibles: se devuelven tal cual al caller para el formulario
// y no generan evento de auditoría.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

// structErrors traduce los errores del validator a mensajes estables por campo.
func structErrors(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"invalid request"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, "invalid email format")
		case "oneof":
			msgs = append(msgs, "invalid "+field)
		case "min":
			msgs = append(msgs, field+" is too short")
		case "max":
			msgs = append(msgs, field+" is too long")
		default:
			msgs = append(msgs, "invalid "+field)
		}
	}
	return msgs
}
