package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// ErrInvalidCredentials cubre tanto "usuario no existe" como "password
// incorrecto": el texto debe ser idéntico en ambos casos para no permitir
// enumeración de cuentas.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrRateLimited        = errors.New("Too many login attempts. Please try again later.")
	ErrEmailAlreadyExists = errors.New("an attendant with this email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrNoSession          = errors.New("no active session")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrAuthSystem         = errors.New("Authentication system error")
)
