package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/domain"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	"github.com/jhoicas/pos-auth-api/internal/domain/repository"
	"github.com/jhoicas/pos-auth-api/pkg/logger"
)

// Prefijos fijos de claves: ventana de rate limit por email y sesiones en el
// secure store por token.
const (
	rateKeyPrefix    = "attendant_auth_"
	sessionKeyPrefix = "attendant_session_"
)

// Policy constantes de política de bloqueo y sesión. Los valores por defecto
// son fijos: 5 fallos → 30 minutos de bloqueo, sesiones de 8 horas.
type Policy struct {
	MaxFailedAttempts int
	LockDuration      time.Duration
	SessionTTL        time.Duration
}

// DefaultPolicy devuelve la política estándar del POS.
func DefaultPolicy() Policy {
	return Policy{
		MaxFailedAttempts: 5,
		LockDuration:      30 * time.Minute,
		SessionTTL:        8 * time.Hour,
	}
}

// AuthUseCase orquesta login, registro y ciclo de vida de sesión de attendants.
type AuthUseCase struct {
	attendants repository.AttendantRepository
	hasher     PasswordHasher
	sessions   SessionStore
	limiter    *RateLimiter
	auditor    SecurityAuditor
	policy     Policy
	log        *logger.Logger
	now        func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. Valores cero en policy se
// reemplazan por DefaultPolicy.
func NewAuthUseCase(
	attendants repository.AttendantRepository,
	hasher PasswordHasher,
	sessions SessionStore,
	limiter *RateLimiter,
	auditor SecurityAuditor,
	policy Policy,
	log *logger.Logger,
) *AuthUseCase {
	def := DefaultPolicy()
	if policy.MaxFailedAttempts <= 0 {
		policy.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if policy.LockDuration <= 0 {
		policy.LockDuration = def.LockDuration
	}
	if policy.SessionTTL <= 0 {
		policy.SessionTTL = def.SessionTTL
	}
	return &AuthUseCase{
		attendants: attendants,
		hasher:     hasher,
		sessions:   sessions,
		limiter:    limiter,
		auditor:    auditor,
		policy:     policy,
		log:        log,
		now:        time.Now,
	}
}

// Login ejecuta el flujo completo de autenticación. Nunca lanza más allá de
// la API: todo camino devuelve un LoginResult con success/error.
//
// Orden de compuertas: rate limit → validación de entrada → lookup →
// chequeo de bloqueo → verificación de password. El chequeo de bloqueo va
// antes de la verificación: durante la ventana el rechazo es incondicional
// aunque el password fuera correcto.
func (uc *AuthUseCase) Login(in dto.LoginRequest) *dto.LoginResult {
	email := NormalizeEmail(in.Email)
	rateKey := rateKeyPrefix + email

	if !uc.limiter.Allow(rateKey) {
		// El limitador ya emitió rate_limit_exceeded.
		return &dto.LoginResult{Success: false, Error: domain.ErrRateLimited.Error()}
	}

	// Errores de validación: locales, sin evento de auditoría.
	if email == "" {
		return &dto.LoginResult{Success: false, Error: "email is required"}
	}
	if in.Password == "" {
		return &dto.LoginResult{Success: false, Error: "password is required"}
	}
	if !ValidEmail(email) {
		return &dto.LoginResult{Success: false, Error: "invalid email format"}
	}

	att, err := uc.attendants.GetActiveByEmail(email)
	if err != nil {
		return uc.systemFailure("login", email, err)
	}
	if att == nil {
		// Indistinguible de un password incorrecto (anti-enumeración).
		uc.audit(entity.EventFailedLogin, email, map[string]any{
			"reason": "user_not_found",
		}, entity.SeverityMedium)
		return &dto.LoginResult{Success: false, Error: domain.ErrInvalidCredentials.Error()}
	}

	now := uc.now()
	if att.Locked(now) {
		uc.audit(entity.EventLockedAccountAccess, att.ID, map[string]any{
			"locked_until": att.LockedUntil,
		}, entity.SeverityHigh)
		return &dto.LoginResult{
			Success:     false,
			Error:       lockMessage(*att.LockedUntil),
			LockedUntil: att.LockedUntil,
		}
	}

	if !uc.hasher.Verify(in.Password, att.PasswordHash) {
		return uc.registerFailure(att, now)
	}

	if err := uc.attendants.RecordSuccess(att.ID, now); err != nil {
		return uc.systemFailure("login", att.ID, err)
	}
	att.FailedAttempts = 0
	att.LockedUntil = nil
	att.LastLogin = &now

	token, err := generateToken()
	if err != nil {
		return uc.systemFailure("login", att.ID, err)
	}
	session := &entity.Session{
		Token:       token,
		AttendantID: att.ID,
		Name:        att.Name,
		Email:       att.Email,
		Role:        att.Role,
		LoginTime:   now,
		ExpiresAt:   now.Add(uc.policy.SessionTTL),
	}
	if err := uc.sessions.Set(sessionKeyPrefix+token, session); err != nil {
		return uc.systemFailure("login", att.ID, err)
	}

	uc.limiter.Reset(rateKey)
	uc.audit(entity.EventSuccessfulLogin, att.ID, map[string]any{
		"email": att.Email,
	}, entity.SeverityInfo)

	expires := session.ExpiresAt
	return &dto.LoginResult{
		Success:   true,
		Token:     token,
		ExpiresAt: &expires,
		Attendant: toAttendantResponse(att),
	}
}

// registerFailure incrementa el contador en exactamente 1 y, si alcanza el
// umbral, fija locked_until en el mismo UPDATE.
func (uc *AuthUseCase) registerFailure(att *entity.Attendant, now time.Time) *dto.LoginResult {
	attempts := att.FailedAttempts + 1
	var lockedUntil *time.Time
	if attempts >= uc.policy.MaxFailedAttempts {
		t := now.Add(uc.policy.LockDuration)
		lockedUntil = &t
	}
	if err := uc.attendants.RecordFailure(att.ID, attempts, lockedUntil); err != nil {
		return uc.systemFailure("login", att.ID, err)
	}

	severity := entity.SeverityMedium
	if lockedUntil != nil {
		severity = entity.SeverityHigh
	}
	uc.audit(entity.EventFailedLogin, att.ID, map[string]any{
		"reason":          "wrong_password",
		"failed_attempts": attempts,
		"locked":          lockedUntil != nil,
	}, severity)

	if lockedUntil != nil {
		return &dto.LoginResult{
			Success:     false,
			Error:       lockMessage(*lockedUntil),
			LockedUntil: lockedUntil,
		}
	}
	return &dto.LoginResult{Success: false, Error: domain.ErrInvalidCredentials.Error()}
}

// CreateAttendant registra un attendant nuevo. Devuelve *ValidationError con
// la lista itemizada si la entrada incumple la política, ErrEmailAlreadyExists
// en colisión de email (sin revelar estado de la cuenta existente).
func (uc *AuthUseCase) CreateAttendant(in dto.CreateAttendantRequest) (*dto.AttendantResponse, error) {
	var errs []string
	if err := validate.Struct(in); err != nil {
		errs = structErrors(err)
	}
	errs = append(errs, ValidatePassword(in.Password)...)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	email := NormalizeEmail(in.Email)
	exists, err := uc.attendants.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	now := uc.now()
	att := &entity.Attendant{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.attendants.Create(att); err != nil {
		return nil, err
	}

	uc.audit(entity.EventAttendantCreated, att.ID, map[string]any{
		"role": role,
	}, entity.SeverityInfo)
	return toAttendantResponse(att), nil
}

// CheckSession valida el token contra el secure store. Una sesión expirada se
// purga como efecto colateral y se trata igual que "nunca logueado".
func (uc *AuthUseCase) CheckSession(token string) (*dto.SessionResponse, error) {
	if token == "" {
		return nil, domain.ErrNoSession
	}
	key := sessionKeyPrefix + token
	s, err := uc.sessions.Get(key)
	if err != nil {
		if uc.log != nil {
			uc.log.Error().Err(err).Msg("read session store")
		}
		return nil, domain.ErrNoSession
	}
	if s == nil {
		return nil, domain.ErrNoSession
	}
	if s.Expired(uc.now()) {
		_ = uc.sessions.Remove(key)
		return nil, domain.ErrNoSession
	}
	return &dto.SessionResponse{
		AttendantID: s.AttendantID,
		Name:        s.Name,
		Email:       s.Email,
		Role:        s.Role,
		LoginTime:   s.LoginTime,
		ExpiresAt:   s.ExpiresAt,
	}, nil
}

// Logout emite el evento si había sesión y purga la entrada sin condiciones.
func (uc *AuthUseCase) Logout(token string) error {
	if token == "" {
		return nil
	}
	key := sessionKeyPrefix + token
	if s, err := uc.sessions.Get(key); err == nil && s != nil {
		uc.audit(entity.EventLogout, s.AttendantID, nil, entity.SeverityInfo)
	}
	return uc.sessions.Remove(key)
}

// systemFailure: error de infraestructura. Se loguea con detalle completo,
// se audita, y al caller solo le llega el mensaje genérico.
func (uc *AuthUseCase) systemFailure(op, resourceID string, err error) *dto.LoginResult {
	if uc.log != nil {
		uc.log.Error().Err(err).Str("op", op).Msg("authentication infrastructure failure")
	}
	uc.audit(entity.EventAuthSystemError, resourceID, map[string]any{
		"op": op,
	}, entity.SeverityHigh)
	return &dto.LoginResult{Success: false, Error: domain.ErrAuthSystem.Error()}
}

func (uc *AuthUseCase) audit(eventType, resourceID string, details map[string]any, severity string) {
	if uc.auditor == nil {
		return
	}
	uc.auditor.LogEvent(eventType, "attendant", resourceID, details, severity)
}

func lockMessage(until time.Time) string {
	return fmt.Sprintf("Account locked due to too many failed attempts. Try again after %s.", until.Format("15:04"))
}

// generateToken genera el token bearer opaco (256 bits de crypto/rand en hex).
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func toAttendantResponse(a *entity.Attendant) *dto.AttendantResponse {
	if a == nil {
		return nil
	}
	return &dto.AttendantResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}
