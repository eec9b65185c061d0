package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-auth-api/internal/application/auth"
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/application/usecase"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	apphttp "github.com/jhoicas/pos-auth-api/internal/interfaces/http"
	"github.com/jhoicas/pos-auth-api/internal/infrastructure/securestore"
	"github.com/jhoicas/pos-auth-api/pkg/passwd"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para el stack completo de la API
// ──────────────────────────────────────────────────────────────────────────────

type memAttendantRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Attendant
}

func newMemAttendantRepo() *memAttendantRepo {
	return &memAttendantRepo{byID: make(map[string]*entity.Attendant)}
}

func (r *memAttendantRepo) Create(a *entity.Attendant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *memAttendantRepo) GetByID(id string) (*entity.Attendant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, found := r.byID[id]
	if !found {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAttendantRepo) GetActiveByEmail(email string) (*entity.Attendant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if strings.EqualFold(a.Email, email) && a.IsActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAttendantRepo) EmailExists(email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAttendantRepo) RecordFailure(id string, failedAttempts int, lockedUntil *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byID[id]
	a.FailedAttempts = failedAttempts
	a.LockedUntil = lockedUntil
	return nil
}

func (r *memAttendantRepo) RecordSuccess(id string, lastLogin time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byID[id]
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.LastLogin = &lastLogin
	return nil
}

func (r *memAttendantRepo) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].IsActive = active
	return nil
}

func (r *memAttendantRepo) List(limit, offset int) ([]*entity.Attendant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Attendant
	for _, a := range r.byID {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

type memEventRepo struct {
	mu     sync.Mutex
	events []*entity.SecurityEvent
}

func (r *memEventRepo) Insert(ev *entity.SecurityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *memEventRepo) ListRecent(limit, offset int) ([]*entity.SecurityEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.SecurityEvent(nil), r.events...), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés: API completa sobre repos en memoria y secure store real
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app    *fiber.App
	repo   *memAttendantRepo
	hasher *passwd.Hasher
}

// newAPIFixture arma el stack completo: use cases reales, secure store real en
// un archivo temporal, repos en memoria. Rate limit alto para que los tests de
// lockout no tropiecen con él; bcrypt.MinCost para velocidad.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	repo := newMemAttendantRepo()
	eventRepo := &memEventRepo{}
	hasher := passwd.New(bcrypt.MinCost)

	store, err := securestore.New(filepath.Join(t.TempDir(), "sessions.enc"), "secreto-de-test")
	require.NoError(t, err)

	limiter := auth.NewRateLimiter(auth.RateLimiterConfig{MaxAttempts: 100, Window: 5 * time.Minute}, nil)
	t.Cleanup(limiter.Stop)

	authUC := auth.NewAuthUseCase(repo, hasher, store, limiter, nil, auth.Policy{}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		AttendantUC: usecase.NewAttendantUseCase(repo),
		AuditUC:     usecase.NewAuditUseCase(eventRepo),
	})
	return &apiFixture{app: app, repo: repo, hasher: hasher}
}

// seed crea un attendant activo con el password dado.
func (f *apiFixture) seed(t *testing.T, email, password, role string) *entity.Attendant {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	a := &entity.Attendant{
		ID:           "att-" + email,
		Name:         "Attendant " + email,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.repo.Create(a))
	return a
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeLogin(t *testing.T, resp *http.Response) *dto.LoginResult {
	t.Helper()
	defer resp.Body.Close()
	var out dto.LoginResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return &out
}

// login hace login por el endpoint y devuelve el token (falla el test si no entra).
func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeLogin(t, resp)
	require.NotEmpty(t, result.Token)
	return result.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / sesión / logout
// ──────────────────────────────────────────────────────────────────────────────

// Ciclo completo: login → session → logout → session.
func TestAPI_CicloDeSesion(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "caja@pos.local", "CajaFuerte99", entity.RoleCashier)

	token := f.login(t, "caja@pos.local", "CajaFuerte99")

	resp := f.do(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	resp.Body.Close()
	assert.Equal(t, "att-caja@pos.local", sess.AttendantID)
	assert.Equal(t, entity.RoleCashier, sess.Role)

	resp = f.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/session", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Password incorrecto y email inexistente devuelven 401 con cuerpos idénticos.
func TestAPI_Login401Indistinguible(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "caja@pos.local", "CajaFuerte99", entity.RoleCashier)

	respWrong := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@pos.local", Password: "incorrecta1A"})
	respGhost := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "fantasma@pos.local", Password: "CajaFuerte99"})

	assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respGhost.StatusCode)
	assert.Equal(t, decodeLogin(t, respWrong), decodeLogin(t, respGhost))
}

// Al quinto fallo el endpoint responde 423 con locked_until en el cuerpo.
func TestAPI_LoginBloqueoRetorna423(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "caja@pos.local", "CajaFuerte99", entity.RoleCashier)

	for i := 0; i < 4; i++ {
		resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@pos.local", Password: "mala"})
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@pos.local", Password: "mala"})
	require.Equal(t, http.StatusLocked, resp.StatusCode)
	result := decodeLogin(t, resp)
	require.NotNil(t, result.LockedUntil)

	// Con la cuenta bloqueada, el password correcto también recibe 423.
	resp = f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@pos.local", Password: "CajaFuerte99"})
	resp.Body.Close()
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
}

// Superada la ventana de rate limit el endpoint responde 429.
func TestAPI_LoginRateLimitRetorna429(t *testing.T) {
	repo := newMemAttendantRepo()
	hasher := passwd.New(bcrypt.MinCost)
	store, err := securestore.New(filepath.Join(t.TempDir(), "sessions.enc"), "secreto")
	require.NoError(t, err)
	limiter := auth.NewRateLimiter(auth.RateLimiterConfig{MaxAttempts: 2, Window: 5 * time.Minute}, nil)
	t.Cleanup(limiter.Stop)
	authUC := auth.NewAuthUseCase(repo, hasher, store, limiter, nil, auth.Policy{}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		AttendantUC: usecase.NewAttendantUseCase(repo),
		AuditUC:     usecase.NewAuditUseCase(&memEventRepo{}),
	})
	f := &apiFixture{app: app, repo: repo, hasher: hasher}

	for i := 0; i < 2; i++ {
		resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "x@pos.local", Password: "mala"})
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "x@pos.local", Password: "mala"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

// El registro exige sesión con rol de gestión: cashier recibe 403, admin 201.
func TestAPI_RegisterRequiereRolDeGestion(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "admin@pos.local", "ClaveAdmin1", entity.RoleAdmin)
	f.seed(t, "caja@pos.local", "CajaFuerte99", entity.RoleCashier)

	newAttendant := dto.CreateAttendantRequest{
		Name:     "Nueva Cajera",
		Email:    "nueva@pos.local",
		Password: "OtraClave22",
	}

	// Sin sesión → 401
	resp := f.do(t, http.MethodPost, "/api/auth/register", "", newAttendant)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Cashier → 403
	cashierToken := f.login(t, "caja@pos.local", "CajaFuerte99")
	resp = f.do(t, http.MethodPost, "/api/auth/register", cashierToken, newAttendant)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin → 201 y el nuevo attendant puede loguearse
	adminToken := f.login(t, "admin@pos.local", "ClaveAdmin1")
	resp = f.do(t, http.MethodPost, "/api/auth/register", adminToken, newAttendant)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.AttendantResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, entity.RoleStaff, created.Role)

	f.login(t, "nueva@pos.local", "OtraClave22")
}

// Password débil → 400 con la lista itemizada de reglas incumplidas.
func TestAPI_RegisterPasswordDebil(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "admin@pos.local", "ClaveAdmin1", entity.RoleAdmin)
	adminToken := f.login(t, "admin@pos.local", "ClaveAdmin1")

	resp := f.do(t, http.MethodPost, "/api/auth/register", adminToken, dto.CreateAttendantRequest{
		Name:     "Nueva",
		Email:    "nueva@pos.local",
		Password: "corta",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Contains(t, body.Errors, "password must be at least 8 characters long")
	assert.Contains(t, body.Errors, "password must contain an uppercase letter")
}

// Email ya registrado → 409.
func TestAPI_RegisterEmailDuplicado(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "admin@pos.local", "ClaveAdmin1", entity.RoleAdmin)
	f.seed(t, "ocupado@pos.local", "CajaFuerte99", entity.RoleCashier)
	adminToken := f.login(t, "admin@pos.local", "ClaveAdmin1")

	resp := f.do(t, http.MethodPost, "/api/auth/register", adminToken, dto.CreateAttendantRequest{
		Name:     "Duplicada",
		Email:    "OCUPADO@pos.local",
		Password: "OtraClave22",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas de administración
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AttendantsSoloAdmin(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "admin@pos.local", "ClaveAdmin1", entity.RoleAdmin)
	f.seed(t, "caja@pos.local", "CajaFuerte99", entity.RoleCashier)

	cashierToken := f.login(t, "caja@pos.local", "CajaFuerte99")
	resp := f.do(t, http.MethodGet, "/api/attendants/", cashierToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := f.login(t, "admin@pos.local", "ClaveAdmin1")
	resp = f.do(t, http.MethodGet, "/api/attendants/", adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/security-events/", adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
