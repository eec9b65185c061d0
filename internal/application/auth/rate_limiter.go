package auth

import (
	"sync"
	"time"

	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
)

// RateLimiterConfig ventana deslizante por clave. Cero usa los defaults de auth
// (5 intentos / 5 minutos, limpieza cada 5 minutos).
type RateLimiterConfig struct {
	MaxAttempts     int
	Window          time.Duration
	CleanupInterval time.Duration
}

// RateLimiter contador de ventana deslizante por identificador (ej. email).
// Es un límite advisory del lado del proceso: un cliente malicioso puede
// saltárselo, la defensa real es el bloqueo progresivo en la cuenta.
// Componente inyectable, no singleton: cada instancia tiene su propio mapa,
// configuración y reloj (los tests pueden controlar ambos).
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	cfg      RateLimiterConfig
	auditor  SecurityAuditor
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter construye el limitador y arranca la limpieza periódica.
// auditor puede ser nil (sin emisión de eventos).
func NewRateLimiter(cfg RateLimiterConfig, auditor SecurityAuditor) *RateLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 5 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		attempts: make(map[string][]time.Time),
		cfg:      cfg,
		auditor:  auditor,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow registra el intento y decide. Descarta timestamps fuera de la ventana;
// si los restantes llegan al máximo, emite rate_limit_exceeded (medium) y
// devuelve false sin registrar el intento (los rechazos no extienden la ventana).
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()
	cutoff := now.Add(-rl.cfg.Window)

	rl.mu.Lock()
	recent := pruneBefore(rl.attempts[key], cutoff)
	if len(recent) >= rl.cfg.MaxAttempts {
		rl.attempts[key] = recent
		rl.mu.Unlock()
		if rl.auditor != nil {
			rl.auditor.LogEvent(entity.EventRateLimitExceeded, "auth", key, map[string]any{
				"attempts":  len(recent),
				"window_ms": rl.cfg.Window.Milliseconds(),
			}, entity.SeverityMedium)
		}
		return false
	}
	rl.attempts[key] = append(recent, now)
	rl.mu.Unlock()
	return true
}

// Reset limpia el historial de una clave (ej. tras un login exitoso).
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	delete(rl.attempts, key)
	rl.mu.Unlock()
}

// Stop detiene la goroutine de limpieza. Idempotente.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup purga historiales sin entradas vigentes para acotar memoria.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.cfg.Window)
	rl.mu.Lock()
	for key, ts := range rl.attempts {
		recent := pruneBefore(ts, cutoff)
		if len(recent) == 0 {
			delete(rl.attempts, key)
		} else {
			rl.attempts[key] = recent
		}
	}
	rl.mu.Unlock()
}

func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
