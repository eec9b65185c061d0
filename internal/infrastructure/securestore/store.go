package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/pos-auth-api/internal/application/auth"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	"golang.org/x/crypto/argon2"
)

var _ auth.SessionStore = (*Store)(nil)

const (
	saltSize  = 16
	nonceSize = 12
)

// Store es el secure store de sesiones: un mapa clave→sesión serializado a
// JSON y cifrado con AES-256-GCM en un archivo. La clave AES se deriva del
// secreto de configuración con argon2id y un salt persistido en la cabecera
// del archivo (salt || nonce || ciphertext).
type Store struct {
	mu     sync.Mutex
	path   string
	secret []byte
	salt   []byte
}

// New crea el store sobre path; crea el directorio si no existe.
func New(path, secret string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session store dir: %w", err)
	}
	return &Store{path: path, secret: []byte(secret)}, nil
}

// Set guarda o reemplaza la sesión bajo key.
func (s *Store) Set(key string, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.load()
	if err != nil {
		return err
	}
	sessions[key] = sess
	return s.save(sessions)
}

// Get devuelve la sesión bajo key, o (nil, nil) si no existe.
func (s *Store) Get(key string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.load()
	if err != nil {
		return nil, err
	}
	return sessions[key], nil
}

// Remove elimina la entrada. No es error que la clave no exista.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.load()
	if err != nil {
		return err
	}
	if _, found := sessions[key]; !found {
		return nil
	}
	delete(sessions, key)
	return s.save(sessions)
}

func (s *Store) load() (map[string]*entity.Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*entity.Session), nil
		}
		return nil, fmt.Errorf("read session store: %w", err)
	}
	if len(raw) < saltSize+nonceSize {
		return nil, fmt.Errorf("session store corrupted: %d bytes", len(raw))
	}
	s.salt = raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	ciphertext := raw[saltSize+nonceSize:]

	aesgcm, err := s.cipher()
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt session store: %w", err)
	}
	sessions := make(map[string]*entity.Session)
	if err := json.Unmarshal(plaintext, &sessions); err != nil {
		return nil, fmt.Errorf("decode session store: %w", err)
	}
	return sessions, nil
}

// save serializa, cifra con un nonce fresco y escribe de forma atómica
// (tmp + rename) para no dejar el archivo a medias ante un corte.
func (s *Store) save(sessions map[string]*entity.Session) error {
	if s.salt == nil {
		s.salt = make([]byte, saltSize)
		if _, err := rand.Read(s.salt); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
	}
	plaintext, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}
	aesgcm, err := s.cipher()
	if err != nil {
		return err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, saltSize+nonceSize+len(ciphertext))
	out = append(out, s.salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write session store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session store: %w", err)
	}
	return nil
}

func (s *Store) cipher() (cipher.AEAD, error) {
	key := argon2.IDKey(s.secret, s.salt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return aesgcm, nil
}
