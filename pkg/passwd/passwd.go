package passwd

import "golang.org/x/crypto/bcrypt"

// Hasher implementa el servicio opaco de hashing de passwords sobre bcrypt.
// Reemplaza a las RPC hash_password/verify_password del backend original con
// la misma interfaz de dos funciones: el núcleo de auth solo ve un hash opaco
// y un booleano, nunca loguea ni persiste el texto plano.
type Hasher struct {
	cost int
}

// New crea el hasher. cost <= 0 usa bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash deriva el hash one-way del password.
func (h *Hasher) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify compara el password en claro contra el hash almacenado.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
