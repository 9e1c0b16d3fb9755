package password

import (
	"github.com/alexedwards/argon2id"

	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher derives and checks argon2id password hashes. The pepper is appended
// to the plaintext before hashing, so hashes are useless without it.
type Hasher struct {
	pepper string
}

func New(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain+h.pepper, params)
	if err != nil {
		return "", autherrors.WrapInternal(err, "hash password")
	}
	return hash, nil
}

// Verify reports whether plain matches hash. A mismatch is (false, nil);
// an error means the stored hash is malformed.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, hash)
	if err != nil {
		return false, autherrors.WrapInternal(err, "compare password")
	}
	return ok, nil
}
