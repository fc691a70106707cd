package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret hashes an admin password or report access secret with the
// configured cost.
func HashSecret(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareSecret verifies a plaintext credential against its stored hash.
// bcrypt's comparison is constant-time over the hash.
func CompareSecret(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
