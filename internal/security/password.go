package security

import "golang.org/x/crypto/bcrypt"

// staffPasswordCost is the bcrypt work factor applied to staff credentials.
const staffPasswordCost = 12

// HashPassword derives the bcrypt hash stored for a staff password.
func HashPassword(plain string) (string, error) {
	hashed, errHash := bcrypt.GenerateFromPassword([]byte(plain), staffPasswordCost)
	if errHash != nil {
		return "", errHash
	}
	return string(hashed), nil
}

// VerifyPassword checks plain against the stored bcrypt hash. A nil return
// means the password matches.
func VerifyPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
