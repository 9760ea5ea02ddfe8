package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters matching the hashes this service has always
// produced; changing them invalidates every stored credential.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	keyLen  = 64
	saltLen = 16
)

// HashPassword derives an scrypt hash from password with a fresh random
// salt. The result is stored as "hexhash.hexsalt".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	derived, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive password hash: %w", err)
	}

	return hex.EncodeToString(derived) + "." + saltHex, nil
}

// ComparePasswords re-derives the supplied password with the stored
// salt and compares in constant time. A malformed stored value compares
// false rather than reporting what was wrong with it.
func ComparePasswords(supplied, stored string) (bool, error) {
	hashHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false, nil
	}

	storedHash, err := hex.DecodeString(hashHex)
	if err != nil || len(storedHash) != keyLen {
		return false, nil
	}

	derived, err := scrypt.Key([]byte(supplied), []byte(saltHex), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false, fmt.Errorf("failed to derive password hash: %w", err)
	}

	return subtle.ConstantTimeCompare(storedHash, derived) == 1, nil
}
