package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

// Hasher turns a password into the digest kept in the store.
type Hasher interface {
	Hash(password string) (string, error)
}

// sha256Hasher produces unsalted hex SHA-256 digests, the format of existing users files.
type sha256Hasher struct{}

func (sha256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewHasher(name string) (Hasher, error) {
	switch name {
	case HasherSHA256, "":
		return sha256Hasher{}, nil
	case HasherBcrypt:
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// VerifyPassword reports whether password matches the stored digest, whichever
// hasher produced it.
func VerifyPassword(digest, password string) bool {
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}

	candidate, _ := sha256Hasher{}.Hash(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(candidate)) == 1
}
