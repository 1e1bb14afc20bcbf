package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const Name string = "session"

var (
	ErrInvalidValue = errors.New("invalid cookie value")
)

func newGCM(secret []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// encrypt seals "{cookie name}:{session id}" with AES-GCM so a value can't be
// tampered with or moved to a different cookie name. Output is
// base64({nonce}{ciphertext}).
func encrypt(sessionID uuid.UUID, secret []byte, cookieName string) (string, error) {
	aesGCM, err := newGCM(secret)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// ':' is not a valid cookie name character, so it can't show up in the name
	plaintext := fmt.Sprintf("%s:%s", cookieName, sessionID.String())
	sealed := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.URLEncoding.EncodeToString(sealed), nil
}

// decrypt opens a value produced by encrypt and checks the embedded cookie name.
func decrypt(value string, secret []byte, expectedCookieName string) (uuid.UUID, error) {
	raw, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return uuid.Nil, ErrInvalidValue
	}

	aesGCM, err := newGCM(secret)
	if err != nil {
		return uuid.Nil, err
	}

	nonceSize := aesGCM.NonceSize()
	if len(raw) < nonceSize {
		return uuid.Nil, ErrInvalidValue
	}

	plaintext, err := aesGCM.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return uuid.Nil, ErrInvalidValue
	}

	actualName, idStr, ok := strings.Cut(string(plaintext), ":")
	if !ok || actualName != expectedCookieName {
		return uuid.Nil, ErrInvalidValue
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ErrInvalidValue
	}
	return id, nil
}

// GetSessionID reads and decrypts the session cookie.
func GetSessionID(r *http.Request, secret []byte) (uuid.UUID, error) {
	c, err := r.Cookie(Name)
	if err != nil {
		return uuid.Nil, err
	}

	return decrypt(c.Value, secret, Name)
}

// SetSessionID writes the encrypted session cookie for all routes in the app.
func SetSessionID(w http.ResponseWriter, sessionID uuid.UUID, secret []byte, secure bool) error {
	value, err := encrypt(sessionID, secret, Name)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
