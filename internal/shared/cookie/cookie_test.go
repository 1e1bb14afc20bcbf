package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	id := uuid.New()

	value, err := encrypt(id, testSecret, Name)
	require.NoError(t, err)
	assert.NotContains(t, value, id.String())

	got, err := decrypt(value, testSecret, Name)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecrypt_Rejects(t *testing.T) {
	id := uuid.New()
	value, err := encrypt(id, testSecret, Name)
	require.NoError(t, err)

	_, err = decrypt(value, testSecret, "other")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = decrypt(value, []byte("fedcba9876543210fedcba9876543210"), Name)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = decrypt("not base64 !!", testSecret, Name)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = decrypt("c2hvcnQ=", testSecret, Name)
	assert.ErrorIs(t, err, ErrInvalidValue)

	tampered := []byte(value)
	if tampered[len(tampered)-3] == 'A' {
		tampered[len(tampered)-3] = 'B'
	} else {
		tampered[len(tampered)-3] = 'A'
	}
	_, err = decrypt(string(tampered), testSecret, Name)
	assert.Error(t, err)
}

func TestSetAndGetSessionID(t *testing.T) {
	id := uuid.New()
	rec := httptest.NewRecorder()
	require.NoError(t, SetSessionID(rec, id, testSecret, true))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, Name, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	got, err := GetSessionID(req, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestGetSessionID_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSessionID(req, testSecret)
	assert.ErrorIs(t, err, http.ErrNoCookie)
}
