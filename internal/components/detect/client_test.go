package detect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
)

const successBody = `{
	"candidates": [
		{"content": {"parts": [{"text": "The sentence is written in French.\n"}], "role": "model"}},
		{"content": {"parts": [{"text": "second"}]}}
	]
}`

func TestClient_Detect_Success(t *testing.T) {
	var gotReq generateRequest
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody))
	}))
	defer testServer.Close()

	client := NewClientWith(testServer.URL+"/", "gemini-2.0-flash", "test-key", testServer.Client())
	out, err := client.Detect(context.Background(), "Bonjour le monde")
	require.NoError(t, err)
	assert.Equal(t, "The sentence is written in French.\n", out)

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "What language is this sentence written in?\n\n\"Bonjour le monde\"", gotReq.Contents[0].Parts[0].Text)
}

func TestClient_Detect_ServerError(t *testing.T) {
	calls := 0
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "internal"}}`))
	}))
	defer testServer.Close()

	client := NewClientWith(testServer.URL, "gemini-2.0-flash", "test-key", testServer.Client())
	out, err := client.Detect(context.Background(), "Bonjour le monde")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, calls, "no retries")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), `"message": "internal"`)
}

func TestClient_Detect_MalformedResponses(t *testing.T) {
	for name, body := range map[string]string{
		"NoCandidates": `{"candidates": []}`,
		"NoContent":    `{"candidates": [{}]}`,
		"NoParts":      `{"candidates": [{"content": {"parts": []}}]}`,
		"Empty":        `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer testServer.Close()

			client := NewClientWith(testServer.URL, "m", "k", testServer.Client())
			_, err := client.Detect(context.Background(), "hola")
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer testServer.Close()
	client := NewClientWith(testServer.URL, "m", "k", testServer.Client())
	_, err := client.Detect(context.Background(), "hola")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Detect_TransportErrorHidesKey(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	testServer.Close()

	client := NewClientWith(testServer.URL, "m", "super-secret-key", http.DefaultClient)
	_, err := client.Detect(context.Background(), "hola")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "super-secret-key")
}

func TestNewClient_FromConfig(t *testing.T) {
	client := NewClient(&config.Config{
		GeminiBaseURL: "https://example.test/",
		GeminiModel:   "gemini-2.0-flash",
		APIKey:        "k",
	})
	assert.Equal(t, "https://example.test/v1beta/models/gemini-2.0-flash:generateContent?key=k", client.endpoint())
	assert.Zero(t, client.httpClient.Timeout)
}
