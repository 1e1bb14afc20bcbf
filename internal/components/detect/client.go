package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
)

// example API call
// POST https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent?key=KEY

var ErrMalformedResponse = errors.New("inference api response has no candidate text")

// APIError carries a non-200 answer from the inference API as-is.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, e.Body)
}

type (
	part struct {
		Text string `json:"text"`
	}

	content struct {
		Parts []part `json:"parts"`
	}

	generateRequest struct {
		Contents []content `json:"contents"`
	}

	generateResponse struct {
		Candidates []struct {
			Content *content `json:"content"`
		} `json:"candidates"`
	}
)

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return NewClientWith(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.APIKey, &http.Client{Timeout: cfg.DetectTimeout})
}

func NewClientWith(baseURL, model, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func Prompt(text string) string {
	return fmt.Sprintf("What language is this sentence written in?\n\n\"%s\"", text)
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

// Detect asks the model which language text is written in and returns the
// first candidate's text verbatim. It makes exactly one request.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt(text)}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error would echo the endpoint, key included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read inference api response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	var out generateResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal inference api response bytes: %w", err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrMalformedResponse
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
