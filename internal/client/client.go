// Package client вызывает story backend: генерация, сохранение и удаление историй.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotOK - backend ответил {"ok": false}.
var ErrNotOK = errors.New("backend reported failure")

// maxResponseBytes - предел тела ответа backend.
const maxResponseBytes = 1 << 20

// ErrResponseTooLarge - ответ backend больше maxResponseBytes.
var ErrResponseTooLarge = errors.New("story backend response too large")

// fallbackErrorMessage используется, когда тело ошибки не содержит поля error.
const fallbackErrorMessage = "Failed"

// APIError - не-2xx ответ backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("story backend error (status %d): %s", e.Status, e.Message)
}

// Story - ответ /generate_story. Содержимое не интерпретируется.
type Story struct {
	Content string `json:"story"`
	Theme   string `json:"theme"`
	Words   string `json:"words"`
}

// SaveRequest - тело /save_story.
type SaveRequest struct {
	Content string `json:"content"`
	Theme   string `json:"theme"`
	Words   string `json:"words"`
}

type generateRequest struct {
	Words string `json:"words"`
	Theme string `json:"theme"`
}

type okResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Options - необязательные параметры клиента.
type Options struct {
	Timeout time.Duration
	// Token отправляется как "Authorization: Bearer <token>", если задан.
	Token string
	// HTTPClient заменяет клиент по умолчанию (таймаут и cookie jar тогда не настраиваются).
	HTTPClient *http.Client
}

// StoryClient - HTTP клиент story backend.
type StoryClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *zap.Logger
}

// NewStoryClient создает клиент. Сессионные cookie backend сохраняются в jar.
func NewStoryClient(baseURL string, opts Options, logger *zap.Logger) (*StoryClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for story backend: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	return &StoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      opts.Token,
		logger:     logger.Named("StoryClient"),
	}, nil
}

// Generate запрашивает новую историю.
func (c *StoryClient) Generate(ctx context.Context, words, theme string) (*Story, error) {
	var story Story
	if err := c.do(ctx, "/generate_story", generateRequest{Words: words, Theme: theme}, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// Save сохраняет историю. {"ok": false} возвращается как ErrNotOK.
func (c *StoryClient) Save(ctx context.Context, req SaveRequest) error {
	var resp okResponse
	if err := c.do(ctx, "/save_story", req, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return notOK(resp)
	}
	return nil
}

// Delete удаляет историю по id.
func (c *StoryClient) Delete(ctx context.Context, id string) error {
	var resp okResponse
	if err := c.do(ctx, "/delete_story/"+url.PathEscape(id), nil, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return notOK(resp)
	}
	return nil
}

func notOK(resp okResponse) error {
	if resp.Error != "" {
		return fmt.Errorf("%w: %s", ErrNotOK, resp.Error)
	}
	return ErrNotOK
}

// do отправляет POST (с JSON телом, если payload != nil) и декодирует ответ в out.
func (c *StoryClient) do(ctx context.Context, path string, payload any, out any) error {
	fullURL := c.baseURL + path
	log := c.logger.With(zap.String("url", fullURL))

	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			log.Error("Failed to marshal request payload", zap.Error(err))
			return fmt.Errorf("internal error marshalling request: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, body)
	if err != nil {
		log.Error("Failed to create HTTP request", zap.Error(err))
		return fmt.Errorf("internal error creating request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug("Sending request to story backend")
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("HTTP request to story backend failed", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("request to story backend timed out: %w", err)
		}
		return fmt.Errorf("failed to communicate with story backend: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes+1))
	if err != nil {
		log.Error("Failed to read response body", zap.Int("status", httpResp.StatusCode), zap.Error(err))
		return fmt.Errorf("failed to read story backend response: %w", err)
	}
	if len(respBody) > maxResponseBytes {
		log.Error("Story backend response exceeds limit", zap.Int("status", httpResp.StatusCode), zap.Int("limit", maxResponseBytes))
		return fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseBytes)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		log.Warn("Received error response from story backend", zap.Int("status", httpResp.StatusCode), zap.ByteString("body", respBody))
		apiErr := &APIError{Status: httpResp.StatusCode, Message: fallbackErrorMessage}
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		log.Error("Failed to unmarshal response", zap.Int("status", httpResp.StatusCode), zap.ByteString("body", respBody), zap.Error(err))
		return fmt.Errorf("invalid response format from story backend: %w", err)
	}
	return nil
}
