package store

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
	"time"
)

const (
	defaultTokenKeyPrefix = "pharmapilot:reset:"
	maxResponseSizeBytes  = 1 << 20
)

type UpstashOption func(*UpstashResetTokens)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(s *UpstashResetTokens) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(s *UpstashResetTokens) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashResetTokens keeps reset tokens in Upstash Redis via REST, expiring them with EX.
type UpstashResetTokens struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type UpstashRedisConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

func NewUpstashResetTokens(cfg UpstashRedisConfig, opts ...UpstashOption) (*UpstashResetTokens, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &UpstashResetTokens{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultTokenKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *UpstashResetTokens) PutResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	key, err := s.redisKey(token)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return errors.New("reset token ttl must be > 0")
	}
	_, err = s.exec(ctx, []any{"SET", key, normalizeEmail(email), "EX", ttlSeconds(ttl)})
	return err
}

// ConsumeResetToken reads and deletes the token in one GETDEL round trip.
func (s *UpstashResetTokens) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	key, err := s.redisKey(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	resp, err := s.exec(ctx, []any{"GETDEL", key})
	if err != nil {
		return "", err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return "", ErrInvalidToken
	}

	var email string
	if err := json.Unmarshal(result, &email); err != nil {
		return "", fmt.Errorf("decode reset token payload: %w", err)
	}
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

func (s *UpstashResetTokens) redisKey(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errors.New("reset token is empty")
	}
	return s.keyPrefix + token, nil
}

func (s *UpstashResetTokens) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
