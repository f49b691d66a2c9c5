package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lxp_backend/internal/config"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// LLMClient 外部大模型客户端，所有错误都以 *AIError 返回
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type AIErrorKind string

const (
	AIErrorTimeout   AIErrorKind = "timeout"
	AIErrorAuth      AIErrorKind = "auth"
	AIErrorRateLimit AIErrorKind = "rate_limit"
	AIErrorOther     AIErrorKind = "other"
)

type AIError struct {
	Kind       AIErrorKind
	StatusCode int
	Err        error
}

func (e *AIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ai %s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ai %s error: %v", e.Kind, e.Err)
}

func (e *AIError) Unwrap() error {
	return e.Err
}

// ErrorKind 非 AIError 一律归为 other
func ErrorKind(err error) AIErrorKind {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return AIErrorOther
}

func kindForStatus(status int) AIErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AIErrorAuth
	case http.StatusTooManyRequests:
		return AIErrorRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return AIErrorTimeout
	}
	return AIErrorOther
}

func classifyTransportError(err error) *AIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &AIError{Kind: AIErrorTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &AIError{Kind: AIErrorTimeout, Err: err}
	}
	return &AIError{Kind: AIErrorOther, Err: err}
}

// AIService OpenAI 兼容的 chat/completions 客户端
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg, client: &http.Client{}}
}

// UpdateConfig 配置热更新时替换模型、密钥等参数
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) Config() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	cfg := s.Config()

	if in.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}

	messages := []AIChatMessage{}
	if in.System != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: in.System})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: in.User})

	reqBody := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &AIError{Kind: AIErrorOther, Err: err}
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &AIError{Kind: AIErrorOther, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &AIError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &AIError{Kind: AIErrorOther, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", &AIError{Kind: AIErrorOther, Err: errors.New(result.Error.Message)}
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", &AIError{Kind: AIErrorOther, Err: errors.New("AI returned no choices")}
}
