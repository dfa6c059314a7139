package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	AuthBearer = "bearer"
	AuthJWT    = "jwt"
)

const (
	DefaultGLMURL   = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	DefaultGLMModel = "glm-4v-flash"
)

type GLMConfig struct {
	APIKey      string
	URL         string
	Model       string
	AuthMode    string // AuthBearer (default) or AuthJWT
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client // Base transport, http.DefaultClient when nil
}

// GLM calls an OpenAI-compatible chat completions endpoint with a multimodal
// message. The API key is sent as a bearer token, or in jwt mode as a
// short-lived token signed with the secret half of an "id.secret" key.
type GLM struct {
	cfg GLMConfig

	mu     sync.Mutex
	client *http.Client
}

func NewGLM(cfg GLMConfig) *GLM {
	if cfg.URL == "" {
		cfg.URL = DefaultGLMURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGLMModel
	}
	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthBearer
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	return &GLM{cfg: cfg}
}

func (g *GLM) Name() string {
	return "glm"
}

// Configured reports whether an API key is present.
func (g *GLM) Configured() bool {
	return g.cfg.APIKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GLM) Complete(ctx context.Context, prompt, image string) (string, error) {
	if g.cfg.APIKey == "" {
		return "", &Error{Kind: KindConfig, Err: ErrMissingAPIKey}
	}

	client, err := g.httpClient()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: image}},
			},
		}},
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindConfig, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			return "", cfgErr
		}
		return "", &Error{Kind: KindUpstream, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &Error{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(resp.StatusCode, detail),
		}
	}

	var completion chatResponse
	err = json.NewDecoder(resp.Body).Decode(&completion)
	if err != nil {
		return "", &Error{Kind: KindMalformed, Err: fmt.Errorf("failed to decode completion: %w", err)}
	}
	if len(completion.Choices) == 0 {
		return "", &Error{Kind: KindMalformed, Err: errors.New("completion has no choices")}
	}

	return completion.Choices[0].Message.Content, nil
}

// upstreamMessage prefers the endpoint's own error message over the status text.
func upstreamMessage(status int, body []byte) string {
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return http.StatusText(status)
}

func (g *GLM) httpClient() (*http.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	var src oauth2.TokenSource
	switch g.cfg.AuthMode {
	case AuthBearer:
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.cfg.APIKey, TokenType: "Bearer"})
	case AuthJWT:
		jwtSrc, err := newJWTTokenSource(g.cfg.APIKey, 30*time.Minute)
		if err != nil {
			return nil, err
		}
		src = oauth2.ReuseTokenSource(nil, jwtSrc)
	default:
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("unknown auth mode %q (supported: bearer, jwt)", g.cfg.AuthMode)}
	}

	base := g.cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	g.client = oauth2.NewClient(ctx, src)
	return g.client, nil
}

// jwtTokenSource mints HS256 tokens from an "id.secret" API key.
type jwtTokenSource struct {
	id     string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newJWTTokenSource(apiKey string, ttl time.Duration) (*jwtTokenSource, error) {
	id, secret, ok := strings.Cut(apiKey, ".")
	if !ok || id == "" || secret == "" {
		return nil, &Error{Kind: KindConfig, Err: errors.New(`jwt auth needs an API key of the form "id.secret"`)}
	}
	return &jwtTokenSource{id: id, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *jwtTokenSource) Token() (*oauth2.Token, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	// The endpoint expects millisecond timestamps.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"api_key":   s.id,
		"exp":       exp.UnixMilli(),
		"timestamp": now.UnixMilli(),
	})
	token.Header["sign_type"] = "SIGN"

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("failed to sign token: %w", err)}
	}

	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      exp.Add(-time.Minute),
	}, nil
}
