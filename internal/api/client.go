// Package api wraps the marketplace REST API: employer job management,
// employee uploads and applications, and the AI-matching endpoints.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is used when VITE_API_BASE_URL is not set.
	DefaultBaseURL = "http://localhost:8000"
	userAgent      = "spigell/hirematch"
	defaultTimeout = 30 * time.Second
)

// TokenSource supplies the bearer token for each request. An empty token
// means the request is sent without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a fixed token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Client struct {
	baseURL      string
	tokens       TokenSource
	logger       *zap.Logger
	newRequestID func() string

	HTTPClient *http.Client
	UserAgent  string
}

func New(baseURL string, tokens TokenSource, logger *zap.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:      baseURL,
		tokens:       tokens,
		logger:       logger,
		newRequestID: uuid.NewString,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: userAgent,
	}
}

// BaseURL returns the API origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Employer returns the employer-facing endpoints.
func (c *Client) Employer() *EmployerService {
	return &EmployerService{client: c}
}

// Employee returns the employee-facing endpoints.
func (c *Client) Employee() *EmployeeService {
	return &EmployeeService{client: c}
}

// Matching returns the AI-matching endpoints.
func (c *Client) Matching() *MatchingService {
	return &MatchingService{client: c}
}
