// Package httptransport implements authclient.Transport over the auth
// service REST API.
package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	authclient "github.com/goliatone/go-auth-client"
)

const (
	defaultBaseURL = "http://localhost:4741"
	defaultTimeout = 10 * time.Second

	SchemeToken  = "Token"
	SchemeBearer = "Bearer"
)

const (
	opSignUp         = "sign_up"
	opSignIn         = "sign_in"
	opSignOut        = "sign_out"
	opChangePassword = "change_password"
)

var _ authclient.Transport = &Client{}

// Config holds the REST transport configuration.
type Config struct {
	BaseURL    string
	AuthScheme string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     authclient.Logger
}

// FromClientConfig maps the client configuration to a transport Config.
func FromClientConfig(cfg authclient.Config) Config {
	return Config{
		BaseURL:    cfg.APIBase(),
		AuthScheme: cfg.AuthScheme,
		Timeout:    cfg.RequestTimeout,
	}
}

// Client talks to the auth service.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     authclient.Logger
}

// New creates a new REST transport.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = SchemeToken
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = authclient.NoopLogger()
	}

	return &Client{
		config:     cfg,
		httpClient: client,
		logger:     logger,
	}
}

// SignUp implements authclient.Transport.
func (c *Client) SignUp(ctx context.Context, creds authclient.Credentials) error {
	body := credentialsEnvelope{Credentials: credentialsPayload{
		Email:                creds.Email,
		Password:             creds.Password,
		PasswordConfirmation: creds.PasswordConfirmation,
	}}
	_, err := c.do(ctx, opSignUp, http.MethodPost, "/sign-up", body, "")
	return err
}

// SignIn implements authclient.Transport.
func (c *Client) SignIn(ctx context.Context, creds authclient.Credentials) (authclient.Identity, error) {
	body := credentialsEnvelope{Credentials: credentialsPayload{
		Email:    creds.Email,
		Password: creds.Password,
	}}
	raw, err := c.do(ctx, opSignIn, http.MethodPost, "/sign-in", body, "")
	if err != nil {
		return authclient.Identity{}, err
	}

	var resp userEnvelope
	if err := json.Unmarshal(raw, &resp); err != nil {
		return authclient.Identity{}, transportError(opSignIn, http.StatusOK, "invalid_response", "failed to decode sign in response", err)
	}
	if resp.User == nil || resp.User.Token == "" {
		return authclient.Identity{}, transportError(opSignIn, http.StatusOK, "missing_token", "sign in response has no user token", nil)
	}

	return *resp.User, nil
}

// SignOut implements authclient.Transport.
func (c *Client) SignOut(ctx context.Context, identity authclient.Identity) error {
	_, err := c.do(ctx, opSignOut, http.MethodDelete, "/sign-out", nil, identity.Token)
	return err
}

// ChangePassword implements authclient.Transport.
func (c *Client) ChangePassword(ctx context.Context, passwords authclient.PasswordChange, identity authclient.Identity) error {
	body := passwordsEnvelope{Passwords: passwordsPayload{
		Old: passwords.OldPassword,
		New: passwords.NewPassword,
	}}
	_, err := c.do(ctx, opChangePassword, http.MethodPatch, "/change-password", body, identity.Token)
	return err
}

// AuthorizationHeader renders the Authorization header value for token.
func (c *Client) AuthorizationHeader(token string) string {
	if c.config.AuthScheme == SchemeBearer {
		return "Bearer " + token
	}
	return "Token token=" + token
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload any, token string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, transportError(operation, 0, "invalid_request", "failed to encode request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, transportError(operation, 0, "invalid_request", "", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", c.AuthorizationHeader(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("auth request failed", "operation", operation, "error", err)
		return nil, transportError(operation, 0, "network_error", "Network Error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(operation, resp.StatusCode, "invalid_response", "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("auth request rejected", "operation", operation, "status", resp.StatusCode)
		return nil, transportError(operation, resp.StatusCode, http.StatusText(resp.StatusCode), apiErrorMessage(resp.StatusCode, body), nil)
	}

	return body, nil
}

type credentialsPayload struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}

type credentialsEnvelope struct {
	Credentials credentialsPayload `json:"credentials"`
}

type passwordsPayload struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type passwordsEnvelope struct {
	Passwords passwordsPayload `json:"passwords"`
}

type userEnvelope struct {
	User *authclient.Identity `json:"user"`
}

type apiError struct {
	Error *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func apiErrorMessage(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			return apiErr.Error.Message
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func transportError(operation string, status int, code, message string, err error) *authclient.TransportError {
	return &authclient.TransportError{
		Operation: operation,
		Status:    status,
		Code:      code,
		Message:   message,
		Err:       err,
	}
}
