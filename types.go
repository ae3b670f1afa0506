package authclient

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// Logger is the structured logger used across the package. args are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity is the authenticated user returned by the auth service.
type Identity struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email"`
	Token     string     `json:"token"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// HasToken reports whether the identity can authorize requests.
func (i Identity) HasToken() bool {
	return strings.TrimSpace(i.Token) != ""
}

func (i Identity) String() string {
	return fmt.Sprintf("id=%s email=%s token=%s", i.ID, i.Email, maskToken(i.Token))
}

// Credentials holds sign up and sign in input for a single workflow run.
type Credentials struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}

// Reset empties every field.
func (c *Credentials) Reset() {
	if c == nil {
		return
	}
	*c = Credentials{}
}

// PasswordChange holds change password input for a single workflow run.
type PasswordChange struct {
	OldPassword string `json:"old"`
	NewPassword string `json:"new"`
}

// Reset empties both passwords.
func (p *PasswordChange) Reset() {
	if p == nil {
		return
	}
	*p = PasswordChange{}
}

// Transport is the remote auth service. Every call resolves or fails with an
// error carrying a human readable message.
type Transport interface {
	SignUp(ctx context.Context, creds Credentials) error
	SignIn(ctx context.Context, creds Credentials) (Identity, error)
	SignOut(ctx context.Context, identity Identity) error
	ChangePassword(ctx context.Context, passwords PasswordChange, identity Identity) error
}

// Notifier enqueues a user facing notification and returns its id.
type Notifier interface {
	Notify(heading, body string, severity Severity) string
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(heading, body string, severity Severity) string

// Notify implements Notifier.
func (f NotifierFunc) Notify(heading, body string, severity Severity) string {
	if f == nil {
		return ""
	}
	return f(heading, body, severity)
}

// SessionStore is the capability workflows use to mutate the session.
type SessionStore interface {
	Set(identity Identity)
	Clear()
	Current() (Identity, bool)
}

// Navigator is told where the view layer should go after a successful workflow.
type Navigator func(ctx context.Context, route string)

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Fprint(os.Stderr, "[ERR] AUTH-CLIENT "+line(msg, args...))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Print("[WRN] AUTH-CLIENT " + line(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] AUTH-CLIENT " + line(msg, args...))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] AUTH-CLIENT " + line(msg, args...))
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() Logger {
	return noopLogger{}
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}

// line renders msg followed by key=value pairs.
func line(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(args) {
			fmt.Fprintf(&b, "%v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, "%v", args[i])
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
