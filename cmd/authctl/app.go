package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	authclient "github.com/goliatone/go-auth-client"
	"github.com/goliatone/go-auth-client/httptransport"
)

const (
	cmdSignUp         = "sign-up"
	cmdSignIn         = "sign-in"
	cmdSignOut        = "sign-out"
	cmdChangePassword = "change-password"
)

var commands = []string{cmdSignUp, cmdSignIn, cmdSignOut, cmdChangePassword}

// Config holds authctl configuration.
type Config struct {
	Client authclient.Config

	Command              string
	Email                string `env:"AUTH_CLIENT_EMAIL"`
	Password             string `env:"AUTH_CLIENT_PASSWORD"`
	PasswordConfirmation string
	OldPassword          string
	NewPassword          string
	Token                string `env:"AUTH_CLIENT_TOKEN"`
	Verbose              bool   `env:"AUTH_CLIENT_VERBOSE"`
}

// ParseConfig parses environment and flags into Config. Flags win over env.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Client.APIURL, "api-url", cfg.Client.APIURL, "Auth service base URL")
	fs.DurationVar(&cfg.Client.RequestTimeout, "timeout", cfg.Client.RequestTimeout, "Request timeout")
	fs.StringVar(&cfg.Client.AuthScheme, "auth-scheme", cfg.Client.AuthScheme, "Authorization scheme (Token or Bearer)")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "Account email")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "Account password")
	fs.StringVar(&cfg.PasswordConfirmation, "password-confirmation", cfg.PasswordConfirmation, "Password confirmation for sign-up (defaults to -password)")
	fs.StringVar(&cfg.OldPassword, "old-password", cfg.OldPassword, "Current password for change-password")
	fs.StringVar(&cfg.NewPassword, "new-password", cfg.NewPassword, "New password for change-password")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "Session token for sign-out and change-password")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log workflow details to stdout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if fs.NArg() != 1 {
		return Config{}, fmt.Errorf("expected one command, one of: %s", strings.Join(commands, ", "))
	}
	cfg.Command = fs.Arg(0)
	if !validCommand(cfg.Command) {
		return Config{}, fmt.Errorf("unknown command %q, expected one of: %s", cfg.Command, strings.Join(commands, ", "))
	}
	if cfg.PasswordConfirmation == "" {
		cfg.PasswordConfirmation = cfg.Password
	}

	if err := cfg.Client.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the configured workflow and writes its notification to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	transport := httptransport.New(httptransport.FromClientConfig(cfg.Client))

	var logger authclient.Logger = authclient.NoopLogger()
	if cfg.Verbose {
		logger = nil
	}

	client := authclient.New(cfg.Client, transport,
		authclient.WithClientLogger(logger),
		authclient.WithClientNavigator(func(_ context.Context, route string) {
			fmt.Fprintf(out, "redirect: %s\n", route)
		}),
	)
	defer client.Close()

	if cfg.Token != "" {
		client.SetSession(authclient.Identity{Email: cfg.Email, Token: cfg.Token})
	}

	var result authclient.WorkflowResult
	switch cfg.Command {
	case cmdSignUp:
		result = client.SignUp(ctx, &authclient.Credentials{
			Email:                cfg.Email,
			Password:             cfg.Password,
			PasswordConfirmation: cfg.PasswordConfirmation,
		})
	case cmdSignIn:
		result = client.SignIn(ctx, &authclient.Credentials{
			Email:    cfg.Email,
			Password: cfg.Password,
		})
	case cmdSignOut:
		result = client.SignOut(ctx)
	case cmdChangePassword:
		result = client.ChangePassword(ctx, &authclient.PasswordChange{
			OldPassword: cfg.OldPassword,
			NewPassword: cfg.NewPassword,
		})
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}

	if n, ok := client.Notifications().Get(result.NotificationID); ok {
		fmt.Fprintf(out, "[%s] %s\n%s\n", n.Severity, n.Heading, n.Body)
	}

	if !result.Succeeded() {
		if result.Err == nil {
			return errors.New("workflow did not complete")
		}
		return fmt.Errorf("%s: %s", result.Workflow, authclient.ErrorMessage(result.Err))
	}

	if identity, ok := client.CurrentSession(); ok && cfg.Command != cmdSignOut {
		fmt.Fprintf(out, "token: %s\n", identity.Token)
		if exp, ok := identity.TokenExpiry(); ok {
			fmt.Fprintf(out, "expires: %s\n", exp.UTC().Format("2006-01-02T15:04:05Z07:00"))
		}
	}
	return nil
}

func validCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}
