package authclient

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// Config holds client options.
type Config struct {
	APIURL          string        `env:"AUTH_CLIENT_API_URL" envDefault:"http://localhost:4741"`
	RequestTimeout  time.Duration `env:"AUTH_CLIENT_REQUEST_TIMEOUT" envDefault:"10s"`
	AuthScheme      string        `env:"AUTH_CLIENT_AUTH_SCHEME" envDefault:"Token"`
	NotificationTTL time.Duration `env:"AUTH_CLIENT_NOTIFICATION_TTL" envDefault:"5s"`
	FadeDuration    time.Duration `env:"AUTH_CLIENT_FADE_DURATION" envDefault:"300ms"`
	DefaultRoute    string        `env:"AUTH_CLIENT_DEFAULT_ROUTE" envDefault:"/"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		APIURL:          "http://localhost:4741",
		RequestTimeout:  10 * time.Second,
		AuthScheme:      "Token",
		NotificationTTL: DefaultNotificationTTL,
		FadeDuration:    DefaultFadeDuration,
		DefaultRoute:    DefaultRoute,
	}
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "parse env").
			WithTextCode(TextCodeInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.RequestTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.AuthScheme, validation.Required, validation.In("Token", "Bearer")),
		validation.Field(&c.NotificationTTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.FadeDuration, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.DefaultRoute, validation.Required),
	)
	if err == nil {
		return nil
	}

	details := map[string]any{}
	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			details[field] = ferr.Error()
		}
	} else {
		details["error"] = err.Error()
	}

	clone := ErrInvalidConfig.Clone()
	if clone == nil {
		clone = goerrors.New(ErrInvalidConfig.Message, goerrors.CategoryValidation)
	}
	clone.Source = err
	return clone.WithMetadata(details)
}

// APIBase returns the API URL without a trailing slash.
func (c Config) APIBase() string {
	return strings.TrimRight(c.APIURL, "/")
}
