package authclient

import (
	"fmt"
	"time"
)

// Severity classifies a notification for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityFailure Severity = "failure"
	SeverityInfo    Severity = "info"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityFailure, SeverityInfo:
		return true
	}
	return false
}

// Variant returns the alert variant the view layer renders for s.
func (s Severity) Variant() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityFailure:
		return "danger"
	default:
		return "info"
	}
}

// ParseSeverity maps a severity or a view variant name to a Severity.
func ParseSeverity(value string) (Severity, bool) {
	switch value {
	case "success":
		return SeveritySuccess, true
	case "failure", "danger", "error":
		return SeverityFailure, true
	case "info", "informational", "primary", "secondary":
		return SeverityInfo, true
	}
	return "", false
}

// DismissReason records why a notification started fading.
type DismissReason string

const (
	DismissByUser   DismissReason = "user"
	DismissByExpiry DismissReason = "expired"
)

// Notification is a message shown to the user until it expires or is dismissed.
type Notification struct {
	ID        string    `json:"id"`
	Heading   string    `json:"heading"`
	Body      string    `json:"body"`
	Severity  Severity  `json:"severity"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
}

// Fading reports whether the notification was dismissed and awaits removal.
func (n Notification) Fading() bool {
	return !n.Visible
}

func (n Notification) String() string {
	return fmt.Sprintf("id=%s severity=%s visible=%t heading=%q", n.ID, n.Severity, n.Visible, n.Heading)
}
