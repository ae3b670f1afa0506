package authclient

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNoActiveSession  = "AUTH_CLIENT_NO_ACTIVE_SESSION"
	TextCodeWorkflowInFlight = "AUTH_CLIENT_WORKFLOW_IN_FLIGHT"
	TextCodeInvalidConfig    = "AUTH_CLIENT_INVALID_CONFIG"
	TextCodeTransportFailure = "AUTH_CLIENT_TRANSPORT_FAILURE"
)

// ErrNoActiveSession is reported when an authenticated workflow runs without a session token.
var ErrNoActiveSession = goerrors.New("no active session", goerrors.CategoryAuth).
	WithTextCode(TextCodeNoActiveSession).
	WithCode(goerrors.CodeUnauthorized)

// ErrWorkflowInFlight is reported when a workflow is submitted while the same workflow is still running.
var ErrWorkflowInFlight = goerrors.New("workflow already in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeWorkflowInFlight).
	WithCode(goerrors.CodeConflict)

// ErrInvalidConfig is returned when client configuration fails validation.
var ErrInvalidConfig = goerrors.New("invalid auth client configuration", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidConfig).
	WithCode(goerrors.CodeBadRequest)

// TransportError captures a failed call to the auth service.
type TransportError struct {
	Operation string
	Status    int
	Code      string
	Message   string
	Err       error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "transport error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		if e.Operation != "" {
			return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
		}
		return e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("Request failed with status code %d", e.Status)
	}
	if e.Operation != "" {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return "transport error"
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Metadata returns the non empty fields, suitable for logging.
func (e *TransportError) Metadata() map[string]any {
	if e == nil {
		return nil
	}

	meta := map[string]any{}
	if e.Operation != "" {
		meta["operation"] = e.Operation
	}
	if e.Status != 0 {
		meta["status"] = e.Status
	}
	if e.Code != "" {
		meta["code"] = e.Code
	}
	if e.Message != "" {
		meta["message"] = e.Message
	}
	if e.Err != nil {
		meta["cause"] = e.Err.Error()
	}
	return meta
}

// IsTransportError reports whether err came from the auth service transport.
func IsTransportError(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}

// ErrorMessage returns the human readable message carried by err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var terr *TransportError
	if errors.As(err, &terr) && terr != nil {
		return terr.Error()
	}

	var richErr *goerrors.Error
	if errors.As(err, &richErr) && richErr != nil && richErr.Message != "" {
		return richErr.Message
	}

	return err.Error()
}

func wrapWorkflowFailure(err error, workflow Workflow, step string) *goerrors.Error {
	meta := map[string]any{
		"workflow": string(workflow),
	}
	if step != "" {
		meta["step"] = step
	}

	var terr *TransportError
	if errors.As(err, &terr) && terr != nil {
		for k, v := range terr.Metadata() {
			meta[k] = v
		}
	}

	var richErr *goerrors.Error
	if errors.As(err, &richErr) && richErr != nil {
		clone := richErr.Clone()
		if clone == nil {
			clone = goerrors.New(richErr.Message, richErr.Category)
		}
		clone.WithMetadata(meta)
		return clone
	}

	return goerrors.Wrap(err, goerrors.CategoryOperation, ErrorMessage(err)).
		WithTextCode(TextCodeTransportFailure).
		WithMetadata(meta)
}
