package authclient

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventSignUpSuccess         ActivityEventType = "auth.sign_up.success"
	ActivityEventSignUpFailure         ActivityEventType = "auth.sign_up.failure"
	ActivityEventSignInSuccess         ActivityEventType = "auth.sign_in.success"
	ActivityEventSignInFailure         ActivityEventType = "auth.sign_in.failure"
	ActivityEventSignOutSuccess        ActivityEventType = "auth.sign_out.success"
	ActivityEventSignOutFailure        ActivityEventType = "auth.sign_out.failure"
	ActivityEventPasswordChangeSuccess ActivityEventType = "auth.password.change.success"
	ActivityEventPasswordChangeFailure ActivityEventType = "auth.password.change.failure"
)

// ActivityEvent captures audit-friendly information about a workflow run.
type ActivityEvent struct {
	EventType  ActivityEventType
	Workflow   Workflow
	Email      string
	Step       string
	Error      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

func activityEventFor(workflow Workflow, succeeded bool) ActivityEventType {
	switch workflow {
	case WorkflowSignUp:
		if succeeded {
			return ActivityEventSignUpSuccess
		}
		return ActivityEventSignUpFailure
	case WorkflowSignIn:
		if succeeded {
			return ActivityEventSignInSuccess
		}
		return ActivityEventSignInFailure
	case WorkflowSignOut:
		if succeeded {
			return ActivityEventSignOutSuccess
		}
		return ActivityEventSignOutFailure
	default:
		if succeeded {
			return ActivityEventPasswordChangeSuccess
		}
		return ActivityEventPasswordChangeFailure
	}
}
