package authclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRunsStepsInOrder(t *testing.T) {
	var calls []string
	step := func(name string) workflowStep {
		return workflowStep{name: name, run: func(context.Context) error {
			calls = append(calls, name)
			return nil
		}}
	}

	p := newPipeline(WorkflowSignUp)
	err := p.run(context.Background(), []workflowStep{step("a"), step("b"), step("c")})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, StateDone, p.state)
	assert.Equal(t, "c", p.step)
}

func TestPipelineStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	p := newPipeline(WorkflowSignIn)
	err := p.run(context.Background(), []workflowStep{
		{name: "a", run: func(context.Context) error { calls = append(calls, "a"); return boom }},
		{name: "b", run: func(context.Context) error { calls = append(calls, "b"); return nil }},
	})

	assert.Same(t, boom, err)
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, StateFailed, p.state)
	assert.Equal(t, "a", p.step)
	assert.True(t, p.state.Terminal())
}

func TestPipelineTransitions(t *testing.T) {
	p := newPipeline(WorkflowSignOut)
	p.reject()
	assert.Equal(t, StateRejected, p.state)
	assert.ErrorIs(t, p.transition(StateRunning), ErrInvalidWorkflowTransition)

	p = newPipeline(WorkflowSignOut)
	p.abort()
	assert.Equal(t, StateFailed, p.state)
	assert.ErrorIs(t, p.transition(StateDone), ErrInvalidWorkflowTransition)

	p = newPipeline(WorkflowChangePassword)
	assert.ErrorIs(t, p.transition(StateDone), ErrInvalidWorkflowTransition)
	require.NoError(t, p.run(context.Background(), nil))
	assert.Equal(t, StateDone, p.state)
}

func TestLineRendersKeyValues(t *testing.T) {
	assert.Equal(t, "workflow failed workflow=sign_in step=set_session\n", line("workflow failed", "workflow", WorkflowSignIn, "step", StepSetSession))
	assert.Equal(t, "odd trailing\n", line("odd", "trailing"))
}

func TestActivityEventFor(t *testing.T) {
	assert.Equal(t, ActivityEventSignUpFailure, activityEventFor(WorkflowSignUp, false))
	assert.Equal(t, ActivityEventSignOutSuccess, activityEventFor(WorkflowSignOut, true))
	assert.Equal(t, ActivityEventPasswordChangeFailure, activityEventFor(WorkflowChangePassword, false))
}

func TestWrapWorkflowFailureKeepsSentinelsIntact(t *testing.T) {
	wrapped := wrapWorkflowFailure(ErrNoActiveSession, WorkflowSignOut, "")

	assert.Equal(t, "sign_out", wrapped.Metadata["workflow"])
	assert.NotContains(t, ErrNoActiveSession.Metadata, "workflow")

	wrapped = wrapWorkflowFailure(&TransportError{Operation: "sign_in", Status: 401}, WorkflowSignIn, StepSignIn)
	assert.Equal(t, TextCodeTransportFailure, wrapped.TextCode)
	assert.Equal(t, 401, wrapped.Metadata["status"])
	assert.Equal(t, StepSignIn, wrapped.Metadata["step"])
}
