package authclient

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidWorkflowTransition = "INVALID_WORKFLOW_TRANSITION"

// ErrInvalidWorkflowTransition is returned when a pipeline attempts a state change its graph does not allow.
var ErrInvalidWorkflowTransition = goerrors.New("invalid workflow state transition", goerrors.CategoryInternal).
	WithTextCode(textCodeInvalidWorkflowTransition).
	WithCode(goerrors.CodeInternal)

// Workflow names one of the auth workflows.
type Workflow string

const (
	WorkflowSignUp         Workflow = "sign_up"
	WorkflowSignIn         Workflow = "sign_in"
	WorkflowSignOut        Workflow = "sign_out"
	WorkflowChangePassword Workflow = "change_password"
)

// Workflows lists every workflow in a stable order.
func Workflows() []Workflow {
	return []Workflow{WorkflowSignUp, WorkflowSignIn, WorkflowSignOut, WorkflowChangePassword}
}

// WorkflowState is the position of a workflow run in its pipeline.
type WorkflowState string

const (
	StatePending  WorkflowState = "pending"
	StateRunning  WorkflowState = "running"
	StateDone     WorkflowState = "done"
	StateFailed   WorkflowState = "failed"
	StateRejected WorkflowState = "rejected"
)

// Terminal reports whether no further transition is possible from s.
func (s WorkflowState) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateRejected
}

// WorkflowResult describes how a workflow run settled.
type WorkflowResult struct {
	Workflow Workflow
	State    WorkflowState
	// Step is the last step that started; on failure it is the failing step.
	Step string
	// Err is the error that failed or rejected the run.
	Err            error
	NotificationID string
	// Redirect is the route the view should navigate to, empty when it should stay.
	Redirect string
}

// Succeeded reports whether every step completed.
func (r WorkflowResult) Succeeded() bool {
	return r.State == StateDone
}

// Step names shared by the workflows.
const (
	StepSignUp         = "sign_up"
	StepSignIn         = "sign_in"
	StepSetSession     = "set_session"
	StepSignOut        = "sign_out"
	StepClearSession   = "clear_session"
	StepChangePassword = "change_password"
)

type workflowStep struct {
	name string
	run  func(ctx context.Context) error
}

var workflowTransitions = map[WorkflowState]map[WorkflowState]struct{}{
	StatePending: {
		StateRunning:  {},
		StateFailed:   {},
		StateRejected: {},
	},
	StateRunning: {
		StateRunning: {},
		StateDone:    {},
		StateFailed:  {},
	},
}

// pipeline runs steps in order and stops at the first error.
type pipeline struct {
	workflow Workflow
	state    WorkflowState
	step     string
}

func newPipeline(workflow Workflow) *pipeline {
	return &pipeline{
		workflow: workflow,
		state:    StatePending,
	}
}

func (p *pipeline) transition(to WorkflowState) error {
	allowed, ok := workflowTransitions[p.state]
	if !ok {
		return ErrInvalidWorkflowTransition
	}
	if _, ok := allowed[to]; !ok {
		return ErrInvalidWorkflowTransition
	}
	p.state = to
	return nil
}

func (p *pipeline) run(ctx context.Context, steps []workflowStep) error {
	for _, step := range steps {
		if err := p.transition(StateRunning); err != nil {
			return err
		}
		p.step = step.name

		if err := ctx.Err(); err != nil {
			_ = p.transition(StateFailed)
			return err
		}

		if err := step.run(ctx); err != nil {
			_ = p.transition(StateFailed)
			return err
		}
	}

	if p.state == StatePending {
		if err := p.transition(StateRunning); err != nil {
			return err
		}
	}
	return p.transition(StateDone)
}

// abort fails a pipeline that never started a step.
func (p *pipeline) abort() {
	_ = p.transition(StateFailed)
}

// reject marks a pipeline that was refused before starting.
func (p *pipeline) reject() {
	_ = p.transition(StateRejected)
}
