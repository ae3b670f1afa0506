package authclient

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-print"
	"golang.org/x/sync/semaphore"
)

// DefaultRoute is where successful workflows send the view.
const DefaultRoute = "/"

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithMessages overrides notification texts. Empty entries keep the defaults.
func WithMessages(m Messages) OrchestratorOption {
	return func(o *Orchestrator) {
		o.messages = m.merge(DefaultMessages())
	}
}

// WithDefaultRoute sets the redirect reported by successful workflows.
func WithDefaultRoute(route string) OrchestratorOption {
	return func(o *Orchestrator) {
		if route != "" {
			o.defaultRoute = route
		}
	}
}

// WithNavigator registers a callback invoked with the redirect route after a
// successful workflow.
func WithNavigator(n Navigator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.navigator = n
	}
}

// WithActivitySink sets the sink used to emit workflow events.
func WithActivitySink(sink ActivitySink) OrchestratorOption {
	return func(o *Orchestrator) {
		o.activity = normalizeActivitySink(sink)
	}
}

// WithMetrics sets the metrics hook.
func WithMetrics(m Metrics) OrchestratorOption {
	return func(o *Orchestrator) {
		o.metrics = normalizeMetrics(m)
	}
}

// WithLogger overrides the orchestrator logger.
func WithLogger(logger Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = normalizeLogger(logger)
	}
}

// WithOrchestratorClock injects a custom clock (useful for tests).
func WithOrchestratorClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator runs the sign up, sign in, sign out and change password
// workflows against a Transport.
//
// Every workflow is a fail fast pipeline: the first failing step stops the
// run, the workflow's rollback runs and exactly one failure notification is
// enqueued. Transport errors never escape; they are reported through
// WorkflowResult.Err. A workflow submitted while the same workflow is still
// running is rejected with ErrWorkflowInFlight.
type Orchestrator struct {
	transport    Transport
	session      SessionStore
	notifier     Notifier
	messages     Messages
	defaultRoute string
	navigator    Navigator
	activity     ActivitySink
	metrics      Metrics
	logger       Logger
	now          func() time.Time
	inflight     map[Workflow]*semaphore.Weighted
	running      map[Workflow]*atomic.Bool
}

// NewOrchestrator wires the workflows to their collaborators.
func NewOrchestrator(transport Transport, session SessionStore, notifier Notifier, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		transport:    transport,
		session:      session,
		notifier:     notifier,
		messages:     DefaultMessages(),
		defaultRoute: DefaultRoute,
		activity:     noopActivitySink{},
		metrics:      noopMetrics{},
		logger:       defLogger{},
		now:          time.Now,
		inflight:     map[Workflow]*semaphore.Weighted{},
		running:      map[Workflow]*atomic.Bool{},
	}

	for _, w := range Workflows() {
		o.inflight[w] = semaphore.NewWeighted(1)
		o.running[w] = &atomic.Bool{}
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.notifier == nil {
		o.notifier = NotifierFunc(func(string, string, Severity) string { return "" })
	}

	return o
}

// InFlight reports whether a run of workflow has not settled yet.
func (o *Orchestrator) InFlight(workflow Workflow) bool {
	flag, ok := o.running[workflow]
	if !ok {
		return false
	}
	return flag.Load()
}

// SignUp registers the account, then signs in with the same credentials and
// stores the session. On failure creds is reset and the session is untouched.
func (o *Orchestrator) SignUp(ctx context.Context, creds *Credentials) WorkflowResult {
	input := copyCredentials(creds)
	var identity Identity

	return o.run(ctx, workflowRun{
		workflow: WorkflowSignUp,
		email:    input.Email,
		steps: []workflowStep{
			{name: StepSignUp, run: func(ctx context.Context) error {
				return o.transport.SignUp(ctx, input)
			}},
			{name: StepSignIn, run: func(ctx context.Context) error {
				var err error
				identity, err = o.transport.SignIn(ctx, input)
				return err
			}},
			{name: StepSetSession, run: func(context.Context) error {
				o.session.Set(identity)
				return nil
			}},
		},
		success:  o.messages.SignUpSuccess,
		failure:  o.messages.SignUpFailure,
		redirect: true,
		rollback: creds.Reset,
	})
}

// SignIn signs in and stores the session. On failure creds is reset and the
// session is untouched.
func (o *Orchestrator) SignIn(ctx context.Context, creds *Credentials) WorkflowResult {
	input := copyCredentials(creds)
	var identity Identity

	return o.run(ctx, workflowRun{
		workflow: WorkflowSignIn,
		email:    input.Email,
		steps: []workflowStep{
			{name: StepSignIn, run: func(ctx context.Context) error {
				var err error
				identity, err = o.transport.SignIn(ctx, input)
				return err
			}},
			{name: StepSetSession, run: func(context.Context) error {
				o.session.Set(identity)
				return nil
			}},
		},
		success:  o.messages.SignInSuccess,
		failure:  o.messages.SignInFailure,
		redirect: true,
		rollback: creds.Reset,
	})
}

// SignOut ends the remote session and clears the local one. When the remote
// call fails the local session is kept.
func (o *Orchestrator) SignOut(ctx context.Context, identity Identity) WorkflowResult {
	return o.run(ctx, workflowRun{
		workflow:     WorkflowSignOut,
		email:        identity.Email,
		precondition: requireToken(identity),
		steps: []workflowStep{
			{name: StepSignOut, run: func(ctx context.Context) error {
				return o.transport.SignOut(ctx, identity)
			}},
			{name: StepClearSession, run: func(context.Context) error {
				o.session.Clear()
				return nil
			}},
		},
		success:  o.messages.SignOutSuccess,
		failure:  o.messages.SignOutFailure,
		redirect: true,
	})
}

// ChangePassword updates the password of the signed in user. The session is
// never modified. passwords is cleared once the run settles.
func (o *Orchestrator) ChangePassword(ctx context.Context, passwords *PasswordChange, identity Identity) WorkflowResult {
	input := PasswordChange{}
	if passwords != nil {
		input = *passwords
	}

	return o.run(ctx, workflowRun{
		workflow:     WorkflowChangePassword,
		email:        identity.Email,
		precondition: requireToken(identity),
		steps: []workflowStep{
			{name: StepChangePassword, run: func(ctx context.Context) error {
				return o.transport.ChangePassword(ctx, input, identity)
			}},
		},
		success:  o.messages.ChangePasswordSuccess,
		failure:  o.messages.ChangePasswordFailure,
		redirect: true,
		settle:   passwords.Reset,
	})
}

type workflowRun struct {
	workflow     Workflow
	email        string
	precondition func() error
	steps        []workflowStep
	success      Message
	failure      Message
	redirect     bool
	// rollback runs only when the run fails.
	rollback func()
	// settle runs once the run has finished, whatever the outcome.
	settle func()
}

func (o *Orchestrator) run(ctx context.Context, wr workflowRun) WorkflowResult {
	if ctx == nil {
		ctx = context.Background()
	}

	p := newPipeline(wr.workflow)
	result := WorkflowResult{Workflow: wr.workflow}

	guard := o.inflight[wr.workflow]
	if !guard.TryAcquire(1) {
		p.reject()
		result.State = p.state
		result.Err = ErrWorkflowInFlight
		o.logger.Warn("workflow rejected, previous run still in flight", "workflow", wr.workflow)
		o.metrics.WorkflowSettled(wr.workflow, result.State, 0)
		return result
	}
	running := o.running[wr.workflow]
	running.Store(true)
	defer func() {
		running.Store(false)
		guard.Release(1)
	}()

	started := o.now()
	o.logger.Debug("workflow started", "workflow", wr.workflow)

	var err error
	if wr.precondition != nil {
		err = wr.precondition()
	}
	if err != nil {
		p.abort()
	} else {
		err = p.run(ctx, wr.steps)
	}

	result.State = p.state
	result.Step = p.step

	if err != nil {
		result.Err = err
		if wr.rollback != nil {
			wr.rollback()
		}
		o.reportFailure(ctx, wr, p, err)
		msg := wr.failure.WithError(err)
		result.NotificationID = o.notifier.Notify(msg.Heading, msg.Body, SeverityFailure)
	} else {
		result.NotificationID = o.notifier.Notify(wr.success.Heading, wr.success.Body, SeveritySuccess)
		if wr.redirect {
			result.Redirect = o.defaultRoute
		}
		o.recordActivity(ctx, ActivityEvent{
			EventType: activityEventFor(wr.workflow, true),
			Workflow:  wr.workflow,
			Email:     wr.email,
			Step:      p.step,
		})
		o.logger.Info("workflow completed", "workflow", wr.workflow)
	}

	if wr.settle != nil {
		wr.settle()
	}

	o.metrics.WorkflowSettled(wr.workflow, result.State, o.now().Sub(started))

	if result.Redirect != "" && o.navigator != nil {
		o.navigator(ctx, result.Redirect)
	}

	return result
}

func (o *Orchestrator) reportFailure(ctx context.Context, wr workflowRun, p *pipeline, err error) {
	richErr := wrapWorkflowFailure(err, wr.workflow, p.step)

	o.logger.Error(
		"workflow failed",
		"workflow", wr.workflow,
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	o.recordActivity(ctx, ActivityEvent{
		EventType: activityEventFor(wr.workflow, false),
		Workflow:  wr.workflow,
		Email:     wr.email,
		Step:      p.step,
		Error:     ErrorMessage(err),
		Metadata:  richErr.Metadata,
	})
}

func (o *Orchestrator) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = o.now()
	}

	sink := normalizeActivitySink(o.activity)
	if err := sink.Record(ctx, event); err != nil {
		o.logger.Warn("workflow activity sink error", "error", err)
	}
}

func requireToken(identity Identity) func() error {
	return func() error {
		if !identity.HasToken() {
			return ErrNoActiveSession
		}
		return nil
	}
}

func copyCredentials(creds *Credentials) Credentials {
	if creds == nil {
		return Credentials{}
	}
	return *creds
}
