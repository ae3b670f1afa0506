package authclient

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-auth-client/clock"
)

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	clock        clock.Clock
	logger       Logger
	metrics      Metrics
	activity     ActivitySink
	navigator    Navigator
	messages     *Messages
	idGenerator  func() string
	ttl          time.Duration
	fade         time.Duration
	defaultRoute string
}

// WithClock sets the clock used by the notification queue and the workflows.
func WithClock(c clock.Clock) Option {
	return func(o *clientOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithClientLogger sets the logger shared by every component.
func WithClientLogger(logger Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClientMetrics sets the metrics hook shared by every component.
func WithClientMetrics(m Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithClientActivitySink sets the workflow activity sink.
func WithClientActivitySink(sink ActivitySink) Option {
	return func(o *clientOptions) {
		o.activity = sink
	}
}

// WithClientNavigator sets the navigation callback for successful workflows.
func WithClientNavigator(n Navigator) Option {
	return func(o *clientOptions) {
		o.navigator = n
	}
}

// WithClientMessages overrides notification texts.
func WithClientMessages(m Messages) Option {
	return func(o *clientOptions) {
		o.messages = &m
	}
}

// WithClientIDGenerator overrides the notification id generator.
func WithClientIDGenerator(gen func() string) Option {
	return func(o *clientOptions) {
		o.idGenerator = gen
	}
}

// Client is the composition root. It owns the session and the notification
// queue and hands their capabilities to the workflows and the view layer.
type Client struct {
	session       *SessionManager
	notifications *NotificationQueue
	workflows     *Orchestrator
	clock         clock.Clock
	logger        Logger

	closeOnce sync.Once
}

// New builds a Client from cfg. Zero config values fall back to defaults.
func New(cfg Config, transport Transport, opts ...Option) *Client {
	options := clientOptions{
		clock:        clock.New(),
		logger:       defLogger{},
		ttl:          cfg.NotificationTTL,
		fade:         cfg.FadeDuration,
		defaultRoute: cfg.DefaultRoute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	session := NewSessionManager()

	queueOpts := []QueueOption{
		WithQueueClock(options.clock),
		WithQueueLogger(options.logger),
		WithQueueMetrics(options.metrics),
		WithNotificationTTL(options.ttl),
		WithIDGenerator(options.idGenerator),
	}
	if options.fade > 0 {
		queueOpts = append(queueOpts, WithFadeDuration(options.fade))
	}
	notifications := NewNotificationQueue(queueOpts...)

	orchestratorOpts := []OrchestratorOption{
		WithLogger(options.logger),
		WithMetrics(options.metrics),
		WithActivitySink(options.activity),
		WithNavigator(options.navigator),
		WithDefaultRoute(options.defaultRoute),
		WithOrchestratorClock(options.clock.Now),
	}
	if options.messages != nil {
		orchestratorOpts = append(orchestratorOpts, WithMessages(*options.messages))
	}

	return &Client{
		session:       session,
		notifications: notifications,
		workflows:     NewOrchestrator(transport, session, notifications, orchestratorOpts...),
		clock:         options.clock,
		logger:        options.logger,
	}
}

// Session returns the session manager.
func (c *Client) Session() *SessionManager {
	return c.session
}

// Notifications returns the notification queue.
func (c *Client) Notifications() *NotificationQueue {
	return c.notifications
}

// Workflows returns the workflow orchestrator.
func (c *Client) Workflows() *Orchestrator {
	return c.workflows
}

// Notify enqueues a notification and returns its id.
func (c *Client) Notify(heading, body string, severity Severity) string {
	return c.notifications.Enqueue(heading, body, severity)
}

// RequestDismiss starts fading the notification with id.
func (c *Client) RequestDismiss(id string) {
	c.notifications.RequestDismiss(id)
}

// SetSession replaces the current session.
func (c *Client) SetSession(identity Identity) {
	c.session.Set(identity)
}

// ClearSession drops the current session.
func (c *Client) ClearSession() {
	c.session.Clear()
}

// CurrentSession returns the current identity, if any.
func (c *Client) CurrentSession() (Identity, bool) {
	return c.session.Current()
}

// SessionExpired reports whether the current session token carries an
// expiration that has passed. Opaque tokens and anonymous sessions report false.
func (c *Client) SessionExpired() bool {
	identity, ok := c.session.Current()
	if !ok {
		return false
	}
	return identity.TokenExpired(c.clock.Now())
}

// SignUp runs the sign up workflow.
func (c *Client) SignUp(ctx context.Context, creds *Credentials) WorkflowResult {
	return c.workflows.SignUp(ctx, creds)
}

// SignIn runs the sign in workflow.
func (c *Client) SignIn(ctx context.Context, creds *Credentials) WorkflowResult {
	return c.workflows.SignIn(ctx, creds)
}

// SignOut runs the sign out workflow for the current session.
func (c *Client) SignOut(ctx context.Context) WorkflowResult {
	identity, _ := c.session.Current()
	return c.workflows.SignOut(ctx, identity)
}

// ChangePassword runs the change password workflow for the current session.
func (c *Client) ChangePassword(ctx context.Context, passwords *PasswordChange) WorkflowResult {
	identity, _ := c.session.Current()
	return c.workflows.ChangePassword(ctx, passwords, identity)
}

// Close tears the client down, stopping every pending notification timer.
// It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.notifications.Close()
		c.logger.Debug("auth client closed")
	})
	return nil
}
