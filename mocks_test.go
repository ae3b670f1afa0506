package authclient_test

import (
	"context"
	"sync"
	"time"

	authclient "github.com/goliatone/go-auth-client"
	"github.com/stretchr/testify/mock"
)

// MockTransport implements authclient.Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) SignUp(ctx context.Context, creds authclient.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockTransport) SignIn(ctx context.Context, creds authclient.Credentials) (authclient.Identity, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(authclient.Identity), args.Error(1)
}

func (m *MockTransport) SignOut(ctx context.Context, identity authclient.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockTransport) ChangePassword(ctx context.Context, passwords authclient.PasswordChange, identity authclient.Identity) error {
	args := m.Called(ctx, passwords, identity)
	return args.Error(0)
}

type settledRun struct {
	workflow authclient.Workflow
	state    authclient.WorkflowState
	elapsed  time.Duration
}

// countingMetrics records every hook call.
type countingMetrics struct {
	mu        sync.Mutex
	settled   []settledRun
	enqueued  map[authclient.Severity]int
	dismissed map[authclient.DismissReason]int
	removed   int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		enqueued:  map[authclient.Severity]int{},
		dismissed: map[authclient.DismissReason]int{},
	}
}

func (m *countingMetrics) WorkflowSettled(workflow authclient.Workflow, state authclient.WorkflowState, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settled = append(m.settled, settledRun{workflow: workflow, state: state, elapsed: elapsed})
}

func (m *countingMetrics) NotificationEnqueued(severity authclient.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued[severity]++
}

func (m *countingMetrics) NotificationDismissed(reason authclient.DismissReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissed[reason]++
}

func (m *countingMetrics) NotificationRemoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed++
}

func (m *countingMetrics) dismissedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.dismissed {
		total += n
	}
	return total
}

func (m *countingMetrics) removedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed
}

func (m *countingMetrics) settledRuns() []settledRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]settledRun(nil), m.settled...)
}

// recordingSink collects activity events.
type recordingSink struct {
	mu     sync.Mutex
	events []authclient.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event authclient.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) recorded() []authclient.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]authclient.ActivityEvent(nil), s.events...)
}
