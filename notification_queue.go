package authclient

import (
	"sync"
	"time"

	"github.com/goliatone/go-auth-client/clock"
)

const (
	// DefaultNotificationTTL is how long a notification stays visible.
	DefaultNotificationTTL = 5000 * time.Millisecond
	// DefaultFadeDuration is the delay between dismissal and removal.
	DefaultFadeDuration = 300 * time.Millisecond
)

const maxIDAttempts = 8

// NotificationListener receives a snapshot of the queue after every change.
type NotificationListener func(notifications []Notification)

// QueueOption customizes a NotificationQueue.
type QueueOption func(*NotificationQueue)

// WithQueueClock sets the clock used for expiry and removal timers.
func WithQueueClock(c clock.Clock) QueueOption {
	return func(q *NotificationQueue) {
		if c != nil {
			q.clock = c
		}
	}
}

// WithNotificationTTL overrides how long notifications stay visible.
func WithNotificationTTL(d time.Duration) QueueOption {
	return func(q *NotificationQueue) {
		if d > 0 {
			q.ttl = d
		}
	}
}

// WithFadeDuration overrides the delay between dismissal and removal.
func WithFadeDuration(d time.Duration) QueueOption {
	return func(q *NotificationQueue) {
		if d >= 0 {
			q.fade = d
		}
	}
}

// WithIDGenerator overrides the notification id generator.
func WithIDGenerator(gen func() string) QueueOption {
	return func(q *NotificationQueue) {
		if gen != nil {
			q.newID = gen
		}
	}
}

// WithQueueLogger sets the queue logger.
func WithQueueLogger(logger Logger) QueueOption {
	return func(q *NotificationQueue) {
		q.logger = normalizeLogger(logger)
	}
}

// WithQueueMetrics sets the metrics hook.
func WithQueueMetrics(m Metrics) QueueOption {
	return func(q *NotificationQueue) {
		q.metrics = normalizeMetrics(m)
	}
}

type queueEntry struct {
	notification Notification
	expiry       clock.Timer
	removal      clock.Timer
}

// NotificationQueue keeps notifications in insertion order and owns their
// expiry and removal timers.
type NotificationQueue struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	fade    time.Duration
	newID   func() string
	order   []string
	entries map[string]*queueEntry
	closed  bool
	changes broadcaster[[]Notification]

	logger  Logger
	metrics Metrics
}

// NewNotificationQueue returns an empty queue.
func NewNotificationQueue(opts ...QueueOption) *NotificationQueue {
	q := &NotificationQueue{
		clock:     clock.New(),
		ttl:       DefaultNotificationTTL,
		fade:      DefaultFadeDuration,
		newID:     NewNotificationID,
		entries: map[string]*queueEntry{},
		logger:  defLogger{},
		metrics: noopMetrics{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}

	return q
}

// Notify implements Notifier.
func (q *NotificationQueue) Notify(heading, body string, severity Severity) string {
	return q.Enqueue(heading, body, severity)
}

// Enqueue appends a visible notification, starts its expiry timer and
// returns its id. After Close it stores nothing and returns an empty id.
func (q *NotificationQueue) Enqueue(heading, body string, severity Severity) string {
	if !severity.Valid() {
		severity = SeverityInfo
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("notification queue closed, dropping notification", "heading", heading)
		return ""
	}

	id := q.uniqueID()
	entry := &queueEntry{
		notification: Notification{
			ID:        id,
			Heading:   heading,
			Body:      body,
			Severity:  severity,
			Visible:   true,
			CreatedAt: q.clock.Now(),
		},
	}
	q.entries[id] = entry
	q.order = append(q.order, id)
	entry.expiry = q.clock.AfterFunc(q.ttl, func() {
		q.dismiss(id, entry, DismissByExpiry)
	})

	q.stageLocked()
	q.mu.Unlock()

	q.metrics.NotificationEnqueued(severity)
	q.logger.Debug("notification enqueued", "id", id, "severity", severity)
	q.changes.flush()

	return id
}

// RequestDismiss starts the fade of a visible notification. Unknown ids and
// notifications that are already fading are ignored.
func (q *NotificationQueue) RequestDismiss(id string) {
	q.mu.Lock()
	entry := q.entries[id]
	q.mu.Unlock()

	if entry == nil {
		return
	}
	q.dismiss(id, entry, DismissByUser)
}

// Remove deletes the notification and stops its timers. Unknown ids are ignored.
func (q *NotificationQueue) Remove(id string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	entry := q.entries[id]
	if entry == nil {
		q.mu.Unlock()
		return
	}
	q.removeLocked(id, entry)
	q.stageLocked()
	q.mu.Unlock()

	q.metrics.NotificationRemoved()
	q.logger.Debug("notification removed", "id", id)
	q.changes.flush()
}

// List returns the queued notifications in insertion order.
func (q *NotificationQueue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.listLocked()
}

// Get returns the notification with id.
func (q *NotificationQueue) Get(id string) (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[id]
	if !ok {
		return Notification{}, false
	}
	return entry.notification, true
}

// Len returns the number of queued notifications, fading ones included.
func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Subscribe registers l for queue changes and returns a function that removes it.
func (q *NotificationQueue) Subscribe(l NotificationListener) func() {
	if l == nil {
		return func() {}
	}

	return q.changes.subscribe(l)
}

// Close stops every pending timer. Timers that already started running and
// any later calls leave the queue untouched.
func (q *NotificationQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true

	stopped := 0
	for _, entry := range q.entries {
		if stopTimer(entry.expiry) {
			stopped++
		}
		if stopTimer(entry.removal) {
			stopped++
		}
		entry.expiry = nil
		entry.removal = nil
	}
	q.changes.reset()

	q.logger.Debug("notification queue closed", "stopped_timers", stopped)
}

// Closed reports whether Close was called.
func (q *NotificationQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// dismiss moves a visible entry to fading and schedules its removal. entry
// pins the call to the notification it was scheduled for.
func (q *NotificationQueue) dismiss(id string, entry *queueEntry, reason DismissReason) {
	q.mu.Lock()
	if q.closed || q.entries[id] != entry || !entry.notification.Visible {
		q.mu.Unlock()
		return
	}

	entry.notification.Visible = false
	stopTimer(entry.expiry)
	entry.expiry = nil
	entry.removal = q.clock.AfterFunc(q.fade, func() {
		q.expireRemoval(id, entry)
	})

	q.stageLocked()
	q.mu.Unlock()

	q.metrics.NotificationDismissed(reason)
	q.logger.Debug("notification dismissed", "id", id, "reason", reason)
	q.changes.flush()
}

func (q *NotificationQueue) expireRemoval(id string, entry *queueEntry) {
	q.mu.Lock()
	if q.closed || q.entries[id] != entry {
		q.mu.Unlock()
		return
	}
	entry.removal = nil
	q.removeLocked(id, entry)
	q.stageLocked()
	q.mu.Unlock()

	q.metrics.NotificationRemoved()
	q.logger.Debug("notification removed", "id", id)
	q.changes.flush()
}

func (q *NotificationQueue) removeLocked(id string, entry *queueEntry) {
	stopTimer(entry.expiry)
	stopTimer(entry.removal)
	entry.expiry = nil
	entry.removal = nil

	delete(q.entries, id)
	for i, candidate := range q.order {
		if candidate == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

func (q *NotificationQueue) uniqueID() string {
	var id string
	for i := 0; i < maxIDAttempts; i++ {
		id = q.newID()
		if _, taken := q.entries[id]; id != "" && !taken {
			return id
		}
	}
	q.logger.Warn("notification id generator kept colliding, falling back to uuid", "last", id)
	for {
		id = NewNotificationID()
		if _, taken := q.entries[id]; !taken {
			return id
		}
	}
}

func (q *NotificationQueue) listLocked() []Notification {
	out := make([]Notification, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.entries[id].notification)
	}
	return out
}

// stageLocked hands the current list to subscribers, delivered on the next flush.
func (q *NotificationQueue) stageLocked() {
	if !q.changes.active() {
		return
	}
	q.changes.stage(q.listLocked())
}

func stopTimer(t clock.Timer) bool {
	if t == nil {
		return false
	}
	return t.Stop()
}
