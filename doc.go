// Package authclient is the client side state engine for a token based auth
// service: the current session, the sign up/sign in/sign out/change password
// workflows, and the queue of self expiring notifications shown to the user.
//
// Composition:
//   - Client is the composition root. It owns one SessionManager and one
//     NotificationQueue and passes them, as SessionStore and Notifier
//     capabilities, to the Orchestrator. Views use the Client methods and
//     Subscribe to re-render. Call Close on teardown.
//
// Workflows:
//   - Each workflow is a fail fast pipeline over the Transport. The first
//     failing step stops the run, the rollback runs (sign up and sign in reset
//     the credentials) and one failure notification is enqueued whose heading
//     carries the underlying error message. Errors are reported through
//     WorkflowResult, never returned or panicked.
//   - A failed sign out keeps the local session.
//   - Submitting a workflow while the same workflow is in flight is rejected
//     with ErrWorkflowInFlight.
//
// Notifications:
//   - Enqueue starts a 5s expiry timer. Expiry or RequestDismiss moves the
//     notification to fading (Visible=false) and, 300ms later, removes it.
//     Dismiss and expiry converge: whichever happens first wins and the other
//     is a no-op. Close stops every pending timer.
//   - Timers come from the clock package; use clock.NewManual to drive time
//     in tests.
package authclient
