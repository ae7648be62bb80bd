// Package suspend coordinates the suspended and active states of a session.
//
// Suspending marks the coordinator suspended before closing the connection
// with protocol.CloseManualSuspend, so the close the transport reports is
// already inside the suspend window. Resuming re-opens the connection and,
// when the transport reports a fresh engine session, either fails (when only
// a re-attach is acceptable) or runs the restore hook.
package suspend
