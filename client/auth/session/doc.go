// Package session derives the Anonymous/Authenticated session state from the
// credential store and emits the "session terminated" signal.
//
// Ending a session (explicit logout or a failed credential refresh) erases
// both credentials first and then calls every subscribed Listener
// synchronously. Navigation is left to the subscriber.
package session
