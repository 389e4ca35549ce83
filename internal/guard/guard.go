// Package guard implements the access decision for protected destinations.
// It is a pure mapping from (requirement, session state) to an outcome and
// performs no I/O; HTTP middleware consults it and carries out the result.
package guard

// Requirement declares who may reach a destination.
type Requirement int

const (
	// RequireAuth destinations need an authenticated session.
	RequireAuth Requirement = iota

	// RequireAnonymous destinations are for logged-out visitors only,
	// e.g. the login and registration pages.
	RequireAnonymous
)

// Outcome is the guard's decision.
type Outcome int

const (
	// Proceed renders the requested destination.
	Proceed Outcome = iota

	// RedirectLogin sends the visitor to the login destination.
	RedirectLogin

	// RedirectHome sends an already-authenticated visitor to the default
	// authenticated destination.
	RedirectHome
)

// Decide maps the declared requirement and the current session state to an
// outcome.
func Decide(req Requirement, authenticated bool) Outcome {
	switch {
	case req == RequireAuth && !authenticated:
		return RedirectLogin
	case req == RequireAnonymous && authenticated:
		return RedirectHome
	default:
		return Proceed
	}
}
