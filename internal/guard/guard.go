// Package guard decides, per navigation, whether a route renders or where it
// redirects. Decisions are pure functions of session state and path, and are
// re-evaluated on every navigation; nothing is cached.
package guard

import (
	"net/url"

	"github.com/rxgate/rxgate/internal/session"
)

// DecisionKind is the terminal outcome of one navigation.
type DecisionKind int

const (
	// Render lets the requested view through.
	Render DecisionKind = iota
	// Loading holds the navigation while the profile is still unknown;
	// never a redirect.
	Loading
	// RedirectLogin sends the visitor to the login page, recording the
	// originally requested path.
	RedirectLogin
	// RedirectHome bounces a role off another role's namespace, exactly once.
	RedirectHome
)

func (k DecisionKind) String() string {
	switch k {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision is the guard's answer for one navigation. Target is set for the
// redirect kinds.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// LoginPath is where unauthenticated navigations land. The requested path is
// recorded in the from parameter; post-login navigation still lands on the
// role's home (recorded, not resumed).
const LoginPath = "/login"

// Evaluate decides the outcome for the session (nil for no session at all)
// navigating to path.
func Evaluate(s *session.Session, path string) Decision {
	if !s.Authenticated() {
		target := LoginPath
		if path != "" && path != "/" {
			target += "?from=" + url.QueryEscape(path)
		}
		return Decision{Kind: RedirectLogin, Target: target}
	}

	if !s.ProfileKnown() {
		return Decision{Kind: Loading}
	}

	if s.Role.AllowsPath(path) {
		return Decision{Kind: Render}
	}

	// Foreign namespace. The AllowsPath check above already covers the
	// role's own namespace, so redirecting to home here cannot loop.
	return Decision{Kind: RedirectHome, Target: s.Role.Home()}
}
