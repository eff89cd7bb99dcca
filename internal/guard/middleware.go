package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/session"
)

// CookieName carries the gateway session ID in the browser.
const CookieName = "rxgate_session"

const sessionContextKey = "rxgate.session"

// publicPaths are reachable without a session.
var publicPaths = []string{"/login", "/register", "/health", "/metrics"}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Middleware evaluates the guard for every navigation and maps the decision
// onto HTTP: render passes through, redirects become 302s, and loading
// answers 200 with a loading body while a profile fetch is kicked off in the
// background.
func Middleware(mgr *session.Manager, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if isPublic(path) {
				return next(c)
			}

			var snap *session.Session
			if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
				if s, ok := mgr.Get(cookie.Value); ok {
					snap = &s
				}
			}

			d := Evaluate(snap, path)
			switch d.Kind {
			case Render:
				c.Set(sessionContextKey, *snap)
				return next(c)

			case Loading:
				// Resolve the unknown profile off the request path; the
				// client polls the same route.
				id := snap.ID
				go func() {
					if err := mgr.FetchProfile(context.Background(), id); err != nil {
						logger.Warn().Err(err).Str("session_id", id).Msg("profile fetch failed")
					}
				}()
				return c.JSON(http.StatusOK, map[string]string{"status": "loading"})

			case RedirectHome:
				logger.Info().
					Str("path", path).
					Str("target", d.Target).
					Str("role", string(snap.Role)).
					Msg("navigation bounced to role home")
				return c.Redirect(http.StatusFound, d.Target)

			default:
				return c.Redirect(http.StatusFound, d.Target)
			}
		}
	}
}

// FromContext returns the session snapshot the guard attached for the
// current navigation.
func FromContext(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(sessionContextKey).(session.Session)
	return s, ok
}
