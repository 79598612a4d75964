package echoapi

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core/session"
)

const sessionCookieName = "alyusr_session"

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// cookieSession rebuilds the session carried by the signed browser cookie;
// nil when absent or unreadable.
func cookieSession(ctx echo.Context, store sessions.Store) *session.Session {
	sess, err := store.Get(ctx.Request(), sessionCookieName)
	if err != nil || sess.IsNew {
		return nil
	}
	id, _ := sess.Values["id"].(string)
	if id == "" {
		return nil
	}
	email, _ := sess.Values["email"].(string)
	name, _ := sess.Values["name"].(string)
	role, _ := sess.Values["role"].(string)
	initials, _ := sess.Values["initials"].(string)
	return &session.Session{ID: id, Email: email, Name: name, Role: role, Initials: initials}
}

// dashboardMiddleware gates a dashboard category behind the browser session.
// The same CanAccessDashboard check guards both rendering and navigation so
// the two can never disagree; failures redirect to the login page.
func dashboardMiddleware(store sessions.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s := cookieSession(ctx, store)
			if !session.CanAccessDashboard(s, ctx.Param("category")) {
				return ctx.Redirect(http.StatusSeeOther, "/login")
			}
			ctx.Set(contextSessionKey, s)
			return next(ctx)
		}
	}
}

const contextSessionKey = "session"
