package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/agentstation/photomap/pkg/constants"
)

const userIDKey = "user_id"

// NewSessionStore creates the cookie store that carries the signed-in user.
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   constants.SessionMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return store
}

// CurrentUser returns the signed-in user ID, if any.
func CurrentUser(c echo.Context) (string, bool) {
	sess, err := session.Get(constants.SessionName, c)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[userIDKey].(string)
	return id, ok && id != ""
}

// SignIn binds the session to userID.
func SignIn(c echo.Context, userID string) error {
	sess, err := session.Get(constants.SessionName, c)
	if err != nil {
		return err
	}
	sess.Values[userIDKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// SignOut expires the session cookie.
func SignOut(c echo.Context) error {
	sess, err := session.Get(constants.SessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// RequireSession rejects requests without a signed-in user with 401.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentUser(c); !ok {
			return c.String(http.StatusUnauthorized, "Not signed in")
		}
		return next(c)
	}
}
