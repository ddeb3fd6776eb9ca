package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/agentstation/photomap/internal/server/gallery"
	"github.com/agentstation/photomap/internal/server/middleware"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// HandleSignin signs a user in, or registers them first for a signup.
func (h *Handlers) HandleSignin(c echo.Context) error {
	var payload photos.LoginPayload
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request body")
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := payload.Validate(); err != nil {
		var verr *errors.ValidationError
		if errors.As(err, &verr) {
			return c.String(http.StatusBadRequest, "Invalid "+verr.Field)
		}
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	ctx := c.Request().Context()
	logger := requestLogger(c)

	var user gallery.User
	switch payload.Type {
	case photos.Signup:
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user, err = h.db.CreateUser(ctx, gallery.User{
			ID:           uuid.NewString(),
			Email:        payload.Email,
			PasswordHash: string(hash),
		})
		if errors.Is(err, gallery.ErrConflict) {
			return c.String(http.StatusConflict, "Email already registered")
		}
		if err != nil {
			return err
		}
		logger.Info().Str("user_id", user.ID).Msg("user registered")

	default:
		var err error
		user, err = h.db.UserByEmail(ctx, payload.Email)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
			logger.Warn().Str("email", payload.Email).Msg("sign-in failed")
			return c.String(http.StatusUnauthorized, "Invalid email or password")
		}
	}

	if err := middleware.SignIn(c, user.ID); err != nil {
		return err
	}
	return c.String(http.StatusOK, "OK")
}

// HandleAuth answers 200 for a signed-in session. The route is behind
// middleware.RequireSession, which answers 401 otherwise.
func (h *Handlers) HandleAuth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// HandleProfile returns the signed-in user's profile.
func (h *Handlers) HandleProfile(c echo.Context) error {
	user, err := h.db.UserByID(c.Request().Context(), userID(c))
	if errors.IsNotFound(err) {
		// account vanished under a live session
		_ = middleware.SignOut(c)
		return c.String(http.StatusUnauthorized, "Not signed in")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, photos.Profile{Email: user.Email, ID: user.ID})
}

// HandleLogout ends the session. It succeeds whether or not one existed.
func (h *Handlers) HandleLogout(c echo.Context) error {
	if err := middleware.SignOut(c); err != nil {
		return err
	}
	return c.String(http.StatusOK, "OK")
}
