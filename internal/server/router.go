package server

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/agentstation/photomap/internal/server/handlers"
	"github.com/agentstation/photomap/internal/server/middleware"
	"github.com/agentstation/photomap/pkg/constants"
)

// setupRouter creates the echo instance with routes and middleware.
func (s *Server) setupRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	h := handlers.New(s.db, s.cache, s.wsHub, s.ImageDir(), s.config.MaxUploadSize, s.logger)

	s.applyMiddleware(e)
	s.registerRoutes(e, h)
	return e
}

// applyMiddleware installs the middleware chain, outermost first.
func (s *Server) applyMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger(s.logger))
	e.Use(echomw.Recover())
	e.Use(middleware.CORS(s.config.CORSOrigins))
	e.Use(session.Middleware(middleware.NewSessionStore(s.secret, s.config.CookieSecure)))
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.HandleHealth)

	// public
	e.POST(constants.PathSignin, h.HandleSignin, middleware.RateLimit(s.config.SigninRateLimit))
	e.GET(constants.PathLogout, h.HandleLogout)
	e.GET(constants.PathImages+"/:file", h.HandleImage)

	// signed in
	e.GET(constants.PathAuth, h.HandleAuth, middleware.RequireSession)
	e.GET(constants.PathProfile, h.HandleProfile, middleware.RequireSession)
	e.GET(constants.PathImagesMeta, h.HandleImagesMeta, middleware.RequireSession)
	e.GET(constants.PathImagesMeta+"/:filter", h.HandleImagesMeta, middleware.RequireSession)
	e.GET(constants.PathHashtags, h.HandleHashtags, middleware.RequireSession)
	e.POST(constants.PathUpdateMeta, h.HandleUpdateMeta, middleware.RequireSession)
	e.POST(constants.PathImageUpload, h.HandleUpload, middleware.RequireSession)
	e.GET(constants.PathEvents, h.HandleEvents, middleware.RequireSession)
}
