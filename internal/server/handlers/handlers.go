// Package handlers implements the HTTP endpoints of the reference photo
// service.
package handlers

import (
	"net/http"
	"path"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/server/cache"
	"github.com/agentstation/photomap/internal/server/gallery"
	"github.com/agentstation/photomap/internal/server/middleware"
	ws "github.com/agentstation/photomap/internal/server/websocket"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
)

// Handlers holds the dependencies shared by all endpoints.
type Handlers struct {
	db        *gallery.Store
	cache     *cache.Cache
	wsHub     *ws.Hub
	imageDir  string
	maxUpload int64
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates handlers. Image files are read from and written to imageDir.
func New(db *gallery.Store, c *cache.Cache, hub *ws.Hub, imageDir string, maxUpload int64, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		db:        db,
		cache:     c,
		wsHub:     hub,
		imageDir:  imageDir,
		maxUpload: maxUpload,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the session cookie is SameSite=Lax, which already gates cross-site use
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger:    logger,
		startTime: time.Now(),
	}
}

// requestLogger returns the request-scoped logger set by middleware.Logger.
func requestLogger(c echo.Context) *zerolog.Logger {
	return logging.FromContext(c.Request().Context())
}

// userID returns the signed-in user. Routes that call it are behind
// middleware.RequireSession.
func userID(c echo.Context) string {
	id, _ := middleware.CurrentUser(c)
	return id
}

// changed drops the user's cached listings and notifies their live clients.
func (h *Handlers) changed(user string, data map[string]any) {
	h.cache.InvalidateUser(user)
	h.wsHub.Broadcast(ws.Message{
		Type:   ws.TypeImagesChanged,
		Data:   data,
		UserID: user,
	})
}

// imageURL is the relative URL an image file is served under.
func imageURL(file string) string {
	return path.Join(constants.PathImages, file)
}

// toMetadata converts a stored record to the wire shape.
func toMetadata(img gallery.Image) photos.ImageMetadata {
	return photos.ImageMetadata{
		ID:                  img.ID,
		Title:               img.Title,
		Description:         img.Description,
		Date:                img.Date,
		Time:                img.Time,
		Camera:              img.Camera,
		Scene:               img.Scene,
		Altitude:            img.Altitude,
		Position:            img.Position,
		Hashtags:            img.Hashtags,
		ImageURL:            imageURL(fileName(img.ID, variantFull)),
		ImageThumbURL:       imageURL(fileName(img.ID, variantSmall)),
		ImageThumbMediumURL: imageURL(fileName(img.ID, variantMedium)),
		ImageThumbLargeURL:  imageURL(fileName(img.ID, variantLarge)),
	}
}
