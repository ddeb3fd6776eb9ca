package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agentstation/photomap/internal/server/gallery"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// HandleImagesMeta lists the user's images, optionally restricted to the
// hashtag in the :filter path segment.
func (h *Handlers) HandleImagesMeta(c echo.Context) error {
	user := userID(c)
	tag := c.Param("filter")
	if unescaped, err := url.PathUnescape(tag); err == nil {
		tag = unescaped
	}

	if list, ok := h.cache.Images(user, tag); ok {
		return c.JSON(http.StatusOK, list)
	}

	images, err := h.db.ListImages(c.Request().Context(), user, tag)
	if err != nil {
		return err
	}
	list := make([]photos.ImageMetadata, 0, len(images))
	for _, img := range images {
		list = append(list, toMetadata(img))
	}
	h.cache.SetImages(user, tag, list)
	return c.JSON(http.StatusOK, list)
}

// HandleHashtags returns the user's hashtag vocabulary.
func (h *Handlers) HandleHashtags(c echo.Context) error {
	user := userID(c)
	if tags, ok := h.cache.Hashtags(user); ok {
		return c.JSON(http.StatusOK, tags)
	}
	tags, err := h.db.ListHashtags(c.Request().Context(), user)
	if err != nil {
		return err
	}
	h.cache.SetHashtags(user, tags)
	return c.JSON(http.StatusOK, tags)
}

// metadataRequest is the body of /update-meta. Exactly one of the optional
// fields is set.
type metadataRequest struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Hashtags    *[]string `json:"hashtags"`
}

func (r metadataRequest) field() (string, any, bool) {
	var name string
	var value any
	n := 0
	if r.Title != nil {
		name, value = gallery.FieldTitle, *r.Title
		n++
	}
	if r.Description != nil {
		name, value = gallery.FieldDescription, *r.Description
		n++
	}
	if r.Hashtags != nil {
		name, value = gallery.FieldHashtags, *r.Hashtags
		n++
	}
	return name, value, n == 1
}

// HandleUpdateMeta overwrites one metadata field of one image.
func (h *Handlers) HandleUpdateMeta(c echo.Context) error {
	user := userID(c)

	var req metadataRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.ID) == "" {
		return c.String(http.StatusBadRequest, "Missing image id")
	}
	field, value, ok := req.field()
	if !ok {
		return c.String(http.StatusBadRequest, "Exactly one of title, description or hashtags is required")
	}

	err := h.db.UpdateField(c.Request().Context(), user, req.ID, field, value)
	switch {
	case errors.IsNotFound(err):
		return c.String(http.StatusNotFound, "Image not found")
	case errors.IsValidationError(err):
		return c.String(http.StatusBadRequest, "Invalid "+field)
	case err != nil:
		return err
	}

	requestLogger(c).Debug().Str("image_id", req.ID).Str("field", field).Msg("metadata updated")
	h.changed(user, map[string]any{"id": req.ID, "field": field})
	return c.String(http.StatusOK, "OK")
}
