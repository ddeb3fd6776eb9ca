package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // decoders for uploads
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/agentstation/photomap/internal/server/gallery"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/photos"
)

const jpegQuality = 85

type variant string

const (
	variantFull   variant = ""
	variantSmall  variant = "_s"
	variantMedium variant = "_m"
	variantLarge  variant = "_l"
)

// variantWidths lists every stored rendition and its maximum width.
var variantWidths = []struct {
	variant variant
	width   int
}{
	{variantFull, constants.MaxImageWidth},
	{variantSmall, constants.ThumbSmallWidth},
	{variantMedium, constants.ThumbMediumWidth},
	{variantLarge, constants.ThumbLargeWidth},
}

func fileName(id string, v variant) string {
	return id + string(v) + ".jpg"
}

// scaleToWidth shrinks img to at most width pixels wide, keeping the aspect
// ratio. Narrower images are returned unchanged.
func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= width {
		return img
	}
	newH := max(h*width/w, 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// renditions decodes src and encodes every variant as JPEG.
func renditions(src io.Reader) (map[variant][]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	out := make(map[variant][]byte, len(variantWidths))
	for _, vw := range variantWidths {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, scaleToWidth(img, vw.width), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		out[vw.variant] = buf.Bytes()
	}
	return out, nil
}

// formPositions reads the optional lat/lng form fields for n files. The
// lists are either parallel to the files or a single pair for all of them;
// an empty pair means no position.
func formPositions(form *multipart.Form, n int) ([]string, error) {
	lats, lngs := form.Value["lat"], form.Value["lng"]
	out := make([]string, n)
	if len(lats) == 0 && len(lngs) == 0 {
		return out, nil
	}
	if len(lats) != len(lngs) || (len(lats) != 1 && len(lats) != n) {
		return nil, fmt.Errorf("got %d lat and %d lng values for %d files", len(lats), len(lngs), n)
	}
	for i := range out {
		j := i
		if len(lats) == 1 {
			j = 0
		}
		pos, err := parsePosition(lats[j], lngs[j])
		if err != nil {
			return nil, err
		}
		out[i] = pos
	}
	return out, nil
}

func parsePosition(lat, lng string) (string, error) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" && lng == "" {
		return "", nil
	}
	la, err1 := strconv.ParseFloat(lat, 64)
	ln, err2 := strconv.ParseFloat(lng, 64)
	pos := photos.LatLng{Lat: la, Lng: ln}
	if err1 != nil || err2 != nil || !pos.Valid() {
		return "", fmt.Errorf("invalid position %q,%q", lat, lng)
	}
	return photos.FormatPosition(pos), nil
}

// HandleUpload stores every file sent under the "image" field.
func (h *Handlers) HandleUpload(c echo.Context) error {
	user := userID(c)
	logger := requestLogger(c)

	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxUpload)
	form, err := c.MultipartForm()
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid upload")
	}
	files := form.File[constants.UploadFieldName]
	if len(files) == 0 {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	positions, err := formPositions(form, len(files))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid position")
	}

	if err := os.MkdirAll(h.imageDir, constants.DirPermissions); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	now := time.Now().UTC()
	created := make([]photos.ImageMetadata, 0, len(files))
	for i, fh := range files {
		img, err := h.storeUpload(c, fh, user, positions[i], now)
		if err != nil {
			logger.Warn().Err(err).Str("file", fh.Filename).Msg("upload rejected")
			return c.String(http.StatusBadRequest, "Invalid image "+fh.Filename)
		}
		created = append(created, toMetadata(img))
	}

	logger.Info().Str("user_id", user).Int("count", len(created)).Msg("images uploaded")
	h.changed(user, map[string]any{"uploaded": len(created)})
	return c.JSON(http.StatusOK, created)
}

func (h *Handlers) storeUpload(c echo.Context, fh *multipart.FileHeader, user, position string, now time.Time) (gallery.Image, error) {
	src, err := fh.Open()
	if err != nil {
		return gallery.Image{}, err
	}
	defer src.Close()

	data, err := renditions(src)
	if err != nil {
		return gallery.Image{}, err
	}

	id := uuid.NewString()
	for v, b := range data {
		if err := os.WriteFile(filepath.Join(h.imageDir, fileName(id, v)), b, constants.FilePermissions); err != nil {
			return gallery.Image{}, fmt.Errorf("write image: %w", err)
		}
	}

	img := gallery.Image{
		ID:        id,
		UserID:    user,
		Title:     strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04:05"),
		Position:  position,
		Hashtags:  []string{},
		CreatedAt: now,
	}
	if err := h.db.InsertImage(c.Request().Context(), img); err != nil {
		return gallery.Image{}, err
	}
	return img, nil
}

// HandleImage serves a stored image file.
func (h *Handlers) HandleImage(c echo.Context) error {
	name := filepath.Base(c.Param("file"))
	if name == "." || name == "/" || !strings.HasSuffix(name, ".jpg") {
		return c.String(http.StatusNotFound, "Not found")
	}
	full := filepath.Join(h.imageDir, name)
	if _, err := os.Stat(full); err != nil {
		return c.String(http.StatusNotFound, "Not found")
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.File(full)
}
