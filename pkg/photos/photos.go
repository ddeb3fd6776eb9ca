// Package photos defines the photomap data model: the wire shape of image
// metadata served by the photo service, the Marker entity held by the client
// store, and the ordered, immutable MarkerSet the store swaps on refresh.
package photos

import (
	"slices"
	"strings"

	"github.com/agentstation/photomap/pkg/errors"
)

// LatLng is a geographic position.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// ImageMetadata is one image record as served by the photo service.
// Position is a JSON-encoded LatLng string and may be empty.
type ImageMetadata struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Date                string   `json:"date"`
	Time                string   `json:"time"`
	Camera              string   `json:"camera"`
	Scene               string   `json:"scene"`
	Altitude            string   `json:"altitude"`
	Position            string   `json:"position"`
	Hashtags            []string `json:"hashtags"`
	ImageURL            string   `json:"imageUrl"`
	ImageThumbURL       string   `json:"imageThumbUrl"`
	ImageThumbMediumURL string   `json:"imageThumbMediumUrl"`
	ImageThumbLargeURL  string   `json:"imageThumbLargeUrl"`
}

// Marker is an image projected for the map. Every Marker held by the store
// has a valid Position.
type Marker struct {
	ID                  string   `json:"id" yaml:"id"`
	Title               string   `json:"title" yaml:"title"`
	Description         string   `json:"description" yaml:"description"`
	Date                string   `json:"date,omitempty" yaml:"date,omitempty"`
	Time                string   `json:"time,omitempty" yaml:"time,omitempty"`
	Camera              string   `json:"camera,omitempty" yaml:"camera,omitempty"`
	Scene               string   `json:"scene,omitempty" yaml:"scene,omitempty"`
	Altitude            string   `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	Position            LatLng   `json:"position" yaml:"position"`
	Hashtags            []string `json:"hashtags" yaml:"hashtags"`
	ImageURL            string   `json:"imageUrl" yaml:"imageUrl"`
	ImageThumbURL       string   `json:"imageThumbUrl" yaml:"imageThumbUrl"`
	ImageThumbMediumURL string   `json:"imageThumbMediumUrl" yaml:"imageThumbMediumUrl"`
	ImageThumbLargeURL  string   `json:"imageThumbLargeUrl" yaml:"imageThumbLargeUrl"`
	Visible             bool     `json:"visible" yaml:"visible"`
}

// Clone returns a copy that shares no slices with m.
func (m Marker) Clone() Marker {
	m.Hashtags = slices.Clone(m.Hashtags)
	return m
}

// ThumbURL returns the thumbnail URL matching size.
func (m Marker) ThumbURL(size ThumbSize) string {
	switch size {
	case ThumbMedium:
		return m.ImageThumbMediumURL
	case ThumbLarge:
		return m.ImageThumbLargeURL
	default:
		return m.ImageThumbURL
	}
}

// MarkerFromMetadata projects a wire record into a Marker. Relative image
// URLs are prefixed with serverRoot. It reports false when the record has no
// usable position; such records never enter the store.
func MarkerFromMetadata(meta ImageMetadata, serverRoot string) (Marker, bool) {
	pos, err := ParsePosition(meta.Position)
	if err != nil {
		return Marker{}, false
	}
	return Marker{
		ID:                  meta.ID,
		Title:               meta.Title,
		Description:         meta.Description,
		Date:                meta.Date,
		Time:                meta.Time,
		Camera:              meta.Camera,
		Scene:               meta.Scene,
		Altitude:            meta.Altitude,
		Position:            pos,
		Hashtags:            MergeUnique(nil, meta.Hashtags),
		ImageURL:            serverRoot + meta.ImageURL,
		ImageThumbURL:       serverRoot + meta.ImageThumbURL,
		ImageThumbMediumURL: serverRoot + meta.ImageThumbMediumURL,
		ImageThumbLargeURL:  serverRoot + meta.ImageThumbLargeURL,
		Visible:             true,
	}, true
}

// MarkerPatch carries the user-editable fields of a local edit. Nil fields
// are left untouched.
type MarkerPatch struct {
	Title       *string
	Description *string
	Hashtags    []string
	SetHashtags bool
}

// TitlePatch patches only the title.
func TitlePatch(title string) MarkerPatch {
	return MarkerPatch{Title: &title}
}

// DescriptionPatch patches only the description.
func DescriptionPatch(description string) MarkerPatch {
	return MarkerPatch{Description: &description}
}

// HashtagsPatch replaces the hashtag list.
func HashtagsPatch(hashtags []string) MarkerPatch {
	return MarkerPatch{Hashtags: slices.Clone(hashtags), SetHashtags: true}
}

// Apply returns m with the patch merged in.
func (p MarkerPatch) Apply(m Marker) Marker {
	m = m.Clone()
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.SetHashtags {
		m.Hashtags = slices.Clone(p.Hashtags)
	}
	return m
}

// ThumbSize selects which thumbnail the map renders.
type ThumbSize int

// Thumbnail sizes.
const (
	ThumbSmall ThumbSize = iota
	ThumbMedium
	ThumbLarge
)

// String implements fmt.Stringer.
func (s ThumbSize) String() string {
	switch s {
	case ThumbMedium:
		return "medium"
	case ThumbLarge:
		return "large"
	default:
		return "small"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ThumbSize) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ThumbSize) UnmarshalText(text []byte) error {
	parsed, err := ParseThumbSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseThumbSize parses "small", "medium" or "large" (case-insensitive).
func ParseThumbSize(s string) (ThumbSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "small", "s":
		return ThumbSmall, nil
	case "medium", "m":
		return ThumbMedium, nil
	case "large", "l":
		return ThumbLarge, nil
	}
	return ThumbSmall, errors.NewValidationError("thumb_size", s, "must be one of small, medium, large")
}

// Profile is the signed-in user.
type Profile struct {
	Email string `json:"email" yaml:"email"`
	ID    string `json:"id" yaml:"id"`
}

// LoginType distinguishes signing in from signing up.
type LoginType int

// Login types, encoded as numbers on the wire.
const (
	Signin LoginType = iota
	Signup
)

// LoginPayload is the body of a sign-in request.
type LoginPayload struct {
	Type     LoginType `json:"type"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

// Validate checks the payload before it is sent.
func (p LoginPayload) Validate() error {
	if p.Type != Signin && p.Type != Signup {
		return errors.NewValidationError("type", p.Type, "must be signin or signup")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.NewValidationError("email", p.Email, "cannot be empty")
	}
	if p.Password == "" {
		return errors.NewValidationError("password", "", "cannot be empty")
	}
	return nil
}

// Viewport is the map camera state.
type Viewport struct {
	Center   LatLng   `json:"center" yaml:"center"`
	Zoom     float64  `json:"zoom" yaml:"zoom"`
	Bearing  *float64 `json:"bearing,omitempty" yaml:"bearing,omitempty"`
	Pitch    *float64 `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Altitude *float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"`
}
