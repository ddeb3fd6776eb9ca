// Package updater defines the boundary between the synchronization engine and
// the photo service. Every operation returns a Result envelope instead of an
// error: implementations recover transport failures into ErrorMessage and
// never panic.
package updater

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// Result is the outcome of a call to the photo service.
type Result struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Ok returns a successful Result.
func Ok() Result {
	return Result{Success: true}
}

// Fail returns a failed Result. An empty message is replaced so a failure is
// never silent.
func Fail(message string) Result {
	if message == "" {
		message = "Unknown error."
	}
	return Result{Success: false, ErrorMessage: message}
}

// MarkerResult carries the markers on success.
type MarkerResult struct {
	Result
	Markers *photos.MarkerSet
}

// HashtagsResult carries the hashtag vocabulary on success.
type HashtagsResult struct {
	Result
	Hashtags []string
}

// AuthResult reports whether the session is authorized. An unauthenticated
// session is a successful call with Authorized false.
type AuthResult struct {
	Result
	Authorized bool
}

// ProfileResult carries the signed-in user's profile on success.
type ProfileResult struct {
	Result
	Profile photos.Profile
}

// MetadataField names the single field carried by a MetadataUpdate.
type MetadataField string

// Editable metadata fields.
const (
	FieldTitle       MetadataField = "title"
	FieldDescription MetadataField = "description"
	FieldHashtags    MetadataField = "hashtags"
)

// MetadataUpdate is a single-field change to one image.
type MetadataUpdate struct {
	ID          string
	Field       MetadataField
	Title       string
	Description string
	Hashtags    []string
}

// TitleUpdate builds a title update.
func TitleUpdate(id, title string) MetadataUpdate {
	return MetadataUpdate{ID: id, Field: FieldTitle, Title: title}
}

// DescriptionUpdate builds a description update.
func DescriptionUpdate(id, description string) MetadataUpdate {
	return MetadataUpdate{ID: id, Field: FieldDescription, Description: description}
}

// HashtagsUpdate builds a hashtags update.
func HashtagsUpdate(id string, hashtags []string) MetadataUpdate {
	if hashtags == nil {
		hashtags = []string{}
	}
	return MetadataUpdate{ID: id, Field: FieldHashtags, Hashtags: hashtags}
}

// Validate checks that the update names an image and exactly one known field.
func (u MetadataUpdate) Validate() error {
	if u.ID == "" {
		return errors.NewValidationError("id", u.ID, "cannot be empty")
	}
	switch u.Field {
	case FieldTitle, FieldDescription, FieldHashtags:
		return nil
	}
	return errors.NewValidationError("field", u.Field, "must be title, description or hashtags")
}

// MarshalJSON encodes the id plus the one field being changed.
func (u MetadataUpdate) MarshalJSON() ([]byte, error) {
	body := map[string]any{"id": u.ID}
	switch u.Field {
	case FieldTitle:
		body["title"] = u.Title
	case FieldDescription:
		body["description"] = u.Description
	case FieldHashtags:
		tags := u.Hashtags
		if tags == nil {
			tags = []string{}
		}
		body["hashtags"] = tags
	}
	return json.Marshal(body)
}

// File is one upload part. Position, when set, is where the photo was
// taken.
type File struct {
	Name     string
	Content  io.Reader
	Position *photos.LatLng
}

// MarkerUpdater fetches the marker list.
type MarkerUpdater interface {
	// FetchMarkers returns the markers, optionally limited to one hashtag.
	// An empty filter means all markers.
	FetchMarkers(ctx context.Context, filter string) MarkerResult
}

// ImageUpdater edits and uploads images.
type ImageUpdater interface {
	UpdateMetadata(ctx context.Context, update MetadataUpdate) Result
	UploadFiles(ctx context.Context, files []File) Result
}

// LoginUpdater manages the session.
type LoginUpdater interface {
	CheckAuth(ctx context.Context) AuthResult
	SubmitSignin(ctx context.Context, payload photos.LoginPayload) Result
	FetchProfile(ctx context.Context) ProfileResult
	Logout(ctx context.Context) Result
}

// HashtagUpdater fetches the hashtag vocabulary.
type HashtagUpdater interface {
	FetchHashtags(ctx context.Context) HashtagsResult
}

// Updaters bundles the four boundaries the engine talks to.
type Updaters interface {
	MarkerUpdater
	ImageUpdater
	LoginUpdater
	HashtagUpdater
}

// ChangeEvent is a change notification pushed by the photo service.
type ChangeEvent struct {
	Type string
	At   time.Time
}

// ImagesChanged is the event type sent after an upload or metadata edit.
const ImagesChanged = "images.changed"

// ChangeNotifier is implemented by services that can push change events.
// WatchChanges blocks, calling fn per event, until ctx is done (Ok) or the
// stream fails (Fail).
type ChangeNotifier interface {
	WatchChanges(ctx context.Context, fn func(ChangeEvent)) Result
}
