// Package constants provides shared constants used throughout photomap:
// timeouts, endpoint paths, thumbnail sizes and map defaults.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout bounds every request to the photo service. It is the
	// only thing that eventually settles a hung fetch.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRefreshInterval is the default interval between automatic refreshes
	DefaultRefreshInterval = 1 * time.Minute

	// RefreshContextTimeout is the timeout for each automatic refresh tick
	RefreshContextTimeout = 2 * time.Minute

	// ShutdownTimeout is how long servers get to drain on shutdown
	ShutdownTimeout = 5 * time.Second
)

// Endpoint paths of the photo service, relative to the server URL.
const (
	PathImagesMeta  = "/images-meta"
	PathHashtags    = "/hashtags"
	PathUpdateMeta  = "/update-meta"
	PathImageUpload = "/image-upload"
	PathSignin      = "/signin"
	PathAuth        = "/auth"
	PathProfile     = "/profile"
	PathLogout      = "/logout"
	PathImages      = "/images"
	PathEvents      = "/events"
)

// UploadFieldName is the multipart field every uploaded file is sent under.
const UploadFieldName = "image"

// Thumbnail widths in pixels produced by the reference service.
const (
	ThumbSmallWidth  = 64
	ThumbMediumWidth = 128
	ThumbLargeWidth  = 256

	// MaxImageWidth caps the stored full-size image
	MaxImageWidth = 2048

	// MaxUploadSize is the largest multipart body the reference service accepts
	MaxUploadSize = 32 << 20
)

// Map defaults used before any marker has been selected.
const (
	DefaultCenterLat         = -13.515406
	DefaultCenterLng         = -71.981180
	DefaultZoom      float64 = 8
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Session constants for the reference service
const (
	SessionName   = "photomap_session"
	SessionMaxAge = 12 * 60 * 60
)
