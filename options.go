package photomap

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/metrics"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// Option is a function that configures a Client.
type Option func(*options)

// AutoUpdateFunc runs on every auto-update tick.
type AutoUpdateFunc func(ctx context.Context, c Client) error

type options struct {
	serverURL   string
	httpTimeout time.Duration
	httpClient  *http.Client

	markerUpdater  updater.MarkerUpdater
	imageUpdater   updater.ImageUpdater
	loginUpdater   updater.LoginUpdater
	hashtagUpdater updater.HashtagUpdater
	changeNotifier updater.ChangeNotifier

	hashtagsEnabled bool
	thumbSize       photos.ThumbSize

	logger  *zerolog.Logger
	metrics *metrics.Collector

	autoUpdatesEnabled bool
	autoUpdateInterval time.Duration
	autoUpdateFunc     AutoUpdateFunc
}

func defaults() *options {
	return &options{
		httpTimeout:        constants.DefaultHTTPTimeout,
		hashtagsEnabled:    true,
		thumbSize:          photos.ThumbSmall,
		logger:             logging.Default(),
		autoUpdatesEnabled: false,
		autoUpdateInterval: constants.DefaultRefreshInterval,
	}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithServer configures the photo service root, e.g. "http://localhost:8080".
func WithServer(url string) Option {
	return func(o *options) {
		o.serverURL = url
	}
}

// WithHTTPTimeout configures the per-request timeout of the HTTP updaters.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) {
		o.httpTimeout = d
	}
}

// WithHTTPClient configures the HTTP client used by the HTTP updaters.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithUpdaters replaces all four service boundaries at once.
func WithUpdaters(u updater.Updaters) Option {
	return func(o *options) {
		o.markerUpdater = u
		o.imageUpdater = u
		o.loginUpdater = u
		o.hashtagUpdater = u
		if n, ok := u.(updater.ChangeNotifier); ok {
			o.changeNotifier = n
		}
	}
}

// WithChangeNotifier configures the source of pushed change events used by
// Listen.
func WithChangeNotifier(n updater.ChangeNotifier) Option {
	return func(o *options) {
		o.changeNotifier = n
	}
}

// WithMarkerUpdater replaces the marker boundary.
func WithMarkerUpdater(u updater.MarkerUpdater) Option {
	return func(o *options) {
		o.markerUpdater = u
	}
}

// WithImageUpdater replaces the image boundary.
func WithImageUpdater(u updater.ImageUpdater) Option {
	return func(o *options) {
		o.imageUpdater = u
	}
}

// WithLoginUpdater replaces the session boundary.
func WithLoginUpdater(u updater.LoginUpdater) Option {
	return func(o *options) {
		o.loginUpdater = u
	}
}

// WithHashtagUpdater replaces the hashtag boundary.
func WithHashtagUpdater(u updater.HashtagUpdater) Option {
	return func(o *options) {
		o.hashtagUpdater = u
	}
}

// WithHashtags enables or disables the hashtag vocabulary feature.
func WithHashtags(enabled bool) Option {
	return func(o *options) {
		o.hashtagsEnabled = enabled
	}
}

// WithThumbSize configures the initial thumbnail size.
func WithThumbSize(size photos.ThumbSize) Option {
	return func(o *options) {
		o.thumbSize = size
	}
}

// WithLogger configures the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics configures the metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = collector
	}
}

// WithAutoUpdates configures whether automatic refreshes start with the client
func WithAutoUpdates(enabled bool) Option {
	return func(o *options) {
		o.autoUpdatesEnabled = enabled
	}
}

// WithAutoUpdateInterval configures how often to refresh automatically
func WithAutoUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		o.autoUpdateInterval = interval
	}
}

// WithAutoUpdateFunc configures a custom function run on every tick
func WithAutoUpdateFunc(fn AutoUpdateFunc) Option {
	return func(o *options) {
		o.autoUpdateFunc = fn
	}
}
