// Package photomap provides the client-side synchronization engine for a
// map-based photo browser. It owns an in-memory set of photo markers, applies
// optimistic local edits, reconciles them with the photo service, drops
// overlapping fetches of the same resource, and keeps selection, filter and
// error state consistent.
//
// The engine never returns transport errors. Every failure of the photo
// service is written to a single error slot that presentation code reads from
// the snapshot and acknowledges.
//
// Example usage:
//
//	pm, err := photomap.New(photomap.WithServer("http://localhost:8080"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pm.AutoUpdatesOff()
//
//	pm.OnMarkerAdded(func(m photos.Marker) {
//	    log.Printf("new photo: %s", m.Title)
//	})
//
//	pm.SignIn(ctx, photos.LoginPayload{Type: photos.Signin, Email: email, Password: pw})
//	for _, m := range pm.Snapshot().Markers {
//	    fmt.Println(m.ID, m.Title)
//	}
//
//	pm.ApplyTitle("m1", "Sunset")
//	pm.CommitTitle(ctx, "m1")
package photomap

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/metrics"
	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/internal/updaters"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/store"
	"github.com/agentstation/photomap/pkg/updater"
)

// Client is the synchronization engine. All methods are safe for concurrent use.
type Client interface {

	// Markers refreshes and reads the marker set
	Markers

	// Hashtags refreshes the hashtag vocabulary
	Hashtags

	// Editor applies and commits per-field edits
	Editor

	// Session handles sign-in, authorization and logout
	Session

	// View handles selection, filter, thumbnails and the map camera
	View

	// ErrorSlot reports and acknowledges user-visible errors
	ErrorSlot

	// AutoUpdater provides access to automatic refresh controls
	AutoUpdater

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// state is the owned entity store
	state *store.Store

	// boundaries to the photo service
	markerUpdater  updater.MarkerUpdater
	imageUpdater   updater.ImageUpdater
	loginUpdater   updater.LoginUpdater
	hashtagUpdater updater.HashtagUpdater
	notifier       updater.ChangeNotifier

	// one guard per pollable resource
	markersFlight  inflight
	hashtagsFlight inflight

	logger  *zerolog.Logger
	metrics *metrics.Collector
	hooks   *hooks

	// auto update state
	autoMu       sync.Mutex
	updateTicker *time.Ticker
	stopCh       chan struct{}
	updateCancel func()
}

// New creates a new Client with the given options. Updaters that are not
// supplied explicitly are built over HTTP from WithServer.
func New(opts ...Option) (Client, error) {
	o := defaults().apply(opts...)

	c := &client{
		options:        o,
		state:          store.New(),
		markerUpdater:  o.markerUpdater,
		imageUpdater:   o.imageUpdater,
		loginUpdater:   o.loginUpdater,
		hashtagUpdater: o.hashtagUpdater,
		notifier:       o.changeNotifier,
		logger:         o.logger,
		metrics:        o.metrics,
		hooks:          newHooks(),
		stopCh:         make(chan struct{}),
	}
	c.state.SetThumbSize(o.thumbSize)

	if c.markerUpdater == nil || c.imageUpdater == nil || c.loginUpdater == nil || c.hashtagUpdater == nil {
		if o.serverURL == "" {
			return nil, errors.NewConfigError("photomap", "a server url or all four updaters are required", nil)
		}

		tc, err := transport.New(o.serverURL,
			transport.WithTimeout(o.httpTimeout),
			transport.WithHTTPClient(o.httpClient),
			transport.WithLogger(o.logger),
		)
		if err != nil {
			return nil, err
		}
		remote := updaters.New(tc, o.logger)
		if c.markerUpdater == nil {
			c.markerUpdater = remote
		}
		if c.imageUpdater == nil {
			c.imageUpdater = remote
		}
		if c.loginUpdater == nil {
			c.loginUpdater = remote
		}
		if c.hashtagUpdater == nil {
			c.hashtagUpdater = remote
		}
		if c.notifier == nil {
			c.notifier = remote
		}
	}

	c.logger.Debug().
		Str("server", o.serverURL).
		Bool("hashtags", o.hashtagsEnabled).
		Msg("Client created")

	if o.autoUpdatesEnabled {
		if err := c.AutoUpdatesOn(); err != nil {
			return nil, errors.WrapResource("start", "auto-updates", "", err)
		}
	}

	return c, nil
}
