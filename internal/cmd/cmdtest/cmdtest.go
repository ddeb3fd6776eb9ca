// Package cmdtest runs CLI commands against an in-process photo service.
package cmdtest

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/server"
	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
)

// Password is the password of every account made by Signup.
const Password = "s3cret"

// Server starts the photo service on a temporary data directory and
// returns its URL. Everything is torn down with the test.
func Server(t testing.TB) string {
	t.Helper()
	cfg := server.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	cfg.SigninRateLimit = 0

	s, err := server.New(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	s.Start()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})
	return ts.URL
}

// Client returns an engine for url. It is stopped with the test.
func Client(t testing.TB, url string, opts ...photomap.Option) photomap.Client {
	t.Helper()
	opts = append([]photomap.Option{
		photomap.WithServer(url),
		photomap.WithLogger(logging.NewNopLogger()),
	}, opts...)
	pm, err := photomap.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pm.AutoUpdatesOff() })
	return pm
}

// Signup creates an account and returns an engine signed in to it.
func Signup(t testing.TB, url, email string) photomap.Client {
	t.Helper()
	pm := Client(t, url)
	out := pm.SignIn(context.Background(), photos.LoginPayload{Type: photos.Signup, Email: email, Password: Password})
	require.Equal(t, photomap.OutcomeRefreshed, out, pm.ErrorState().Message)
	return pm
}

// App returns an application that signs in to url as email. format is the
// output format commands see.
func App(t testing.TB, url, email, format string) *application.Mock {
	var (
		mu     sync.Mutex
		shared photomap.Client
	)
	return &application.Mock{
		PhotomapFunc: func(opts ...photomap.Option) (photomap.Client, error) {
			if len(opts) > 0 {
				return Client(t, url, opts...), nil
			}
			mu.Lock()
			defer mu.Unlock()
			if shared == nil {
				shared = Client(t, url)
			}
			return shared, nil
		},
		CredentialsFunc: func() application.Credentials {
			if email == "" {
				return application.Credentials{}
			}
			return application.Credentials{Email: email, Password: Password}
		},
		ServerURLFunc:    func() string { return url },
		OutputFormatFunc: func() string { return format },
	}
}

// Run executes cmd with args and returns everything it printed.
func Run(ctx context.Context, cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

// PNG returns an encoded w×h test image.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
