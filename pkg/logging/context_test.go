package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/photomap/pkg/logging"
)

func TestFromContextDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestContextFields(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithResource(ctx, "markers")
	ctx = logging.WithMarker(ctx, "m1")
	ctx = logging.WithOperation(ctx, "commit_title")
	ctx = logging.WithRequestID(ctx, "req-42")

	logging.FromContext(ctx).Info().Msg("committing")

	tl.AssertContains(t, `"resource":"markers"`)
	tl.AssertContains(t, `"marker_id":"m1"`)
	tl.AssertContains(t, `"operation":"commit_title"`)
	tl.AssertContains(t, `"request_id":"req-42"`)
	assert.Equal(t, "req-42", logging.RequestID(ctx))
}
