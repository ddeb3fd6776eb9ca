package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap/pkg/photos"
)

func TestMarkersData(t *testing.T) {
	markers := []photos.Marker{{
		ID:            "m1",
		Title:         "Lake",
		Position:      photos.LatLng{Lat: -13.515406, Lng: -71.98118},
		Hashtags:      []string{"peru", "water"},
		ImageThumbURL: "http://x/images/m1_s.jpg",
	}}

	narrow := MarkersData(markers, photos.ThumbSmall, false)
	assert.Equal(t, []string{"ID", "Title", "Position", "Hashtags"}, narrow.Headers)
	assert.Equal(t, []string{"m1", "Lake", "-13.51541, -71.98118", "#peru #water"}, narrow.Rows[0])

	wide := MarkersData(markers, photos.ThumbSmall, true)
	require.Len(t, wide.Rows[0], 7)
	assert.Equal(t, "http://x/images/m1_s.jpg", wide.Rows[0][6])
}

func TestHashtagsData(t *testing.T) {
	d := HashtagsData([]string{"peru", "water"}, "water")
	assert.Equal(t, [][]string{{"#peru", ""}, {"#water", "*"}}, d.Rows)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, []string{"a"}, Data{}))
	assert.JSONEq(t, `["a"]`, buf.String())
}
