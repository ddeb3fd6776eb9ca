package photos

import (
	"testing"

	"github.com/agentstation/photomap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    LatLng
		wantErr bool
	}{
		{name: "valid", raw: `{"lat":-13.5,"lng":-71.9}`, want: LatLng{Lat: -13.5, Lng: -71.9}},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "not json", raw: "-13.5,-71.9", wantErr: true},
		{name: "missing lng", raw: `{"lat":1}`, wantErr: true},
		{name: "out of range", raw: `{"lat":91,"lng":0}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePosition(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPositionRoundTrip(t *testing.T) {
	pos := LatLng{Lat: 10.25, Lng: -20.5}
	got, err := ParsePosition(FormatPosition(pos))
	require.NoError(t, err)
	assert.Equal(t, pos, got)
}

func TestMarkerFromMetadata(t *testing.T) {
	meta := ImageMetadata{
		ID:            "m1",
		Title:         "Sunset",
		Position:      `{"lat":1,"lng":2}`,
		Hashtags:      []string{"a", "b", "a"},
		ImageURL:      "/images/m1.jpg",
		ImageThumbURL: "/images/m1_s.jpg",
	}

	m, ok := MarkerFromMetadata(meta, "http://photos.test")
	require.True(t, ok)
	assert.Equal(t, "http://photos.test/images/m1.jpg", m.ImageURL)
	assert.Equal(t, "http://photos.test/images/m1_s.jpg", m.ThumbURL(ThumbSmall))
	assert.Equal(t, []string{"a", "b"}, m.Hashtags)
	assert.True(t, m.Visible)

	meta.Position = ""
	_, ok = MarkerFromMetadata(meta, "")
	assert.False(t, ok)
}

func TestMergeUnique(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, MergeUnique([]string{"x"}, []string{"y", "x"}))
	assert.Equal(t, []string{"a", "b", "c"}, MergeUnique(nil, []string{"a", "b", "a", "c"}))
	assert.Equal(t, []string{}, MergeUnique(nil, nil))

	base := []string{"x"}
	_ = MergeUnique(base, []string{"z"})
	assert.Equal(t, []string{"x"}, base)
}

func TestRemoveFirst(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, RemoveFirst([]string{"a", "b", "a"}, "a"))
	assert.Equal(t, []string{"a"}, RemoveFirst([]string{"a"}, "z"))
}

func TestMarkerPatchApply(t *testing.T) {
	m := Marker{ID: "m1", Title: "old", Description: "d", Hashtags: []string{"x"}}

	got := TitlePatch("new").Apply(m)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "d", got.Description)

	got = HashtagsPatch([]string{"y"}).Apply(m)
	assert.Equal(t, []string{"y"}, got.Hashtags)
	assert.Equal(t, []string{"x"}, m.Hashtags)
}

func TestThumbSize(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want ThumbSize
	}{{"small", ThumbSmall}, {"Medium", ThumbMedium}, {"l", ThumbLarge}, {"", ThumbSmall}} {
		got, err := ParseThumbSize(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseThumbSize("huge")
	assert.True(t, errors.IsValidationError(err))

	var s ThumbSize
	require.NoError(t, s.UnmarshalText([]byte("large")))
	assert.Equal(t, "large", s.String())
}

func TestLoginPayloadValidate(t *testing.T) {
	assert.NoError(t, LoginPayload{Type: Signup, Email: "a@b.c", Password: "pw"}.Validate())
	assert.Error(t, LoginPayload{Type: Signin, Email: "", Password: "pw"}.Validate())
	assert.Error(t, LoginPayload{Type: Signin, Email: "a@b.c"}.Validate())
	assert.Error(t, LoginPayload{Type: 7, Email: "a@b.c", Password: "pw"}.Validate())
}
