package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/photomap/pkg/photos"
)

// Write formats value for structured formats and table for the tabular
// ones (table, wide, markdown).
func Write(w io.Writer, format Format, value any, table Data) error {
	switch format {
	case FormatTable, FormatWide, FormatMarkdown, "":
		return NewFormatter(format).Format(w, table)
	default:
		return NewFormatter(format).Format(w, value)
	}
}

// MarkersData renders markers as a table. Wide output adds the date, the
// description and the thumbnail URL for size.
func MarkersData(markers []photos.Marker, size photos.ThumbSize, wide bool) Data {
	headers := []string{"ID", "Title", "Position", "Hashtags"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Date", "Description", "Thumbnail")
		align = append(align, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(markers))
	for _, m := range markers {
		row := []string{m.ID, m.Title, FormatLatLng(m.Position), FormatHashtags(m.Hashtags)}
		if wide {
			row = append(row, strings.TrimSpace(m.Date+" "+m.Time), m.Description, m.ThumbURL(size))
		}
		rows = append(rows, row)
	}
	return Data{Title: "Markers", Headers: headers, Rows: rows, ColumnAlignment: align}
}

// MarkerData renders one marker as a property table.
func MarkerData(m photos.Marker, size photos.ThumbSize) Data {
	return Data{
		Title:   m.Title,
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", m.ID},
			{"Title", m.Title},
			{"Description", m.Description},
			{"Date", strings.TrimSpace(m.Date + " " + m.Time)},
			{"Camera", m.Camera},
			{"Position", FormatLatLng(m.Position)},
			{"Altitude", m.Altitude},
			{"Hashtags", FormatHashtags(m.Hashtags)},
			{"Image", m.ImageURL},
			{"Thumbnail", m.ThumbURL(size)},
		},
	}
}

// HashtagsData renders the vocabulary, marking the active filter.
func HashtagsData(tags []string, filter string) Data {
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		active := ""
		if tag == filter {
			active = "*"
		}
		rows = append(rows, []string{"#" + tag, active})
	}
	return Data{Title: "Hashtags", Headers: []string{"Hashtag", "Filter"}, Rows: rows}
}

// FormatLatLng prints a position with five decimals, about one meter.
func FormatLatLng(p photos.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', 5, 64) + ", " + strconv.FormatFloat(p.Lng, 'f', 5, 64)
}

// FormatHashtags prints tags as "#a #b".
func FormatHashtags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}
