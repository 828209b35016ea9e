package domain

// LyricLine is a single timestamped lyric line with its translation.
// Lines are numbered densely from 1 in timestamp order.
type LyricLine struct {
	SongID         string `json:"song_id,omitempty"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	LineNumber     int    `json:"line_number"`
	TimestampMs    int    `json:"timestamp_ms"`
}

// ActiveLineIndex returns the index into lines of the line active at
// positionMs, or -1 when playback has not yet reached the first line.
// A line is active from its own timestamp until the next line's timestamp;
// the last line stays active for the rest of the track.
// Lines must be sorted by timestamp ascending.
func ActiveLineIndex(lines []LyricLine, positionMs int) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].TimestampMs <= positionMs {
			return i
		}
	}
	return -1
}
