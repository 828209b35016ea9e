package lrclib

// TrackResult is a single record from the LRCLIB API.
type TrackResult struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
	ID           int64   `json:"id"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
}

// HasSyncedLyrics reports whether the record carries usable LRC content.
func (t *TrackResult) HasSyncedLyrics() bool {
	return !t.Instrumental && t.SyncedLyrics != ""
}
