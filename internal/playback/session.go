// Package playback tracks which lyric line is active as a song plays.
package playback

import (
	"sync"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
)

// Transition describes the active line changing during playback.
type Transition struct {
	SongID        string
	PreviousIndex int
	NewIndex      int
}

// Listener receives line transitions.
type Listener func(Transition)

// Session tracks playback position against a song's lyric lines and
// reports when the active line changes. Safe for concurrent use.
type Session struct {
	listener Listener
	songID   string
	lines    []domain.LyricLine

	mu     sync.Mutex
	active int
}

// NewSession creates a session for a song's lyric lines.
// The active index starts at -1, meaning no line has been reached yet.
// Lines must be sorted by timestamp ascending.
func NewSession(songID string, lines []domain.LyricLine, listener Listener) *Session {
	return &Session{
		songID:   songID,
		lines:    lines,
		listener: listener,
		active:   -1,
	}
}

// Advance moves the playback position and returns the active line index.
// When the active line changes, the listener fires with the transition.
// Position can move backwards (a seek); the index simply follows it.
//
// The listener runs while the session lock is held, so transitions are
// delivered in the order the state changes. The listener must not call
// back into the session.
func (s *Session) Advance(positionMs int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.ActiveLineIndex(s.lines, positionMs)
	prev := s.active
	s.active = next

	if next != prev && s.listener != nil {
		s.listener(Transition{
			SongID:        s.songID,
			PreviousIndex: prev,
			NewIndex:      next,
		})
	}

	return next
}

// ActiveIndex returns the current active line index without advancing.
func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveLine returns the current active line, or nil before the first line.
func (s *Session) ActiveLine() *domain.LyricLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active < 0 || s.active >= len(s.lines) {
		return nil
	}
	line := s.lines[s.active]
	return &line
}

// Reset returns the session to the start of the track. The next Advance
// reports a transition even when it lands on the previously active line.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = -1
}
