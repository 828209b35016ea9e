// Package lrc parses LRC synchronized lyric files.
package lrc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// timeTag matches a single [mm:ss.xx] or [mm:ss.xxx] tag followed by the line text.
var timeTag = regexp.MustCompile(`\[(\d{2}):(\d{2})\.(\d{2,3})\](.+)`)

// Line is a single parsed lyric line.
type Line struct {
	Text   string
	Offset float64 // seconds from track start
	Number int     // dense, 1-based, in timestamp order
}

// Milliseconds returns the line offset as whole milliseconds.
func (l Line) Milliseconds() int {
	return int(math.Round(l.Offset * 1000))
}

// Parse extracts timestamped lyric lines from raw LRC content.
// Metadata tags ([ar:...], [ti:...]) and lines whose text is empty after
// trimming are skipped. Lines keep their order of appearance and are
// numbered densely from 1; well-formed LRC files list tags in timestamp
// order, so appearance order matches playback order.
func Parse(raw string) []Line {
	var lines []Line

	for _, row := range strings.Split(raw, "\n") {
		m := timeTag.FindStringSubmatch(row)
		if m == nil {
			continue
		}

		text := strings.TrimSpace(m[4])
		if text == "" {
			continue
		}

		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		fraction, _ := strconv.Atoi(m[3])

		// Two fractional digits are centiseconds, three are milliseconds.
		scale := 100.0
		if len(m[3]) == 3 {
			scale = 1000.0
		}

		lines = append(lines, Line{
			Offset: float64(minutes)*60 + float64(seconds) + float64(fraction)/scale,
			Text:   text,
		})
	}

	for i := range lines {
		lines[i].Number = i + 1
	}

	return lines
}
