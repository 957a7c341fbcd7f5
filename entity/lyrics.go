package entity

import "sort"

// LyricLine is a single lyrics line tagged with the
// millisecond offset at which it becomes active
type LyricLine struct {
	StartTime int    `json:"time"`
	Text      string `json:"text"`
}

// Lyrics is an ordered sequence of lines, non-decreasing in StartTime
type Lyrics []LyricLine

// ActiveLine returns the index of the last line whose StartTime
// does not exceed the given playback position, or -1 if the
// position precedes every line
func (lyrics Lyrics) ActiveLine(position int) int {
	return sort.Search(len(lyrics), func(i int) bool {
		return lyrics[i].StartTime > position
	}) - 1
}

// PlainLineInterval is the synthetic per-line spacing assigned
// to lyrics coming from sources that carry no real timing
const PlainLineInterval = 3000

// Synced reports whether the lines carry real timestamps
// rather than the synthetic ones assigned to plain lyrics
func (lyrics Lyrics) Synced() bool {
	for i := 1; i < len(lyrics); i++ {
		if lyrics[i].StartTime-lyrics[i-1].StartTime != PlainLineInterval {
			return true
		}
	}
	return false
}
