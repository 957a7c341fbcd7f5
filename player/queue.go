package player

import (
	"math/rand"

	"github.com/samber/lo"

	"github.com/harmonix-bot/harmonix-web/entity"
)

// Queue is an ordered track list plus the index of the current track,
// -1 meaning none. It is owned by a Coordinator and not safe for
// concurrent use on its own. Every mutation leaves the index either -1
// or within bounds.
type Queue struct {
	tracks []*entity.Track
	index  int
}

func NewQueue() *Queue {
	return &Queue{index: -1}
}

func (queue *Queue) Len() int {
	return len(queue.tracks)
}

func (queue *Queue) Empty() bool {
	return len(queue.tracks) == 0
}

func (queue *Queue) Index() int {
	return queue.index
}

// Current returns the current track, nil when the index is unset
func (queue *Queue) Current() *entity.Track {
	if queue.index < 0 || queue.index >= len(queue.tracks) {
		return nil
	}
	return queue.tracks[queue.index]
}

func (queue *Queue) At(index int) *entity.Track {
	if index < 0 || index >= len(queue.tracks) {
		return nil
	}
	return queue.tracks[index]
}

// Tracks returns a copy of the track list
func (queue *Queue) Tracks() []*entity.Track {
	return append([]*entity.Track{}, queue.tracks...)
}

// Titles returns every queued track title, in order
func (queue *Queue) Titles() []string {
	return lo.Map(queue.tracks, func(track *entity.Track, _ int) string {
		return track.Title
	})
}

// Contains reports whether a track with the given identifier is queued
func (queue *Queue) Contains(id string) bool {
	return lo.SomeBy(queue.tracks, func(track *entity.Track) bool {
		return track.ID == id
	})
}

// Append adds tracks at the tail, leaving the index untouched
func (queue *Queue) Append(tracks ...*entity.Track) {
	queue.tracks = append(queue.tracks, tracks...)
}

// Select points the index at the given position, reporting whether the
// position exists
func (queue *Queue) Select(index int) bool {
	if index < 0 || index >= len(queue.tracks) {
		return false
	}
	queue.index = index
	return true
}

// Remove drops the track at the given position and reports whether it
// was the current one. When the current track goes, the index re-points
// at the track now occupying its slot, the new last one if the removed
// track was last, or -1 on an emptied queue. Removals before the
// current track shift the index down with it.
func (queue *Queue) Remove(index int) (removedCurrent bool) {
	if index < 0 || index >= len(queue.tracks) {
		return false
	}

	removedCurrent = index == queue.index
	queue.tracks = append(queue.tracks[:index], queue.tracks[index+1:]...)

	switch {
	case len(queue.tracks) == 0:
		queue.index = -1
	case index < queue.index:
		queue.index--
	case removedCurrent && queue.index >= len(queue.tracks):
		queue.index = len(queue.tracks) - 1
	}
	return removedCurrent
}

// Reorder moves the track at from to position to, keeping the index
// pointed at the same logical track
func (queue *Queue) Reorder(from, to int) {
	if from < 0 || from >= len(queue.tracks) ||
		to < 0 || to >= len(queue.tracks) || from == to {
		return
	}

	track := queue.tracks[from]
	queue.tracks = append(queue.tracks[:from], queue.tracks[from+1:]...)
	queue.tracks = append(queue.tracks[:to],
		append([]*entity.Track{track}, queue.tracks[to:]...)...)

	switch {
	case queue.index == from:
		queue.index = to
	case from < queue.index && to >= queue.index:
		queue.index--
	case from > queue.index && to <= queue.index:
		queue.index++
	}
}

// Shuffle permutes the queue via Fisher-Yates, pinning the current
// track at position 0. Queues below 2 tracks are left alone.
func (queue *Queue) Shuffle() {
	if len(queue.tracks) < 2 {
		return
	}

	if queue.index > 0 {
		queue.tracks[0], queue.tracks[queue.index] = queue.tracks[queue.index], queue.tracks[0]
	}
	rest := queue.tracks
	if queue.index >= 0 {
		queue.index = 0
		rest = queue.tracks[1:]
	}
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}

// Clear empties the queue and unsets the index
func (queue *Queue) Clear() {
	queue.tracks = nil
	queue.index = -1
}
