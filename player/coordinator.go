package player

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/harmonix-bot/harmonix-web/entity"
)

// Tunables for the coordinator. The values below are the documented
// defaults; configuration may override them.
var (
	// LowWaterMark is the remaining-track count at or below which
	// autoplay proactively fetches more recommendations
	LowWaterMark = 3
	// RefillCap bounds how many recommended tracks a single refill
	// may append
	RefillCap = 5
	// PollInterval paces the position polling loop while playing
	PollInterval = 100 * time.Millisecond
	// NotReadyRetryDelay spaces the single load retry granted when
	// the backend was not ready
	NotReadyRetryDelay = 500 * time.Millisecond
	// SyncOffset gets subtracted from the playback position before
	// resolving the active lyric line, countering perceived lag
	SyncOffset = 300
)

const historyCap = 50

// Recommender resolves tracks similar to a seed, skipping the given
// already-known titles.
type Recommender interface {
	Recommend(ctx context.Context, seed *entity.Track, existingTitles []string) ([]*entity.Track, error)
}

// Lyricist resolves timed lyrics for a track.
type Lyricist func(ctx context.Context, track *entity.Track) (entity.Lyrics, error)

// PlaybackState is a point-in-time view of the coordinator, safe to
// hand out for display.
type PlaybackState struct {
	State    string          `json:"state"`
	Track    *entity.Track   `json:"track,omitempty"`
	Position int             `json:"position"`
	Duration int             `json:"duration"`
	Volume   int             `json:"volume"`
	Muted    bool            `json:"muted"`
	Repeat   bool            `json:"repeat"`
	Shuffle  bool            `json:"shuffle"`
	Autoplay bool            `json:"autoplay"`
	Queue    []*entity.Track `json:"queue"`
	Index    int             `json:"index"`
}

// Coordinator owns the queue and drives an injected player backend,
// reacting to the backend's ready/state-change/error callbacks. Every
// asynchronous continuation it spawns captures the generation counter
// and discards itself when a later mutation superseded it.
type Coordinator struct {
	mutex   sync.Mutex
	backend Backend
	queue   *Queue

	recommender Recommender
	lyricist    Lyricist
	notifier    func(message string)

	state      State
	generation uint64
	retryArmed bool

	repeat   bool
	shuffle  bool
	autoplay bool
	volume   int
	muted    bool

	position int
	duration int

	history       []*entity.Track
	lyrics        entity.Lyrics
	lyricsTrackID string

	pollStop chan struct{}
}

func NewCoordinator(backend Backend, recommender Recommender) *Coordinator {
	return &Coordinator{
		backend:     backend,
		recommender: recommender,
		queue:       NewQueue(),
		state:       StateIdle,
		volume:      100,
	}
}

// SetLyricist installs the lyrics resolver invoked on every track load
func (coordinator *Coordinator) SetLyricist(lyricist Lyricist) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.lyricist = lyricist
}

// SetNotifier installs the user-facing notice sink. The notifier runs
// with the coordinator locked and must not call back into it.
func (coordinator *Coordinator) SetNotifier(notifier func(message string)) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.notifier = notifier
}

// Add appends a track and starts playing it when the queue was empty
// or immediate playback got requested
func (coordinator *Coordinator) Add(track *entity.Track, playImmediately bool) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	wasEmpty := coordinator.queue.Empty()
	coordinator.queue.Append(track)
	if wasEmpty || playImmediately {
		coordinator.queue.Select(coordinator.queue.Len() - 1)
		coordinator.loadLocked(track)
	}
}

// PlayAt jumps playback to the queued track at the given position,
// ignoring positions that do not exist
func (coordinator *Coordinator) PlayAt(index int) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	track := coordinator.queue.At(index)
	if track == nil {
		return
	}
	coordinator.queue.Select(index)
	coordinator.loadLocked(track)
}

// Remove drops the track at the given position, loading whatever track
// takes its slot when the current one goes
func (coordinator *Coordinator) Remove(index int) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if !coordinator.queue.Remove(index) {
		return
	}
	if current := coordinator.queue.Current(); current != nil {
		coordinator.loadLocked(current)
		return
	}
	coordinator.toIdleLocked()
}

// Reorder moves a queued track to a new position
func (coordinator *Coordinator) Reorder(from, to int) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.queue.Reorder(from, to)
}

// Shuffle permutes the queue, pinning the current track first
func (coordinator *Coordinator) Shuffle() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.queue.Shuffle()
}

// Clear empties the queue and stops playback
func (coordinator *Coordinator) Clear() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	coordinator.queue.Clear()
	coordinator.toIdleLocked()
}

// Next skips to the following track, wrapping past the tail; with
// shuffle mode on it picks a random other track instead
func (coordinator *Coordinator) Next() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if coordinator.queue.Empty() {
		return
	}

	var (
		index = coordinator.queue.Index()
		next  = index + 1
	)
	switch {
	case coordinator.shuffle && coordinator.queue.Len() > 1 && index >= 0:
		if next = rand.Intn(coordinator.queue.Len() - 1); next >= index {
			next++
		}
	case next >= coordinator.queue.Len():
		next = 0
	}
	coordinator.queue.Select(next)
	coordinator.loadLocked(coordinator.queue.Current())
}

// Previous skips to the preceding track, wrapping before the head
func (coordinator *Coordinator) Previous() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if coordinator.queue.Empty() {
		return
	}

	previous := coordinator.queue.Index() - 1
	if previous < 0 {
		previous = coordinator.queue.Len() - 1
	}
	coordinator.queue.Select(previous)
	coordinator.loadLocked(coordinator.queue.Current())
}

// TogglePlay pauses, resumes or starts the queue head depending on the
// current state
func (coordinator *Coordinator) TogglePlay() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	switch coordinator.state {
	case StatePlaying:
		_ = coordinator.backend.Pause()
	case StatePaused:
		_ = coordinator.backend.Play()
	case StateIdle:
		if coordinator.queue.Select(0) {
			coordinator.loadLocked(coordinator.queue.Current())
		}
	}
}

// SeekTo moves the playback position, clamped to the track bounds
func (coordinator *Coordinator) SeekTo(position int) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if coordinator.state != StatePlaying && coordinator.state != StatePaused {
		return
	}
	if position < 0 {
		position = 0
	}
	if coordinator.duration > 0 && position > coordinator.duration {
		position = coordinator.duration
	}
	if err := coordinator.backend.Seek(position); err == nil {
		coordinator.position = position
	}
}

// SetVolume applies a 0-100 clamped volume
func (coordinator *Coordinator) SetVolume(percent int) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if err := coordinator.backend.SetVolume(percent); err == nil {
		coordinator.volume = percent
	}
}

// ToggleMute flips the mute flag on the backend
func (coordinator *Coordinator) ToggleMute() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	var err error
	if coordinator.muted {
		err = coordinator.backend.Unmute()
	} else {
		err = coordinator.backend.Mute()
	}
	if err == nil {
		coordinator.muted = !coordinator.muted
	}
}

func (coordinator *Coordinator) SetRepeat(repeat bool) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.repeat = repeat
}

func (coordinator *Coordinator) SetShuffleMode(shuffle bool) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.shuffle = shuffle
}

func (coordinator *Coordinator) SetAutoplay(autoplay bool) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	coordinator.autoplay = autoplay
}

// OnReady is the backend's ready callback. It grants the single
// delayed load retry to a track that got selected before the backend
// came up.
func (coordinator *Coordinator) OnReady() {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if !coordinator.retryArmed {
		return
	}
	coordinator.retryArmed = false

	generation := coordinator.generation
	time.AfterFunc(NotReadyRetryDelay, func() {
		coordinator.mutex.Lock()
		defer coordinator.mutex.Unlock()

		if coordinator.generation != generation {
			return
		}
		track := coordinator.queue.Current()
		if track == nil {
			return
		}
		if !coordinator.backend.Ready() {
			coordinator.notifyLocked("Player is not ready, refresh the page")
			return
		}
		if err := coordinator.backend.Load(track.ID); err != nil {
			coordinator.notifyLocked("Cannot start playback: " + err.Error())
		}
	})
}

// OnStateChange is the backend's state-change callback, the only path
// driving Playing/Paused transitions and end-of-track evaluation. An
// ended report landing while a newer track is already loading is stale
// and gets discarded.
func (coordinator *Coordinator) OnStateChange(state BackendState) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	switch state {
	case BackendPlaying:
		if coordinator.queue.Current() == nil {
			return
		}
		coordinator.state = StatePlaying
		if duration := coordinator.backend.Duration(); duration > 0 {
			coordinator.duration = duration
		}
		coordinator.startPollLocked()
	case BackendPaused:
		if coordinator.state != StatePlaying {
			return
		}
		coordinator.state = StatePaused
		coordinator.stopPollLocked()
	case BackendEnded:
		if coordinator.state != StatePlaying && coordinator.state != StatePaused {
			return
		}
		coordinator.handleEndedLocked()
	}
}

// OnError is the backend's error callback: skip to the next track
// rather than retrying the broken one
func (coordinator *Coordinator) OnError(err error) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	if coordinator.state == StateIdle {
		return
	}
	if err != nil {
		coordinator.notifyLocked("Playback failed, skipping: " + err.Error())
	}

	if coordinator.queue.Current() == nil {
		coordinator.toIdleLocked()
		return
	}
	coordinator.queue.Remove(coordinator.queue.Index())
	if current := coordinator.queue.Current(); current != nil {
		coordinator.loadLocked(current)
		return
	}
	coordinator.toIdleLocked()
}

func (coordinator *Coordinator) handleEndedLocked() {
	finished := coordinator.queue.Current()
	if finished == nil {
		coordinator.toIdleLocked()
		return
	}

	if coordinator.repeat {
		coordinator.loadLocked(finished)
		return
	}

	coordinator.pushHistoryLocked(finished)
	coordinator.queue.Remove(coordinator.queue.Index())

	if current := coordinator.queue.Current(); current != nil {
		coordinator.loadLocked(current)
		if coordinator.autoplay &&
			coordinator.queue.Len()-coordinator.queue.Index() <= LowWaterMark {
			coordinator.refillLocked(finished)
		}
		return
	}

	if coordinator.autoplay && coordinator.recommender != nil {
		coordinator.reviveLocked(finished)
		return
	}

	coordinator.toIdleLocked()
	coordinator.notifyLocked("Queue finished")
}

// refillLocked tops the queue up in the background while playback goes
// on, appending at most RefillCap fresh tracks
func (coordinator *Coordinator) refillLocked(seed *entity.Track) {
	if coordinator.recommender == nil {
		return
	}

	var (
		generation = coordinator.generation
		titles     = coordinator.queue.Titles()
	)
	go func() {
		tracks, err := coordinator.recommender.Recommend(context.Background(), seed, titles)
		if err != nil || len(tracks) == 0 {
			return
		}

		coordinator.mutex.Lock()
		defer coordinator.mutex.Unlock()
		if coordinator.generation != generation {
			return
		}
		coordinator.appendFreshLocked(tracks)
	}()
}

// reviveLocked handles the exhausted-queue autoplay case: playback
// stays suspended until recommendations for the just-finished track
// arrive, then the first one starts and the rest queue up
func (coordinator *Coordinator) reviveLocked(seed *entity.Track) {
	coordinator.generation++
	generation := coordinator.generation
	coordinator.state = StateLoading
	coordinator.stopPollLocked()

	go func() {
		tracks, err := coordinator.recommender.Recommend(
			context.Background(), seed, []string{seed.Title})

		coordinator.mutex.Lock()
		defer coordinator.mutex.Unlock()
		if coordinator.generation != generation {
			return
		}
		if err != nil || len(tracks) == 0 {
			coordinator.state = StateIdle
			coordinator.notifyLocked("Queue finished, no recommendations found")
			return
		}

		coordinator.appendFreshLocked(tracks)
		if coordinator.queue.Select(0) {
			coordinator.loadLocked(coordinator.queue.Current())
		} else {
			coordinator.state = StateIdle
		}
	}()
}

func (coordinator *Coordinator) appendFreshLocked(tracks []*entity.Track) {
	added := 0
	for _, track := range tracks {
		if added >= RefillCap {
			break
		}
		if coordinator.queue.Contains(track.ID) {
			continue
		}
		coordinator.queue.Append(track)
		added++
	}
}

// loadLocked hands a track to the backend, bumping the generation so
// that every continuation spawned for the previous track discards
// itself
func (coordinator *Coordinator) loadLocked(track *entity.Track) {
	coordinator.generation++
	coordinator.state = StateLoading
	coordinator.position = 0
	coordinator.duration = track.Length
	coordinator.retryArmed = false
	coordinator.stopPollLocked()
	coordinator.fetchLyricsLocked(track)

	if !coordinator.backend.Ready() {
		coordinator.retryArmed = true
		return
	}
	if err := coordinator.backend.Load(track.ID); err != nil {
		coordinator.notifyLocked("Cannot start playback: " + err.Error())
	}
}

func (coordinator *Coordinator) toIdleLocked() {
	coordinator.generation++
	_ = coordinator.backend.Pause()
	coordinator.state = StateIdle
	coordinator.position = 0
	coordinator.duration = 0
	coordinator.lyrics = nil
	coordinator.lyricsTrackID = ""
	coordinator.retryArmed = false
	coordinator.stopPollLocked()
}

func (coordinator *Coordinator) startPollLocked() {
	if coordinator.pollStop != nil {
		return
	}

	var (
		stop       = make(chan struct{})
		generation = coordinator.generation
	)
	coordinator.pollStop = stop

	go func() {
		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				coordinator.mutex.Lock()
				if coordinator.generation != generation || coordinator.state != StatePlaying {
					coordinator.mutex.Unlock()
					return
				}
				coordinator.position = coordinator.backend.CurrentTime()
				if duration := coordinator.backend.Duration(); duration > 0 {
					coordinator.duration = duration
				}
				coordinator.mutex.Unlock()
			}
		}
	}()
}

func (coordinator *Coordinator) stopPollLocked() {
	if coordinator.pollStop != nil {
		close(coordinator.pollStop)
		coordinator.pollStop = nil
	}
}

// fetchLyricsLocked kicks off a lyrics resolution tagged with the
// track identifier, so a late response for a previous track is dropped
func (coordinator *Coordinator) fetchLyricsLocked(track *entity.Track) {
	if coordinator.lyricsTrackID == track.ID {
		return
	}
	coordinator.lyrics = nil
	coordinator.lyricsTrackID = track.ID
	if coordinator.lyricist == nil {
		return
	}

	go func() {
		lines, err := coordinator.lyricist(context.Background(), track)
		if err != nil || len(lines) == 0 {
			return
		}

		coordinator.mutex.Lock()
		defer coordinator.mutex.Unlock()
		if coordinator.lyricsTrackID != track.ID {
			return
		}
		coordinator.lyrics = lines
	}()
}

func (coordinator *Coordinator) pushHistoryLocked(track *entity.Track) {
	coordinator.history = append(coordinator.history, track)
	if len(coordinator.history) > historyCap {
		coordinator.history = coordinator.history[len(coordinator.history)-historyCap:]
	}
}

func (coordinator *Coordinator) notifyLocked(message string) {
	if coordinator.notifier != nil {
		coordinator.notifier(message)
	}
}

// State returns the coordinator's playback state
func (coordinator *Coordinator) State() State {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	return coordinator.state
}

// Current returns the current track, nil when idle on an empty slot
func (coordinator *Coordinator) Current() *entity.Track {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	return coordinator.queue.Current()
}

// Queue returns a copy of the queued tracks and the current index
func (coordinator *Coordinator) Queue() ([]*entity.Track, int) {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	return coordinator.queue.Tracks(), coordinator.queue.Index()
}

// History returns a copy of the played-track history, oldest first
func (coordinator *Coordinator) History() []*entity.Track {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	return append([]*entity.Track{}, coordinator.history...)
}

// Lyrics returns the resolved lyrics of the current track, if any
func (coordinator *Coordinator) Lyrics() entity.Lyrics {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	return coordinator.lyrics
}

// ActiveLyric resolves the highlighted lyric line off the playback
// position compensated by SyncOffset, -1 when none applies
func (coordinator *Coordinator) ActiveLyric() int {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()
	return coordinator.lyrics.ActiveLine(coordinator.position - SyncOffset)
}

// Snapshot captures the whole playback state for display
func (coordinator *Coordinator) Snapshot() PlaybackState {
	coordinator.mutex.Lock()
	defer coordinator.mutex.Unlock()

	return PlaybackState{
		State:    coordinator.state.String(),
		Track:    coordinator.queue.Current(),
		Position: coordinator.position,
		Duration: coordinator.duration,
		Volume:   coordinator.volume,
		Muted:    coordinator.muted,
		Repeat:   coordinator.repeat,
		Shuffle:  coordinator.shuffle,
		Autoplay: coordinator.autoplay,
		Queue:    coordinator.queue.Tracks(),
		Index:    coordinator.queue.Index(),
	}
}
