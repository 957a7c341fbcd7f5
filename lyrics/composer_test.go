package lyrics

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/util"
)

var syncedLines = entity.Lyrics{{StartTime: 1000, Text: "line"}}

func TestSearch(t *testing.T) {
	// monkey patching
	defer gomonkey.NewPatches().
		ApplyFunc(os.ReadFile, func() ([]byte, error) { return nil, errors.New("") }).
		ApplyFunc(os.WriteFile, func() error { return nil }).
		ApplyPrivateMethod(reflect.TypeOf(captions{}), "search", func() (entity.Lyrics, error) {
			return syncedLines, nil
		}).
		ApplyPrivateMethod(reflect.TypeOf(lrcLib{}), "search", func() (entity.Lyrics, error) {
			return entity.Lyrics{{StartTime: 0, Text: "should not be reached"}}, nil
		}).
		Reset()

	// testing
	lines, err := Search(track)
	assert.Nil(t, err)
	assert.Equal(t, syncedLines, lines)
}

func TestSearchPriorityFallthrough(t *testing.T) {
	// captions yields nothing: the chain moves on in order
	defer gomonkey.NewPatches().
		ApplyFunc(os.ReadFile, func() ([]byte, error) { return nil, errors.New("") }).
		ApplyFunc(os.WriteFile, func() error { return nil }).
		ApplyPrivateMethod(reflect.TypeOf(captions{}), "search", func() (entity.Lyrics, error) {
			return nil, nil
		}).
		ApplyPrivateMethod(reflect.TypeOf(lrcLib{}), "search", func() (entity.Lyrics, error) {
			return syncedLines, nil
		}).
		ApplyPrivateMethod(reflect.TypeOf(lyricsOvh{}), "search", func() (entity.Lyrics, error) {
			return entity.Lyrics{{StartTime: 0, Text: "should not be reached"}}, nil
		}).
		Reset()

	// testing
	lines, err := Search(track)
	assert.Nil(t, err)
	assert.Equal(t, syncedLines, lines)
}

func TestSearchSourceFailureSkipped(t *testing.T) {
	// a failing source is not terminal as long as a later one delivers
	defer gomonkey.NewPatches().
		ApplyFunc(os.ReadFile, func() ([]byte, error) { return nil, errors.New("") }).
		ApplyFunc(os.WriteFile, func() error { return nil }).
		ApplyPrivateMethod(reflect.TypeOf(captions{}), "search", func() (entity.Lyrics, error) {
			return nil, errors.New("ko")
		}).
		ApplyPrivateMethod(reflect.TypeOf(lrcLib{}), "search", func() (entity.Lyrics, error) {
			return syncedLines, nil
		}).
		Reset()

	// testing
	lines, err := Search(track)
	assert.Nil(t, err)
	assert.Equal(t, syncedLines, lines)
}

func TestSearchAlreadyCached(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(os.ReadFile, func() ([]byte, error) {
		return []byte(`[{"time": 1000, "text": "line"}]`), nil
	}).Reset()

	// testing
	lines, err := Search(track)
	assert.Nil(t, err)
	assert.Equal(t, syncedLines, lines)
}

func TestSearchNoIDBypassesCache(t *testing.T) {
	// monkey patching
	written := false
	defer gomonkey.NewPatches().
		ApplyFunc(os.ReadFile, func() ([]byte, error) {
			return []byte(`[{"time": 0, "text": "someone else's song"}]`), nil
		}).
		ApplyFunc(os.WriteFile, func() error { written = true; return nil }).
		ApplyPrivateMethod(reflect.TypeOf(captions{}), "search", func() (entity.Lyrics, error) {
			return syncedLines, nil
		}).
		Reset()

	// a track without an identifier must neither read nor feed the
	// cache, or every such track would share one entry
	lines, err := Search(&entity.Track{Title: "Believer", Author: "Imagine Dragons"})
	assert.Nil(t, err)
	assert.Equal(t, syncedLines, lines)
	assert.False(t, written)
}

func TestSearchNotFound(t *testing.T) {
	// monkey patching
	defer gomonkey.NewPatches().
		ApplyFunc(os.ReadFile, func() ([]byte, error) { return nil, errors.New("") }).
		ApplyPrivateMethod(reflect.TypeOf(captions{}), "search", func() (entity.Lyrics, error) {
			return nil, nil
		}).
		ApplyPrivateMethod(reflect.TypeOf(lrcLib{}), "search", func() (entity.Lyrics, error) {
			return nil, nil
		}).
		ApplyPrivateMethod(reflect.TypeOf(lyricsOvh{}), "search", func() (entity.Lyrics, error) {
			return nil, nil
		}).
		Reset()

	// testing
	lines, err := Search(track)
	assert.Nil(t, err)
	assert.Empty(t, lines)
}

func TestSearchExhaustedFailure(t *testing.T) {
	// monkey patching
	defer gomonkey.NewPatches().
		ApplyFunc(os.ReadFile, func() ([]byte, error) { return nil, errors.New("") }).
		ApplyPrivateMethod(reflect.TypeOf(captions{}), "search", func() (entity.Lyrics, error) {
			return nil, errors.New("ko")
		}).
		ApplyPrivateMethod(reflect.TypeOf(lrcLib{}), "search", func() (entity.Lyrics, error) {
			return nil, errors.New("ko")
		}).
		ApplyPrivateMethod(reflect.TypeOf(lyricsOvh{}), "search", func() (entity.Lyrics, error) {
			return nil, errors.New("ko")
		}).
		Reset()

	// testing
	assert.Error(t, util.ErrOnly(Search(track)))
}

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "believer", cleanQuery("Believer (Official Music Video) | Imagine Dragons"))
	assert.Equal(t, "shape of you", cleanQuery("Shape of You [Lyrics]"))
}

func TestCleanArtist(t *testing.T) {
	assert.Equal(t, "ImagineDragons", cleanArtist("ImagineDragonsVEVO"))
	assert.Equal(t, "Rick Astley", cleanArtist("Rick Astley"))
}
