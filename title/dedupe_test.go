package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func BenchmarkDuplicates(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TestDuplicates(&testing.T{})
	}
}

func TestDuplicates(t *testing.T) {
	assert.True(t, Duplicates("Believer - Imagine Dragons", "Imagine Dragons - Believer (Lyrics)"))
	assert.True(t, Duplicates("Shape of You", "Shape of You (Official Video)"))
	assert.False(t, Duplicates("Believer - Imagine Dragons", "Thunder - Imagine Dragons"))
}

func TestDuplicatesCoreContainment(t *testing.T) {
	// one core name embedded in the other, both longer than 3 chars
	assert.True(t, Duplicates("Faded - Alan Walker", "Faded Remix Extended - Alan Walker"))
}

func TestDuplicatesWordOverlap(t *testing.T) {
	assert.True(t, Duplicates("Kesariya Full Song Arijit", "Kesariya Song Arijit Version"))
}

func TestDuplicateOfAny(t *testing.T) {
	existing := []string{"Believer - Imagine Dragons", "Shape of You - Ed Sheeran"}
	assert.True(t, DuplicateOfAny(existing, "Imagine Dragons - Believer (Lyrics)"))
	assert.False(t, DuplicateOfAny(existing, "Bohemian Rhapsody - Queen"))
	assert.False(t, DuplicateOfAny(nil, "Anything"))
}

func TestContainsSong(t *testing.T) {
	assert.True(t, ContainsSong("Imagine Dragons - Believer (Lyrics)", "believer"))
	assert.False(t, ContainsSong("Bohemian Rhapsody - Queen", "believer"))
}
