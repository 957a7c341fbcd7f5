package title

import "strings"

// OverlapThreshold is the word-overlap ratio at which two core song
// names are considered the same song. Tunable via configuration.
var OverlapThreshold = 0.6

func normalize(title string) string {
	title = reNonAlnum.ReplaceAllString(strings.ToLower(title), " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(title, " "))
}

func significantWords(songName string) []string {
	var words []string
	for _, word := range strings.Fields(songName) {
		if len(word) > 2 {
			words = append(words, word)
		}
	}
	return words
}

// ContainsSong reports whether a title embeds the given core song
// name, either verbatim or through a 70% significant-word match
func ContainsSong(title, songName string) bool {
	var (
		normalizedTitle = normalize(title)
		normalizedSong  = normalize(songName)
	)
	if strings.Contains(normalizedTitle, normalizedSong) {
		return true
	}

	words := significantWords(normalizedSong)
	if len(words) == 0 {
		return false
	}

	matching := 0
	for _, word := range words {
		if strings.Contains(normalizedTitle, word) {
			matching++
		}
	}
	return float64(matching) >= float64(len(words))*0.7
}

// Duplicates reports whether two titles plausibly name the same song:
// equal core names, one core name embedded in the other, or a
// significant-word overlap at or above OverlapThreshold
func Duplicates(reference, candidate string) bool {
	if coreName := CoreSongName(reference); coreName != "" && ContainsSong(candidate, coreName) {
		return true
	}

	var (
		song1 = CoreSongName(reference)
		song2 = CoreSongName(candidate)
	)
	if song1 == song2 {
		return true
	}
	if len(song1) > 3 && len(song2) > 3 &&
		(strings.Contains(song1, song2) || strings.Contains(song2, song1)) {
		return true
	}

	var (
		words1 = significantWords(song1)
		words2 = significantWords(song2)
	)
	if len(words1) == 0 || len(words2) == 0 {
		return false
	}

	matching := 0
	for _, word := range words1 {
		for _, other := range words2 {
			if word == other {
				matching++
				break
			}
		}
	}

	shorter := len(words1)
	if len(words2) < shorter {
		shorter = len(words2)
	}
	return float64(matching)/float64(shorter) >= OverlapThreshold
}

// DuplicateOfAny reports whether the candidate title duplicates any
// of the already-known ones
func DuplicateOfAny(existing []string, candidate string) bool {
	for _, reference := range existing {
		if Duplicates(reference, candidate) {
			return true
		}
	}
	return false
}
