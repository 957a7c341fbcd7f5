package title

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gosimple/slug"
)

var (
	reAnnotation   = regexp.MustCompile(`\([^)]*(official|lyric|video|audio|hd|4k|slowed|reverb|remix|mashup|cover|live|acoustic)[^)]*\)`)
	reBrackets     = regexp.MustCompile(`\[[^\]]*\]`)
	rePipeTrailer  = regexp.MustCompile(`\|.*$`)
	reOfficialclip = regexp.MustCompile(`official\s*(music\s*)?(video|lyric|audio)`)
	reNoiseWords   = regexp.MustCompile(`\b(lyrics?|lyric\s*video|video\s*song|full\s*song|hd|4k|1080p|16d|8d)\b`)
	reSlowedReverb = regexp.MustCompile(`\bslowed?\s*(\+|&|and)?\s*reverb(ed)?\b`)
	reFeaturing    = regexp.MustCompile(`\b(ft\.?|feat\.?|featuring)\s+.*`)
	reParens       = regexp.MustCompile(`\([^)]*\)`)
	reNonAlnum     = regexp.MustCompile(`[^a-z0-9\s]`)
	reSpaces       = regexp.MustCompile(`\s+`)
	reYear         = regexp.MustCompile(`20(2[0-5]|1[0-9])`)
)

// Flatten lowers a sentence into its the most basic
// alphanumeric-and-spaces form
func Flatten(sentence string) string {
	return strings.ReplaceAll(slug.Make(sentence), "-", " ")
}

// UniqueFields flattens a sentence and drops repeated words,
// preserving first-appearance order
func UniqueFields(sentence string) string {
	var (
		appearances  = make(map[string]bool)
		uniqueFields []string
	)

	for _, field := range strings.Fields(Flatten(sentence)) {
		if appearances[field] {
			continue
		}
		appearances[field] = true
		uniqueFields = append(uniqueFields, field)
	}

	return strings.Join(uniqueFields, " ")
}

func clean(part string) string {
	part = strings.ToLower(part)
	part = reParens.ReplaceAllString(part, "")
	part = reBrackets.ReplaceAllString(part, "")
	part = reNonAlnum.ReplaceAllString(part, " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(part, " "))
}

// CoreSongName heuristically reduces an upstream video title to just
// the song name, stripped of artist, platform and quality annotations.
// Titles following neither the "Artist - Title" nor the
// parenthesized-noise convention degrade to a first-four-words guess.
func CoreSongName(title string) string {
	songName := strings.ToLower(title)
	for _, re := range []*regexp.Regexp{
		reAnnotation, reBrackets, rePipeTrailer,
		reOfficialclip, reNoiseWords, reSlowedReverb, reFeaturing,
	} {
		songName = re.ReplaceAllString(songName, "")
	}
	songName = reNonAlnum.ReplaceAllString(songName, " ")
	songName = strings.TrimSpace(reSpaces.ReplaceAllString(songName, " "))

	if strings.Contains(title, " - ") {
		var candidates []string
		for _, part := range strings.Split(title, " - ") {
			if part = clean(part); len(part) > 2 && len(part) < 30 {
				candidates = append(candidates, part)
			}
		}
		if len(candidates) > 0 {
			sort.SliceStable(candidates, func(i, j int) bool {
				return len(candidates[i]) < len(candidates[j])
			})
			return candidates[0]
		}
	}

	fields := strings.Fields(songName)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

var genrePatterns = []struct {
	pattern *regexp.Regexp
	keyword string
}{
	{regexp.MustCompile(`haryanvi|haryanavi`), "Haryanvi songs"},
	{regexp.MustCompile(`punjabi`), "Punjabi songs"},
	{regexp.MustCompile(`hindi`), "Hindi songs"},
	{regexp.MustCompile(`bhojpuri`), "Bhojpuri songs"},
	{regexp.MustCompile(`rajasthani`), "Rajasthani songs"},
	{regexp.MustCompile(`gujarati`), "Gujarati songs"},
	{regexp.MustCompile(`marathi`), "Marathi songs"},
	{regexp.MustCompile(`tamil`), "Tamil songs"},
	{regexp.MustCompile(`telugu`), "Telugu songs"},
	{regexp.MustCompile(`kannada`), "Kannada songs"},
	{regexp.MustCompile(`malayalam`), "Malayalam songs"},
	{regexp.MustCompile(`bengali|bangla`), "Bengali songs"},
	{regexp.MustCompile(`english`), "English pop songs"},
	{regexp.MustCompile(`k-?pop|korean`), "K-pop songs"},
	{regexp.MustCompile(`bollywood`), "Bollywood songs"},
	{regexp.MustCompile(`hip\s*hop|rap`), "Hip hop songs"},
	{regexp.MustCompile(`lofi|lo-?fi`), "Lofi songs"},
	{regexp.MustCompile(`edm|electronic`), "EDM songs"},
	{regexp.MustCompile(`rock`), "Rock songs"},
	{regexp.MustCompile(`pop`), "Pop songs"},
}

// GenreKeywords matches the title against a fixed table of
// language/genre markers and returns the canonical search keywords in
// table order; a recent year token gets folded into the first keyword
func GenreKeywords(title string) []string {
	var (
		lowerTitle = strings.ToLower(title)
		keywords   []string
	)
	for _, entry := range genrePatterns {
		if entry.pattern.MatchString(lowerTitle) {
			keywords = append(keywords, entry.keyword)
		}
	}
	if year := reYear.FindString(lowerTitle); year != "" && len(keywords) > 0 {
		keywords[0] = strings.Replace(keywords[0], " songs", " songs "+year, 1)
	}
	return keywords
}

var (
	reArtistNoise  = regexp.MustCompile(`(?i)official|video|audio|lyric`)
	reCreditsNoise = regexp.MustCompile(`(?i)official|video|new|songs|music|audio`)
	rePipeArtist   = regexp.MustCompile(`\|\s*([A-Z][a-zA-Z\s]+?)(?:\s*\||$)`)
	reByArtist     = regexp.MustCompile(`(?i)by\s+([A-Z][a-zA-Z\s]+?)(?:\s*\||$)`)
)

// ArtistFromTitle extracts an embedded artist name from a title,
// returning the empty string when no segment qualifies
func ArtistFromTitle(title string) string {
	if strings.Contains(title, " - ") {
		artist := strings.Split(title, " - ")[0]
		artist = reParens.ReplaceAllString(artist, "")
		artist = strings.TrimSpace(reBrackets.ReplaceAllString(artist, ""))
		if len(artist) > 2 && len(artist) < 30 && !reArtistNoise.MatchString(artist) {
			return artist
		}
	}

	for _, re := range []*regexp.Regexp{rePipeArtist, reByArtist} {
		if match := re.FindStringSubmatch(title); len(match) > 1 && len(match[1]) < 25 {
			if artist := strings.TrimSpace(match[1]); !reCreditsNoise.MatchString(artist) {
				return artist
			}
		}
	}
	return ""
}

var reChannelSuffix = regexp.MustCompile(`(?i)(VEVO|Official|\s*-\s*Topic)$`)

// CleanAuthor strips platform suffixes off a channel name
func CleanAuthor(author string) string {
	return strings.TrimSpace(reChannelSuffix.ReplaceAllString(author, ""))
}
