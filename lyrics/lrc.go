package lyrics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/harmonix-bot/harmonix-web/entity"
)

var reLrcLine = regexp.MustCompile(`\[(\d+):(\d+)\.?(\d+)?\](.*)`)

// parseLrc converts `[mm:ss.xx]`-tagged lines into timed lyric lines.
// Two-digit fractional fields are hundredths of a second, three-digit
// ones are already milliseconds. Lines left empty after stripping the
// tag are discarded.
func parseLrc(synced string) entity.Lyrics {
	var lines entity.Lyrics
	for _, line := range strings.Split(synced, "\n") {
		match := reLrcLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		var (
			minutes, _ = strconv.Atoi(match[1])
			seconds, _ = strconv.Atoi(match[2])
			millis     = 0
		)
		switch fraction := match[3]; len(fraction) {
		case 0:
		case 3:
			millis, _ = strconv.Atoi(fraction)
		default:
			millis, _ = strconv.Atoi(fraction)
			millis *= 10
		}

		text := strings.TrimSpace(match[4])
		if text == "" {
			continue
		}

		lines = append(lines, entity.LyricLine{
			StartTime: (minutes*60+seconds)*1000 + millis,
			Text:      text,
		})
	}
	return lines
}
