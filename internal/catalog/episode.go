package catalog

import (
	"regexp"
	"strconv"
)

var (
	seasonDirRe   = regexp.MustCompile(`Season (\d+)`)
	seasonTitleRe = regexp.MustCompile(`S(\d+)E\d+`)
	episodeRe     = regexp.MustCompile(`E(\d+)`)
)

// ExtractSeasonNumber resolves a season number for an episode. The folder
// structure ("Season NN/") is the more reliable season signal across
// inconsistently named sources, so the path is checked before the title's
// SxxExx token. Unparseable input yields 0, never an error.
func ExtractSeasonNumber(path, title string) int {
	if m := seasonDirRe.FindStringSubmatch(path); m != nil {
		return atoi(m[1])
	}
	if m := seasonTitleRe.FindStringSubmatch(title); m != nil {
		return atoi(m[1])
	}
	return 0
}

// ExtractEpisodeNumber resolves an episode number. Unlike the season
// lookup, the title is checked first: an embedded SxxExx token beats
// whatever the containing folder happens to be called. Falls back to the
// path, then 0.
func ExtractEpisodeNumber(path, title string) int {
	if m := episodeRe.FindStringSubmatch(title); m != nil {
		return atoi(m[1])
	}
	if m := episodeRe.FindStringSubmatch(path); m != nil {
		return atoi(m[1])
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
