package catalog

import "strings"

const (
	moviePrefix   = "Movies/"
	tvShowsPrefix = "TV Shows/"
)

// Classify partitions records into movies and TV-episode candidates by
// path prefix. The test is case-sensitive. Records under neither prefix
// are dropped: ingestion stays robust against stray files in the library
// root rather than failing the whole build.
func Classify(records []MediaRecord) (movies, episodes []MediaRecord) {
	for _, r := range records {
		switch {
		case strings.HasPrefix(r.RelativePath, moviePrefix):
			movies = append(movies, r)
		case strings.HasPrefix(r.RelativePath, tvShowsPrefix):
			episodes = append(episodes, r)
		}
	}
	return movies, episodes
}
