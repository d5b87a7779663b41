package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// unknownShow collects episodes whose path is too shallow to carry a
// show-name segment ("TV Shows/orphan.mkv").
const unknownShow = "Unknown"

// Build reconstructs the Movies/Shows/Seasons/Episodes tree from a flat
// record list. It is a pure transform: same input, same output, no state
// kept between calls. Empty input produces an empty catalog.
func Build(records []MediaRecord) ParsedCatalog {
	movieRecords, episodeRecords := Classify(records)

	movies := make([]Movie, 0, len(movieRecords))
	for _, r := range movieRecords {
		movies = append(movies, Movie{ID: r.ID, Title: r.Title, Path: r.RelativePath})
	}
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })

	return ParsedCatalog{
		Movies:  movies,
		TVShows: groupIntoShows(episodeRecords),
	}
}

// groupIntoShows groups episode records by show name, the second path
// segment. Expected shape: "TV Shows/<Show>/Season NN/<file>".
func groupIntoShows(episodes []MediaRecord) []TVShow {
	byShow := make(map[string][]MediaRecord)
	for _, e := range episodes {
		parts := strings.Split(e.RelativePath, "/")
		name := unknownShow
		// The middle segment is only a show name when there is also a
		// file segment after it; "TV Shows/orphan.mkv" has no show dir.
		if len(parts) >= 3 {
			name = parts[1]
		}
		byShow[name] = append(byShow[name], e)
	}

	shows := make([]TVShow, 0, len(byShow))
	for name, recs := range byShow {
		seasons := groupIntoSeasons(name, recs)
		shows = append(shows, TVShow{
			ID:          name,
			Name:        name,
			SeasonCount: len(seasons),
			Path:        tvShowsPrefix + name,
			Seasons:     seasons,
		})
	}
	sort.SliceStable(shows, func(i, j int) bool { return shows[i].Name < shows[j].Name })
	return shows
}

func groupIntoSeasons(showName string, episodes []MediaRecord) []Season {
	bySeason := make(map[int][]MediaRecord)
	for _, e := range episodes {
		n := ExtractSeasonNumber(e.RelativePath, e.Title)
		bySeason[n] = append(bySeason[n], e)
	}

	seasons := make([]Season, 0, len(bySeason))
	for num, recs := range bySeason {
		eps := make([]Episode, 0, len(recs))
		for _, r := range recs {
			eps = append(eps, Episode{
				ID:            r.ID,
				Title:         r.Title,
				ShowName:      showName,
				SeasonNumber:  num,
				EpisodeNumber: ExtractEpisodeNumber(r.RelativePath, r.Title),
				Path:          r.RelativePath,
			})
		}
		// Stable sort so duplicate episode numbers keep scan order.
		sort.SliceStable(eps, func(i, j int) bool { return eps[i].EpisodeNumber < eps[j].EpisodeNumber })

		seasons = append(seasons, Season{
			SeasonNumber: num,
			ShowName:     showName,
			EpisodeCount: len(eps),
			Path:         fmt.Sprintf("%s%s/Season %02d", tvShowsPrefix, showName, num),
			Episodes:     eps,
		})
	}
	sort.SliceStable(seasons, func(i, j int) bool { return seasons[i].SeasonNumber < seasons[j].SeasonNumber })
	return seasons
}
