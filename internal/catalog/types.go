package catalog

// MediaRecord is one scanned file as stored in the catalog store:
// a title plus its path relative to the library root.
// RelativePath always uses forward slashes, regardless of host OS.
type MediaRecord struct {
	ID           string `json:"id,omitempty"`
	Title        string `json:"title"`
	RelativePath string `json:"path"`
}

// Movie is a media record classified as top-level movie content.
// Titles are assumed unique within the catalog.
type Movie struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type TVShow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SeasonCount int      `json:"season_count"`
	Path        string   `json:"path"`
	Seasons     []Season `json:"seasons"`
}

type Season struct {
	SeasonNumber int       `json:"season_number"`
	ShowName     string    `json:"show_name"`
	EpisodeCount int       `json:"episode_count"`
	Path         string    `json:"path"`
	Episodes     []Episode `json:"episodes"`
}

type Episode struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	ShowName      string `json:"show_name"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Path          string `json:"path"`
}

// ParsedCatalog is the output of one catalog build. It is rebuilt from
// scratch on every fetch; nothing here is persisted.
type ParsedCatalog struct {
	Movies  []Movie  `json:"movies"`
	TVShows []TVShow `json:"tv_shows"`
}
