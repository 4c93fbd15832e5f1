// Package catalog holds the record types of the content catalog, their write
// payloads and validation rules, and the list filter.
package catalog

// ListLimit caps the number of records returned by a list operation.
// There is no cursor and no total count: callers only ever see the first page.
const ListLimit = 20

// Movie is a single film in the catalog.
type Movie struct {
	ID    int64   `json:"id"`
	Title string  `json:"title" validate:"required,max=32"`
	Desc  string  `json:"desc" validate:"required,max=256"`
	Year  int     `json:"year"`
	Image *string `json:"image"`
	Video *string `json:"video"`
	Genre Genre   `json:"genre" validate:"genre"`
}

// Serie is a TV series. EpisodeList is derived from the episodes owned by the
// serie and is never read from a write payload.
type Serie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" validate:"required,max=32"`
	Desc        string    `json:"desc" validate:"required,max=256"`
	Year        int       `json:"year"`
	Image       *string   `json:"image"`
	Video       *string   `json:"video"`
	Seasons     int       `json:"seasons"`
	Episodes    int       `json:"episodes"`
	Genre       Genre     `json:"genre" validate:"genre"`
	EpisodeList []Episode `json:"episode_list"`
}

// Episode belongs to exactly one Serie. Season and episode numbers are not
// required to be unique within a serie.
type Episode struct {
	ID            int64   `json:"id"`
	SerieID       int64   `json:"-"`
	Title         string  `json:"title" validate:"required,max=64"`
	Video         *string `json:"video"`
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
}
