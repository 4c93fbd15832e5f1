package catalog

// Genre is one of the fixed set of genres shared by movies and series.
type Genre string

const (
	GenreAction      Genre = "action"
	GenreComedy      Genre = "comedy"
	GenreDrama       Genre = "drama"
	GenreHorror      Genre = "horror"
	GenreSciFi       Genre = "sci-fi"
	GenreThriller    Genre = "thriller"
	GenreRomance     Genre = "romance"
	GenreAnimation   Genre = "animation"
	GenreDocumentary Genre = "documentary"
	GenreAdventure   Genre = "adventure"
	GenreFantasy     Genre = "fantasy"
	GenreMystery     Genre = "mystery"
)

// DefaultGenre is assigned on create when no genre is given.
const DefaultGenre = GenreDrama

// GenreAll is the list filter value that disables genre filtering.
const GenreAll = "all"

var genres = []Genre{
	GenreAction,
	GenreComedy,
	GenreDrama,
	GenreHorror,
	GenreSciFi,
	GenreThriller,
	GenreRomance,
	GenreAnimation,
	GenreDocumentary,
	GenreAdventure,
	GenreFantasy,
	GenreMystery,
}

// Genres returns the enumeration in its canonical order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// Valid reports whether g belongs to the enumeration. Matching is case-sensitive.
func (g Genre) Valid() bool {
	for _, known := range genres {
		if g == known {
			return true
		}
	}
	return false
}
