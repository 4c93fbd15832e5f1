package catalog

// MovieInput is the write payload for a Movie. Nil fields were absent from
// the request body.
type MovieInput struct {
	Title *string `json:"title" validate:"required"`
	Desc  *string `json:"desc" validate:"required"`
	Year  *int    `json:"year" validate:"required"`
	Image *string `json:"image"`
	Video *string `json:"video"`
	Genre *Genre  `json:"genre"`
}

// NewMovie validates a create payload and builds the record to insert.
func (in MovieInput) NewMovie() (Movie, error) {
	if err := validateStruct(in); err != nil {
		return Movie{}, err
	}
	m := Movie{Genre: DefaultGenre}
	in.ApplyTo(&m)
	if err := ValidateMovie(m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

// ValidateFull checks that every required field is present, as for a PUT.
func (in MovieInput) ValidateFull() error {
	return validateStruct(in)
}

// ApplyTo copies the present fields onto m. An empty image or video clears it.
func (in MovieInput) ApplyTo(m *Movie) {
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Desc != nil {
		m.Desc = *in.Desc
	}
	if in.Year != nil {
		m.Year = *in.Year
	}
	if in.Image != nil {
		m.Image = reference(*in.Image)
	}
	if in.Video != nil {
		m.Video = reference(*in.Video)
	}
	if in.Genre != nil {
		m.Genre = *in.Genre
	}
}

// SerieInput is the write payload for a Serie. episode_list is read-only and
// has no field here.
type SerieInput struct {
	Title    *string `json:"title" validate:"required"`
	Desc     *string `json:"desc" validate:"required"`
	Year     *int    `json:"year" validate:"required"`
	Image    *string `json:"image"`
	Video    *string `json:"video"`
	Seasons  *int    `json:"seasons" validate:"required"`
	Episodes *int    `json:"episodes" validate:"required"`
	Genre    *Genre  `json:"genre"`
}

func (in SerieInput) NewSerie() (Serie, error) {
	if err := validateStruct(in); err != nil {
		return Serie{}, err
	}
	s := Serie{Genre: DefaultGenre}
	in.ApplyTo(&s)
	if err := ValidateSerie(s); err != nil {
		return Serie{}, err
	}
	return s, nil
}

func (in SerieInput) ValidateFull() error {
	return validateStruct(in)
}

func (in SerieInput) ApplyTo(s *Serie) {
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.Desc != nil {
		s.Desc = *in.Desc
	}
	if in.Year != nil {
		s.Year = *in.Year
	}
	if in.Image != nil {
		s.Image = reference(*in.Image)
	}
	if in.Video != nil {
		s.Video = reference(*in.Video)
	}
	if in.Seasons != nil {
		s.Seasons = *in.Seasons
	}
	if in.Episodes != nil {
		s.Episodes = *in.Episodes
	}
	if in.Genre != nil {
		s.Genre = *in.Genre
	}
}

// EpisodeInput is the write payload for an Episode. The owning serie comes
// from the route, never from the body.
type EpisodeInput struct {
	Title         *string `json:"title" validate:"required"`
	Video         *string `json:"video"`
	SeasonNumber  *int    `json:"season_number" validate:"required"`
	EpisodeNumber *int    `json:"episode_number" validate:"required"`
}

func (in EpisodeInput) NewEpisode(serieID int64) (Episode, error) {
	if err := validateStruct(in); err != nil {
		return Episode{}, err
	}
	e := Episode{SerieID: serieID}
	in.ApplyTo(&e)
	if err := ValidateEpisode(e); err != nil {
		return Episode{}, err
	}
	return e, nil
}

func (in EpisodeInput) ValidateFull() error {
	return validateStruct(in)
}

func (in EpisodeInput) ApplyTo(e *Episode) {
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Video != nil {
		e.Video = reference(*in.Video)
	}
	if in.SeasonNumber != nil {
		e.SeasonNumber = *in.SeasonNumber
	}
	if in.EpisodeNumber != nil {
		e.EpisodeNumber = *in.EpisodeNumber
	}
}

func reference(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
