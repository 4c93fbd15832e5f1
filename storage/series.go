package storage

import (
	"context"
	"database/sql"
	"errors"

	"cine-catalog/catalog"
)

const serieColumns = "id, title, description, year, image, video, seasons, episodes, genre"

func scanSerie(sc scanner) (catalog.Serie, error) {
	var s catalog.Serie
	var image, video sql.NullString
	var genre string
	if err := sc.Scan(&s.ID, &s.Title, &s.Desc, &s.Year, &image, &video, &s.Seasons, &s.Episodes, &genre); err != nil {
		return catalog.Serie{}, err
	}
	s.Image = stringPtr(image)
	s.Video = stringPtr(video)
	s.Genre = catalog.Genre(genre)
	s.EpisodeList = []catalog.Episode{}
	return s, nil
}

func (s *SQLStorage) CreateSerie(ctx context.Context, serie catalog.Serie) (catalog.Serie, error) {
	query := `
	INSERT INTO series (title, description, year, image, video, seasons, episodes, genre, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	res, err := s.db.ExecContext(ctx, query, serie.Title, serie.Desc, serie.Year,
		nullString(serie.Image), nullString(serie.Video), serie.Seasons, serie.Episodes, string(serie.Genre))
	if err != nil {
		return catalog.Serie{}, &catalog.StorageError{Op: "insert serie", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return catalog.Serie{}, &catalog.StorageError{Op: "read inserted serie id", Err: err}
	}
	serie.ID = id
	// A new serie owns no episodes yet.
	serie.EpisodeList = []catalog.Episode{}
	return serie, nil
}

func (s *SQLStorage) GetSerie(ctx context.Context, id int64) (catalog.Serie, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+serieColumns+" FROM series WHERE id = ?", id)
	serie, err := scanSerie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Serie{}, notFound("serie", id)
	}
	if err != nil {
		return catalog.Serie{}, &catalog.StorageError{Op: "get serie", Err: err}
	}

	byserie, err := loadEpisodes(ctx, s.db, []int64{id})
	if err != nil {
		return catalog.Serie{}, &catalog.StorageError{Op: "load episodes", Err: err}
	}
	if eps, ok := byserie[id]; ok {
		serie.EpisodeList = eps
	}
	return serie, nil
}

func (s *SQLStorage) ListSeries(ctx context.Context, f catalog.Filter) ([]catalog.Serie, error) {
	p := listPredicate(f)
	rows, err := s.db.QueryContext(ctx, "SELECT "+serieColumns+" FROM series"+p.where()+" ORDER BY id ASC", p.args...)
	if err != nil {
		return nil, &catalog.StorageError{Op: "list series", Err: err}
	}

	series, err := collect(rows, scanSerie,
		func(s catalog.Serie) int64 { return s.ID },
		func(s catalog.Serie) bool { return f.Matches(s.Title, s.Desc, s.Genre) },
	)
	if err != nil {
		return nil, &catalog.StorageError{Op: "scan series", Err: err}
	}
	if len(series) == 0 {
		return series, nil
	}

	ids := make([]int64, len(series))
	for i := range series {
		ids[i] = series[i].ID
	}
	byserie, err := loadEpisodes(ctx, s.db, ids)
	if err != nil {
		return nil, &catalog.StorageError{Op: "load episodes", Err: err}
	}
	for i := range series {
		if eps, ok := byserie[series[i].ID]; ok {
			series[i].EpisodeList = eps
		}
	}
	return series, nil
}

func (s *SQLStorage) UpdateSerie(ctx context.Context, id int64, in catalog.SerieInput) (catalog.Serie, error) {
	var updated catalog.Serie
	err := s.withTx(ctx, "update serie", func(tx *sql.Tx) error {
		serie, err := scanSerie(tx.QueryRowContext(ctx, "SELECT "+serieColumns+" FROM series WHERE id = ?"+s.forUpdate(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("serie", id)
		}
		if err != nil {
			return err
		}

		in.ApplyTo(&serie)
		if err := catalog.ValidateSerie(serie); err != nil {
			return err
		}

		query := `
		UPDATE series
		SET title = ?, description = ?, year = ?, image = ?, video = ?, seasons = ?, episodes = ?, genre = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, query, serie.Title, serie.Desc, serie.Year, nullString(serie.Image),
			nullString(serie.Video), serie.Seasons, serie.Episodes, string(serie.Genre), id); err != nil {
			return err
		}

		byserie, err := loadEpisodes(ctx, tx, []int64{id})
		if err != nil {
			return err
		}
		if eps, ok := byserie[id]; ok {
			serie.EpisodeList = eps
		}
		updated = serie
		return nil
	})
	if err != nil {
		return catalog.Serie{}, err
	}
	return updated, nil
}

// DeleteSerie removes the serie and every episode it owns. Episodes are
// deleted explicitly so the cascade holds even where FK actions are off.
func (s *SQLStorage) DeleteSerie(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete serie", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM episodes WHERE serie_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM series WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound("serie", id)
		}
		return nil
	})
}
