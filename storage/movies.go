package storage

import (
	"context"
	"database/sql"
	"errors"

	"cine-catalog/catalog"
)

const movieColumns = "id, title, description, year, image, video, genre"

func scanMovie(sc scanner) (catalog.Movie, error) {
	var m catalog.Movie
	var image, video sql.NullString
	var genre string
	if err := sc.Scan(&m.ID, &m.Title, &m.Desc, &m.Year, &image, &video, &genre); err != nil {
		return catalog.Movie{}, err
	}
	m.Image = stringPtr(image)
	m.Video = stringPtr(video)
	m.Genre = catalog.Genre(genre)
	return m, nil
}

func (s *SQLStorage) CreateMovie(ctx context.Context, m catalog.Movie) (catalog.Movie, error) {
	query := `
	INSERT INTO movies (title, description, year, image, video, genre, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	res, err := s.db.ExecContext(ctx, query, m.Title, m.Desc, m.Year, nullString(m.Image), nullString(m.Video), string(m.Genre))
	if err != nil {
		return catalog.Movie{}, &catalog.StorageError{Op: "insert movie", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return catalog.Movie{}, &catalog.StorageError{Op: "read inserted movie id", Err: err}
	}
	m.ID = id
	return m, nil
}

func (s *SQLStorage) GetMovie(ctx context.Context, id int64) (catalog.Movie, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Movie{}, notFound("movie", id)
	}
	if err != nil {
		return catalog.Movie{}, &catalog.StorageError{Op: "get movie", Err: err}
	}
	return m, nil
}

func (s *SQLStorage) ListMovies(ctx context.Context, f catalog.Filter) ([]catalog.Movie, error) {
	p := listPredicate(f)
	rows, err := s.db.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies"+p.where()+" ORDER BY id ASC", p.args...)
	if err != nil {
		return nil, &catalog.StorageError{Op: "list movies", Err: err}
	}

	movies, err := collect(rows, scanMovie,
		func(m catalog.Movie) int64 { return m.ID },
		func(m catalog.Movie) bool { return f.Matches(m.Title, m.Desc, m.Genre) },
	)
	if err != nil {
		return nil, &catalog.StorageError{Op: "scan movies", Err: err}
	}
	return movies, nil
}

// UpdateMovie applies in to the stored movie and validates the merged record
// before writing it back, all within one transaction.
func (s *SQLStorage) UpdateMovie(ctx context.Context, id int64, in catalog.MovieInput) (catalog.Movie, error) {
	var updated catalog.Movie
	err := s.withTx(ctx, "update movie", func(tx *sql.Tx) error {
		m, err := scanMovie(tx.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?"+s.forUpdate(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("movie", id)
		}
		if err != nil {
			return err
		}

		in.ApplyTo(&m)
		if err := catalog.ValidateMovie(m); err != nil {
			return err
		}

		query := `
		UPDATE movies
		SET title = ?, description = ?, year = ?, image = ?, video = ?, genre = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, query, m.Title, m.Desc, m.Year, nullString(m.Image), nullString(m.Video), string(m.Genre), id); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return catalog.Movie{}, err
	}
	return updated, nil
}

func (s *SQLStorage) DeleteMovie(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return &catalog.StorageError{Op: "delete movie", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &catalog.StorageError{Op: "delete movie", Err: err}
	}
	if n == 0 {
		return notFound("movie", id)
	}
	return nil
}
