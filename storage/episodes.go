package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"cine-catalog/catalog"
)

const (
	episodeColumns = "id, serie_id, title, video, season_number, episode_number"
	episodeOrder   = " ORDER BY season_number ASC, episode_number ASC, id ASC"
)

func scanEpisode(sc scanner) (catalog.Episode, error) {
	var e catalog.Episode
	var video sql.NullString
	if err := sc.Scan(&e.ID, &e.SerieID, &e.Title, &video, &e.SeasonNumber, &e.EpisodeNumber); err != nil {
		return catalog.Episode{}, err
	}
	e.Video = stringPtr(video)
	return e, nil
}

// loadEpisodes returns the episodes of the given series grouped by serie id,
// each group in episode order.
func loadEpisodes(ctx context.Context, q querier, serieIDs []int64) (map[int64][]catalog.Episode, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(serieIDs)), ",")
	args := make([]any, len(serieIDs))
	for i, id := range serieIDs {
		args[i] = id
	}

	query := "SELECT " + episodeColumns + " FROM episodes WHERE serie_id IN (" + placeholders + ")" + episodeOrder
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]catalog.Episode, len(serieIDs))
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out[e.SerieID] = append(out[e.SerieID], e)
	}
	return out, rows.Err()
}

func serieExists(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM series WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

// CreateEpisode inserts e under its serie. A missing serie is a NotFound,
// not a constraint failure.
func (s *SQLStorage) CreateEpisode(ctx context.Context, e catalog.Episode) (catalog.Episode, error) {
	err := s.withTx(ctx, "insert episode", func(tx *sql.Tx) error {
		exists, err := serieExists(ctx, tx, e.SerieID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("serie", e.SerieID)
		}

		query := `
		INSERT INTO episodes (serie_id, title, video, season_number, episode_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`
		res, err := tx.ExecContext(ctx, query, e.SerieID, e.Title, nullString(e.Video), e.SeasonNumber, e.EpisodeNumber)
		if err != nil {
			return err
		}
		e.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return catalog.Episode{}, err
	}
	return e, nil
}

func (s *SQLStorage) GetEpisode(ctx context.Context, id int64) (catalog.Episode, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+episodeColumns+" FROM episodes WHERE id = ?", id)
	e, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Episode{}, notFound("episode", id)
	}
	if err != nil {
		return catalog.Episode{}, &catalog.StorageError{Op: "get episode", Err: err}
	}
	return e, nil
}

// ListEpisodes returns every episode of a serie. It is not truncated.
func (s *SQLStorage) ListEpisodes(ctx context.Context, serieID int64) ([]catalog.Episode, error) {
	var episodes []catalog.Episode
	err := s.withTx(ctx, "list episodes", func(tx *sql.Tx) error {
		exists, err := serieExists(ctx, tx, serieID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("serie", serieID)
		}
		byserie, err := loadEpisodes(ctx, tx, []int64{serieID})
		if err != nil {
			return err
		}
		episodes = byserie[serieID]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if episodes == nil {
		episodes = []catalog.Episode{}
	}
	return episodes, nil
}

func (s *SQLStorage) UpdateEpisode(ctx context.Context, id int64, in catalog.EpisodeInput) (catalog.Episode, error) {
	var updated catalog.Episode
	err := s.withTx(ctx, "update episode", func(tx *sql.Tx) error {
		e, err := scanEpisode(tx.QueryRowContext(ctx, "SELECT "+episodeColumns+" FROM episodes WHERE id = ?"+s.forUpdate(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("episode", id)
		}
		if err != nil {
			return err
		}

		in.ApplyTo(&e)
		if err := catalog.ValidateEpisode(e); err != nil {
			return err
		}

		query := `
		UPDATE episodes
		SET title = ?, video = ?, season_number = ?, episode_number = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, query, e.Title, nullString(e.Video), e.SeasonNumber, e.EpisodeNumber, id); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return catalog.Episode{}, err
	}
	return updated, nil
}

func (s *SQLStorage) DeleteEpisode(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return &catalog.StorageError{Op: "delete episode", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &catalog.StorageError{Op: "delete episode", Err: err}
	}
	if n == 0 {
		return notFound("episode", id)
	}
	return nil
}
