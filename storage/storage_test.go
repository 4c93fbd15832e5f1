package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cine-catalog/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestStorage(t *testing.T) *SQLStorage {
	t.Helper()
	storage := NewSQLiteStorage(t.TempDir())
	if err := storage.Initialize(); err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func seedMovie(t *testing.T, s *SQLStorage, title, desc string, genre catalog.Genre) catalog.Movie {
	t.Helper()
	m, err := s.CreateMovie(context.Background(), catalog.Movie{Title: title, Desc: desc, Year: 2020, Genre: genre})
	require.NoError(t, err)
	return m
}

func seedSerie(t *testing.T, s *SQLStorage, title string, genre catalog.Genre) catalog.Serie {
	t.Helper()
	serie, err := s.CreateSerie(context.Background(), catalog.Serie{
		Title: title, Desc: "a serie", Year: 2020, Seasons: 1, Episodes: 3, Genre: genre,
	})
	require.NoError(t, err)
	return serie
}

func titles[T any](recs []T, title func(T) string) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, title(r))
	}
	return out
}

func movieTitle(m catalog.Movie) string { return m.Title }

func TestSQLiteStorageInit(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewSQLiteStorage(tempDir)
	err := storage.Initialize()
	if err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	defer storage.Close()

	dbPath := filepath.Join(tempDir, "cine_catalog.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created")
	}

	if err := storage.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("postgres", t.TempDir(), "")
	assert.Error(t, err)

	_, err = New(DriverMySQL, "", "")
	assert.Error(t, err)

	s, err := New(DriverSQLite, t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, s.Driver())
}

func TestMovieCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	created, err := s.CreateMovie(ctx, catalog.Movie{
		Title: "Deep Space", Desc: "A crew adrift", Year: 2019, Genre: catalog.GenreSciFi,
		Image: ptr("movies/deep.png"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := s.GetMovie(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Nil(t, got.Video)

	updated, err := s.UpdateMovie(ctx, created.ID, catalog.MovieInput{Year: ptr(2020), Image: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, 2020, updated.Year)
	assert.Equal(t, "Deep Space", updated.Title)
	assert.Nil(t, updated.Image)

	got, err = s.GetMovie(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, s.DeleteMovie(ctx, created.ID))

	_, err = s.GetMovie(ctx, created.ID)
	assert.True(t, catalog.IsNotFound(err))
	assert.True(t, catalog.IsNotFound(s.DeleteMovie(ctx, created.ID)))
	_, err = s.UpdateMovie(ctx, created.ID, catalog.MovieInput{Year: ptr(1)})
	assert.True(t, catalog.IsNotFound(err))
}

func TestUpdateMovieValidatesMergedRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	m := seedMovie(t, s, "Deep Space", "A crew adrift", catalog.GenreSciFi)

	_, err := s.UpdateMovie(ctx, m.ID, catalog.MovieInput{Genre: ptr(catalog.Genre("western"))})

	var verr *catalog.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "genre")

	got, err := s.GetMovie(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.GenreSciFi, got.Genre, "failed update must not be written")
}

func TestListMoviesFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedMovie(t, s, "Deep Space", "A crew adrift", catalog.GenreSciFi)
	seedMovie(t, s, "Comedy Night", "stand-up special", catalog.GenreComedy)
	seedMovie(t, s, "ÉCOLE NOIRE", "Ñandú", catalog.GenreDrama)
	all := []string{"Deep Space", "Comedy Night", "ÉCOLE NOIRE"}

	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{"no filter", catalog.NewFilter("", ""), all},
		{"search title", catalog.NewFilter("space", ""), []string{"Deep Space"}},
		{"search desc", catalog.NewFilter("STAND", ""), []string{"Comedy Night"}},
		{"genre", catalog.NewFilter("", "comedy"), []string{"Comedy Night"}},
		{"genre all", catalog.NewFilter("", "all"), all},
		{"search and genre", catalog.NewFilter("o", "comedy"), []string{"Comedy Night"}},
		{"search and other genre", catalog.NewFilter("o", "sci-fi"), []string{}},
		{"wildcards are literal", catalog.NewFilter("%", ""), []string{}},
		{"unknown genre", catalog.NewFilter("", "western"), []string{}},
		{"non-ascii folded", catalog.NewFilter("école", ""), []string{"ÉCOLE NOIRE"}},
		{"non-ascii exact", catalog.NewFilter("ÉCOLE", ""), []string{"ÉCOLE NOIRE"}},
		{"non-ascii desc", catalog.NewFilter("ñandú", ""), []string{"ÉCOLE NOIRE"}},
		{"single accented letter", catalog.NewFilter("é", "drama"), []string{"ÉCOLE NOIRE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := s.ListMovies(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(movies, movieTitle))
		})
	}
}

func TestListTruncatesToLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	var first catalog.Movie
	for i := 0; i < catalog.ListLimit+5; i++ {
		m := seedMovie(t, s, fmt.Sprintf("Movie %02d", i), "filler", catalog.GenreDrama)
		if i == 0 {
			first = m
		}
	}
	last := seedMovie(t, s, "Movie last", "filler", catalog.GenreDrama)

	movies, err := s.ListMovies(ctx, catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, movies, catalog.ListLimit)
	assert.Equal(t, first.ID, movies[0].ID, "lists are ordered by id")
	for i := 1; i < len(movies); i++ {
		assert.Less(t, movies[i-1].ID, movies[i].ID)
	}

	// Retrieval by id is never truncated.
	got, err := s.GetMovie(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, "Movie last", got.Title)
}

func TestSerieWithEpisodes(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	serie := seedSerie(t, s, "Dark", catalog.GenreMystery)
	assert.Empty(t, serie.EpisodeList)

	for _, ep := range []catalog.Episode{
		{Title: "Lies", SeasonNumber: 1, EpisodeNumber: 2},
		{Title: "Beginnings", SeasonNumber: 2, EpisodeNumber: 1},
		{Title: "Secrets", SeasonNumber: 1, EpisodeNumber: 1},
	} {
		ep.SerieID = serie.ID
		_, err := s.CreateEpisode(ctx, ep)
		require.NoError(t, err)
	}

	got, err := s.GetSerie(ctx, serie.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Secrets", "Lies", "Beginnings"},
		titles(got.EpisodeList, func(e catalog.Episode) string { return e.Title }))

	listed, err := s.ListSeries(ctx, catalog.NewFilter("dar", "mystery"))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].EpisodeList, 3)

	episodes, err := s.ListEpisodes(ctx, serie.ID)
	require.NoError(t, err)
	assert.Equal(t, got.EpisodeList, episodes)
}

func TestCreateEpisodeUnknownSerie(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.CreateEpisode(context.Background(), catalog.Episode{SerieID: 99, Title: "Orphan"})
	assert.True(t, catalog.IsNotFound(err))

	_, err = s.ListEpisodes(context.Background(), 99)
	assert.True(t, catalog.IsNotFound(err))
}

func TestUpdateSerieKeepsEpisodes(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	serie := seedSerie(t, s, "Dark", catalog.GenreMystery)
	_, err := s.CreateEpisode(ctx, catalog.Episode{SerieID: serie.ID, Title: "Secrets", SeasonNumber: 1, EpisodeNumber: 1})
	require.NoError(t, err)

	updated, err := s.UpdateSerie(ctx, serie.ID, catalog.SerieInput{Seasons: ptr(3), Episodes: ptr(26)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Seasons)
	assert.Equal(t, 26, updated.Episodes)
	assert.Len(t, updated.EpisodeList, 1)
}

func TestEpisodeUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	serie := seedSerie(t, s, "Dark", catalog.GenreMystery)
	ep, err := s.CreateEpisode(ctx, catalog.Episode{SerieID: serie.ID, Title: "Secrets", SeasonNumber: 1, EpisodeNumber: 1})
	require.NoError(t, err)

	updated, err := s.UpdateEpisode(ctx, ep.ID, catalog.EpisodeInput{Video: ptr("episodes/s1e1.mp4")})
	require.NoError(t, err)
	require.NotNil(t, updated.Video)
	assert.Equal(t, "episodes/s1e1.mp4", *updated.Video)
	assert.Equal(t, serie.ID, updated.SerieID)

	require.NoError(t, s.DeleteEpisode(ctx, ep.ID))
	_, err = s.GetEpisode(ctx, ep.ID)
	assert.True(t, catalog.IsNotFound(err))
	assert.True(t, catalog.IsNotFound(s.DeleteEpisode(ctx, ep.ID)))
}

func TestDeleteSerieCascadesEpisodes(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	serie := seedSerie(t, s, "Dark", catalog.GenreMystery)
	other := seedSerie(t, s, "1899", catalog.GenreMystery)

	var ids []int64
	for i := 1; i <= 3; i++ {
		ep, err := s.CreateEpisode(ctx, catalog.Episode{SerieID: serie.ID, Title: fmt.Sprintf("Episode %d", i), SeasonNumber: 1, EpisodeNumber: i})
		require.NoError(t, err)
		ids = append(ids, ep.ID)
	}
	kept, err := s.CreateEpisode(ctx, catalog.Episode{SerieID: other.ID, Title: "The Ship", SeasonNumber: 1, EpisodeNumber: 1})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSerie(ctx, serie.ID))

	for _, id := range ids {
		_, err := s.GetEpisode(ctx, id)
		assert.True(t, catalog.IsNotFound(err), "episode %d should be gone", id)
	}
	_, err = s.GetEpisode(ctx, kept.ID)
	assert.NoError(t, err)

	_, err = s.GetSerie(ctx, serie.ID)
	assert.True(t, catalog.IsNotFound(err))
	assert.True(t, catalog.IsNotFound(s.DeleteSerie(ctx, serie.ID)))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["series"])
	assert.Equal(t, 1, stats["episodes"])
	assert.Equal(t, 1, stats["total"])
}

func TestMySQLStorage(t *testing.T) {
	dsn := os.Getenv("CATALOG_MYSQL_DSN")
	if testing.Short() || dsn == "" {
		t.Skip("Skipping: CATALOG_MYSQL_DSN not set")
	}

	ctx := context.Background()
	s := NewMySQLStorage(dsn)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() {
		s.ResetDatabase()
		s.Close()
	})

	serie, err := s.CreateSerie(ctx, catalog.Serie{Title: "Dark", Desc: "time", Year: 2017, Seasons: 3, Episodes: 26, Genre: catalog.GenreMystery})
	require.NoError(t, err)
	ep, err := s.CreateEpisode(ctx, catalog.Episode{SerieID: serie.ID, Title: "Secrets", SeasonNumber: 1, EpisodeNumber: 1})
	require.NoError(t, err)

	listed, err := s.ListSeries(ctx, catalog.NewFilter("DARK", "Mystery"))
	require.NoError(t, err)
	assert.Empty(t, listed, "genre matching stays case-sensitive on MySQL")

	require.NoError(t, s.DeleteSerie(ctx, serie.ID))
	_, err = s.GetEpisode(ctx, ep.ID)
	assert.True(t, catalog.IsNotFound(err))
}
