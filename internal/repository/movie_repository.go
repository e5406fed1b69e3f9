package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/movix/movie-booking/internal/model"
)

// MovieRepo manages read access to the movie catalog. The catalog is
// seed data from the booking flow's point of view; nothing here mutates
// it.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// cast is a reserved word in MySQL, hence the cast_names column.
const movieColumns = `id, title, poster_url, genre, duration_min, rating, description, director, cast_names, status, created_at, updated_at`

// scanMovie reads one row into a model.Movie, unpacking the JSON genre
// and cast columns.
func scanMovie(row interface{ Scan(...any) error }) (*model.Movie, error) {
	var m model.Movie
	var genreJSON, castJSON []byte
	if err := row.Scan(&m.ID, &m.Title, &m.PosterURL, &genreJSON, &m.DurationMin, &m.Rating,
		&m.Description, &m.Director, &castJSON, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if len(genreJSON) > 0 {
		if err := json.Unmarshal(genreJSON, &m.Genre); err != nil {
			return nil, err
		}
	}
	if len(castJSON) > 0 {
		if err := json.Unmarshal(castJSON, &m.Cast); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// GetByID returns a single movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListAll returns the full catalog ordered by title.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies ORDER BY title`
	return r.list(ctx, q)
}

// ListByStatus returns movies filtered by catalog status, e.g.
// NOW_SHOWING or COMING_SOON.
func (r *MovieRepo) ListByStatus(ctx context.Context, status string) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE status = ? ORDER BY title`
	return r.list(ctx, q, status)
}

// Search matches the query against title, director and the genre and
// cast JSON columns, mirroring the fields the original search covered.
// Matching is case-insensitive substring.
func (r *MovieRepo) Search(ctx context.Context, query string) ([]model.Movie, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	const q = `SELECT ` + movieColumns + ` FROM movies
               WHERE LOWER(title) LIKE ? OR LOWER(director) LIKE ?
                  OR LOWER(genre) LIKE ? OR LOWER(cast_names) LIKE ?
               ORDER BY title`
	return r.list(ctx, q, like, like, like, like)
}

func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
