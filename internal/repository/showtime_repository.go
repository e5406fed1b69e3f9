package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/movix/movie-booking/internal/model"
)

// ShowtimeRepo manages read access to the showtime schedule.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

const showtimeColumns = `id, movie_id, cinema, date, times, created_at, updated_at`

func scanShowtime(row interface{ Scan(...any) error }) (*model.Showtime, error) {
	var st model.Showtime
	var timesJSON []byte
	if err := row.Scan(&st.ID, &st.MovieID, &st.Cinema, &st.Date, &timesJSON, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	if len(timesJSON) > 0 {
		if err := json.Unmarshal(timesJSON, &st.Times); err != nil {
			return nil, err
		}
	}
	return &st, nil
}

// GetByID returns a single showtime or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id string) (*model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = ?`
	st, err := scanShowtime(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrShowtimeNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListByMovie returns all showtimes scheduled for a movie ordered by
// date.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes WHERE movie_id = ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Showtime
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
