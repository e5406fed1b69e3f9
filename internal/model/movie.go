package model

import "time"

// Movie represents a film in the catalog as stored in the `movies`
// table. Genre and Cast are kept as JSON arrays in their columns and
// unpacked by the repository layer.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title of the movie.
//  PosterURL   – URL of the poster image.
//  Genre       – list of genre labels.
//  DurationMin – running time in minutes.
//  Rating      – average rating on a 0-10 scale.
//  Description – synopsis shown on the detail page.
//  Director    – director name.
//  Cast        – list of principal cast names.
//  Status      – catalog status (NOW_SHOWING, COMING_SOON).
//  CreatedAt   – timestamp when the row was created.
//  UpdatedAt   – timestamp of last update.
type Movie struct {
	ID          string    // movies.id
	Title       string    // movies.title
	PosterURL   string    // movies.poster_url
	Genre       []string  // movies.genre (JSON array)
	DurationMin int       // movies.duration_min
	Rating      float64   // movies.rating
	Description string    // movies.description
	Director    string    // movies.director
	Cast        []string  // movies.cast_names (JSON array)
	Status      string    // movies.status
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
