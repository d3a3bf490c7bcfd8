package location

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL location repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a saved location by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*SavedLocation, error) {
	query := `
		SELECT location_id, name, lat, lng, notes, created_at, updated_at
		FROM saved_locations
		WHERE location_id = $1
	`

	var loc SavedLocation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Lat,
		&loc.Lng,
		&loc.Notes,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	return &loc, nil
}

// List returns all saved locations ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]SavedLocation, error) {
	query := `
		SELECT location_id, name, lat, lng, notes, created_at, updated_at
		FROM saved_locations
		ORDER BY created_at, location_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedLocation
	for rows.Next() {
		var loc SavedLocation
		if err := rows.Scan(
			&loc.ID,
			&loc.Name,
			&loc.Lat,
			&loc.Lng,
			&loc.Notes,
			&loc.CreatedAt,
			&loc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// Create persists a new saved location.
func (r *PostgresRepository) Create(ctx context.Context, loc *SavedLocation) error {
	query := `
		INSERT INTO saved_locations (location_id, name, lat, lng, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		loc.ID,
		loc.Name,
		loc.Lat,
		loc.Lng,
		loc.Notes,
		loc.CreatedAt,
		loc.UpdatedAt,
	)
	return err
}

// Update updates an existing saved location.
func (r *PostgresRepository) Update(ctx context.Context, loc *SavedLocation) error {
	query := `
		UPDATE saved_locations SET
			name = $2,
			lat = $3,
			lng = $4,
			notes = $5,
			updated_at = $6
		WHERE location_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		loc.ID,
		loc.Name,
		loc.Lat,
		loc.Lng,
		loc.Notes,
		loc.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrLocationNotFound
	}

	return nil
}

// Delete removes a saved location.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM saved_locations WHERE location_id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrLocationNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
