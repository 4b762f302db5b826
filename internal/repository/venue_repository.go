package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yagnesh-3/fira/internal/model"
)

// VenueRepo provides persistence for the venue catalog.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, owner_id, name, description, city, address, capacity,
       price_per_hour, is_active, created_at, updated_at`

func scanVenue(row interface {
	Scan(dest ...interface{}) error
}) (*model.Venue, error) {
	var v model.Venue
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Name, &v.Description, &v.City, &v.Address,
		&v.Capacity, &v.PricePerHour, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new venue and populates the generated ID.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues
	   (owner_id, name, description, city, address, capacity, price_per_hour, is_active)
	   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		v.OwnerID, v.Name, v.Description, v.City, v.Address,
		v.Capacity, v.PricePerHour, v.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	created, err := r.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	*v = *created
	return nil
}

// GetByID loads a single venue.  ErrVenueNotFound is returned when no
// row exists for the given ID.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	return v, err
}

// ListActive returns active venues ordered by name, optionally filtered
// by city.  This query backs the cached public catalog endpoint.
func (r *VenueRepo) ListActive(ctx context.Context, city string, limit, offset int) ([]model.Venue, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + venueColumns + ` FROM venues WHERE is_active = 1`
	args := make([]interface{}, 0, 3)
	if city != "" {
		q += ` AND city = ?`
		args = append(args, city)
	}
	q += ` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]model.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, rows.Err()
}
