package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venue is a bookable space listed by its owner.  Inactive venues stay
// in the catalog for existing bookings but accept no new ones.
//
// Fields:
//  ID           - primary key identifier.
//  OwnerID      - user who listed the venue.
//  Name         - display name.
//  Description  - free-form description.
//  City         - city used for catalog filtering.
//  Address      - street address.
//  Capacity     - maximum headcount.
//  PricePerHour - rental price per hour.
//  IsActive     - whether new bookings are accepted.
//  CreatedAt    - creation timestamp.
//  UpdatedAt    - last update timestamp.
type Venue struct {
	ID           uint64          `json:"id"`
	OwnerID      uint64          `json:"owner_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	City         string          `json:"city"`
	Address      string          `json:"address"`
	Capacity     uint32          `json:"capacity"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
