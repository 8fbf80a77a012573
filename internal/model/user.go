// Package model defines the data structures stored by the application.
// Each struct maps to one logical table; cross-entity references are by
// opaque string id with no foreign-key enforcement; each service
// validates the references it cares about on demand.
package model

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	ProfileMedia string    `json:"profileMedia"` // media URL, may be empty
	BirthDate    string    `json:"birthDate"`    // YYYY-MM-DD, informational only
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Applause is a user's running reputation score. Exactly one record per
// user; the value is a running sum and may go negative.
type Applause struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Restriction holds a user's role flags, derived from a free-text role
// list at create/edit time. Exactly one record per user.
type Restriction struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Actor           bool      `json:"actor"`
	CastingDirector bool      `json:"castingDirector"`
	Admin           bool      `json:"admin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Role names recognized when deriving restriction flags.
const (
	RoleActor           = "actor"
	RoleCastingDirector = "casting director"
	RoleAdmin           = "admin"
)
