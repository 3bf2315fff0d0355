package userapi

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the persisted user model. The password hash never leaves the
// process; every outward-facing payload goes through UserProjection.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	FirstName    *string   `bun:"first_name" json:"first_name,omitempty"`
	LastName     *string   `bun:"last_name" json:"last_name,omitempty"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// UserProjection is the public shape of a user record.
type UserProjection struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserProjection maps a record to its public projection
func NewUserProjection(user *User) UserProjection {
	return UserProjection{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserProjections maps a collection of records
func NewUserProjections(users []*User) []UserProjection {
	out := make([]UserProjection, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserProjection(user))
	}
	return out
}

// UserPatch carries the subset of mutable fields for a partial update.
// A nil field is left untouched, never nulled.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// IsZero reports whether the patch carries no fields at all
func (p UserPatch) IsZero() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil
}
