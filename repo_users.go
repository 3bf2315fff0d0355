package userapi

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the persistence surface for user records.
type Users interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// UsersRepository implements Users on top of bun.
type UsersRepository struct {
	db *bun.DB
}

var _ Users = (*UsersRepository)(nil)

// NewUsersRepository returns a Users backed by the given database handle
func NewUsersRepository(db *bun.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// List returns all users ordered by id.
func (r *UsersRepository) List(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0)
	err := r.db.NewSelect().
		Model(&users).
		Order("usr.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}
	return users, nil
}

// GetByID returns the user with the given id.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("usr.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound(id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}
	return user, nil
}

// GetByEmail returns the user with the given email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("usr.email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithTextCode(TextCodeUserNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}
	return user, nil
}

// Create inserts a new user. A duplicate email surfaces as ErrEmailTaken,
// including the race where the unique index rejects an insert that passed an
// earlier existence check.
func (r *UsersRepository) Create(ctx context.Context, user *User) (*User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}
	return user, nil
}

// Update applies the non-nil fields of patch to the user with the given id
// and returns the fresh record. An empty patch is rejected before touching
// the database.
func (r *UsersRepository) Update(ctx context.Context, id int64, patch UserPatch) (*User, error) {
	if patch.IsZero() {
		return nil, ErrEmptyUpdate
	}

	q := r.db.NewUpdate().
		Model((*User)(nil)).
		Where("usr.id = ?", id).
		Set("updated_at = ?", time.Now())

	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.FirstName != nil {
		q = q.Set("first_name = ?", *patch.FirstName)
	}
	if patch.LastName != nil {
		q = q.Set("last_name = ?", *patch.LastName)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read update result")
	}
	if affected == 0 {
		return nil, errUserNotFound(id)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the user with the given id.
func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("usr.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read delete result")
	}
	if affected == 0 {
		return errUserNotFound(id)
	}
	return nil
}
