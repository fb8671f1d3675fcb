package store

import (
	"context"
	"database/sql"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ErrUserNotFound is returned when an operation targets a user id that has no
// row in the store.
var ErrUserNotFound = errors.New("store: user not found")

// User is a row in the users table. The store owns the canonical copy; cached
// serializations are derived state and may be dropped at any time.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id" msgpack:"id"`
	Name  string `bun:"name,notnull" json:"name" msgpack:"name"`
	Email string `bun:"email,notnull,unique" json:"email" msgpack:"email"`
	Age   int    `bun:"age,notnull" json:"age" msgpack:"age"`
}

// UserUpdate is an explicit partial update. Nil fields are left unchanged;
// the updatable set is fixed to name, email and age.
type UserUpdate struct {
	Name  *string
	Email *string
	Age   *int
}

// Validate rejects an empty update and checks each provided field.
func (u UserUpdate) Validate() error {
	if u.Name == nil && u.Email == nil && u.Age == nil {
		return errors.New("store: update requires at least one field")
	}
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&u.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&u.Age, validation.Min(0), validation.Max(150)),
	)
}

// GetUserByID fetches a single user, or ErrUserNotFound.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user := new(User)
	err := s.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "store: get user %d", id)
	}
	return user, nil
}

// ListUsersByAgeRange returns users with age in [minAge, maxAge], ordered by
// id ascending so results are stable across cache and store reads.
func (s *Store) ListUsersByAgeRange(ctx context.Context, minAge, maxAge int) ([]*User, error) {
	var users []*User
	err := s.db.NewSelect().
		Model(&users).
		Where("u.age BETWEEN ? AND ?", minAge, maxAge).
		Order("u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "store: list users aged %d-%d", minAge, maxAge)
	}
	return users, nil
}

// CreateUser inserts a row and returns it with the store-assigned id.
func (s *Store) CreateUser(ctx context.Context, name, email string, age int) (*User, error) {
	user := &User{Name: name, Email: email, Age: age}
	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "store: create user")
	}
	return user, nil
}

// UpdateUser applies the provided fields to the row identified by id and
// returns the updated row. ErrUserNotFound when no row matched.
func (s *Store) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	q := s.db.NewUpdate().Model((*User)(nil)).Where("id = ?", id)
	if update.Name != nil {
		q = q.Set("name = ?", *update.Name)
	}
	if update.Email != nil {
		q = q.Set("email = ?", *update.Email)
	}
	if update.Age != nil {
		q = q.Set("age = ?", *update.Age)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "store: update user %d", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetUserByID(ctx, id)
}

// CountUsers returns the number of rows in the users table.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "store: count users")
	}
	return count, nil
}
