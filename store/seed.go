package store

import (
	"context"

	"github.com/pkg/errors"
)

// sampleUsers is the fixed bootstrap data set.
var sampleUsers = []User{
	{Name: "Alice Johnson", Email: "alice@example.com", Age: 28},
	{Name: "Bob Smith", Email: "bob@example.com", Age: 34},
	{Name: "Charlie Brown", Email: "charlie@example.com", Age: 22},
	{Name: "Diana Wilson", Email: "diana@example.com", Age: 31},
	{Name: "Eve Davis", Email: "eve@example.com", Age: 26},
}

// Seed inserts the sample rows when the table is empty and reports how many
// were inserted. Calling it on every startup is safe.
func (s *Store) Seed(ctx context.Context) (int, error) {
	count, err := s.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	// Insert copies so the package-level slice never carries assigned ids.
	users := make([]*User, len(sampleUsers))
	for i := range sampleUsers {
		u := sampleUsers[i]
		users[i] = &u
	}
	if _, err := s.db.NewInsert().Model(&users).Exec(ctx); err != nil {
		return 0, errors.Wrap(err, "store: seed users")
	}
	return len(users), nil
}
