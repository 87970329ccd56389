package store

import "context"

// User is a registered chat.
type User struct {
	ID           int64
	UserID       int64
	RegisteredAt int64
}

func userFromRecord(r Record) User {
	var u User
	u.ID, _ = r.Int64("id")
	u.UserID, _ = r.Int64("user_id")
	u.RegisteredAt, _ = r.Int64("registered_at")
	return u
}

// GetUser returns the user with the given external id; ok is false
// when they are not registered.
func (s *Store) GetUser(ctx context.Context, userID int64) (User, bool, error) {
	r, err := s.Select(ctx, TableUsers, Predicate{"user_id": userID})
	if err != nil {
		return User{}, false, err
	}
	if r.Empty() {
		return User{}, false, nil
	}
	return userFromRecord(r), true, nil
}

// UserRegistered reports whether the external id has a users row.
func (s *Store) UserRegistered(ctx context.Context, userID int64) (bool, error) {
	records, err := s.SelectAll(ctx, TableUsers, Predicate{"user_id": userID})
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// AddUser registers an external id and returns the generated row id.
func (s *Store) AddUser(ctx context.Context, userID int64) (int64, error) {
	return s.Insert(ctx, TableUsers, map[string]any{
		"user_id":       userID,
		"registered_at": s.cal.Timestamp(),
	})
}

// DeleteUser removes a registration.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	return s.Delete(ctx, TableUsers, Predicate{"user_id": userID})
}
