package domain

import (
	"errors"
	"time"
)

// User is the site author. There is a single account, created on first
// boot from configuration; it exists only to gate draft visibility.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Validate() error {
	if len(u.Username) < 3 {
		return errors.New("username too short")
	}
	return nil
}
