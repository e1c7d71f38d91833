package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// returned to clients.
type User struct {
	ID           string    `db:"id"`
	UserName     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
