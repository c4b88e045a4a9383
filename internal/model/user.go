package model

import "time"

// User represents a row of the `users` table. The password is only ever
// stored as a bcrypt hash; handlers define their own response types so
// the hash never leaks into JSON output.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, stored lower-cased.
//  Username     – unique display name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
