package models

import "time"

// User is an account that can obtain API tokens. Email is unique and stored lower-cased;
// only the bcrypt hash of the password is kept.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
