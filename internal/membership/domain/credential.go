package domain

import "time"

// Credential is a login credential held by the built-in identity driver.
// Deployments using an external identity provider never persist these.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
