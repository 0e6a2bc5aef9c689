package store

import "time"

// User is an account row. The table normally holds exactly one row, the site
// owner seeded at startup; the model still carries a role column so a second
// editor can be added without a migration.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
