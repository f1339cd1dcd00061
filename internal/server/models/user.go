package models

import "time"

// User is a registered player. Username is already normalized
// (common.NormalizeUsername) and is the identity key.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
