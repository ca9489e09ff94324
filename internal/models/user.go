package models

import "time"

// RoleUser is the only role handed out at registration.
const RoleUser = "USER"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
