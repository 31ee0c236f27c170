package model

import "time"

const (
	RoleNameAdmin = "admin"
	RoleNameUser  = "user"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username" validate:"notblank"`
	Email        string    `db:"email" json:"email" validate:"notblank"`
	PasswordHash string    `db:"password_hash" json:"-" validate:"notblank"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Role struct {
	ID          int64   `db:"id" json:"id"`
	RoleName    string  `db:"role_name" json:"role_name" validate:"notblank"`
	Description *string `db:"description" json:"description,omitempty"`
}

// UserRole links a User to a Role.
type UserRole struct {
	ID     int64 `db:"id" json:"id"`
	UserID int64 `db:"user_id" json:"user_id" validate:"gt=0"`
	RoleID int64 `db:"role_id" json:"role_id" validate:"gt=0"`
}
