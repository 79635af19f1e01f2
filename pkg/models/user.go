package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `bun:",nullzero" json:"email"`
	Name         string    `bun:",nullzero" json:"name"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Role         string    `bun:",nullzero" json:"role"`

	AvatarKey      *string `json:"-"`
	AvatarMimeType *string `json:"-"`
	HasAvatar      bool    `bun:"-" json:"has_avatar"`
}

var _ bun.AfterScanRowHook = (*User)(nil)

func (u *User) AfterScanRow(_ context.Context) error {
	u.HasAvatar = u.AvatarKey != nil && *u.AvatarKey != ""
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LoginEvent is written on every successful login and feeds the admin stats.
type LoginEvent struct {
	bun.BaseModel `bun:"table:user_logins,alias:ul"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `bun:",notnull" json:"user_id"`
}
