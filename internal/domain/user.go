package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User starts life as an anonymous device account (IsBound=false) and may
// later be bound to a username/password. Username, Email and PasswordHash are
// nil until then.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DeviceID     *string   `json:"-" gorm:"uniqueIndex"`
	Username     *string   `json:"username" gorm:"uniqueIndex"`
	Email        *string   `json:"-" gorm:"uniqueIndex"`
	Nickname     string    `json:"nickname" gorm:"not null"`
	AvatarSeed   string    `json:"avatarSeed" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;default:user"`
	IsBound      bool      `json:"isBound" gorm:"not null;default:false"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
