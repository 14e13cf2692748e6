package domain

import (
	"time"

	"github.com/google/uuid"
)

type CodePurpose string

const (
	PurposeRegister CodePurpose = "register"
	PurposeReset    CodePurpose = "reset"
)

func (p CodePurpose) Valid() bool {
	return p == PurposeRegister || p == PurposeReset
}

// EmailVerificationCode holds at most one active code per (email, purpose);
// a new send replaces the prior row. Only the bcrypt hash of the code is
// stored. Cooldown and daily-send counters live in Redis, not here.
type EmailVerificationCode struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string      `gorm:"not null;uniqueIndex:idx_code_email_purpose"`
	Purpose   CodePurpose `gorm:"not null;uniqueIndex:idx_code_email_purpose"`
	CodeHash  string      `gorm:"not null"`
	Attempts  int         `gorm:"not null;default:0"`
	ExpiresAt time.Time   `gorm:"not null"`
	CreatedAt time.Time
}

func (c *EmailVerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
