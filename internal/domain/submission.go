package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

type SubmissionKind string

const (
	KindPrompt SubmissionKind = "prompt"
	KindStory  SubmissionKind = "story"
)

func (k SubmissionKind) Valid() bool {
	return k == KindPrompt || k == KindStory
}

// Prompt is a shareable AI prompt preset submitted to the plaza. Params holds
// the model parameters and tags as an opaque JSON document.
type Prompt struct {
	ID            uuid.UUID        `json:"uuid" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID      uuid.UUID        `json:"-" gorm:"type:uuid;not null;index"`
	Author        *User            `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Title         string           `json:"title" gorm:"not null"`
	Description   string           `json:"description"`
	Params        datatypes.JSON   `json:"params"`
	Status        SubmissionStatus `json:"status" gorm:"not null;default:pending;index"`
	RejectReason  string           `json:"rejectReason,omitempty"`
	LikeCount     int64            `json:"likeCount" gorm:"not null;default:0"`
	DownloadCount int64            `json:"downloadCount" gorm:"not null;default:0"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Story is a finished interactive story shared to the plaza. Content holds
// the scene graph as JSON.
type Story struct {
	ID            uuid.UUID        `json:"uuid" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID      uuid.UUID        `json:"-" gorm:"type:uuid;not null;index"`
	Author        *User            `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Title         string           `json:"title" gorm:"not null"`
	Summary       string           `json:"summary"`
	Content       datatypes.JSON   `json:"content"`
	Status        SubmissionStatus `json:"status" gorm:"not null;default:pending;index"`
	RejectReason  string           `json:"rejectReason,omitempty"`
	LikeCount     int64            `json:"likeCount" gorm:"not null;default:0"`
	DownloadCount int64            `json:"downloadCount" gorm:"not null;default:0"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// SubmissionLike dedups likes per user; the unique index is the guard against
// double-count races, not application logic.
type SubmissionLike struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_target"`
	TargetKind SubmissionKind `gorm:"not null;uniqueIndex:idx_like_user_target"`
	TargetID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_target"`
	CreatedAt  time.Time
}

type SubmissionDownload struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_download_user_target"`
	TargetKind SubmissionKind `gorm:"not null;uniqueIndex:idx_download_user_target"`
	TargetID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_download_user_target"`
	CreatedAt  time.Time
}
