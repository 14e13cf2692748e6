package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentReport is unique per (reporter, target); a duplicate report is a
// conflict, not a silent no-op.
type ContentReport struct {
	ID         uuid.UUID      `json:"uuid" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ReporterID uuid.UUID      `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_report_reporter_target"`
	TargetKind SubmissionKind `json:"targetType" gorm:"not null"`
	TargetID   uuid.UUID      `json:"targetUuid" gorm:"type:uuid;not null;uniqueIndex:idx_report_reporter_target"`
	ReasonType string         `json:"reasonType" gorm:"not null"`
	ReasonText string         `json:"reasonText"`
	CreatedAt  time.Time      `json:"createdAt"`
}
