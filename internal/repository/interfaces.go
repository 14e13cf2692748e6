package repository

import (
	"context"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type VerificationCodeRepository interface {
	// Replace atomically swaps out any prior code for (email, purpose).
	Replace(ctx context.Context, code *domain.EmailVerificationCode) error
	Get(ctx context.Context, email string, purpose domain.CodePurpose) (*domain.EmailVerificationCode, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PromptRepository interface {
	Create(ctx context.Context, prompt *domain.Prompt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error)
	ListByStatus(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.Prompt, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Prompt, error)
	// UpdateStatusFromPending reports whether a pending row was transitioned.
	UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reason string) (bool, error)
	Like(ctx context.Context, userID, id uuid.UUID) error
	RecordDownload(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type StoryRepository interface {
	Create(ctx context.Context, story *domain.Story) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error)
	ListByStatus(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.Story, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Story, error)
	UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reason string) (bool, error)
	Like(ctx context.Context, userID, id uuid.UUID) error
	RecordDownload(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.ContentReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentReport, error)
}

type Repositories struct {
	User   UserRepository
	Code   VerificationCodeRepository
	Prompt PromptRepository
	Story  StoryRepository
	Report ReportRepository
}
