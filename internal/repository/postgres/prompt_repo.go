package postgres

import (
	"context"
	"errors"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type promptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *promptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

func (r *promptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error) {
	var prompt domain.Prompt
	err := r.db.WithContext(ctx).Preload("Author").First(&prompt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) ListByStatus(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.Prompt, error) {
	var prompts []*domain.Prompt
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Prompt, error) {
	var prompts []*domain.Prompt
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&prompts).Error
	return prompts, err
}

// UpdateStatusFromPending is the moderation transition. The status guard in
// the WHERE clause makes pending the only state that can move, even under
// concurrent admin requests.
func (r *promptRepository) UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Prompt{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"reject_reason": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *promptRepository) Like(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &domain.SubmissionLike{
			ID:         uuid.New(),
			UserID:     userID,
			TargetKind: domain.KindPrompt,
			TargetID:   id,
		}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Prompt{}).
			Where("id = ?", id).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

// RecordDownload reports whether this was the user's first download; the
// counter only moves on the first one.
func (r *promptRepository) RecordDownload(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	first := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		download := &domain.SubmissionDownload{
			ID:         uuid.New(),
			UserID:     userID,
			TargetKind: domain.KindPrompt,
			TargetID:   id,
		}
		if err := tx.Create(download).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		first = true
		return tx.Model(&domain.Prompt{}).
			Where("id = ?", id).
			UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
	})
	return first, err
}
