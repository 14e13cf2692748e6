package postgres

import (
	"context"
	"errors"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *storyRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *domain.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	var story domain.Story
	err := r.db.WithContext(ctx).Preload("Author").First(&story, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) ListByStatus(ctx context.Context, status domain.SubmissionStatus, limit, offset int) ([]*domain.Story, error) {
	var stories []*domain.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Story, error) {
	var stories []*domain.Story
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) UpdateStatusFromPending(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Story{}).
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

func (r *storyRepository) Like(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &domain.SubmissionLike{
			ID:         uuid.New(),
			UserID:     userID,
			TargetKind: domain.KindStory,
			TargetID:   id,
		}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Story{}).
			Where("id = ?", id).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

func (r *storyRepository) RecordDownload(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	first := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		download := &domain.SubmissionDownload{
			ID:         uuid.New(),
			UserID:     userID,
			TargetKind: domain.KindStory,
			TargetID:   id,
		}
		if err := tx.Create(download).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		first = true
		return tx.Model(&domain.Story{}).
			Where("id = ?", id).
			UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
	})
	return first, err
}
