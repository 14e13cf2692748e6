package service

import (
	"context"
	"errors"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ModerationService struct {
	prompts repository.PromptRepository
	stories repository.StoryRepository
}

func NewModerationService(prompts repository.PromptRepository, stories repository.StoryRepository) *ModerationService {
	return &ModerationService{prompts: prompts, stories: stories}
}

func (s *ModerationService) ListPendingPrompts(ctx context.Context, page, pageSize int) ([]*domain.Prompt, error) {
	limit, offset := pagination(page, pageSize)
	return s.prompts.ListByStatus(ctx, domain.StatusPending, limit, offset)
}

func (s *ModerationService) ListPendingStories(ctx context.Context, page, pageSize int) ([]*domain.Story, error) {
	limit, offset := pagination(page, pageSize)
	return s.stories.ListByStatus(ctx, domain.StatusPending, limit, offset)
}

func (s *ModerationService) Approve(ctx context.Context, kind domain.SubmissionKind, id uuid.UUID) error {
	return s.transition(ctx, kind, id, domain.StatusApproved, "")
}

func (s *ModerationService) Reject(ctx context.Context, kind domain.SubmissionKind, id uuid.UUID, reason string) error {
	return s.transition(ctx, kind, id, domain.StatusRejected, reason)
}

// transition moves pending → approved|rejected. Approved and rejected are
// terminal: a second transition is ErrAlreadyModerated, never a silent
// no-op, and the guarded UPDATE keeps concurrent admins from racing past
// that.
func (s *ModerationService) transition(ctx context.Context, kind domain.SubmissionKind, id uuid.UUID, status domain.SubmissionStatus, reason string) error {
	var (
		updated bool
		err     error
	)
	switch kind {
	case domain.KindPrompt:
		updated, err = s.prompts.UpdateStatusFromPending(ctx, id, status, reason)
	case domain.KindStory:
		updated, err = s.stories.UpdateStatusFromPending(ctx, id, status, reason)
	default:
		return domain.ErrSubmissionNotFound
	}
	if err != nil {
		return err
	}
	if updated {
		log.Info().
			Str("kind", string(kind)).
			Str("id", id.String()).
			Str("status", string(status)).
			Msg("submission moderated")
		return nil
	}

	// Zero rows: either the submission is missing or it already left
	// pending.
	switch kind {
	case domain.KindPrompt:
		_, err = s.prompts.GetByID(ctx, id)
	case domain.KindStory:
		_, err = s.stories.GetByID(ctx, id)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrSubmissionNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrAlreadyModerated
}
