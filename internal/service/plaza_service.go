package service

import (
	"context"
	"errors"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PlazaService struct {
	prompts repository.PromptRepository
	stories repository.StoryRepository
}

func NewPlazaService(prompts repository.PromptRepository, stories repository.StoryRepository) *PlazaService {
	return &PlazaService{prompts: prompts, stories: stories}
}

type SubmitPromptInput struct {
	Title       string
	Description string
	Params      datatypes.JSON
}

type SubmitStoryInput struct {
	Title   string
	Summary string
	Content datatypes.JSON
}

func (s *PlazaService) SubmitPrompt(ctx context.Context, authorID uuid.UUID, input SubmitPromptInput) (*domain.Prompt, error) {
	prompt := &domain.Prompt{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       input.Title,
		Description: input.Description,
		Params:      input.Params,
		Status:      domain.StatusPending,
	}
	if err := s.prompts.Create(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *PlazaService) SubmitStory(ctx context.Context, authorID uuid.UUID, input SubmitStoryInput) (*domain.Story, error) {
	story := &domain.Story{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    input.Title,
		Summary:  input.Summary,
		Content:  input.Content,
		Status:   domain.StatusPending,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Public listings only ever show approved items; pending and rejected rows
// stay visible to their author through Mine.
func (s *PlazaService) ListApprovedPrompts(ctx context.Context, page, pageSize int) ([]*domain.Prompt, error) {
	limit, offset := pagination(page, pageSize)
	return s.prompts.ListByStatus(ctx, domain.StatusApproved, limit, offset)
}

func (s *PlazaService) ListApprovedStories(ctx context.Context, page, pageSize int) ([]*domain.Story, error) {
	limit, offset := pagination(page, pageSize)
	return s.stories.ListByStatus(ctx, domain.StatusApproved, limit, offset)
}

type MineResult struct {
	Prompts []*domain.Prompt
	Stories []*domain.Story
}

func (s *PlazaService) ListMine(ctx context.Context, authorID uuid.UUID) (*MineResult, error) {
	prompts, err := s.prompts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	stories, err := s.stories.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return &MineResult{Prompts: prompts, Stories: stories}, nil
}

func (s *PlazaService) Like(ctx context.Context, userID uuid.UUID, kind domain.SubmissionKind, id uuid.UUID) error {
	if err := s.exists(ctx, kind, id); err != nil {
		return err
	}
	var err error
	switch kind {
	case domain.KindPrompt:
		err = s.prompts.Like(ctx, userID, id)
	case domain.KindStory:
		err = s.stories.Like(ctx, userID, id)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyLiked
	}
	return err
}

// Download records the fetch; only the first download per user moves the
// counter and repeats are not an error.
func (s *PlazaService) Download(ctx context.Context, userID uuid.UUID, kind domain.SubmissionKind, id uuid.UUID) error {
	if err := s.exists(ctx, kind, id); err != nil {
		return err
	}
	var err error
	switch kind {
	case domain.KindPrompt:
		_, err = s.prompts.RecordDownload(ctx, userID, id)
	case domain.KindStory:
		_, err = s.stories.RecordDownload(ctx, userID, id)
	}
	return err
}

func (s *PlazaService) exists(ctx context.Context, kind domain.SubmissionKind, id uuid.UUID) error {
	var err error
	switch kind {
	case domain.KindPrompt:
		_, err = s.prompts.GetByID(ctx, id)
	case domain.KindStory:
		_, err = s.stories.GetByID(ctx, id)
	default:
		return domain.ErrSubmissionNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrSubmissionNotFound
	}
	return err
}

func pagination(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
