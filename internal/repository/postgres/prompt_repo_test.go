package postgres_test

import (
	"context"
	"testing"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/repository/postgres"
	"github.com/Caltsic/AIourstory-sub001/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPromptRepository_UpdateStatusFromPending(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPromptRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	prompt := testutil.NewPromptBuilder().Build(t, testDB.DB, author)

	updated, err := repo.UpdateStatusFromPending(ctx, prompt.ID, domain.StatusApproved, "")
	require.NoError(t, err)
	assert.True(t, updated)

	// The guard refuses to move a row that already left pending.
	updated, err = repo.UpdateStatusFromPending(ctx, prompt.ID, domain.StatusRejected, "changed my mind")
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := repo.GetByID(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Empty(t, got.RejectReason)

	// Unknown id is zero rows, not an error.
	updated, err = repo.UpdateStatusFromPending(ctx, uuid.New(), domain.StatusApproved, "")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestPromptRepository_LikeDuplicate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPromptRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fan, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	prompt := testutil.NewPromptBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)

	require.NoError(t, repo.Like(ctx, fan.ID, prompt.ID))

	err := repo.Like(ctx, fan.ID, prompt.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The failed insert rolled back, so the counter stays at one.
	got, err := repo.GetByID(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)
}

func TestPromptRepository_RecordDownload(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPromptRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fan, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	prompt := testutil.NewPromptBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)

	first, err := repo.RecordDownload(ctx, fan.ID, prompt.ID)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = repo.RecordDownload(ctx, fan.ID, prompt.ID)
	require.NoError(t, err)
	assert.False(t, first)

	got, err := repo.GetByID(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.DownloadCount)
}

func TestLikeDedupIsPerKind(t *testing.T) {
	testDB := testutil.NewTestDB(t)

	fan, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	targetID := uuid.New()

	// The same user liking a prompt and a story that share an id must be two
	// distinct rows; only a repeat of the same kind conflicts.
	first := &domain.SubmissionLike{ID: uuid.New(), UserID: fan.ID, TargetKind: domain.KindPrompt, TargetID: targetID}
	require.NoError(t, testDB.DB.Create(first).Error)

	otherKind := &domain.SubmissionLike{ID: uuid.New(), UserID: fan.ID, TargetKind: domain.KindStory, TargetID: targetID}
	assert.NoError(t, testDB.DB.Create(otherKind).Error)

	repeat := &domain.SubmissionLike{ID: uuid.New(), UserID: fan.ID, TargetKind: domain.KindPrompt, TargetID: targetID}
	assert.ErrorIs(t, testDB.DB.Create(repeat).Error, gorm.ErrDuplicatedKey)
}

func TestPromptRepository_ListByStatusOrdering(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPromptRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	for i := 0; i < 3; i++ {
		testutil.NewPromptBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)
	}
	testutil.NewPromptBuilder().Build(t, testDB.DB, author)

	prompts, err := repo.ListByStatus(ctx, domain.StatusApproved, 2, 0)
	require.NoError(t, err)
	assert.Len(t, prompts, 2)
	for _, p := range prompts {
		assert.Equal(t, domain.StatusApproved, p.Status)
		require.NotNil(t, p.Author, "author preloaded for listings")
	}

	rest, err := repo.ListByStatus(ctx, domain.StatusApproved, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
