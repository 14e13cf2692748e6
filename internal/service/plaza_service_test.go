package service_test

import (
	"context"
	"testing"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/repository/postgres"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/Caltsic/AIourstory-sub001/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newPlazaService(t *testing.T) (*service.PlazaService, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewPlazaService(repos.Prompt, repos.Story), testDB
}

func TestPlazaService_SubmitStartsPending(t *testing.T) {
	svc, testDB := newPlazaService(t)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	prompt, err := svc.SubmitPrompt(ctx, author.ID, service.SubmitPromptInput{
		Title:       "Haunted lighthouse",
		Description: "A keeper who never sleeps",
		Params:      datatypes.JSON([]byte(`{"temperature":0.7}`)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, prompt.Status)
	assert.Zero(t, prompt.LikeCount)
	assert.Zero(t, prompt.DownloadCount)

	story, err := svc.SubmitStory(ctx, author.ID, service.SubmitStoryInput{
		Title:   "The long night",
		Content: datatypes.JSON([]byte(`{"scenes":[{"text":"It began at dusk."}]}`)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, story.Status)
}

func TestPlazaService_PublicListingsOnlyApproved(t *testing.T) {
	svc, testDB := newPlazaService(t)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	approved := testutil.NewPromptBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)
	testutil.NewPromptBuilder().Build(t, testDB.DB, author)
	testutil.NewPromptBuilder().WithStatus(domain.StatusRejected).Build(t, testDB.DB, author)

	prompts, err := svc.ListApprovedPrompts(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, approved.ID, prompts[0].ID)
}

func TestPlazaService_ListMineIncludesAllStatuses(t *testing.T) {
	svc, testDB := newPlazaService(t)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.NewPromptBuilder().Build(t, testDB.DB, author)
	testutil.NewPromptBuilder().WithStatus(domain.StatusRejected).Build(t, testDB.DB, author)
	testutil.NewStoryBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)
	testutil.NewPromptBuilder().Build(t, testDB.DB, other)

	mine, err := svc.ListMine(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, mine.Prompts, 2)
	assert.Len(t, mine.Stories, 1)
}

func TestPlazaService_Like(t *testing.T) {
	svc, testDB := newPlazaService(t)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fanA, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fanB, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	prompt := testutil.NewPromptBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)

	require.NoError(t, svc.Like(ctx, fanA.ID, domain.KindPrompt, prompt.ID))
	require.NoError(t, svc.Like(ctx, fanB.ID, domain.KindPrompt, prompt.ID))

	// A user likes a submission at most once.
	err := svc.Like(ctx, fanA.ID, domain.KindPrompt, prompt.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyLiked)

	var got domain.Prompt
	require.NoError(t, testDB.DB.First(&got, "id = ?", prompt.ID).Error)
	assert.Equal(t, int64(2), got.LikeCount)
}

func TestPlazaService_DownloadRepeatsAreNoops(t *testing.T) {
	svc, testDB := newPlazaService(t)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fan, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	story := testutil.NewStoryBuilder().WithStatus(domain.StatusApproved).Build(t, testDB.DB, author)

	require.NoError(t, svc.Download(ctx, fan.ID, domain.KindStory, story.ID))
	require.NoError(t, svc.Download(ctx, fan.ID, domain.KindStory, story.ID))
	require.NoError(t, svc.Download(ctx, fan.ID, domain.KindStory, story.ID))

	var got domain.Story
	require.NoError(t, testDB.DB.First(&got, "id = ?", story.ID).Error)
	assert.Equal(t, int64(1), got.DownloadCount)
}

func TestPlazaService_UnknownTarget(t *testing.T) {
	svc, testDB := newPlazaService(t)
	ctx := context.Background()

	fan, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	assert.ErrorIs(t, svc.Like(ctx, fan.ID, domain.KindPrompt, uuid.New()), domain.ErrSubmissionNotFound)
	assert.ErrorIs(t, svc.Download(ctx, fan.ID, domain.KindStory, uuid.New()), domain.ErrSubmissionNotFound)
}
