package handlers_test

import (
	"net/http"
	"testing"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_CreateAndDuplicate(t *testing.T) {
	ts := testutil.NewTestServer(t)

	author, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	reporter, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	token := ts.AccessToken(t, reporter)
	prompt := testutil.NewPromptBuilder().WithStatus(domain.StatusApproved).Build(t, ts.DB.DB, author)

	body := map[string]string{
		"targetType": "prompt",
		"targetUuid": prompt.ID.String(),
		"reasonType": "spam",
		"reasonText": "selling watches",
	}

	resp := ts.DoJSON(t, http.MethodPost, "/reports", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool   `json:"success"`
		UUID    string `json:"uuid"`
	}
	testutil.AssertJSONResponse(t, resp, &created)
	resp.Body.Close()
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.UUID)

	// The same reporter cannot file the same target twice.
	resp = ts.DoJSON(t, http.MethodPost, "/reports", token, body)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusConflict)

	// Device accounts can report too; they just cannot submit.
	device, _ := testutil.NewUserBuilder().AsDevice("device-reporter").Build(t, ts.DB.DB)
	resp = ts.DoJSON(t, http.MethodPost, "/reports", ts.AccessToken(t, device), body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReport_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	reporter, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	token := ts.AccessToken(t, reporter)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{
			name: "unknown target type",
			body: map[string]string{"targetType": "comment", "targetUuid": uuid.New().String(), "reasonType": "spam"},
			want: http.StatusBadRequest,
		},
		{
			name: "missing reason type",
			body: map[string]string{"targetType": "prompt", "targetUuid": uuid.New().String()},
			want: http.StatusBadRequest,
		},
		{
			name: "bad uuid",
			body: map[string]string{"targetType": "prompt", "targetUuid": "xyz", "reasonType": "spam"},
			want: http.StatusBadRequest,
		},
		{
			name: "target does not exist",
			body: map[string]string{"targetType": "story", "targetUuid": uuid.New().String(), "reasonType": "spam"},
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.DoJSON(t, http.MethodPost, "/reports", token, tt.body)
			defer resp.Body.Close()
			testutil.AssertErrorResponse(t, resp, tt.want)
		})
	}
}
