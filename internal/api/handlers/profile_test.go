package handlers_test

import (
	"net/http"
	"testing"

	"github.com/Caltsic/AIourstory-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileBody struct {
	UUID       string  `json:"uuid"`
	Username   *string `json:"username"`
	Nickname   string  `json:"nickname"`
	AvatarSeed string  `json:"avatarSeed"`
	Role       string  `json:"role"`
	IsBound    bool    `json:"isBound"`
}

func TestProfile_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().WithNickname("Maya").Build(t, ts.DB.DB)
	token := ts.AccessToken(t, user)

	resp := ts.DoJSON(t, http.MethodGet, "/profile", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got profileBody
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, user.ID.String(), got.UUID)
	assert.Equal(t, "Maya", got.Nickname)
	assert.True(t, got.IsBound)
	assert.Equal(t, "user", got.Role)

	resp = ts.DoJSON(t, http.MethodGet, "/profile", "", nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized)
}

func TestProfile_RefreshTokenIsNotABearerCredential(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	refresh, err := ts.Services.Token.SignRefreshToken(user.ID)
	require.NoError(t, err)

	resp := ts.DoJSON(t, http.MethodGet, "/profile", refresh, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized)
}

func TestProfile_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	token := ts.AccessToken(t, user)

	resp := ts.DoJSON(t, http.MethodPatch, "/profile", token, map[string]string{
		"nickname": "Renamed",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got profileBody
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, "Renamed", got.Nickname)
	assert.Equal(t, user.AvatarSeed, got.AvatarSeed)

	// An empty patch is an error, not a no-op.
	resp = ts.DoJSON(t, http.MethodPatch, "/profile", token, map[string]string{})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest)
}
