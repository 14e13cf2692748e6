package service_test

import (
	"context"
	"testing"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/ratelimit"
	"github.com/Caltsic/AIourstory-sub001/internal/repository/postgres"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/Caltsic/AIourstory-sub001/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	accounts *service.AccountService
	services *service.Services
	db       *testutil.TestDB
	mailer   *testutil.FakeMailer
	ctx      context.Context
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	_, client := testutil.NewTestRedis(t)
	cfg := testutil.TestConfig()
	mailer := testutil.NewFakeMailer()

	repos := postgres.NewRepositories(testDB.DB)
	budget := ratelimit.NewSendBudget(client, cfg.SendCooldown, cfg.DailySendLimit)
	services := service.NewServices(repos, budget, mailer, cfg)

	return &accountFixture{
		accounts: services.Account,
		services: services,
		db:       testDB,
		mailer:   mailer,
		ctx:      context.Background(),
	}
}

func (f *accountFixture) sendCode(t *testing.T, email string, purpose domain.CodePurpose) string {
	t.Helper()
	require.NoError(t, f.services.Verification.SendCode(f.ctx, email, purpose))
	return f.mailer.LastCode()
}

func TestAccountService_DeviceLogin(t *testing.T) {
	f := newAccountFixture(t)

	first, err := f.accounts.DeviceLogin(f.ctx, "device-abc")
	require.NoError(t, err)
	assert.False(t, first.User.IsBound)
	assert.Equal(t, domain.RoleUser, first.User.Role)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)
	assert.NotEmpty(t, first.User.Nickname)

	// The same device resolves to the same account.
	second, err := f.accounts.DeviceLogin(f.ctx, "device-abc")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	other, err := f.accounts.DeviceLogin(f.ctx, "device-xyz")
	require.NoError(t, err)
	assert.NotEqual(t, first.User.ID, other.User.ID)
}

func TestAccountService_Register(t *testing.T) {
	f := newAccountFixture(t)

	code := f.sendCode(t, "alice@example.com", domain.PurposeRegister)

	result, err := f.accounts.Register(f.ctx, service.RegisterInput{
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
		Code:     code,
		Nickname: "Alice",
	})
	require.NoError(t, err)

	assert.True(t, result.User.IsBound)
	assert.Equal(t, "Alice", result.User.Nickname)
	require.NotNil(t, result.User.Username)
	assert.Equal(t, "alice", *result.User.Username)
	require.NotNil(t, result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// The access token carries the bound claim.
	claims, err := f.services.Token.VerifyAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsBound)
}

func TestAccountService_RegisterBindsDeviceAccount(t *testing.T) {
	f := newAccountFixture(t)

	device, err := f.accounts.DeviceLogin(f.ctx, "device-abc")
	require.NoError(t, err)

	code := f.sendCode(t, "bob@example.com", domain.PurposeRegister)
	bindID := device.User.ID
	result, err := f.accounts.Register(f.ctx, service.RegisterInput{
		Email:      "bob@example.com",
		Password:   "correct horse battery staple",
		Code:       code,
		BindUserID: &bindID,
	})
	require.NoError(t, err)

	// Same identity, now bound.
	assert.Equal(t, device.User.ID, result.User.ID)
	assert.True(t, result.User.IsBound)
}

func TestAccountService_RegisterFailures(t *testing.T) {
	f := newAccountFixture(t)

	existing, _ := testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, f.db.DB)
	_ = existing

	tests := []struct {
		name     string
		email    string
		password string
		code     func(t *testing.T) string
		wantErr  error
	}{
		{
			name:     "weak password",
			email:    "weak@example.com",
			password: "123",
			code:     func(t *testing.T) string { return "000000" },
			wantErr:  domain.ErrWeakPassword,
		},
		{
			name:     "wrong code",
			email:    "wrongcode@example.com",
			password: "correct horse battery staple",
			code: func(t *testing.T) string {
				f.sendCode(t, "wrongcode@example.com", domain.PurposeRegister)
				return "000000"
			},
			wantErr: domain.ErrCodeInvalid,
		},
		{
			name:     "no code requested",
			email:    "nocode@example.com",
			password: "correct horse battery staple",
			code:     func(t *testing.T) string { return "123456" },
			wantErr:  domain.ErrCodeNotFound,
		},
		{
			name:     "email already bound",
			email:    "taken@example.com",
			password: "correct horse battery staple",
			code: func(t *testing.T) string {
				return f.sendCode(t, "taken@example.com", domain.PurposeRegister)
			},
			wantErr: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.Register(f.ctx, service.RegisterInput{
				Email:    tt.email,
				Password: tt.password,
				Code:     tt.code(t),
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	f := newAccountFixture(t)

	user, rawPassword := testutil.NewUserBuilder().WithUsername("loginuser").Build(t, f.db.DB)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "successful login", username: "loginuser", password: rawPassword},
		{name: "wrong password", username: "loginuser", password: "wrongpassword", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown user", username: "nonexistent", password: "anypassword", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.accounts.Login(f.ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAccountService_ResetPassword(t *testing.T) {
	f := newAccountFixture(t)

	_, oldPassword := testutil.NewUserBuilder().
		WithUsername("resetuser").
		WithEmail("reset@example.com").
		Build(t, f.db.DB)

	code := f.sendCode(t, "reset@example.com", domain.PurposeReset)
	require.NoError(t, f.accounts.ResetPassword(f.ctx, "reset@example.com", code, "an even stronger passphrase"))

	// Old password no longer works, new one does.
	_, err := f.accounts.Login(f.ctx, "resetuser", oldPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.accounts.Login(f.ctx, "resetuser", "an even stronger passphrase")
	assert.NoError(t, err)
}

func TestAccountService_ResetPasswordUnknownEmail(t *testing.T) {
	f := newAccountFixture(t)

	code := f.sendCode(t, "ghost@example.com", domain.PurposeReset)
	err := f.accounts.ResetPassword(f.ctx, "ghost@example.com", code, "an even stronger passphrase")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAccountService_Refresh(t *testing.T) {
	f := newAccountFixture(t)

	result, err := f.accounts.DeviceLogin(f.ctx, "device-abc")
	require.NoError(t, err)

	refreshed, err := f.accounts.Refresh(f.ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	// An access token is not a substitute for a refresh token.
	_, err = f.accounts.Refresh(f.ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.accounts.Refresh(f.ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAccountService_UpdateProfile(t *testing.T) {
	f := newAccountFixture(t)

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	nickname := "New Nick"
	updated, err := f.accounts.UpdateProfile(f.ctx, user.ID, service.ProfileUpdate{Nickname: &nickname})
	require.NoError(t, err)
	assert.Equal(t, "New Nick", updated.Nickname)
	assert.Equal(t, user.AvatarSeed, updated.AvatarSeed, "avatar seed untouched by partial update")

	seed := "fresh-seed"
	updated, err = f.accounts.UpdateProfile(f.ctx, user.ID, service.ProfileUpdate{AvatarSeed: &seed})
	require.NoError(t, err)
	assert.Equal(t, "fresh-seed", updated.AvatarSeed)
	assert.Equal(t, "New Nick", updated.Nickname)

	_, err = f.accounts.UpdateProfile(f.ctx, uuid.New(), service.ProfileUpdate{Nickname: &nickname})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
