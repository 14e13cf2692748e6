package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Caltsic/AIourstory-sub001/internal/config"
	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/repository"
	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	users        repository.UserRepository
	verification *VerificationService
	tokens       *TokenService
	cfg          *config.Config
}

func NewAccountService(users repository.UserRepository, verification *VerificationService, tokens *TokenService, cfg *config.Config) *AccountService {
	return &AccountService{
		users:        users,
		verification: verification,
		tokens:       tokens,
		cfg:          cfg,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Code     string
	Nickname string
	// BindUserID upgrades an existing device account in place when the
	// register request was authenticated.
	BindUserID *uuid.UUID
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// DeviceLogin is the anonymous bootstrap: the same device ID always resolves
// to the same unbound account.
func (s *AccountService) DeviceLogin(ctx context.Context, deviceID string) (*AuthResult, error) {
	user, err := s.users.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		seed := randomHex(8)
		user = &domain.User{
			ID:         uuid.New(),
			DeviceID:   &deviceID,
			Nickname:   "Storyteller-" + seed[:4],
			AvatarSeed: seed,
			Role:       domain.RoleUser,
			IsBound:    false,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			// A concurrent bootstrap for the same device won the race.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return s.DeviceLogin(ctx, deviceID)
			}
			return nil, err
		}
	}
	return s.issueTokens(user)
}

// Register verifies the email code and creates a bound account, or binds the
// caller's existing device account when BindUserID is set.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := passwordvalidator.Validate(input.Password, s.cfg.MinPasswordEntropy); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWeakPassword, err)
	}

	if err := s.verification.VerifyCode(ctx, input.Email, domain.PurposeRegister, input.Code); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	if input.BindUserID != nil {
		user, err = s.users.GetByID(ctx, *input.BindUserID)
		if err != nil {
			return nil, err
		}
		if user.IsBound {
			return nil, domain.ErrEmailTaken
		}
	} else {
		user = &domain.User{
			ID:         uuid.New(),
			Nickname:   "Storyteller-" + randomHex(2),
			AvatarSeed: randomHex(8),
			Role:       domain.RoleUser,
			CreatedAt:  time.Now(),
		}
	}

	username := usernameFromEmail(input.Email)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		username = username + "-" + randomHex(2)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := input.Email
	hashStr := string(hash)
	user.Username = &username
	user.Email = &email
	user.PasswordHash = &hashStr
	user.IsBound = true
	if input.Nickname != "" {
		user.Nickname = input.Nickname
	}
	user.UpdatedAt = time.Now()

	if input.BindUserID != nil {
		err = s.users.Update(ctx, user)
	} else {
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// Login reports the same error for an unknown username and a wrong password
// so callers cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *AccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := passwordvalidator.Validate(newPassword, s.cfg.MinPasswordEntropy); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWeakPassword, err)
	}

	if err := s.verification.VerifyCode(ctx, email, domain.PurposeReset, code); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if !user.IsBound {
		return domain.ErrAccountNotBound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}

// Refresh mints a fresh token pair from a valid refresh token. The user is
// reloaded so the new access token carries current role/bound claims. The
// old refresh token is not revoked; it stays valid until natural expiry.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(user)
}

type ProfileUpdate struct {
	Nickname   *string
	AvatarSeed *string
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if update.Nickname != nil {
		user.Nickname = *update.Nickname
	}
	if update.AvatarSeed != nil {
		user.AvatarSeed = *update.AvatarSeed
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) issueTokens(user *domain.User) (*AuthResult, error) {
	accessToken, err := s.tokens.SignAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.SignRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func usernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	return strings.ToLower(local)
}

func randomHex(bytes int) string {
	buf := make([]byte, bytes)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
