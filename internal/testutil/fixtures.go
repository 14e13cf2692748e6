package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	nickname string
	password string
	role     domain.Role
	bound    bool
	deviceID string
}

// NewUserBuilder creates a bound test user by default
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		nickname: "Test User",
		password: "correct horse battery staple",
		role:     domain.RoleUser,
		bound:    true,
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithNickname(nickname string) *UserBuilder {
	b.nickname = nickname
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

// AsDevice makes the user an unbound anonymous device account
func (b *UserBuilder) AsDevice(deviceID string) *UserBuilder {
	b.bound = false
	b.deviceID = deviceID
	return b
}

// Build creates the user in the database and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:         uuid.New(),
		Nickname:   b.nickname,
		AvatarSeed: uuid.New().String()[:8],
		Role:       b.role,
		IsBound:    b.bound,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if b.bound {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		hash := string(hashedPassword)
		user.Username = &b.username
		user.Email = &b.email
		user.PasswordHash = &hash
	} else {
		deviceID := b.deviceID
		if deviceID == "" {
			deviceID = uuid.New().String()
		}
		user.DeviceID = &deviceID
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AccessToken signs an access token for the user via the running services
func (ts *TestServer) AccessToken(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := ts.Services.Token.SignAccessToken(user)
	if err != nil {
		t.Fatalf("failed to sign access token: %v", err)
	}
	return token
}

// PromptBuilder creates test prompts
type PromptBuilder struct {
	title  string
	status domain.SubmissionStatus
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		title:  fmt.Sprintf("Prompt %s", uuid.New().String()[:8]),
		status: domain.StatusPending,
	}
}

func (b *PromptBuilder) WithTitle(title string) *PromptBuilder {
	b.title = title
	return b
}

func (b *PromptBuilder) WithStatus(status domain.SubmissionStatus) *PromptBuilder {
	b.status = status
	return b
}

func (b *PromptBuilder) Build(t *testing.T, db *gorm.DB, author *domain.User) *domain.Prompt {
	t.Helper()

	prompt := &domain.Prompt{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Title:    b.title,
		Params:   datatypes.JSON([]byte(`{"model":"default","temperature":0.8}`)),
		Status:   b.status,
	}
	if err := db.Create(prompt).Error; err != nil {
		t.Fatalf("failed to create prompt: %v", err)
	}
	return prompt
}

// StoryBuilder creates test stories
type StoryBuilder struct {
	title  string
	status domain.SubmissionStatus
}

func NewStoryBuilder() *StoryBuilder {
	return &StoryBuilder{
		title:  fmt.Sprintf("Story %s", uuid.New().String()[:8]),
		status: domain.StatusPending,
	}
}

func (b *StoryBuilder) WithStatus(status domain.SubmissionStatus) *StoryBuilder {
	b.status = status
	return b
}

func (b *StoryBuilder) Build(t *testing.T, db *gorm.DB, author *domain.User) *domain.Story {
	t.Helper()

	story := &domain.Story{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Title:    b.title,
		Content:  datatypes.JSON([]byte(`{"scenes":[]}`)),
		Status:   b.status,
	}
	if err := db.Create(story).Error; err != nil {
		t.Fatalf("failed to create story: %v", err)
	}
	return story
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		UUID     string  `json:"uuid"`
		Username *string `json:"username"`
		Nickname string  `json:"nickname"`
		Role     string  `json:"role"`
		IsBound  bool    `json:"isBound"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// DoJSON performs a JSON request against the test server, with optional
// bearer token
func (ts *TestServer) DoJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, ts.APIURL(path), reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
