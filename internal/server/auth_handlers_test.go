package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestTokenService() *token.Service {
	return token.NewService("test-access-secret", "test-refresh-secret",
		5*time.Minute, 2*time.Hour)
}

func newAuthTestServer(repo *MockUserRepository) *Server {
	return &Server{
		config:   &config.Config{Env: "test"},
		tokens:   newTestTokenService(),
		userRepo: repo,
	}
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"names":    "Test User",
				"email":    "test@example.com",
				"password": "Password123!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"names":    "Test User",
				"email":    "exists@example.com",
				"password": "Password123!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "exists@example.com").
					Return(&models.User{ID: 1, Email: "exists@example.com"}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Duplicate Email Lost Race",
			body: map[string]string{
				"names":    "Test User",
				"email":    "race@example.com",
				"password": "Password123!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "race@example.com").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.Anything).
					Return(models.NewDuplicateEmailError("race@example.com"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"names":    "Test User",
				"email":    "test@example.com",
				"password": "short",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"email": "test@example.com",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			repo := new(MockUserRepository)
			tt.mockSetup(repo)
			s := newAuthTestServer(repo)
			app.Post("/register", s.Register)

			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			repo.AssertExpectations(t)
		})
	}
}

func TestRegisterDoesNotLeakPasswordHash(t *testing.T) {
	app := fiber.New()
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	s := newAuthTestServer(repo)
	app.Post("/register", s.Register)

	body, _ := json.Marshal(map[string]string{
		"names":    "Test User",
		"email":    "test@example.com",
		"password": "Password123!",
	})
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var decoded map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	_, hasPassword := decoded["password"]
	assert.False(t, hasPassword)
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       1,
		Names:    "Test User",
		Email:    "test@example.com",
		Password: string(hashed),
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
		expectCookies  bool
	}{
		{
			name: "Success",
			body: map[string]string{
				"email":    "test@example.com",
				"password": "Password123!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil)
			},
			expectedStatus: http.StatusOK,
			expectCookies:  true,
		},
		{
			name: "Wrong Password",
			body: map[string]string{
				"email":    "test@example.com",
				"password": "WrongPassword1!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown Email",
			body: map[string]string{
				"email":    "nobody@example.com",
				"password": "Password123!",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			repo := new(MockUserRepository)
			tt.mockSetup(repo)
			s := newAuthTestServer(repo)
			app.Post("/login", s.Login)

			body, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			access := cookieByName(resp, accessCookieName)
			refresh := cookieByName(resp, refreshCookieName)
			if tt.expectCookies {
				assert.NotNil(t, access)
				assert.NotNil(t, refresh)
				assert.True(t, access.HttpOnly)
				assert.True(t, refresh.HttpOnly)
				assert.Equal(t, int((5 * time.Minute).Seconds()), access.MaxAge)
				assert.Equal(t, int((2 * time.Hour).Seconds()), refresh.MaxAge)

				var decoded map[string]any
				assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
				assert.Equal(t, true, decoded["login"])
			} else {
				assert.Nil(t, access)
				assert.Nil(t, refresh)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	app := fiber.New()
	s := newAuthTestServer(new(MockUserRepository))
	app.Post("/logout", s.Logout)

	req, _ := http.NewRequest(http.MethodPost, "/logout", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	access := cookieByName(resp, accessCookieName)
	refresh := cookieByName(resp, refreshCookieName)
	assert.NotNil(t, access)
	assert.NotNil(t, refresh)
	assert.Empty(t, access.Value)
	assert.Empty(t, refresh.Value)
	assert.Less(t, access.MaxAge, 0)
	assert.Less(t, refresh.MaxAge, 0)
}
