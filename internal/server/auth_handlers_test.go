package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lively/internal/config"
	"lively/internal/models"
	"lively/internal/service"
	"lively/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// failingStore is a session store whose backend is down.
type failingStore struct{}

func (failingStore) Create(context.Context, session.Data) (string, error) {
	return "", errors.New("redis: connection refused")
}
func (failingStore) Get(context.Context, string) (*session.Data, error) {
	return nil, errors.New("redis: connection refused")
}
func (failingStore) Delete(context.Context, string) error {
	return errors.New("redis: connection refused")
}
func (failingStore) TTL() time.Duration { return time.Hour }

func newAuthTestServer(repo *MockUserRepository, store session.Store) *Server {
	return &Server{
		config:      &config.Config{Env: "test"},
		sessions:    store,
		signer:      session.NewSigner("test-secret-that-is-long-enough-for-hs256", time.Hour),
		userRepo:    repo,
		authService: service.NewAuthService(repo).WithBcryptCost(bcrypt.MinCost),
	}
}

func postJSON(t *testing.T, app *fiber.App, target string, body interface{}) (*http.Response, models.ErrorResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var errBody models.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&errBody)
	return resp, errBody
}

func TestRegister_Failures(t *testing.T) {
	body := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "Password123!",
	}

	tests := []struct {
		name           string
		store          session.Store
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name:  "Duplicate User",
			store: session.NewMemoryStore(time.Hour),
			mockSetup: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "test@example.com", "testuser").Return(true, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "User already exists",
		},
		{
			name:  "Lookup Failure",
			store: session.NewMemoryStore(time.Hour),
			mockSetup: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "test@example.com", "testuser").
					Return(false, models.NewInternalError(errors.New("db down")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Registration failed",
		},
		{
			name:  "Insert Race Lost",
			store: session.NewMemoryStore(time.Hour),
			mockSetup: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "test@example.com", "testuser").Return(false, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(models.NewConflictError("User already exists"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "User already exists",
		},
		{
			name:  "Session Store Down",
			store: failingStore{},
			mockSetup: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "test@example.com", "testuser").Return(false, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Registration failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.mockSetup(repo)

			s := newAuthTestServer(repo, tt.store)
			app := fiber.New()
			app.Post("/register", s.Register)

			resp, errBody := postJSON(t, app, "/register", body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedError, errBody.Error)
			repo.AssertExpectations(t)
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 7, Username: "ana", Email: "ana@example.com", Password: string(hash), Role: models.RoleUser}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Missing Password",
			body:           map[string]string{"email": "ana@example.com"},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email and password required",
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "nobody@example.com", "password": "secret1"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid credentials",
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "ana@example.com", "password": "nope-nope"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid credentials",
		},
		{
			name: "Lookup Failure",
			body: map[string]string{"email": "ana@example.com", "password": "secret1"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, models.NewInternalError(errors.New("db down")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.mockSetup(repo)

			s := newAuthTestServer(repo, session.NewMemoryStore(time.Hour))
			app := fiber.New()
			app.Post("/login", s.Login)

			resp, errBody := postJSON(t, app, "/login", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedError, errBody.Error)
			assert.Empty(t, resp.Cookies())
			repo.AssertExpectations(t)
		})
	}
}

func TestLogout_StoreFailure(t *testing.T) {
	s := newAuthTestServer(new(MockUserRepository), failingStore{})
	app := fiber.New()
	app.Post("/logout", s.Logout)

	token, err := s.signer.Sign("sid", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var errBody models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "Logout failed", errBody.Error)
}

func TestMe_StoreFailureIsUnauthenticated(t *testing.T) {
	s := newAuthTestServer(new(MockUserRepository), failingStore{})
	app := fiber.New()
	app.Get("/me", s.Me)

	token, err := s.signer.Sign("sid", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
