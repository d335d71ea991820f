package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"zimmet-backend/internal/domain"
	"zimmet-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserFinder for tests: returns configured user or error.
type fakeUserFinder struct {
	user *domain.User
}

func (f *fakeUserFinder) FindByEmailAndPassword(email, password string) (*domain.User, error) {
	if f.user != nil && f.user.Email == email && password == "password123" {
		return f.user, nil
	}
	if f.user != nil && f.user.Email == email {
		return nil, ErrIncorrectPassword
	}
	return nil, ErrInvalidEmail
}

func setupAuthApp(t *testing.T, finder UserFinder) (*fiber.App, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	h := &Handlers{
		UserFinder: finder,
		Rdb:        rdb,
		Config:     middleware.SessionConfig{},
	}
	app := fiber.New()
	app.Post("/api/v1/auth/login", h.Login)
	app.Get("/api/v1/auth/me", h.Me)
	return app, rdb
}

func postLogin(t *testing.T, app *fiber.App, email, password string) int {
	t.Helper()
	raw, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestLogin_Success(t *testing.T) {
	user := &domain.User{
		UserID:   uuid.New(),
		Fullname: "Test User",
		Email:    "test@example.com",
		Role:     "admin",
	}
	app, rdb := setupAuthApp(t, &fakeUserFinder{user: user})

	assert.Equal(t, fiber.StatusOK, postLogin(t, app, "test@example.com", "password123"))

	// session tracked for the user
	n, err := rdb.SCard(context.Background(), "user_sessions:"+user.UserID.String()).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := &domain.User{UserID: uuid.New(), Email: "test@example.com"}
	app, _ := setupAuthApp(t, &fakeUserFinder{user: user})
	assert.Equal(t, fiber.StatusUnauthorized, postLogin(t, app, "test@example.com", "wrong"))
}

func TestLogin_MissingFields(t *testing.T) {
	app, _ := setupAuthApp(t, &fakeUserFinder{})
	assert.Equal(t, fiber.StatusBadRequest, postLogin(t, app, "", ""))
}

func TestMe_Unauthenticated(t *testing.T) {
	app, _ := setupAuthApp(t, &fakeUserFinder{})
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
