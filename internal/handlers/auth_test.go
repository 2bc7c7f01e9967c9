package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice@example.com", resp.User.Email)
	require.Equal(t, "user", resp.User.Role)
	require.NotContains(t, rec.Body.String(), "password")

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "alice@example.com").First(&stored).Error)
	require.NotEqual(t, "password", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("taken@example.com", "password", "user")

	rec := env.do("register", map[string]string{
		"name":     "Imposter",
		"email":    "taken@example.com",
		"password": "other",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "user already exists", errorMessage(t, rec))

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("email = ?", "taken@example.com").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDuplicateEmailSurfacesAsDuplicatedKey(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("taken@example.com", "password", "user")

	// Register maps this store error to the same 400 as the pre-check, so a
	// concurrent registration losing the insert race never reads as a 500.
	dup := models.User{
		Name:         "Imposter",
		Email:        "taken@example.com",
		PasswordHash: "x",
		Role:         "user",
	}
	err := env.DB.Create(&dup).Error
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("register", map[string]string{"name": "No Email"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser("bob@example.com", "secret123", "user")

	rec := env.do("login", map[string]string{
		"email":    "bob@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   uint   `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, "user", resp.User.Role)
}

func TestLoginErrorsDoNotLeakWhichCheckFailed(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("carol@example.com", "rightpass", "user")

	recWrongPassword := env.do("login", map[string]string{
		"email":    "carol@example.com",
		"password": "wrongpass",
	}, "")
	recUnknownEmail := env.do("login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, "")

	require.Equal(t, http.StatusBadRequest, recWrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, recUnknownEmail.Code)
	require.Equal(t, errorMessage(t, recWrongPassword), errorMessage(t, recUnknownEmail))
}

func TestLoginRoleComesFromStore(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("root@example.com", "adminpass", "admin")

	rec := env.do("login", map[string]string{
		"email":    "root@example.com",
		"password": "adminpass",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)

	recAdmin := env.do("getAllUsers", nil, resp.Token)
	require.Equal(t, http.StatusOK, recAdmin.Code)
}

func TestGetUserProfile(t *testing.T) {
	env := newTestEnv(t)
	user, bearer := env.createUser("dave@example.com", "password", "user")

	rec := env.do("getUserProfile", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Profile struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"profile"`
	}
	decode(t, rec, &resp)
	require.Equal(t, user.ID, resp.Profile.ID)
	require.Equal(t, "dave@example.com", resp.Profile.Email)
}
