package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/hash"
	"github.com/Skotchmaster/luxeshop/internal/logging"
	"github.com/Skotchmaster/luxeshop/internal/models"
	"github.com/Skotchmaster/luxeshop/internal/token"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
}

// publicUser is the projection safe to return to clients; the password hash
// never leaves the store.
func publicUser(u *models.User) echo.Map {
	return echo.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c echo.Context, data json.RawMessage) (echo.Map, error) {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}
	if req.Email == "" || req.Password == "" {
		return nil, apperr.New(apperr.ErrValidation, "email and password are required")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		l.Warn("register_failed", "reason", "user_exists")
		return nil, apperr.New(apperr.ErrValidation, "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         "user",
		CreatedAt:    time.Now().Unix(),
	}
	// The pre-check races with concurrent registrations; the unique column
	// constraint is the authority, so its violation gets the same answer.
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register_failed", "reason", "user_exists")
			return nil, apperr.New(apperr.ErrValidation, "user already exists")
		}
		return nil, err
	}

	t, err := token.Sign(user.ID, user.Email, user.Role, h.JWTSecret)
	if err != nil {
		return nil, err
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return echo.Map{"token": t, "user": publicUser(&user)}, nil
}

func (h *AuthHandler) Login(c echo.Context, data json.RawMessage) (echo.Map, error) {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bindData(data, &req); err != nil {
		return nil, err
	}

	// An unknown email and a wrong password return the identical error so
	// the response never reveals which check failed.
	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "invalid_credentials")
			return nil, apperr.New(apperr.ErrValidation, "invalid credentials")
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "reason", "invalid_credentials")
		return nil, apperr.New(apperr.ErrValidation, "invalid credentials")
	}

	// The embedded role comes from the persisted record, never the request.
	t, err := token.Sign(user.ID, user.Email, user.Role, h.JWTSecret)
	if err != nil {
		return nil, err
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("login_success", "user_id", user.ID)
	return echo.Map{"token": t, "user": publicUser(&user)}, nil
}

func (h *AuthHandler) Profile(c echo.Context, data json.RawMessage) (echo.Map, error) {
	ident := dispatch.Identity(c)

	var user models.User
	if err := h.DB.First(&user, ident.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "user not found")
		}
		return nil, err
	}
	return echo.Map{"profile": publicUser(&user)}, nil
}
