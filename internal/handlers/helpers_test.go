package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/luxeshop/internal/config"
	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/hash"
	"github.com/Skotchmaster/luxeshop/internal/models"
	"github.com/Skotchmaster/luxeshop/internal/token"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	D      *dispatch.Dispatcher
	DB     *gorm.DB
	Secret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	secret := []byte("test_secret")
	d := dispatch.New(secret)
	Register(d, Deps{
		DB:        db,
		Producer:  &events.Producer{},
		JWTSecret: secret,
	})

	return &testEnv{
		T:      t,
		E:      echo.New(),
		D:      d,
		DB:     db,
		Secret: secret,
	}
}

// do dispatches one action through the full dispatcher, exactly as POST /api
// would.
func (env *testEnv) do(action string, data any, bearer string) *httptest.ResponseRecorder {
	env.T.Helper()

	body := map[string]any{"action": action}
	if data != nil {
		body["data"] = data
	}
	bodyBytes, err := json.Marshal(body)
	require.NoError(env.T, err)

	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewReader(bodyBytes))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	require.NoError(env.T, env.D.Handle(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	return resp.Error
}

func (env *testEnv) createUser(email, password, role string) (models.User, string) {
	env.T.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		CreatedAt:    time.Now().Unix(),
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	bearer, err := token.Sign(user.ID, user.Email, user.Role, env.Secret)
	require.NoError(env.T, err)
	return user, bearer
}

func (env *testEnv) seedProduct(name string, price float64, category string, stock uint) models.Product {
	env.T.Helper()

	product := models.Product{
		Name:        name,
		Price:       price,
		Category:    category,
		Description: name + " description",
		Stock:       stock,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return product
}
