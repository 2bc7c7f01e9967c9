package dispatch

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/luxeshop/internal/token"
)

var testSecret = []byte("test_secret")

func call(t *testing.T, d *Dispatcher, action string, data any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	body := map[string]any{"action": action}
	if data != nil {
		body["data"] = data
	}
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewReader(bodyBytes))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, d.Handle(c))
	return rec
}

func errBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestUnknownActionIsBadRequest(t *testing.T) {
	d := New(testSecret)

	rec := call(t, d, "doesNotExist", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid action", errBody(t, rec))
}

func TestSuccessEnvelope(t *testing.T) {
	d := New(testSecret)
	d.Register("ping", AccessPublic, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return echo.Map{"pong": true}, nil
	})

	rec := call(t, d, "ping", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Pong    bool `json:"pong"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.True(t, resp.Pong)
}

func TestNilPayloadStillGetsEnvelope(t *testing.T) {
	d := New(testSecret)
	d.Register("noop", AccessPublic, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return nil, nil
	})

	rec := call(t, d, "noop", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestUserActionRequiresToken(t *testing.T) {
	d := New(testSecret)
	d.Register("whoami", AccessUser, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return echo.Map{"user_id": Identity(c).UserID}, nil
	})

	rec := call(t, d, "whoami", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "authentication required", errBody(t, rec))
}

func TestUserActionRejectsGarbageToken(t *testing.T) {
	d := New(testSecret)
	d.Register("whoami", AccessUser, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return echo.Map{}, nil
	})

	rec := call(t, d, "whoami", nil, "not.a.token")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserActionRejectsWrongSecret(t *testing.T) {
	d := New(testSecret)
	d.Register("whoami", AccessUser, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return echo.Map{}, nil
	})

	forged, err := token.Sign(1, "a@example.com", "user", []byte("other_secret"))
	require.NoError(t, err)

	rec := call(t, d, "whoami", nil, forged)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserActionSeesIdentity(t *testing.T) {
	d := New(testSecret)
	d.Register("whoami", AccessUser, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		ident := Identity(c)
		return echo.Map{"user_id": ident.UserID, "email": ident.Email}, nil
	})

	bearer, err := token.Sign(42, "a@example.com", "user", testSecret)
	require.NoError(t, err)

	rec := call(t, d, "whoami", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserID uint   `json:"user_id"`
		Email  string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(42), resp.UserID)
	require.Equal(t, "a@example.com", resp.Email)
}

func TestAdminActionRejectsUserRole(t *testing.T) {
	d := New(testSecret)
	d.Register("sudo", AccessAdmin, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return echo.Map{}, nil
	})

	bearer, err := token.Sign(1, "a@example.com", "user", testSecret)
	require.NoError(t, err)

	rec := call(t, d, "sudo", nil, bearer)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "admin access required", errBody(t, rec))
}

func TestAdminActionAllowsAdminRole(t *testing.T) {
	d := New(testSecret)
	d.Register("sudo", AccessAdmin, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		return echo.Map{}, nil
	})

	bearer, err := token.Sign(1, "root@example.com", "admin", testSecret)
	require.NoError(t, err)

	rec := call(t, d, "sudo", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPanickingHandlerBecomesInternalError(t *testing.T) {
	d := New(testSecret)
	d.Register("boom", AccessPublic, func(c echo.Context, data json.RawMessage) (echo.Map, error) {
		panic("kaboom")
	})

	rec := call(t, d, "boom", nil, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// The panic text stays out of the response.
	require.Equal(t, "internal server error", errBody(t, rec))
	require.NotContains(t, rec.Body.String(), "kaboom")
}
