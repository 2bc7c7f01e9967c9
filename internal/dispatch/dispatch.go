// Package dispatch implements the single-endpoint action router: every API
// call is POST /api with an {action, data} body, and each action resolves to
// exactly one handler guarded by a declared access level.
package dispatch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/logging"
	"github.com/Skotchmaster/luxeshop/internal/token"
)

type Access int

const (
	AccessPublic Access = iota
	AccessUser
	AccessAdmin
)

// ActionFunc handles one action. The dispatcher passes the raw data payload
// through untouched; each handler binds and validates only the fields it
// reads.
type ActionFunc func(c echo.Context, data json.RawMessage) (echo.Map, error)

type action struct {
	fn     ActionFunc
	access Access
}

type Dispatcher struct {
	JWTSecret []byte
	actions   map[string]action
}

func New(jwtSecret []byte) *Dispatcher {
	return &Dispatcher{
		JWTSecret: jwtSecret,
		actions:   make(map[string]action),
	}
}

func (d *Dispatcher) Register(name string, access Access, fn ActionFunc) {
	d.actions[name] = action{fn: fn, access: access}
}

// Handle is the echo handler bound to POST /api.
func (d *Dispatcher) Handle(c echo.Context) error {
	var req struct {
		Action string          `json:"action"`
		Data   json.RawMessage `json:"data"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	l := logging.FromContext(c.Request().Context()).With("action", req.Action)

	act, ok := d.actions[req.Action]
	if !ok {
		l.Warn("dispatch_failed", "status", 400, "reason", "invalid_action")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid action"})
	}

	if act.access >= AccessUser {
		ident, err := token.FromRequest(c.Request(), d.JWTSecret)
		if err != nil {
			return d.fail(c, l, err)
		}
		if act.access == AccessAdmin && !ident.IsAdmin() {
			return d.fail(c, l, apperr.New(apperr.ErrForbidden, "admin access required"))
		}
		SetIdentity(c, ident)
	}

	payload, err := d.run(act.fn, c, req.Data)
	if err != nil {
		return d.fail(c, l, err)
	}

	if payload == nil {
		payload = echo.Map{}
	}
	payload["success"] = true
	return c.JSON(http.StatusOK, payload)
}

// run is the top-level failure boundary: a panicking handler surfaces as a
// generic internal error instead of tearing down the request stack.
func (d *Dispatcher) run(fn ActionFunc, c echo.Context, data json.RawMessage) (payload echo.Map, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in action handler: %v", r)
		}
	}()
	return fn(c, data)
}

func (d *Dispatcher) fail(c echo.Context, l *slog.Logger, err error) error {
	status := apperr.Status(err)
	if status >= 500 {
		l.Error("action_failed", "status", status, "error", err)
	} else {
		l.Warn("action_failed", "status", status, "error", err)
	}
	return c.JSON(status, echo.Map{"error": apperr.Message(err)})
}

const identityKey = "identity"

func SetIdentity(c echo.Context, ident *token.Identity) {
	c.Set(identityKey, ident)
}

// Identity returns the verified caller set by the access guard. Handlers
// registered below AccessUser get nil.
func Identity(c echo.Context) *token.Identity {
	if v := c.Get(identityKey); v != nil {
		if ident, ok := v.(*token.Identity); ok {
			return ident
		}
	}
	return nil
}
