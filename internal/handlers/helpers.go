package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/luxeshop/internal/apperr"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/logging"
)

func bindData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.New(apperr.ErrValidation, "invalid data payload")
	}
	return nil
}

// publish fires a domain event. Delivery failures are logged and never fail
// the request.
func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "topic", topic, "error", err)
	}
}
