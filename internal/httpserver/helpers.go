package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekoshkina/webshop/internal/logging"
)

// EventPublisher is satisfied by events.Producer; handlers treat a nil
// publisher as "events disabled".
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

func publish(c echo.Context, p EventPublisher, topic string, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "topic", topic, "error", err)
	}
}
