// Package http は gin による REST API アダプタを提供します。
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Clock は現在時刻を提供します。ビューの経過・超過秒数の計算に使われます。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const actorContextKey = "auth.actor"

func actorFrom(c *gin.Context) *string {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return nil
	}
	actor, ok := value.(string)
	if !ok || actor == "" {
		return nil
	}
	return &actor
}

func parsePageSize(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid page size %q", raw)
	}
	return v, nil
}

func respondError(c *gin.Context, log *slog.Logger, err error) {
	code, msg := toHTTPStatus(err)
	if code == http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(code, gin.H{"error": msg})
}
