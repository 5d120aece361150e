package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stafftrack/stafftrack/internal/platform/logger"
)

// RouterDeps はルーター構築に必要なハンドラ群です。
type RouterDeps struct {
	Auth      *AuthHandler
	Employees *EmployeeHandler
	Statuses  *StatusHandler
	Reports   *ReportHandler
	Logger    *slog.Logger
}

// NewRouter は API のルーティングを構築します。
// トークン発行とヘルスチェック以外のエンドポイントは Bearer 認証が必要です。
func NewRouter(deps RouterDeps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(accessLog(deps.Logger))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/auth/token", deps.Auth.IssueToken)

	authed := api.Group("")
	authed.Use(deps.Auth.RequireAuth())

	employees := authed.Group("/employees")
	employees.GET("", deps.Employees.List)
	employees.POST("", deps.Employees.Create)
	employees.GET("/:id", deps.Employees.Get)
	employees.PATCH("/:id", deps.Employees.Update)
	employees.DELETE("/:id", deps.Employees.Delete)
	employees.POST("/:id/change-status", deps.Employees.ChangeStatus)
	employees.GET("/:id/current-status", deps.Employees.CurrentStatus)
	employees.GET("/:id/history", deps.Employees.History)
	employees.GET("/:id/statistics", deps.Employees.Statistics)

	statuses := authed.Group("/statuses")
	statuses.GET("", deps.Statuses.List)
	statuses.POST("", deps.Statuses.Create)
	statuses.GET("/:id", deps.Statuses.Get)
	statuses.PATCH("/:id", deps.Statuses.Update)
	statuses.DELETE("/:id", deps.Statuses.Delete)

	reports := authed.Group("/reports")
	reports.GET("/excel", deps.Reports.Excel)
	reports.POST("/excel", deps.Reports.Excel)

	return engine
}

// accessLog はリクエスト ID を付与し、完了時にアクセスログを出力します。
func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if log == nil {
			c.Next()
			return
		}

		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		log.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
