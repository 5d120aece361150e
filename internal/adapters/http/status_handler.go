package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stafftrack/stafftrack/internal/core/status"
)

// StatusHandler はステータス定義 API を提供します。
type StatusHandler struct {
	statuses status.UseCase
	log      *slog.Logger
}

// NewStatusHandler は StatusHandler を生成します。
func NewStatusHandler(statuses status.UseCase, log *slog.Logger) *StatusHandler {
	return &StatusHandler{statuses: statuses, log: log}
}

type createStatusRequest struct {
	Name             string `json:"name"`
	Color            string `json:"color"`
	RequiresDeadline bool   `json:"requires_deadline"`
	DisplayOrder     int    `json:"display_order"`
}

type updateStatusRequest struct {
	Name             *string `json:"name"`
	Color            *string `json:"color"`
	RequiresDeadline *bool   `json:"requires_deadline"`
	DisplayOrder     *int    `json:"display_order"`
	IsActive         *bool   `json:"is_active"`
}

// List はステータス定義を表示順で一覧します。
func (h *StatusHandler) List(c *gin.Context) {
	statuses, err := h.statuses.ListStatuses(c.Request.Context(), status.ListStatusesInput{
		IncludeInactive: c.Query("include_inactive") == "true",
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toStatusViews(statuses))
}

// Create はステータス定義を作成します。
func (h *StatusHandler) Create(c *gin.Context) {
	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.statuses.CreateStatus(c.Request.Context(), status.CreateStatusInput{
		Name:             req.Name,
		Color:            req.Color,
		RequiresDeadline: req.RequiresDeadline,
		DisplayOrder:     req.DisplayOrder,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toStatusView(created))
}

// Get はステータス定義を取得します。
func (h *StatusHandler) Get(c *gin.Context) {
	found, err := h.statuses.GetStatus(c.Request.Context(), status.GetStatusInput{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toStatusView(found))
}

// Update はステータス定義を更新します。
func (h *StatusHandler) Update(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.statuses.UpdateStatus(c.Request.Context(), status.UpdateStatusInput{
		ID:               c.Param("id"),
		Name:             req.Name,
		Color:            req.Color,
		RequiresDeadline: req.RequiresDeadline,
		DisplayOrder:     req.DisplayOrder,
		Active:           req.IsActive,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toStatusView(updated))
}

// Delete はステータス定義を削除します。ログから参照されている場合は 409 です。
func (h *StatusHandler) Delete(c *gin.Context) {
	if err := h.statuses.DeleteStatus(c.Request.Context(), status.DeleteStatusInput{ID: c.Param("id")}); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
