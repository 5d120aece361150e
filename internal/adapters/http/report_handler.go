package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stafftrack/stafftrack/internal/adapters/report"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler はステータスログの Excel レポート出力を提供します。
type ReportHandler struct {
	logs  statuslog.UseCase
	clock Clock
	log   *slog.Logger
}

// NewReportHandler は ReportHandler を生成します。
func NewReportHandler(logs statuslog.UseCase, clock Clock, log *slog.Logger) *ReportHandler {
	if clock == nil {
		clock = realClock{}
	}
	return &ReportHandler{logs: logs, clock: clock, log: log}
}

type reportRequest struct {
	EmployeeID *string    `json:"employee_id"`
	StatusID   *string    `json:"status_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// Excel はレポートをダウンロードさせます。
// GET は全ログ、POST はフィルタ付きのカスタムレポートです。
func (h *ReportHandler) Excel(c *gin.Context) {
	var req reportRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	logs, err := h.logs.ReportLogs(c.Request.Context(), statuslog.ReportInput{
		EmployeeID: req.EmployeeID,
		StatusID:   req.StatusID,
		StartFrom:  req.StartDate,
		StartTo:    req.EndDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	now := h.clock.Now()
	workbook, err := report.BuildWorkbook(logs, now)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		respondError(c, h.log, fmt.Errorf("report: write workbook: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename(now)))
	c.Data(http.StatusOK, excelContentType, buf.Bytes())
}
