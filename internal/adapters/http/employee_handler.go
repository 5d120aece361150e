package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stafftrack/stafftrack/internal/core/employee"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
)

// EmployeeHandler は社員 API を提供します。
type EmployeeHandler struct {
	employees employee.UseCase
	logs      statuslog.UseCase
	clock     Clock
	log       *slog.Logger
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(employees employee.UseCase, logs statuslog.UseCase, clock Clock, log *slog.Logger) *EmployeeHandler {
	if clock == nil {
		clock = realClock{}
	}
	return &EmployeeHandler{employees: employees, logs: logs, clock: clock, log: log}
}

type createEmployeeRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

type updateEmployeeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type changeStatusRequest struct {
	StatusID       string     `json:"status_id"`
	PlannedEndTime *time.Time `json:"planned_end_time"`
	Notes          string     `json:"notes"`
}

// List は在籍中の社員を現在ステータス付きで一覧します。
func (h *EmployeeHandler) List(c *gin.Context) {
	pageSize, err := parsePageSize(c.Query("page_size"))
	if err != nil {
		respondError(c, h.log, employee.ErrInvalidPageSize)
		return
	}

	result, err := h.employees.ListEmployees(c.Request.Context(), employee.ListEmployeesInput{
		IncludeInactive: c.Query("include_inactive") == "true",
		PageSize:        pageSize,
		PageToken:       c.Query("page_token"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	now := h.clock.Now()
	views := make([]employeeView, 0, len(result.Employees))
	for _, emp := range result.Employees {
		current, err := h.logs.CurrentStatus(c.Request.Context(), statuslog.CurrentStatusInput{EmployeeID: emp.ID})
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		views = append(views, toEmployeeView(emp, current, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"employees":       views,
		"next_page_token": result.NextPageToken,
	})
}

// Create は社員を作成します。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.employees.CreateEmployee(c.Request.Context(), employee.CreateEmployeeInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeView(created, nil, h.clock.Now()))
}

// Get は社員を現在ステータス付きで取得します。
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.employees.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	current, err := h.logs.CurrentStatus(c.Request.Context(), statuslog.CurrentStatusInput{EmployeeID: emp.ID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeView(emp, current, h.clock.Now()))
}

// Update は社員情報を更新します。
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.employees.UpdateEmployee(c.Request.Context(), employee.UpdateEmployeeInput{
		ID:       c.Param("id"),
		Name:     req.Name,
		Email:    req.Email,
		EmailSet: req.Email != nil,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	current, err := h.logs.CurrentStatus(c.Request.Context(), statuslog.CurrentStatusInput{EmployeeID: updated.ID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeView(updated, current, h.clock.Now()))
}

// Delete は社員を論理削除します。
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.DeleteEmployee(c.Request.Context(), employee.DeleteEmployeeInput{ID: c.Param("id")}); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeStatus は社員のステータスを遷移させ、更新後のビューを返します。
func (h *EmployeeHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.logs.ChangeStatus(c.Request.Context(), statuslog.ChangeStatusInput{
		EmployeeID:     c.Param("id"),
		StatusID:       req.StatusID,
		PlannedEndTime: req.PlannedEndTime,
		Notes:          req.Notes,
		ActorID:        actorFrom(c),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeView(view.Employee, view.Current, h.clock.Now()))
}

// History は社員のステータス履歴を新しい順に返します。
func (h *EmployeeHandler) History(c *gin.Context) {
	pageSize, err := parsePageSize(c.Query("page_size"))
	if err != nil {
		respondError(c, h.log, statuslog.ErrInvalidPageSize)
		return
	}

	result, err := h.logs.History(c.Request.Context(), statuslog.HistoryInput{
		EmployeeID: c.Param("id"),
		PageSize:   pageSize,
		PageToken:  c.Query("page_token"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":            toLogViews(result.Logs, h.clock.Now()),
		"next_page_token": result.NextPageToken,
	})
}

// Statistics はステータスごとの累積時間を返します。
func (h *EmployeeHandler) Statistics(c *gin.Context) {
	entries, err := h.logs.Statistics(c.Request.Context(), statuslog.StatisticsInput{EmployeeID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toStatisticViews(entries))
}

// CurrentStatus は社員の現在ステータスを返します。未設定の場合は null です。
func (h *EmployeeHandler) CurrentStatus(c *gin.Context) {
	current, err := h.logs.CurrentStatus(c.Request.Context(), statuslog.CurrentStatusInput{EmployeeID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_status": toCurrentStatusView(current, h.clock.Now())})
}
