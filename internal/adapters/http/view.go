package http

import (
	"time"

	"github.com/stafftrack/stafftrack/internal/core/employee"
	"github.com/stafftrack/stafftrack/internal/core/status"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
)

// currentStatusView は現在ステータスのリアルタイム表示用ビューです。
// 経過・残り・超過の各秒数はリクエスト時点の now で計算されます。
type currentStatusView struct {
	ID               string     `json:"id"`
	StatusName       string     `json:"status_name"`
	StatusColor      string     `json:"status_color"`
	StartTime        time.Time  `json:"start_time"`
	PlannedEndTime   *time.Time `json:"planned_end_time"`
	ElapsedSeconds   int64      `json:"elapsed_seconds"`
	RemainingSeconds *int64     `json:"remaining_seconds"`
	IsOverdue        bool       `json:"is_overdue"`
	OverdueSeconds   int64      `json:"overdue_seconds"`
	Notes            string     `json:"notes"`
}

type employeeView struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         *string            `json:"email"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	CurrentStatus *currentStatusView `json:"current_status"`
}

type logView struct {
	ID              string     `json:"id"`
	EmployeeName    string     `json:"employee_name"`
	StatusName      string     `json:"status_name"`
	StatusColor     string     `json:"status_color"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	PlannedEndTime  *time.Time `json:"planned_end_time"`
	OverdueDuration int64      `json:"overdue_duration"`
	DurationSeconds int64      `json:"duration_seconds"`
	Notes           string     `json:"notes"`
	CreatedBy       *string    `json:"created_by"`
}

type statusView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	RequiresDeadline bool   `json:"requires_deadline"`
	DisplayOrder     int    `json:"display_order"`
	IsActive         bool   `json:"is_active"`
}

type statisticView struct {
	StatusName          string `json:"status_name"`
	StatusColor         string `json:"status_color"`
	TotalSeconds        int64  `json:"total_seconds"`
	Count               int    `json:"count"`
	TotalOverdueSeconds int64  `json:"total_overdue_seconds"`
}

func toCurrentStatusView(log *statuslog.Log, now time.Time) *currentStatusView {
	if log == nil {
		return nil
	}
	return &currentStatusView{
		ID:               log.ID,
		StatusName:       log.Status.Name,
		StatusColor:      log.Status.Color,
		StartTime:        log.StartTime,
		PlannedEndTime:   log.PlannedEndTime,
		ElapsedSeconds:   log.ElapsedSeconds(now),
		RemainingSeconds: log.RemainingSeconds(now),
		IsOverdue:        log.IsOverdue(now),
		OverdueSeconds:   log.OverdueSeconds(now),
		Notes:            log.Notes,
	}
}

func toEmployeeView(emp *employee.Employee, current *statuslog.Log, now time.Time) employeeView {
	return employeeView{
		ID:            emp.ID,
		Name:          emp.Name,
		Email:         emp.Email,
		IsActive:      emp.Active,
		CreatedAt:     emp.CreatedAt,
		CurrentStatus: toCurrentStatusView(current, now),
	}
}

func toLogView(log *statuslog.Log, now time.Time) logView {
	return logView{
		ID:              log.ID,
		EmployeeName:    log.EmployeeName,
		StatusName:      log.Status.Name,
		StatusColor:     log.Status.Color,
		StartTime:       log.StartTime,
		EndTime:         log.EndTime,
		PlannedEndTime:  log.PlannedEndTime,
		OverdueDuration: log.OverdueDuration,
		DurationSeconds: log.ElapsedSeconds(now),
		Notes:           log.Notes,
		CreatedBy:       log.CreatedBy,
	}
}

func toLogViews(logs []*statuslog.Log, now time.Time) []logView {
	views := make([]logView, 0, len(logs))
	for _, log := range logs {
		views = append(views, toLogView(log, now))
	}
	return views
}

func toStatusView(st *status.Status) statusView {
	return statusView{
		ID:               st.ID,
		Name:             st.Name,
		Color:            st.Color,
		RequiresDeadline: st.RequiresDeadline,
		DisplayOrder:     st.DisplayOrder,
		IsActive:         st.Active,
	}
}

func toStatusViews(statuses []*status.Status) []statusView {
	views := make([]statusView, 0, len(statuses))
	for _, st := range statuses {
		views = append(views, toStatusView(st))
	}
	return views
}

func toStatisticViews(entries []statuslog.StatisticEntry) []statisticView {
	views := make([]statisticView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, statisticView{
			StatusName:          entry.StatusName,
			StatusColor:         entry.StatusColor,
			TotalSeconds:        entry.TotalSeconds,
			Count:               entry.Count,
			TotalOverdueSeconds: entry.TotalOverdueSeconds,
		})
	}
	return views
}
