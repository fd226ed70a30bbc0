package appstate

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nursedesk/nursedesk/internal/domain/patientdir"
	"github.com/nursedesk/nursedesk/internal/domain/schedule"
	"github.com/nursedesk/nursedesk/internal/domain/session"
)

// Handler serves the composed views that span more than one domain.
type Handler struct {
	app *App
}

func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/notifications", h.GetNotifications)
}

type dashboardResponse struct {
	Nurse         *session.Nurse          `json:"nurse"`
	Upcoming      []*schedule.Appointment `json:"upcoming"`
	Past          []*schedule.Appointment `json:"past"`
	Counters      schedule.Counters       `json:"counters"`
	Patients      []*patientdir.Patient   `json:"patients"`
	Notifications []Notification          `json:"notifications"`
	Errors        []string                `json:"errors,omitempty"`
}

// GetDashboard refreshes every section in one pass. A section that fails to
// load falls back to its last held view and reports itself in errors, so one
// bad read does not blank the whole page.
func (h *Handler) GetDashboard(c echo.Context) error {
	sess := h.app.Sessions.Session()
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	ctx := c.Request().Context()

	resp := dashboardResponse{Nurse: h.app.Sessions.Nurse()}

	if upcoming, err := h.app.Schedule.RefreshUpcoming(ctx, sess.UserID); err != nil {
		resp.Upcoming = h.app.Schedule.Upcoming()
		resp.Errors = append(resp.Errors, err.Error())
	} else {
		resp.Upcoming = upcoming
	}
	if past, err := h.app.Schedule.RefreshPast(ctx, sess.UserID); err != nil {
		resp.Past = h.app.Schedule.Past()
		resp.Errors = append(resp.Errors, err.Error())
	} else {
		resp.Past = past
	}
	if counters, err := h.app.Schedule.RefreshCounters(ctx, sess.UserID); err != nil {
		resp.Counters = h.app.Schedule.LastCounters()
		resp.Errors = append(resp.Errors, err.Error())
	} else {
		resp.Counters = counters
	}
	if patients, err := h.app.Patients.RefreshAll(ctx); err != nil {
		resp.Patients = h.app.Patients.Patients()
		resp.Errors = append(resp.Errors, err.Error())
	} else {
		resp.Patients = patients
	}

	resp.Notifications = h.app.Notices.Active()
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetNotifications(c echo.Context) error {
	if h.app.Sessions.Session() == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return c.JSON(http.StatusOK, h.app.Notices.Active())
}
