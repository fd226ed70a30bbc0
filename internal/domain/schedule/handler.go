package schedule

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
	"github.com/nursedesk/nursedesk/pkg/outcome"
)

type Handler struct {
	svc  *Service
	auth dataservice.Auth
}

func NewHandler(svc *Service, auth dataservice.Auth) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments/upcoming", h.ListUpcoming)
	api.GET("/appointments/past", h.ListPast)
	api.GET("/appointments/counters", h.GetCounters)
	api.POST("/appointments", h.Book)
	api.GET("/appointments/:id/record-context", h.GetRecordContext)
	api.POST("/appointments/:id/complete", h.Complete)
	api.GET("/patients/:id/history", h.GetHistory)
}

func (h *Handler) nurseID(c echo.Context) (uuid.UUID, error) {
	sess := h.auth.CurrentSession()
	if sess == nil || sess.Expired() {
		err := outcome.Auth(nil)
		return uuid.Nil, echo.NewHTTPError(outcome.HTTPStatus(err), "not signed in")
	}
	return sess.UserID, nil
}

func httpError(err error) error {
	return echo.NewHTTPError(outcome.HTTPStatus(err), err.Error())
}

func (h *Handler) ListUpcoming(c echo.Context) error {
	nurseID, err := h.nurseID(c)
	if err != nil {
		return err
	}
	appts, err := h.svc.RefreshUpcoming(c.Request().Context(), nurseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) ListPast(c echo.Context) error {
	nurseID, err := h.nurseID(c)
	if err != nil {
		return err
	}
	appts, err := h.svc.RefreshPast(c.Request().Context(), nurseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) GetCounters(c echo.Context) error {
	nurseID, err := h.nurseID(c)
	if err != nil {
		return err
	}
	counters, err := h.svc.RefreshCounters(c.Request().Context(), nurseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, counters)
}

type bookRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Date      string    `json:"appointment_date"`
	Time      string    `json:"appointment_time"`
}

func (h *Handler) Book(c echo.Context) error {
	nurseID, err := h.nurseID(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Book(c.Request().Context(), nurseID, req.PatientID, req.Date, req.Time)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetRecordContext(c echo.Context) error {
	if _, err := h.nurseID(c); err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type completeRequest struct {
	Notes  string          `json:"notes"`
	Vitals json.RawMessage `json:"vitals"`
}

func (h *Handler) Complete(c echo.Context) error {
	nurseID, err := h.nurseID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.svc.Complete(c.Request().Context(), nurseID, id, req.Notes, req.Vitals)
	if err != nil {
		if outcome.IsPartial(err) {
			// The record is durable even though the status flip failed;
			// report both facts so the caller does not re-submit the note.
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"record":  rec,
				"warning": err.Error(),
			})
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetHistory(c echo.Context) error {
	if _, err := h.nurseID(c); err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	visits, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, visits)
}
