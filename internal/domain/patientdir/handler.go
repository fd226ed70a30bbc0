package patientdir

import (
	"net/http"

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
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.AddPatient)
}

func (h *Handler) requireSession(c echo.Context) error {
	sess := h.auth.CurrentSession()
	if sess == nil || sess.Expired() {
		err := outcome.Auth(nil)
		return echo.NewHTTPError(outcome.HTTPStatus(err), "not signed in")
	}
	return nil
}

// ListPatients returns the directory, filtered by the q parameter when one
// is supplied.
func (h *Handler) ListPatients(c echo.Context) error {
	if err := h.requireSession(c); err != nil {
		return err
	}
	patients, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return echo.NewHTTPError(outcome.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) AddPatient(c echo.Context) error {
	if err := h.requireSession(c); err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	added, err := h.svc.Add(c.Request().Context(), &p)
	if err != nil {
		return echo.NewHTTPError(outcome.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, added)
}
