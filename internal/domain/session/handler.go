package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nursedesk/nursedesk/pkg/outcome"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/session", h.GetSession)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	nurse, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(outcome.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, nurse)
}

// Logout always reports the local session as ended; a failed remote
// revocation is surfaced as a warning, not a failure.
func (h *Handler) Logout(c echo.Context) error {
	body := map[string]interface{}{"signed_out": true}
	if err := h.svc.Logout(c.Request().Context()); err != nil {
		body["warning"] = err.Error()
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) GetSession(c echo.Context) error {
	sess := h.svc.Session()
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"expires_at": sess.ExpiresAt,
		"nurse":      h.svc.Nurse(),
	})
}
