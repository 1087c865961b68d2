package http

import (
	"net/http"

	uc "kamikaya-backend/internal/usecase/application"
	"kamikaya-backend/pkg/money"

	"github.com/labstack/echo/v4"
)

const dashboardRecent = 10

type AdminHandler struct {
	uc     *uc.Usecase
	events Events
}

func NewAdminHandler(u *uc.Usecase, events Events) *AdminHandler {
	return &AdminHandler{uc: u, events: orNop(events)}
}

type errorPage struct {
	Code    int
	Title   string
	Message string
}

func (h *AdminHandler) renderError(c echo.Context, err error, attempt string) error {
	code := statusCode(err)
	return c.Render(code, "error.html", errorPage{
		Code:    code,
		Title:   http.StatusText(code),
		Message: errorMessage(err, attempt),
	})
}

type dashboardPage struct {
	Stats           *uc.StatsDTO
	TotalLoanAmount string
	Recent          []uc.ApplicationDTO
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.uc.Stats(ctx)
	if err != nil {
		return h.renderError(c, err, "Error loading dashboard")
	}
	recent, err := h.uc.Recent(ctx, dashboardRecent)
	if err != nil {
		return h.renderError(c, err, "Error loading dashboard")
	}
	return c.Render(http.StatusOK, "admin_dashboard.html", dashboardPage{
		Stats:           stats,
		TotalLoanAmount: money.Rupiah(stats.TotalLoanAmount),
		Recent:          recent,
	})
}

func (h *AdminHandler) Applications(c echo.Context) error {
	var (
		status string
		page   = 1
	)
	if err := echo.QueryParamsBinder(c).
		String("status", &status).
		Int("page", &page).
		BindError(); err != nil {
		return c.Render(http.StatusBadRequest, "error.html", errorPage{
			Code: http.StatusBadRequest, Title: http.StatusText(http.StatusBadRequest), Message: "page must be an integer",
		})
	}
	res, err := h.uc.ListPage(c.Request().Context(), status, page)
	if err != nil {
		return h.renderError(c, err, "Error loading applications")
	}
	return c.Render(http.StatusOK, "applications_list.html", res)
}

func (h *AdminHandler) Detail(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.renderError(c, err, "Error loading application")
	}
	return c.Render(http.StatusOK, "application_detail.html", dto)
}

func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	status := c.FormValue("status")
	if err := h.uc.UpdateStatus(c.Request().Context(), id, status); err != nil {
		return h.renderError(c, err, "Error updating status")
	}
	h.events.StatusUpdated(status)
	return c.Redirect(http.StatusFound, "/admin/application/"+id)
}
