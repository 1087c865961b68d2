package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Base         *Handler
	Applications *ApplicationHandler
	Admin        *AdminHandler
}

// RegisterRoutes mounts the public API and the admin pages. applyMW wraps
// only the submission endpoint.
func RegisterRoutes(e *echo.Echo, h Handlers, applyMW ...echo.MiddlewareFunc) {
	e.GET("/", h.Base.Root)
	e.GET("/health", h.Base.Health)

	e.POST("/loan/apply", h.Applications.Apply, applyMW...)
	e.GET("/loan/applications", h.Applications.ListApplications)
	e.GET("/loan/application/:id", h.Applications.GetApplication)
	e.PUT("/loan/application/:id/status", h.Applications.UpdateStatus)
	e.GET("/stats", h.Applications.Stats)

	admin := e.Group("/admin")
	admin.GET("", h.Admin.Dashboard)
	admin.GET("/applications", h.Admin.Applications)
	admin.GET("/application/:id", h.Admin.Detail)
	admin.POST("/application/:id/status", h.Admin.UpdateStatus)
}
