package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const RootMessage = "KamiKaya Pinjaman Online API is running!"

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": RootMessage})
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
