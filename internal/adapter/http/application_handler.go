package http

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	uc "kamikaya-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct {
	uc     *uc.Usecase
	events Events
}

func NewApplicationHandler(u *uc.Usecase, events Events) *ApplicationHandler {
	return &ApplicationHandler{uc: u, events: orNop(events)}
}

type applyReq struct {
	FullName   string `form:"full_name"   validate:"notblank"`
	NIK        string `form:"nik"         validate:"notblank"`
	Phone      string `form:"phone"       validate:"notblank"`
	Email      string `form:"email"       validate:"notblank"`
	Address    string `form:"address"     validate:"notblank"`
	Occupation string `form:"occupation"  validate:"notblank"`
	Income     string `form:"income"      validate:"notblank"`
	LoanAmount string `form:"loan_amount" validate:"notblank,amount"`
	Purpose    string `form:"purpose"     validate:"notblank"`
}

// openUpload opens a multipart document field. The caller closes the file.
func openUpload(c echo.Context, field string) (uc.Upload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh.Filename == "" {
		return uc.Upload{}, nil, fmt.Errorf("%s is required", field)
	}
	f, err := fh.Open()
	if err != nil {
		return uc.Upload{}, nil, fmt.Errorf("%s could not be read: %w", field, err)
	}
	return uc.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

func (h *ApplicationHandler) Apply(c echo.Context) error {
	var req applyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	var fields []FieldError
	if err := c.Validate(&req); err != nil {
		fields = ToFieldErrors(err)
	}

	var uploads [2]uc.Upload
	for i, name := range []string{"ktp_file", "selfie_file"} {
		up, f, err := openUpload(c, name)
		if err != nil {
			fields = append(fields, FieldError{Field: name, Message: strings.TrimPrefix(err.Error(), name+" ")})
			continue
		}
		defer f.Close()
		uploads[i] = up
	}
	if len(fields) > 0 {
		return badRequest(c, "validation failed", fields...)
	}

	amount, _ := strconv.ParseInt(strings.TrimSpace(req.LoanAmount), 10, 64)
	res, err := h.uc.Create(c.Request().Context(), uc.CreateInput{
		FullName:   req.FullName,
		NIK:        req.NIK,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Occupation: req.Occupation,
		Income:     req.Income,
		LoanAmount: amount,
		Purpose:    req.Purpose,
	}, uploads[0], uploads[1])
	if err != nil {
		return jsonError(c, err, "Error processing loan application")
	}
	h.events.ApplicationSubmitted()
	return c.JSON(http.StatusOK, res)
}

type listResponse struct {
	Success      bool                `json:"success"`
	Applications []uc.ApplicationDTO `json:"applications"`
	Total        int64               `json:"total"`
}

func (h *ApplicationHandler) ListApplications(c echo.Context) error {
	var q uc.ListQuery
	if err := echo.QueryParamsBinder(c).
		Int("skip", &q.Skip).
		Int("limit", &q.Limit).
		String("status", &q.Status).
		BindError(); err != nil {
		return badRequest(c, "skip and limit must be integers")
	}
	res, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return jsonError(c, err, "Error fetching loan applications")
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Applications: res.Items, Total: res.Total})
}

func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return jsonError(c, err, "Error fetching loan application")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "application": dto})
}

// UpdateStatus accepts an optional if_updated_at form value (RFC3339) that
// makes the update conditional on the record not having changed since.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	status := c.FormValue("status")

	var opts []uc.UpdateOption
	if raw := strings.TrimSpace(c.FormValue("if_updated_at")); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return badRequest(c, "validation failed", FieldError{Field: "if_updated_at", Message: "must be an RFC3339 timestamp"})
		}
		opts = append(opts, uc.IfUnmodifiedSince(t))
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), c.Param("id"), status, opts...); err != nil {
		return jsonError(c, err, "Error updating loan status")
	}
	h.events.StatusUpdated(status)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Loan application status updated to " + status,
	})
}

func (h *ApplicationHandler) Stats(c echo.Context) error {
	s, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "Error fetching stats")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stats": s})
}
