package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Status: "success", Message: message, Data: data})
}

func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := Response{Status: "error", Message: message}
	if err != nil {
		resp.Error = err.Error()
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			resp.Fields = verr.Fields
		}
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorLog(c.Request().Context(), err, "%s", message)
	}
	return c.JSON(status, resp)
}

// ResponseServiceError answers with the status that matches err.
func ResponseServiceError(c echo.Context, message string, err error) error {
	return ResponseError(c, statusOf(err), message, err)
}

func statusOf(err error) int {
	var verr *domain.ValidationError
	var apiErr *domain.APIError
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
