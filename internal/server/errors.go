package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/toyz/ifacegen/internal/errors"
)

// ErrorBody is the JSON representation of an ifacegen error
type ErrorBody struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Location    string                 `json:"location,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
}

// HTTPError represents an HTTP error with a status code, a message and optional details
type HTTPError struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Errors     []ErrorBody `json:"errors,omitempty"`
}

// NewErrorBody converts err into its JSON form
func NewErrorBody(err errors.IfaceError) ErrorBody {
	body := ErrorBody{
		Code:        err.ErrorCode().String(),
		Message:     err.Error(),
		Suggestions: err.Suggestions(),
	}
	if loc := err.Location(); !loc.IsEmpty() {
		body.Location = loc.String()
	}
	if ctx := err.Context(); len(ctx) > 0 {
		body.Context = ctx
	}
	return body
}

// handleError renders ifacegen errors as 422 with one body per problem and falls
// back to echo's status codes for everything else.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	response := toHTTPError(err)
	if response.StatusCode >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}

	if jsonErr := c.JSON(response.StatusCode, response); jsonErr != nil {
		s.logger.Warn("failed to write error response", zap.Error(jsonErr))
	}
}

func toHTTPError(err error) *HTTPError {
	var multi *errors.MultipleErrors
	if errors.As(err, &multi) {
		response := &HTTPError{StatusCode: http.StatusUnprocessableEntity, Message: "generation failed"}
		for _, e := range multi.Errors {
			response.Errors = append(response.Errors, NewErrorBody(e))
		}
		return response
	}

	var ifaceErr errors.IfaceError
	if errors.As(err, &ifaceErr) {
		status := http.StatusUnprocessableEntity
		if ifaceErr.ErrorCode() == errors.FileSystemErrorCode {
			status = http.StatusInternalServerError
		}
		return &HTTPError{StatusCode: status, Message: "generation failed", Errors: []ErrorBody{NewErrorBody(ifaceErr)}}
	}

	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		return &HTTPError{StatusCode: httpErr.Code, Message: http.StatusText(httpErr.Code)}
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: "generation cancelled"}
	}
	return &HTTPError{StatusCode: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
}
