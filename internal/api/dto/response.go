package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/pkg/validator"
)

// Error codes for consistent API responses
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
	ErrCodeTooManyRequest = "TOO_MANY_REQUESTS"
	ErrCodeServiceUnavail = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout        = "TIMEOUT"

	ErrCodeFormulaSyntax       = "FORMULA_SYNTAX_ERROR"
	ErrCodeFormulaValue        = "FORMULA_VALUE_ERROR"
	ErrCodeFormulaZeroDivision = "FORMULA_ZERO_DIVISION"
	ErrCodeFormulaOverflow     = "FORMULA_OVERFLOW"
)

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *ErrorData  `json:"error,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type ErrorData struct {
	Code    string                      `json:"code"`
	Message string                      `json:"message"`
	Kind    string                      `json:"kind,omitempty"`
	Details []validator.ValidationError `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta builds pagination metadata.
func NewMeta(page, perPage int, total int64) *Meta {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(total) / perPage
		if int(total)%perPage > 0 {
			totalPages++
		}
	}
	return &Meta{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// getRequestID extracts request ID from response header if set
func getRequestID(w http.ResponseWriter) string {
	return w.Header().Get("X-Request-ID")
}

func write(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response.RequestID = getRequestID(w)
	response.Timestamp = time.Now().Unix()

	_ = json.NewEncoder(w).Encode(response)
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func JSONWithMeta(w http.ResponseWriter, status int, data interface{}, meta *Meta) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	})
}

func errorWithCode(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Response{
		Error: &ErrorData{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorResponse(w http.ResponseWriter, status int, message string) {
	errorWithCode(w, status, statusToErrorCode(status), message)
}

func ValidationErrorResponse(w http.ResponseWriter, err error) {
	write(w, http.StatusBadRequest, Response{
		Error: &ErrorData{
			Code:    ErrCodeValidation,
			Message: "Validation failed",
			Details: validator.FormatErrors(err),
		},
	})
}

// FormulaErrorResponse reports a formula failure with its kind. Syntax errors
// are the caller's fault; everything else is an unprocessable input.
func FormulaErrorResponse(w http.ResponseWriter, err error) bool {
	var fe *formula.Error
	if !errors.As(err, &fe) {
		return false
	}

	status := http.StatusUnprocessableEntity
	code := ErrCodeFormulaValue
	switch fe.Kind {
	case formula.KindSyntax:
		status = http.StatusBadRequest
		code = ErrCodeFormulaSyntax
	case formula.KindZeroDivision:
		code = ErrCodeFormulaZeroDivision
	case formula.KindOverflow:
		code = ErrCodeFormulaOverflow
	}

	write(w, status, Response{
		Error: &ErrorData{
			Code:    code,
			Message: fe.Message,
			Kind:    fe.Kind.String(),
		},
	})
	return true
}

// Convenience helpers

func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

func Accepted(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusAccepted, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func BadRequest(w http.ResponseWriter, message string) {
	errorWithCode(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func NotFound(w http.ResponseWriter, resource string) {
	errorWithCode(w, http.StatusNotFound, ErrCodeNotFound, resource+" not found")
}

func Conflict(w http.ResponseWriter, message string) {
	errorWithCode(w, http.StatusConflict, ErrCodeConflict, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	errorWithCode(w, http.StatusTooManyRequests, ErrCodeTooManyRequest, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	errorWithCode(w, http.StatusInternalServerError, ErrCodeInternalServer, message)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	errorWithCode(w, http.StatusServiceUnavailable, ErrCodeServiceUnavail, message)
}

// statusToErrorCode maps HTTP status codes to error codes
func statusToErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeBadRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeTooManyRequest
	case http.StatusInternalServerError:
		return ErrCodeInternalServer
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavail
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return http.StatusText(status)
	}
}
