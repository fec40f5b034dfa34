package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/SscSPs/shop_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBusinessRule):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its stable code. Internal failures get a generic message naming action.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	code := apperrors.CodeOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Failed to " + action, Code: apperrors.CodeInternal})
		return
	}
	logger.Warn("Request rejected", slog.String("action", action), slog.String("code", code), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// bindError converts a binding failure into a coded validation error.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if strings.HasPrefix(typeErr.Field, "items") {
			return apperrors.InvalidItems("%s must be %s, got %s", typeErr.Field, describeType(typeErr), typeErr.Value)
		}
		return apperrors.Invalid("%s has the wrong type: got %s", typeErr.Field, typeErr.Value)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.Invalid("malformed JSON at offset %d", syntaxErr.Offset)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := lowerFirst(fe.Field())
		if fe.Tag() == "required" {
			return apperrors.MissingField(field)
		}
		return apperrors.Invalid("%s failed the %q check", field, fe.Tag())
	}

	return apperrors.Invalid("invalid request: %v", err)
}

func describeType(e *json.UnmarshalTypeError) string {
	if e.Type == nil {
		return "a different type"
	}
	switch e.Type.Kind().String() {
	case "slice", "array":
		return "an array"
	case "struct", "map":
		return "an object"
	default:
		return "a " + e.Type.Kind().String()
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Invalid("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func parseVariantParam(c *gin.Context) (domain.Variant, error) {
	v, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		return "", apperrors.Invalid("%s", err.Error())
	}
	return v, nil
}
