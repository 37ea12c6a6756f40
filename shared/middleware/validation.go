package middleware

import (
	"errors"
	"net/http"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// dewey: any well-formed classification number.
	_ = v.RegisterValidation("dewey", func(fl validator.FieldLevel) bool {
		_, err := dewey.Parse(fl.Field().String())
		return err == nil
	})
	// deweyclass: a 3-digit class with no decimal part.
	_ = v.RegisterValidation("deweyclass", func(fl validator.FieldLevel) bool {
		_, err := dewey.ParseClass(fl.Field().String())
		return err == nil
	})
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type BadRequestErrorResponse struct {
	Message string            `json:"message"`
	Details []ValidationError `json:"details"`
}

func ValidateRequest(obj any) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []ValidationError{{Message: err.Error(), Type: "invalid"}}
	}
	for _, err := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: getErrorMsg(err),
			Type:    err.Tag(),
		})
	}

	return validationErrors
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "alphanum":
		return "Only letters and digits are allowed"
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "dewey":
		return "Invalid Dewey number"
	case "deweyclass":
		return "Expected a 3-digit Dewey class"
	default:
		return "Invalid value"
	}
}

func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
		Message: "Invalid request data",
		Details: validationErrors,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}

// RespondWithAppError maps an apperr kind to its status code. Unclassified
// and store errors become an opaque 500 and are attached to the gin context so
// LoggingMiddleware records the cause.
func RespondWithAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		RespondWithError(c, http.StatusBadRequest, apperr.PublicMessage(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		RespondWithError(c, http.StatusUnauthorized, apperr.PublicMessage(err))
	case errors.Is(err, apperr.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, apperr.PublicMessage(err))
	case errors.Is(err, apperr.ErrConflict):
		RespondWithError(c, http.StatusConflict, apperr.PublicMessage(err))
	default:
		_ = c.Error(err)
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
