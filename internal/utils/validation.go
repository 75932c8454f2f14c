package utils

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validate performs validation on a struct.
func Validate(s interface{}) error {
	validate := validator.New()
	return validate.Struct(s)
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range errs {
			errorMessages = append(errorMessages, fieldErrorMessage(e))
		}
		return strings.Join(errorMessages, ", ")
	}
	return err.Error()
}

func fieldErrorMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a valid UUID"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

// BindAndValidate binds the request body to a struct and validates it.
// Malformed payloads and field validation failures both answer 422.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		UnprocessableEntity(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	if err := Validate(obj); err != nil {
		UnprocessableEntity(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	return true
}

// BindAndValidateOptional behaves like BindAndValidate but accepts a request
// without a body, leaving obj at its zero value.
func BindAndValidateOptional(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		UnprocessableEntity(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	if err := Validate(obj); err != nil {
		UnprocessableEntity(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	return true
}
