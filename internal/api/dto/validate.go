package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// Bind parses the JSON body into dest and runs its validate tags.
func Bind(c *fiber.Ctx, dest any) error {
	if len(c.Body()) == 0 {
		return Validate(dest)
	}
	if err := c.BodyParser(dest); err != nil {
		return apperrors.NewInvalidInput("invalid request body", map[string]any{"error": err.Error()})
	}
	return Validate(dest)
}

// Validate runs struct validation and converts failures to INVALID_INPUT.
func Validate(dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := map[string]any{}
		for _, fe := range fieldErrs {
			details[fe.Field()] = validationMessage(fe)
		}
		return apperrors.NewInvalidInput("validation failed", details)
	}
	return apperrors.NewInvalidInput("validation failed", nil)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
