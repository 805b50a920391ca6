package http

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// request is a JSON body that trims its own string fields before validation.
type request interface {
	normalize()
}

// fieldMessages maps "<struct>.<field>.<tag>" to the client-facing message.
var fieldMessages = map[string]string{
	"signupRequest.Name.required":     "Name is required",
	"signupRequest.Name.min":          "Name must be at least 2 characters long",
	"signupRequest.Name.max":          "Name cannot exceed 50 characters",
	"signupRequest.Email.required":    "Email is required",
	"signupRequest.Email.email":       "Please provide a valid email address",
	"signupRequest.Password.required": "Password is required",
	"signupRequest.Password.min":      "Password must be at least 6 characters long",
	"signupRequest.Password.max":      "Password cannot exceed 128 characters",

	"loginRequest.Email.required":    "Email is required",
	"loginRequest.Password.required": "Password is required",

	"postRequest.Content.required": "Post content is required",
	"postRequest.Content.max":      "Post content cannot exceed 1000 characters",

	"commentRequest.Content.required": "Comment content is required",
	"commentRequest.Content.max":      "Comment cannot exceed 500 characters",

	"profileRequest.Name.notblank": "Name cannot be empty",
	"profileRequest.Name.min":      "Name must be at least 2 characters long",
	"profileRequest.Name.max":      "Name cannot exceed 50 characters",
	"profileRequest.Bio.max":       "Bio cannot exceed 500 characters",
	"profileRequest.Location.max":  "Location cannot exceed 100 characters",
	"profileRequest.Website.max":   "Website URL cannot exceed 200 characters",
}

// bindJSON decodes the body into req, normalizes it and validates it.
// An empty body decodes as an empty object.
func bindJSON(c *gin.Context, req request) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("Invalid request body")
	}
	req.normalize()

	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return apperr.Validation("Validation failed", messages...)
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
