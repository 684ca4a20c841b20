package validation

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FullNamePattern allows letters, digits, spaces and . ' - between 2 and 100 characters.
var FullNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 .'\-]{2,100}$`)

// ValidateFullName checks a display name against FullNamePattern.
func ValidateFullName(fl validator.FieldLevel) bool {
	return FullNamePattern.MatchString(fl.Field().String())
}

// RegisterValidators registers the custom tags on v.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("fullname", ValidateFullName)
}

var registerOnce sync.Once

// RegisterWithGin installs the custom tags on gin's default binding validator.
// Safe to call more than once.
func RegisterWithGin() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = RegisterValidators(v)
		}
	})
}

// FieldErrors flattens validator errors into field -> failed tag. It returns
// nil for any other error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[lowerFirst(fe.Field())] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "fullname":
		return "may only contain letters, digits, spaces and . ' -"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
