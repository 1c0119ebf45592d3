package userschema

import "strings"

type (
	FieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	// ValidationErrors lists violated rules in field declaration order.
	ValidationErrors []FieldError
)

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, fe := range ve {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation error: " + strings.Join(parts, "; ")
}
