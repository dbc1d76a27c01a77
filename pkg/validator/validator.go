// Package validator flattens binding errors into field -> message maps for
// error response bodies.
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ParseError turns a gin binding error into a per-field message map. Errors
// that are not validator.ValidationErrors (malformed JSON, type mismatches)
// collapse into a single "error" entry.
func ParseError(err error) map[string]string {
	fields := make(map[string]string)
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		if err != nil {
			fields["error"] = err.Error()
		}
		return fields
	}
	for _, fe := range ve {
		fields[fe.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
	}
	return fields
}
