package onesky

import (
	"github.com/go-playground/validator/v10"

	"onesky/pkg/core"
)

var validate = validator.New()

// validateArgument checks the validate tags of a caller-supplied struct and
// reports failures as argument errors, before any request is sent.
func validateArgument(name string, v any) error {
	if err := validate.Struct(v); err != nil {
		e := core.NewArgumentError("invalid %s", name)
		e.Err = err
		return e
	}
	return nil
}
