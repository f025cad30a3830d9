package http

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// sidPattern matches prefixed public identifiers such as uni_xK9mP2vL3nQa.
var sidPattern = regexp.MustCompile(`^[a-z]+_[0-9A-Za-z]+$`)

// registerCustomValidators installs the "sid" binding rule used by request
// structs that carry public identifiers in their body.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sid", func(fl validator.FieldLevel) bool {
			return sidPattern.MatchString(fl.Field().String())
		})
	}
}
