package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var timeOfDay = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidators installs custom binding tags. "hhmm" accepts a
// 24-hour wall clock time, 00:00 through 23:59.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return timeOfDay.MatchString(fl.Field().String())
		})
	}
}
