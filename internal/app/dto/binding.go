package dto

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/ikkim/foodgram-backend/internal/app/validation"
)

var registerOnce sync.Once

// RegisterBindings adds the custom binding tags used by request structs to
// gin's validator engine. Safe to call more than once.
func RegisterBindings() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return domain.Username(fl.Field().String()) == nil
		})
	})
	return err
}
