package handlers

import (
	"sync"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the domain enum checks used in binding tags. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("feedback", func(fl validator.FieldLevel) bool {
			return domain.Feedback(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("changetype", func(fl validator.FieldLevel) bool {
			return domain.ChangeType(fl.Field().String()).Valid()
		})
	})
}
