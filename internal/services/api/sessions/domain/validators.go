package domain

import (
	"sync"

	"codg/internal/core/codg"
	"codg/internal/platform/net/http/bind"
)

// ResponseTag validates a judgement label, shorthands included
const ResponseTag = "codg_response"

var regOnce sync.Once

// RegisterValidators installs the custom tags; safe to call repeatedly
func RegisterValidators() {
	regOnce.Do(func() {
		err := bind.RegisterValidation(ResponseTag, func(fl bind.FieldLevel) bool {
			_, ok := codg.ParseResponse(fl.Field().String())
			return ok
		}, "{0} must be one of Left Direct Right")
		if err != nil {
			panic(err)
		}
	})
}
