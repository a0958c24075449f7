// Package bind decodes request bodies into DTOs and validates them with
// go-playground/validator, reporting the first failing field by its json name
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "codg/internal/platform/errors"
	"codg/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBodyBytes caps decoded bodies, a full 110 trial batch is well under it
const MaxBodyBytes = 1 << 20

// FieldLevel aliases validator.FieldLevel for custom tags
type FieldLevel = validator.FieldLevel

type svc struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	once     sync.Once
	instance *svc
	mu       sync.Mutex
)

func get() *svc {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = entrans.RegisterDefaultTranslations(v, trans)
		instance = &svc{v: v, trans: trans}
		_ = instance.message("min", "{0} must be at least {1}", true)
		_ = instance.message("max", "{0} must be at most {1}", true)
	})
	return instance
}

func (s *svc) message(tag, text string, withParam bool) error {
	return s.v.RegisterTranslation(tag, s.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			if withParam {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			}
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

// RegisterValidation adds a custom tag; message may use {0} for the field name
func RegisterValidation(tag string, fn validator.Func, message string) error {
	s := get()
	mu.Lock()
	defer mu.Unlock()
	if err := s.v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	if message == "" {
		return nil
	}
	return s.message(tag, message, false)
}

// Struct validates v, mapping failures to a validation error naming the field
func Struct(v any) error {
	err := get().v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator misuse")
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Validationf("%s", msg), field)
}

// ParseJSON decodes exactly one JSON value into T and validates it
// Unknown fields, trailing data and an empty body are JSON errors
func ParseJSON[T any](r *http.Request) (T, error) {
	var dst T
	if r.Body == nil {
		return dst, perr.JSONErrf("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dst, perr.JSONErrf("empty body")
		}
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		return dst, err
	}
	return dst, nil
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(get().trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}
