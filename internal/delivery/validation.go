package delivery

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"product_manager/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the "price" tag to gin's validator. It must run
// before a domain.ProductForm is bound.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
			_, perr := domain.ParsePrice(fl.Field().String())
			return perr == nil
		})
	})
	return err
}

// FieldErrors maps a form field name to what is wrong with it.
type FieldErrors map[string]string

// FromBindError turns a gin bind error into per-field messages keyed by the
// form tag of dst. Errors that are not validation errors land under "_".
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(dst, fe.StructField())] = fe.Tag()
		}
		return out
	}

	out["_"] = "malformed"
	return out
}

// Notice picks the alert for a failed bind. Any missing field wins over a
// malformed price.
func (fe FieldErrors) Notice() string {
	for _, tag := range fe {
		if tag == "required" {
			return domain.BlankFieldsMessage
		}
	}
	if _, ok := fe["price"]; ok {
		return domain.InvalidPriceMessage
	}
	return domain.BlankFieldsMessage
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag := f.Tag.Get("form")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}
