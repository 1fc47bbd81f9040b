package server

import (
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations installs the custom tags used by the request params
// on gin's validator engine and reports field names by their json tag.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterValidation("ratio_step", RatioStepValidator())
	})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// RatioStepValidator accepts floats that sit on the 0.1 grid.
func RatioStepValidator() validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			x := f.Float() * 10
			return math.Abs(x-math.Round(x)) < 1e-9
		}
		return false
	}
}

func validationErrors(err error) []Err {
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Err{BadRequest.Err("")}
	}
	errs := make([]Err, 0, len(ves))
	for _, fe := range ves {
		field := fieldPath(fe.Namespace())
		ec := tagCode(fe.Tag())
		if fe.Param() != "" {
			errs = append(errs, ec.Err(field, fe.Param()))
			continue
		}
		errs = append(errs, ec.Err(field))
	}
	return errs
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}
