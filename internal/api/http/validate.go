package http

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/portfolio-dev/portfolio/internal/icon"
	"github.com/portfolio-dev/portfolio/internal/ordering"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules to gin's validator and
// reports field names by their JSON tag. Safe to call more than once.
//
//	icontag  value is a known skill icon tag
//	notall   value is not the reserved "All" filter label
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("icontag", func(fl validator.FieldLevel) bool {
			return icon.Known(fl.Field().String())
		})
		_ = v.RegisterValidation("notall", func(fl validator.FieldLevel) bool {
			return !strings.EqualFold(strings.TrimSpace(fl.Field().String()), ordering.All)
		})
	})
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
