// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"strconv"
	"strings"

	"pharmacy-system/internal/entities"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует наши правила и поддержку null-типов.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	if err := v.RegisterValidation("branch_status", isKnownBranchStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("user_type", isUserType); err != nil {
		return err
	}
	if err := v.RegisterValidation("numeric_string", isNumericString); err != nil {
		return err
	}

	return nil
}

func isKnownBranchStatus(fl validator.FieldLevel) bool {
	return entities.NormalizeBranchStatus(fl.Field().String()).IsKnown()
}

func isUserType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == entities.UserTypeAdmin || s == entities.UserTypeClient
}

// isNumericString - цена и остаток приходят строками, как их хранит каталог.
func isNumericString(fl validator.FieldLevel) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	return err == nil
}

// registerNullTypes учит валидатор "смотреть внутрь" null.String, null.Int.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int); ok && val.Valid {
			return val.Int
		}
		return nil
	}, null.Int{})
}
