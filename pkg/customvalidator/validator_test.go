package customvalidator

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Status   string      `validate:"branch_status"`
	UserType string      `validate:"user_type"`
	Price    string      `validate:"numeric_string"`
	City     null.String `validate:"omitempty,max=5"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestRules_Accept(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{Status: "active", UserType: "client", Price: "25.50"})
	assert.NoError(t, err)
}

func TestRules_Reject(t *testing.T) {
	v := newValidator(t)

	assert.Error(t, v.Struct(sample{Status: "en obra", UserType: "client", Price: "1"}))
	assert.Error(t, v.Struct(sample{Status: "Activo", UserType: "root", Price: "1"}))
	assert.Error(t, v.Struct(sample{Status: "Activo", UserType: "admin", Price: "diez"}))
}

func TestNullString_ValidatedWhenSet(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Status: "Activo", UserType: "admin", Price: "1", City: null.String{}}))
	assert.Error(t, v.Struct(sample{Status: "Activo", UserType: "admin", Price: "1", City: null.StringFrom("Guadalajara")}))
}
