package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/model"
)

const tagJSONDocument = "jsondoc"

// Emptiness is checked before syntax: a form with an empty field never
// reports a JSON error, matching what users see while typing.
type requiredForm struct {
	Key  string `form:"key" validate:"required"`
	Data string `form:"data" validate:"required"`
}

type requiredData struct {
	Data string `form:"data" validate:"required"`
}

type documentData struct {
	Data string `form:"data" validate:"jsondoc"`
}

// FormValidator checks form input before any request reaches the store.
type FormValidator struct {
	validate *validator.Validate
}

var (
	defaultOnce      sync.Once
	defaultValidator *FormValidator
)

// NewFormValidator builds a validator with the dashboard's custom rules
// registered.
func NewFormValidator() (*FormValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := RegisterCustomValidators(validate); err != nil {
		return nil, err
	}
	return &FormValidator{validate: validate}, nil
}

// RegisterCustomValidators installs the dashboard rules on an existing
// validator instance.
func RegisterCustomValidators(validate *validator.Validate) error {
	if err := validate.RegisterValidation(tagJSONDocument, isJSONDocument); err != nil {
		return fmt.Errorf("validation: register %s: %w", tagJSONDocument, err)
	}
	return nil
}

func isJSONDocument(fl validator.FieldLevel) bool {
	return jsonvalue.Valid(fl.Field().String())
}

// Form validates an entry form: key and data must be non-empty and data must
// parse as JSON.
func (v *FormValidator) Form(form model.FormState) model.ValidationErrors {
	errs := v.collect(requiredForm{Key: form.Key, Data: form.Data})
	if !errs.Valid() {
		return errs
	}
	return v.collect(documentData{Data: form.Data})
}

// Data validates a raw JSON text on its own, as the raw-text modal does.
func (v *FormValidator) Data(data string) model.ValidationErrors {
	errs := v.collect(requiredData{Data: data})
	if !errs.Valid() {
		return errs
	}
	return v.collect(documentData{Data: data})
}

func (v *FormValidator) collect(input any) model.ValidationErrors {
	err := v.validate.Struct(input)
	if err == nil {
		return model.ValidationErrors{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return model.ValidationErrors{}.With(model.FieldData, err.Error())
	}

	out := model.ValidationErrors{}
	for _, fe := range fieldErrs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	switch tag {
	case "required":
		return field + " should not be empty"
	case tagJSONDocument:
		return field + " should be json"
	default:
		return field + " is invalid"
	}
}

func defaultFormValidator() *FormValidator {
	defaultOnce.Do(func() {
		v, err := NewFormValidator()
		if err != nil {
			panic(err)
		}
		defaultValidator = v
	})
	return defaultValidator
}

// ValidateForm validates form with the shared default validator.
func ValidateForm(form model.FormState) model.ValidationErrors {
	return defaultFormValidator().Form(form)
}

// ValidateData validates a raw JSON text with the shared default validator.
func ValidateData(data string) model.ValidationErrors {
	return defaultFormValidator().Data(data)
}
