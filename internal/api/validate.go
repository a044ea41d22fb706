package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/money"
)

// Validator checks wire requests against their validate tags and reports
// failures as domain errors with English messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a Validator with the English translations and the
// "money" tag registered.
func NewValidator() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	eng := en.New()
	uni := ut.New(eng, eng)

	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Sign is left to the ledger, which reports non-positive amounts itself.
	if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := money.Parse(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register money validation: %w", err)
	}
	if err := v.RegisterTranslation("money", translator,
		func(t ut.Translator) error {
			return t.Add("money", "{0} must be a decimal amount with at most two decimal places", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("money", fe.Field())
			return msg
		},
	); err != nil {
		return nil, fmt.Errorf("failed to register money translation: %w", err)
	}

	return &Validator{validate: v, translator: translator}, nil
}

// Validate returns nil or an *apperrors.Error. A bad amount is
// CodeInvalidAmount; any other failure is CodeInvalidArgument. Metadata maps
// each failing field to its message.
func (v *Validator) Validate(msg any) error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request", err)
	}

	code := apperrors.CodeInvalidArgument
	messages := make([]string, 0, len(errs))
	metadata := make(map[string]string, len(errs))
	for _, fe := range errs {
		translated := fe.Translate(v.translator)
		messages = append(messages, translated)
		metadata[fe.Field()] = translated
		if fe.Field() == "amount" {
			code = apperrors.CodeInvalidAmount
		}
	}
	return apperrors.WithMetadata(code, strings.Join(messages, "; "), metadata)
}
